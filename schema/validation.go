package schema

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
)

// ValidationError represents a manifest validation error with context
type ValidationError struct {
	Field      string // Field path (e.g., "options[2].default")
	Message    string // Error message
	Suggestion string // Helpful suggestion (optional)
}

// Error returns a formatted error message
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation error at %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	result := fmt.Sprintf("found %d validation errors:\n", len(e))
	for i, err := range e {
		result += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return result
}

// exprRenderer parses expressions embedded in manifests.
var exprRenderer = generator.NewRenderer()

// New builds a schema in code, applying manifest defaults, and validates it.
func New(name string, options []OptionSpec, rules ...PruneRule) (*Schema, error) {
	s := &Schema{
		Name:          name,
		TemplateDir:   DefaultTemplateDir,
		CommitMessage: "Initial commit from " + name,
		Options:       options,
		Prune:         rules,
	}
	for i := range s.Options {
		o := &s.Options[i]
		if o.Kind == Choice && o.Default == "" && len(o.Choices) > 0 {
			o.Default = o.Choices[0]
		}
	}
	s.reindex()
	s.Root = defaultRoot(s)
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks a schema before any run uses it.
//
// Structural problems are reported together as ManifestInvalid. References
// to undeclared keys are UndefinedVariable, derivation cycles are
// CyclicDerivation and conflicting prune rules are OverlappingPruneRule.
func Validate(s *Schema) error {
	if s.index == nil {
		s.reindex()
	}

	if verrs := validateOptions(s); len(verrs) > 0 {
		return errors.Wrap(verrs, errors.ErrManifestInvalid, "invalid options")
	}

	if err := validateReferences(s); err != nil {
		return err
	}

	if _, err := s.DerivationOrder(); err != nil {
		return err
	}

	targets := make([]RuleTarget, len(s.Prune))
	for i, r := range s.Prune {
		targets[i] = RuleTarget{Index: i, Rule: r, Path: r.Path}
	}
	if err := CheckOverlap(targets); err != nil {
		return err
	}
	return nil
}

func validateOptions(s *Schema) ValidationErrors {
	var verrs ValidationErrors
	seen := make(map[string]bool)

	for i, o := range s.Options {
		field := fmt.Sprintf("options[%d]", i)

		if !IsIdentifier(o.Key) {
			verrs = append(verrs, ValidationError{
				Field:      field + ".key",
				Message:    fmt.Sprintf("%q is not a valid key", o.Key),
				Suggestion: "use letters, digits and underscores, not starting with a digit",
			})
		}
		if seen[o.Key] {
			verrs = append(verrs, ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate key %q", o.Key),
			})
		}
		seen[o.Key] = true

		switch o.Kind {
		case Choice:
			if len(o.Choices) == 0 {
				verrs = append(verrs, ValidationError{Field: field + ".choices", Message: "a choice needs at least one value"})
			} else if o.Default != o.Choices[0] {
				verrs = append(verrs, ValidationError{
					Field:   field + ".default",
					Message: fmt.Sprintf("default %q of %s must be its first choice %q", o.Default, o.Key, o.Choices[0]),
				})
			}
		case DerivedText:
			if o.Derive == "" {
				verrs = append(verrs, ValidationError{Field: field + ".derive", Message: "a derived option needs an expression"})
			} else if _, err := exprRenderer.Parse(derivePath(o.Key), o.Derive); err != nil {
				verrs = append(verrs, ValidationError{Field: field + ".derive", Message: err.Error()})
			}
		}

		switch o.Format {
		case "", FormatSemver, FormatIdentifier:
		default:
			verrs = append(verrs, ValidationError{
				Field:      field + ".format",
				Message:    fmt.Sprintf("unknown format %q", o.Format),
				Suggestion: "use semver or identifier",
			})
		}
	}
	return verrs
}

// validateReferences checks that every expression and predicate names
// declared options only.
func validateReferences(s *Schema) error {
	undefined := func(key, where string) *errors.Error {
		return errors.Newf(errors.ErrUndefinedVariable, "%s references undefined variable %q", where, key).
			WithDetail(errors.DetailKey, key).
			WithDetail(errors.DetailPath, where)
	}

	checkExpr := func(where, text string) error {
		if !generator.HasMarkup(text) {
			return nil
		}
		tmpl, err := exprRenderer.Parse(where, text)
		if err != nil {
			return err
		}
		for _, key := range generator.References(tmpl) {
			if _, ok := s.index[key]; !ok {
				return undefined(key, where)
			}
		}
		return nil
	}

	if err := checkExpr("root", s.Root); err != nil {
		return err
	}

	for i, r := range s.Prune {
		where := fmt.Sprintf("prune[%d]", i)
		if _, ok := s.index[r.When.Key]; !ok {
			return undefined(r.When.Key, where+".when").WithDetail(errors.DetailRule, r.String())
		}
		if err := checkExpr(where+".path", r.Path); err != nil {
			return err
		}
	}

	for i, step := range s.NextSteps {
		where := fmt.Sprintf("next_steps[%d]", i)
		if !step.When.IsZero() {
			if _, ok := s.index[step.When.Key]; !ok {
				return undefined(step.When.Key, where+".when")
			}
		}
		if err := checkExpr(where+".text", step.Text); err != nil {
			return err
		}
	}
	return nil
}

// CheckCompatible reports IncompatibleTemplate when the manifest requires a
// different engine version than version.
func CheckCompatible(s *Schema, version string) error {
	if s.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(s.Requires)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid, "invalid requires constraint %q", s.Requires)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		// Development builds are not versioned
		return nil
	}
	if !constraint.Check(v) {
		return errors.Newf(errors.ErrIncompatibleTemplate, "template %s requires hatch %s, this is %s", s.Name, s.Requires, version).
			WithDetail(errors.DetailValue, version)
	}
	return nil
}

func derivePath(key string) string {
	return "options." + key + ".derive"
}
