package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// ManifestNames are the manifest file names looked up in a template
// directory, in order of preference.
var ManifestNames = []string{"hatch.yml", "hatch.yaml", "hatch.toml"}

// Format is a manifest encoding.
type Format int

const (
	YAML Format = iota
	TOML
)

// FormatFor returns the manifest format implied by a file name.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return TOML
	}
	return YAML
}

//go:embed manifest.schema.json
var manifestSchema []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// manifestFile mirrors the on-disk manifest.
type manifestFile struct {
	Name              string         `yaml:"name"`
	Description       string         `yaml:"description"`
	Requires          string         `yaml:"requires"`
	Root              string         `yaml:"root"`
	TemplateDir       string         `yaml:"template_dir"`
	CommitMessage     string         `yaml:"commit_message"`
	CopyWithoutRender []string       `yaml:"copy_without_render"`
	Options           []optionFile   `yaml:"options"`
	Prune             []ruleFile     `yaml:"prune"`
	NextSteps         []nextStepFile `yaml:"next_steps"`
}

type optionFile struct {
	Key     string   `yaml:"key"`
	Prompt  string   `yaml:"prompt"`
	Summary string   `yaml:"summary"`
	Default *string  `yaml:"default"`
	Choices []string `yaml:"choices"`
	Derive  string   `yaml:"derive"`
	Format  string   `yaml:"format"`
}

type ruleFile struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
	Kind string `yaml:"kind"`
}

type nextStepFile struct {
	Text string `yaml:"text"`
	When string `yaml:"when"`
}

// Load finds and parses the manifest in dir.
func Load(fsys afero.Fs, dir string) (*Schema, error) {
	for _, name := range ManifestNames {
		p := filepath.Join(dir, name)
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			continue
		}
		s, err := Parse(data, FormatFor(name))
		if err != nil {
			if e, ok := errors.As(err); ok && e.Detail(errors.DetailPath) == "" {
				e.WithDetail(errors.DetailPath, p)
			}
			return nil, err
		}
		return s, nil
	}

	return nil, errors.Newf(errors.ErrTemplateNotFound, "no manifest (%s) found in %s", strings.Join(ManifestNames, ", "), dir).
		WithDetail(errors.DetailPath, dir)
}

// Parse decodes, structurally checks and validates a manifest.
func Parse(data []byte, format Format) (*Schema, error) {
	raw, err := decodeGeneric(data, format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "failed to parse manifest")
	}
	if issues, err := validateStructure(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "failed to validate manifest")
	} else if len(issues) > 0 {
		return nil, errors.Wrap(issues, errors.ErrManifestInvalid, "manifest does not match the expected structure")
	}

	var mf manifestFile
	switch format {
	case TOML:
		// TOML keeps scalar types, so defaults and choices such as true
		// are turned into text before decoding into string fields.
		stringifyOptionScalars(raw)
		var doc []byte
		if doc, err = yaml.Marshal(raw); err == nil {
			err = yaml.Unmarshal(doc, &mf)
		}
	default:
		err = yaml.Unmarshal(data, &mf)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "failed to decode manifest")
	}

	s, verrs := mf.build()
	if len(verrs) > 0 {
		return nil, errors.Wrap(verrs, errors.ErrManifestInvalid, "invalid manifest")
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// build converts the decoded file into a Schema, collecting problems that
// JSON Schema cannot express.
func (mf *manifestFile) build() (*Schema, ValidationErrors) {
	var verrs ValidationErrors

	s := &Schema{
		Name:              mf.Name,
		Description:       mf.Description,
		Requires:          mf.Requires,
		Root:              mf.Root,
		TemplateDir:       mf.TemplateDir,
		CommitMessage:     mf.CommitMessage,
		CopyWithoutRender: mf.CopyWithoutRender,
	}
	if s.TemplateDir == "" {
		s.TemplateDir = DefaultTemplateDir
	}
	if s.CommitMessage == "" {
		s.CommitMessage = "Initial commit from " + s.Name
	}

	for i, of := range mf.Options {
		field := fmt.Sprintf("options[%d]", i)
		opt := OptionSpec{
			Key:     of.Key,
			Kind:    Text,
			Prompt:  of.Prompt,
			Summary: of.Summary,
			Derive:  of.Derive,
			Format:  of.Format,
		}
		if of.Default != nil {
			opt.Default = *of.Default
		}

		switch {
		case of.Derive != "":
			opt.Kind = DerivedText
		case len(of.Choices) > 0:
			opt.Kind = Choice
			opt.Choices = of.Choices
			if of.Default == nil {
				opt.Default = of.Choices[0]
			} else if opt.Default != of.Choices[0] {
				verrs = append(verrs, ValidationError{
					Field:      field + ".default",
					Message:    fmt.Sprintf("default %q of %s must be its first choice %q", opt.Default, of.Key, of.Choices[0]),
					Suggestion: "list the default choice first and drop the default field",
				})
			}
		}

		if opt.Format != "" && opt.Kind != Text {
			verrs = append(verrs, ValidationError{
				Field:   field + ".format",
				Message: fmt.Sprintf("format applies to text options only, %s is %s", of.Key, opt.Kind),
			})
		}
		if opt.Summary != "" && !opt.IsFlag() {
			verrs = append(verrs, ValidationError{
				Field:   field + ".summary",
				Message: fmt.Sprintf("summary applies to yes/no options only, %s is not one", of.Key),
			})
		}
		s.Options = append(s.Options, opt)
	}

	for i, rf := range mf.Prune {
		field := fmt.Sprintf("prune[%d]", i)
		when, err := ParsePredicate(rf.When)
		if err != nil {
			verrs = append(verrs, ValidationError{Field: field + ".when", Message: err.Error()})
		}

		kind := generator.KindFile
		if rf.Kind == "dir" || (rf.Kind == "" && strings.HasSuffix(rf.Path, "/")) {
			kind = generator.KindDir
		}
		p := strings.TrimSuffix(rf.Path, "/")
		if strings.HasPrefix(p, "/") || hasParentSegment(p) {
			verrs = append(verrs, ValidationError{
				Field:   field + ".path",
				Message: fmt.Sprintf("path %q must be relative to the project root", rf.Path),
			})
		}
		s.Prune = append(s.Prune, PruneRule{Path: p, When: when, Kind: kind})
	}

	for i, nf := range mf.NextSteps {
		step := NextStep{Text: nf.Text}
		if nf.When != "" {
			when, err := ParsePredicate(nf.When)
			if err != nil {
				verrs = append(verrs, ValidationError{Field: fmt.Sprintf("next_steps[%d].when", i), Message: err.Error()})
			}
			step.When = when
		}
		s.NextSteps = append(s.NextSteps, step)
	}

	for i, pattern := range s.CopyWithoutRender {
		if _, err := path.Match(pattern, ""); err != nil {
			verrs = append(verrs, ValidationError{
				Field:   fmt.Sprintf("copy_without_render[%d]", i),
				Message: fmt.Sprintf("bad glob %q: %v", pattern, err),
			})
		}
	}

	s.reindex()
	if s.Root == "" {
		s.Root = defaultRoot(s)
	}
	return s, verrs
}

func hasParentSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// decodeGeneric decodes a manifest into JSON-compatible values.
func decodeGeneric(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case TOML:
		m := map[string]any{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		raw = m
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return normalize(raw), nil
}

// stringifyOptionScalars rewrites non-string option defaults and choices in
// a normalized manifest to their text form.
func stringifyOptionScalars(raw any) {
	doc, _ := raw.(map[string]any)
	options, _ := doc["options"].([]any)
	for _, o := range options {
		opt, ok := o.(map[string]any)
		if !ok {
			continue
		}
		if d, ok := opt["default"]; ok {
			opt["default"] = scalarText(d)
		}
		if choices, ok := opt["choices"].([]any); ok {
			for i, c := range choices {
				choices[i] = scalarText(c)
			}
		}
	}
}

func scalarText(v any) any {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return v
	}
}

// normalize converts decoded maps to string-keyed maps so they marshal as JSON.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalize(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = normalize(v)
		}
		return a
	default:
		return val
	}
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchema))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateStructure checks decoded manifest values against the embedded
// JSON schema. The error return is for schema or conversion failures.
func validateStructure(raw any) (ValidationErrors, error) {
	sch, err := getSchema()
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues ValidationErrors
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = append(issues, ValidationError{Field: "manifest", Message: ve.Error()})
	}
	return dedupe(issues), nil
}

// collectIssues walks the error tree and keeps leaf errors.
func collectIssues(ve *jsonschema.ValidationError, issues *ValidationErrors) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	field := "manifest"
	if len(ve.InstanceLocation) > 0 {
		field = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	*issues = append(*issues, ValidationError{Field: field, Message: msg})
}

func dedupe(issues ValidationErrors) ValidationErrors {
	seen := make(map[string]bool)
	var out ValidationErrors
	for _, issue := range issues {
		key := issue.Field + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
