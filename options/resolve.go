package options

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/schema"
)

// derivations evaluates derived expressions; it only caches parses.
var derivations = generator.NewRenderer()

// Resolve merges overrides with the schema defaults and evaluates derived
// options. It has no side effects: the same schema and overrides always
// yield the same Context.
//
// Every override key must be declared. A Choice override must be one of its
// choices; flags accept any yes/no spelling and store the declared one. An
// overridden derived option keeps the override.
func Resolve(s *schema.Schema, overrides map[string]string) (*Context, error) {
	if err := checkUnknown(s, overrides); err != nil {
		return nil, err
	}

	ctx := &Context{values: make(map[string]value, len(s.Options))}

	for i := range s.Options {
		opt := &s.Options[i]
		raw, overridden := overrides[opt.Key]
		if opt.Kind == schema.DerivedText && !overridden {
			continue
		}

		source := FromDefault
		if overridden {
			source = FromOverride
		} else {
			raw = opt.Default
		}

		v, err := resolveOne(opt, raw)
		if err != nil {
			return nil, err
		}
		v.source = source
		ctx.values[opt.Key] = v
	}

	order, err := s.DerivationOrder()
	if err != nil {
		return nil, err
	}
	for _, key := range order {
		if _, done := ctx.values[key]; done {
			continue
		}
		opt, _ := s.Option(key)
		text, err := derivations.RenderString("options."+key+".derive", opt.Derive, ctx.Data())
		if err != nil {
			return nil, err
		}
		ctx.values[key] = value{text: text, source: FromDerivation}
	}

	return ctx, nil
}

func checkUnknown(s *schema.Schema, overrides map[string]string) error {
	var unknown []string
	for k := range overrides {
		if _, ok := s.Option(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Newf(errors.ErrUnknownOption, "unknown option %q", unknown[0]).
		WithDetail(errors.DetailKey, unknown[0]).
		WithDetail(errors.DetailOthers, s.Keys())
}

func resolveOne(opt *schema.OptionSpec, raw string) (value, error) {
	switch opt.Kind {
	case schema.Choice:
		if opt.IsFlag() {
			return resolveFlag(opt, raw)
		}
		if !opt.HasChoice(raw) {
			return value{}, invalidChoice(opt, raw)
		}
		return value{text: raw}, nil

	case schema.Text:
		if err := checkFormat(opt, raw); err != nil {
			return value{}, err
		}
	}
	return value{text: raw}, nil
}

// resolveFlag parses any yes/no spelling and stores the declared one.
func resolveFlag(opt *schema.OptionSpec, raw string) (value, error) {
	want, ok := schema.ParseFlag(raw)
	if !ok {
		return value{}, invalidChoice(opt, raw)
	}
	for _, c := range opt.Choices {
		if b, _ := schema.ParseFlag(c); b == want {
			return value{text: c, flag: want, isFlag: true}, nil
		}
	}
	return value{}, invalidChoice(opt, raw)
}

func invalidChoice(opt *schema.OptionSpec, raw string) error {
	return errors.Newf(errors.ErrInvalidChoice, "invalid value %q for %s, expected one of %v", raw, opt.Key, opt.Choices).
		WithDetail(errors.DetailKey, opt.Key).
		WithDetail(errors.DetailValue, raw).
		WithDetail(errors.DetailChoices, opt.Choices)
}

func checkFormat(opt *schema.OptionSpec, raw string) error {
	invalid := func(what string) error {
		return errors.Newf(errors.ErrInvalidValue, "invalid value %q for %s: not %s", raw, opt.Key, what).
			WithDetail(errors.DetailKey, opt.Key).
			WithDetail(errors.DetailValue, raw)
	}

	switch opt.Format {
	case schema.FormatSemver:
		if _, err := semver.StrictNewVersion(raw); err != nil {
			return invalid("a semantic version such as 0.1.0")
		}
	case schema.FormatIdentifier:
		if !schema.IsIdentifier(raw) {
			return invalid("an identifier")
		}
	}
	return nil
}
