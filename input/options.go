package input

import (
	"github.com/simonhull/hatch/schema"
)

// Ask prompts for every option of s that preset does not already answer.
// defaults replaces the manifest default offered for a key; values that are
// not valid for the option are ignored. Derived options are never asked;
// they follow from the answers unless preset overrides them. The result
// contains preset plus the answers.
func Ask(p *Prompter, s *schema.Schema, preset, defaults map[string]string) (map[string]string, error) {
	answers := make(map[string]string, len(s.Options))
	for k, v := range preset {
		answers[k] = v
	}

	for i := range s.Options {
		opt := &s.Options[i]
		if _, ok := answers[opt.Key]; ok || opt.Kind == schema.DerivedText {
			continue
		}

		def := opt.Default
		if v, ok := defaults[opt.Key]; ok && validDefault(opt, v) {
			def = v
		}

		switch {
		case opt.IsFlag():
			answers[opt.Key] = flagSpelling(opt, p.Confirm(opt.PromptText(), isYes(def)))

		case opt.Kind == schema.Choice:
			choice, err := p.Choose(opt.PromptText(), opt.Choices, indexOf(opt.Choices, def))
			if err != nil {
				return nil, err
			}
			answers[opt.Key] = choice

		default:
			answers[opt.Key] = p.Prompt(opt.PromptText(), def)
		}
	}

	return answers, nil
}

func validDefault(opt *schema.OptionSpec, v string) bool {
	switch {
	case opt.IsFlag():
		_, ok := schema.ParseFlag(v)
		return ok
	case opt.Kind == schema.Choice:
		return opt.HasChoice(v)
	default:
		return true
	}
}

func isYes(s string) bool {
	v, _ := schema.ParseFlag(s)
	return v
}

// flagSpelling returns the declared choice meaning yes or no.
func flagSpelling(opt *schema.OptionSpec, yes bool) string {
	for _, c := range opt.Choices {
		if isYes(c) == yes {
			return c
		}
	}
	return opt.Default
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}
