package schema

import (
	"strings"

	"github.com/simonhull/hatch/generator"
)

// DefaultTemplateDir is the directory below the manifest that holds the tree.
const DefaultTemplateDir = "template"

// DefaultRoot names the project directory when a manifest has no root and
// declares a project_slug option. Without one, the slugified manifest name
// is used instead.
const DefaultRoot = "{{ .project_slug }}"

// defaultRoot returns the root for a schema whose manifest names none.
func defaultRoot(s *Schema) string {
	if _, ok := s.Option("project_slug"); ok {
		return DefaultRoot
	}
	return generator.Slugify(s.Name)
}

// Kind distinguishes how an option gets its value.
type Kind int

const (
	// Text options take free-form text.
	Text Kind = iota
	// Choice options take one of a fixed list; the first entry is the default.
	Choice
	// DerivedText options are computed from other options unless overridden.
	DerivedText
)

func (k Kind) String() string {
	switch k {
	case Choice:
		return "choice"
	case DerivedText:
		return "derived"
	default:
		return "text"
	}
}

// Value formats a Text option may declare.
const (
	FormatSemver     = "semver"
	FormatIdentifier = "identifier"
)

// OptionSpec describes one option of a template.
type OptionSpec struct {
	Key     string
	Kind    Kind
	Choices []string // Choice only
	Default string
	Prompt  string
	Summary string // flags only; names the subsystem in the run summary
	Derive  string // DerivedText only
	Format  string // Text only
}

// IsFlag reports whether the option is a yes/no choice.
func (o *OptionSpec) IsFlag() bool {
	return o.Kind == Choice && IsFlagPair(o.Choices)
}

// PromptText returns the question asked for this option.
func (o *OptionSpec) PromptText() string {
	if o.Prompt != "" {
		return o.Prompt
	}
	return strings.ReplaceAll(o.Key, "_", " ")
}

// HasChoice reports whether v is one of the declared choices.
func (o *OptionSpec) HasChoice(v string) bool {
	for _, c := range o.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// PruneRule keeps Path when When holds and removes it otherwise.
type PruneRule struct {
	Path string
	When Predicate
	Kind generator.NodeKind
}

func (r PruneRule) String() string {
	return r.Kind.String() + " " + r.Path + " when " + r.When.String()
}

// NextStep is a line of guidance shown after generation.
// A zero When shows the step unconditionally.
type NextStep struct {
	Text string
	When Predicate
}

// Schema is a parsed template manifest.
type Schema struct {
	Name              string
	Description       string
	Requires          string
	Root              string
	TemplateDir       string
	CommitMessage     string
	CopyWithoutRender []string
	Options           []OptionSpec
	Prune             []PruneRule
	NextSteps         []NextStep

	index map[string]int
}

// Option returns the option declared for key.
func (s *Schema) Option(key string) (*OptionSpec, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return &s.Options[i], true
}

// Keys returns option keys in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.Options))
	for i, o := range s.Options {
		keys[i] = o.Key
	}
	return keys
}

// Flags returns the flag options in declaration order.
func (s *Schema) Flags() []*OptionSpec {
	var flags []*OptionSpec
	for i := range s.Options {
		if s.Options[i].IsFlag() {
			flags = append(flags, &s.Options[i])
		}
	}
	return flags
}

func (s *Schema) reindex() {
	s.index = make(map[string]int, len(s.Options))
	for i, o := range s.Options {
		if _, dup := s.index[o.Key]; !dup {
			s.index[o.Key] = i
		}
	}
}

// flagPairs lists the yes/no spellings recognised as flags, yes first.
var flagPairs = generator.FlagSpellings

// IsFlagPair reports whether choices are exactly one yes/no pair, in either order.
func IsFlagPair(choices []string) bool {
	if len(choices) != 2 {
		return false
	}
	a, b := strings.ToLower(choices[0]), strings.ToLower(choices[1])
	for _, p := range flagPairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}

// ParseFlag interprets any yes/no spelling, case-insensitively.
func ParseFlag(s string) (value bool, ok bool) {
	return generator.ParseFlag(s)
}
