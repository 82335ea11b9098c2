package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simonhull/hatch/errors"
)

// Op is a predicate operator.
type Op int

const (
	OpTruthy Op = iota // key
	OpFalsy            // !key
	OpEq               // key == value
	OpNe               // key != value
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a valid option key.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// Env is what predicates are evaluated against.
type Env interface {
	// Lookup returns the string form of key.
	Lookup(key string) (string, bool)
	// Flag returns the typed value of key when key is a flag.
	Flag(key string) (value bool, isFlag bool)
}

// Predicate is a condition over a single option.
type Predicate struct {
	Key   string
	Op    Op
	Value string
}

// ParsePredicate parses `key`, `!key`, `key == value` or `key != value`.
// Values may be quoted with single or double quotes.
func ParsePredicate(s string) (Predicate, error) {
	src := strings.TrimSpace(s)

	if i, op, ok := findOperator(src); ok {
		key := strings.TrimSpace(src[:i])
		raw := strings.TrimSpace(src[i+2:])
		if !IsIdentifier(key) {
			return Predicate{}, fmt.Errorf("invalid predicate %q: %q is not an option key", s, key)
		}
		if raw == "" {
			return Predicate{}, fmt.Errorf("invalid predicate %q: missing value", s)
		}
		return Predicate{Key: key, Op: op, Value: unquote(raw)}, nil
	}

	p := Predicate{Key: src, Op: OpTruthy}
	if strings.HasPrefix(src, "!") {
		p = Predicate{Key: strings.TrimSpace(src[1:]), Op: OpFalsy}
	}
	if !IsIdentifier(p.Key) {
		return Predicate{}, fmt.Errorf("invalid predicate %q: %q is not an option key", s, p.Key)
	}
	return p, nil
}

// findOperator returns the position of the first == or != in s. Everything
// after it is the value, which may itself contain either token.
func findOperator(s string) (int, Op, bool) {
	for i := 0; i+1 < len(s); i++ {
		switch s[i : i+2] {
		case "==":
			return i, OpEq, true
		case "!=":
			return i, OpNe, true
		}
	}
	return 0, 0, false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// IsZero reports whether p is the empty predicate, which always holds.
func (p Predicate) IsZero() bool {
	return p.Key == ""
}

// String returns the canonical form; equal predicates have equal strings.
func (p Predicate) String() string {
	switch p.Op {
	case OpFalsy:
		return "!" + p.Key
	case OpEq:
		return fmt.Sprintf("%s == %q", p.Key, p.Value)
	case OpNe:
		return fmt.Sprintf("%s != %q", p.Key, p.Value)
	default:
		return p.Key
	}
}

// Eval evaluates p against env. A key env does not know is an
// UndefinedVariable error.
//
// Flags are truthy when yes; text is truthy when non-empty. Comparing a flag
// against any yes/no spelling compares the typed values.
func (p Predicate) Eval(env Env) (bool, error) {
	if p.IsZero() {
		return true, nil
	}

	raw, ok := env.Lookup(p.Key)
	if !ok {
		return false, errors.Newf(errors.ErrUndefinedVariable, "predicate %q references undefined variable %q", p.String(), p.Key).
			WithDetail(errors.DetailKey, p.Key).
			WithDetail(errors.DetailRule, p.String())
	}
	flag, isFlag := env.Flag(p.Key)

	switch p.Op {
	case OpTruthy, OpFalsy:
		truthy := raw != ""
		if isFlag {
			truthy = flag
		}
		return truthy == (p.Op == OpTruthy), nil
	default:
		equal := raw == p.Value
		if want, ok := ParseFlag(p.Value); isFlag && ok {
			equal = flag == want
		}
		return equal == (p.Op == OpEq), nil
	}
}
