package generator

import (
	"fmt"
	"reflect"
	"strings"
)

// FlagSpellings lists the yes/no pairs accepted for flags, yes first.
var FlagSpellings = [][2]string{
	{"y", "n"},
	{"yes", "no"},
	{"true", "false"},
}

// ParseFlag interprets any yes/no spelling, case-insensitively.
func ParseFlag(s string) (value bool, ok bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, p := range FlagSpellings {
		switch v {
		case p[0]:
			return true, true
		case p[1]:
			return false, true
		}
	}
	return false, false
}

// flagEq replaces the builtin eq. It reports whether a equals any of bs,
// where a flag equals every spelling of its value: eq .use_docker "y" holds
// when use_docker is on.
func flagEq(a any, bs ...any) (bool, error) {
	if len(bs) == 0 {
		return false, fmt.Errorf("missing argument for comparison")
	}
	for _, b := range bs {
		equal, err := equalValues(a, b)
		if err != nil {
			return false, err
		}
		if equal {
			return true, nil
		}
	}
	return false, nil
}

// flagNe replaces the builtin ne with the same flag rules as flagEq.
func flagNe(a, b any) (bool, error) {
	equal, err := equalValues(a, b)
	return !equal, err
}

func equalValues(a, b any) (bool, error) {
	if equal, ok := compareFlag(a, b); ok {
		return equal, nil
	}
	if equal, ok := compareFlag(b, a); ok {
		return equal, nil
	}

	if a == nil || b == nil {
		return a == b, nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false, fmt.Errorf("incompatible types for comparison: %T and %T", a, b)
	}
	return a == b, nil
}

// compareFlag compares a bool against a string holding a yes/no spelling.
func compareFlag(a, b any) (equal bool, ok bool) {
	flag, isBool := a.(bool)
	text, isString := b.(string)
	if !isBool || !isString {
		return false, false
	}
	want, ok := ParseFlag(text)
	if !ok {
		return false, false
	}
	return flag == want, true
}
