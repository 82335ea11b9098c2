package schema

import (
	"strings"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
)

// Dependencies returns the keys a derived option's expression references.
func (s *Schema) Dependencies(key string) ([]string, error) {
	o, ok := s.Option(key)
	if !ok || o.Kind != DerivedText {
		return nil, nil
	}
	tmpl, err := exprRenderer.Parse(derivePath(key), o.Derive)
	if err != nil {
		return nil, err
	}
	return generator.References(tmpl), nil
}

// DerivationOrder returns the derived keys in evaluation order: every key
// after the derived keys it depends on, ties broken by declaration order.
// A dependency cycle is a CyclicDerivation error naming the cycle.
func (s *Schema) DerivationOrder() ([]string, error) {
	var derived []string
	deps := make(map[string][]string)

	for _, o := range s.Options {
		if o.Kind != DerivedText {
			continue
		}
		refs, err := s.Dependencies(o.Key)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			dep, ok := s.Option(ref)
			if !ok {
				return nil, errors.Newf(errors.ErrUndefinedVariable, "derived option %s references undefined variable %q", o.Key, ref).
					WithDetail(errors.DetailKey, ref).
					WithDetail(errors.DetailPath, derivePath(o.Key))
			}
			if dep.Kind == DerivedText {
				deps[o.Key] = append(deps[o.Key], ref)
			}
		}
		derived = append(derived, o.Key)
	}

	order := make([]string, 0, len(derived))
	done := make(map[string]bool, len(derived))
	for len(order) < len(derived) {
		progressed := false
		for _, key := range derived {
			if done[key] || !allDone(deps[key], done) {
				continue
			}
			order = append(order, key)
			done[key] = true
			progressed = true
			// Restart so earlier declarations win ties
			break
		}
		if !progressed {
			cycle := findCycle(derived, deps, done)
			return nil, errors.Newf(errors.ErrCyclicDerivation, "derived options form a cycle: %s", strings.Join(cycle, " -> ")).
				WithDetail(errors.DetailCycle, cycle).
				WithDetail(errors.DetailKey, cycle[0])
		}
	}
	return order, nil
}

func allDone(keys []string, done map[string]bool) bool {
	for _, k := range keys {
		if !done[k] {
			return false
		}
	}
	return true
}

// findCycle follows unresolved dependencies from the first blocked key until
// a key repeats, and returns the cycle with its first key repeated at the end.
func findCycle(derived []string, deps map[string][]string, done map[string]bool) []string {
	var start string
	for _, key := range derived {
		if !done[key] {
			start = key
			break
		}
	}

	pos := make(map[string]int)
	var walk []string
	for cur := start; ; {
		if i, seen := pos[cur]; seen {
			return append(walk[i:], cur)
		}
		pos[cur] = len(walk)
		walk = append(walk, cur)

		next := ""
		for _, d := range deps[cur] {
			if !done[d] {
				next = d
				break
			}
		}
		if next == "" {
			// Unreachable: a blocked key always has an unresolved dependency
			return walk
		}
		cur = next
	}
}
