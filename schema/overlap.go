package schema

import (
	"fmt"
	"path"
	"strings"

	"github.com/simonhull/hatch/errors"
)

// RuleTarget pairs a prune rule with the path it targets, raw or rendered.
type RuleTarget struct {
	Index int
	Rule  PruneRule
	Path  string
}

// CheckOverlap rejects two rules that target the same path, or an ancestor
// and a descendant, under different predicates. The outcome of such a pair
// would depend on evaluation order.
func CheckOverlap(targets []RuleTarget) error {
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			a, b := targets[i], targets[j]
			if a.Rule.When == b.Rule.When {
				continue
			}
			if !overlaps(a.Path, b.Path) {
				continue
			}
			rules := []string{describe(a), describe(b)}
			return errors.Newf(errors.ErrOverlappingPruneRule, "prune rules overlap: %s and %s", rules[0], rules[1]).
				WithDetail(errors.DetailRule, rules[0]).
				WithDetail(errors.DetailOthers, rules[1:]).
				WithDetail(errors.DetailPath, a.Path)
		}
	}
	return nil
}

func describe(t RuleTarget) string {
	return fmt.Sprintf("prune[%d] (%s when %s)", t.Index, t.Path, t.Rule.When)
}

// overlaps reports whether a and b are the same path or one contains the other.
func overlaps(a, b string) bool {
	a, b = cleanRel(a), cleanRel(b)
	if a == b {
		return true
	}
	return strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

func cleanRel(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
