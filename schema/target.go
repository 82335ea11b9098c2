package schema

import (
	"fmt"
	"strings"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
)

// Target renders the rule's path against data and returns it cleaned and
// relative to the project root. A path escaping the root is InvalidPath.
func (r PruneRule) Target(rd *generator.Renderer, data map[string]any) (string, error) {
	rendered, err := rd.RenderString("prune:"+r.Path, r.Path, data)
	if err != nil {
		if e, ok := errors.As(err); ok {
			e.WithDetail(errors.DetailRule, r.String())
		}
		return "", err
	}

	target := cleanRel(rendered)
	if target == "" || strings.HasPrefix(rendered, "/") || hasParentSegment(rendered) {
		return "", errors.Newf(errors.ErrInvalidPath, "prune rule %s renders to %q outside the project", r.String(), rendered).
			WithDetail(errors.DetailRule, r.String()).
			WithDetail(errors.DetailPath, rendered)
	}
	return target, nil
}

// DeadRule is a prune rule whose target is missing from the template.
type DeadRule struct {
	Index  int
	Rule   PruneRule
	Target string
	Reason string
}

func (d DeadRule) String() string {
	return fmt.Sprintf("prune[%d] %s: %s", d.Index, d.Rule, d.Reason)
}

// DeadRules reports rules that can never remove anything because their
// target does not exist, or has the wrong kind, in tree. tree is the
// template rendered with data before pruning.
func DeadRules(rd *generator.Renderer, tree *generator.RenderedNode, s *Schema, data map[string]any) ([]DeadRule, error) {
	var dead []DeadRule
	for i, r := range s.Prune {
		target, err := r.Target(rd, data)
		if err != nil {
			return nil, err
		}

		node := tree.Find(target)
		switch {
		case node == nil:
			dead = append(dead, DeadRule{Index: i, Rule: r, Target: target, Reason: "target does not exist in the template"})
		case node.Kind != r.Kind:
			dead = append(dead, DeadRule{Index: i, Rule: r, Target: target, Reason: fmt.Sprintf("target is a %s, rule expects a %s", node.Kind, r.Kind)})
		}
	}
	return dead, nil
}
