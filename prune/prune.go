// Package prune removes the parts of a rendered tree that belong to
// disabled features.
package prune

import (
	"fmt"
	"path"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/schema"
)

// Outcome is what a rule did to its target.
type Outcome int

const (
	// Kept: the rule's predicate held.
	Kept Outcome = iota
	// Removed: the predicate failed and the target was deleted.
	Removed
	// Absent: the predicate failed but there was nothing to delete.
	Absent
)

func (o Outcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case Absent:
		return "absent"
	default:
		return "kept"
	}
}

// RuleOutcome records one rule's evaluation.
type RuleOutcome struct {
	Index   int
	Rule    schema.PruneRule
	Target  string // rendered, relative to the project root
	Outcome Outcome
}

func (o RuleOutcome) String() string {
	return fmt.Sprintf("%s %s (%s)", o.Outcome, o.Target, o.Rule.When)
}

// Result is a pruned tree and how it got that way.
type Result struct {
	Tree     *generator.RenderedNode
	Outcomes []RuleOutcome
	// Dropped lists directories removed because their name rendered empty.
	Dropped []string
}

// Removed returns the targets that were deleted, in rule order.
func (r *Result) Removed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Outcome == Removed {
			out = append(out, o.Target)
		}
	}
	return out
}

var targets = generator.NewRenderer()

// Prune evaluates rules against env and returns a copy of tree without the
// targets of failed rules. tree itself is left untouched.
//
// All targets are rendered, checked for overlap and checked for kind before
// anything is removed. A missing target is not an error. Directories whose
// name rendered empty are dropped last.
func Prune(tree *generator.RenderedNode, env Env, rules []schema.PruneRule) (*Result, error) {
	data := env.Data()

	rendered := make([]schema.RuleTarget, len(rules))
	for i, r := range rules {
		target, err := r.Target(targets, data)
		if err != nil {
			return nil, err
		}
		rendered[i] = schema.RuleTarget{Index: i, Rule: r, Path: target}
	}
	if err := schema.CheckOverlap(rendered); err != nil {
		return nil, err
	}

	out := tree.Clone()
	outcomes := make([]RuleOutcome, len(rules))
	for i, rt := range rendered {
		if node := out.Find(rt.Path); node != nil && node.Kind != rt.Rule.Kind {
			return nil, errors.Newf(errors.ErrInvalidPath, "prune rule %s targets a %s", rt.Rule, node.Kind).
				WithDetail(errors.DetailRule, rt.Rule.String()).
				WithDetail(errors.DetailPath, rt.Path)
		}

		keep, err := rt.Rule.When.Eval(env)
		if err != nil {
			if e, ok := errors.As(err); ok {
				e.WithDetail(errors.DetailPath, rt.Path)
			}
			return nil, err
		}
		outcomes[i] = RuleOutcome{Index: i, Rule: rt.Rule, Target: rt.Path, Outcome: Kept}
		if !keep {
			outcomes[i].Outcome = Absent
		}
	}

	for i := range outcomes {
		if outcomes[i].Outcome == Absent && out.Remove(outcomes[i].Target) {
			outcomes[i].Outcome = Removed
		}
	}

	return &Result{
		Tree:     out,
		Outcomes: outcomes,
		Dropped:  dropEmptyNames(out, ""),
	}, nil
}

// Env is the resolved option set rules are evaluated against.
type Env interface {
	schema.Env
	Data() map[string]any
}

// dropEmptyNames removes directories whose name is empty, with their
// contents. Each removal is reported as its parent's path joined with
// "{empty}", so one at the root is "{empty}".
func dropEmptyNames(dir *generator.RenderedNode, prefix string) []string {
	var dropped []string
	kept := dir.Children[:0:0]
	for _, child := range dir.Children {
		if child.IsDir() && child.Name == "" {
			dropped = append(dropped, path.Join(prefix, "{empty}"))
			continue
		}
		if child.IsDir() {
			dropped = append(dropped, dropEmptyNames(child, path.Join(prefix, child.Name))...)
		}
		kept = append(kept, child)
	}
	dir.Children = kept
	return dropped
}
