package scaffold

import (
	"github.com/simonhull/hatch/options"
	"github.com/simonhull/hatch/prune"
	"github.com/simonhull/hatch/schema"
)

// LintReport lists latent defects in a template.
type LintReport struct {
	DeadRules []schema.DeadRule
	// Removed is what the default options prune away.
	Removed []string
	Files   int
}

// Lint renders and prunes the template with its default options, which must
// always succeed, and reports prune rules whose targets are missing.
func Lint(t *Template) (*LintReport, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	optCtx, err := options.Resolve(t.Schema, nil)
	if err != nil {
		return nil, err
	}
	data := optCtx.Data()

	rendered, err := t.renderer.Render(t.Tree, data)
	if err != nil {
		return nil, err
	}

	dead, err := schema.DeadRules(t.renderer, rendered, t.Schema, data)
	if err != nil {
		return nil, err
	}

	pruned, err := prune.Prune(rendered, optCtx, t.Schema.Prune)
	if err != nil {
		return nil, err
	}

	return &LintReport{
		DeadRules: dead,
		Removed:   pruned.Removed(),
		Files:     pruned.Tree.CountFiles(),
	}, nil
}
