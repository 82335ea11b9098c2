package scaffold

import (
	"path/filepath"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/filesystem"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/schema"
	"github.com/spf13/afero"
)

// Template is a manifest together with the tree it describes.
type Template struct {
	Dir    string
	Schema *schema.Schema
	Tree   *generator.TemplateNode

	renderer *generator.Renderer
}

// LoadTemplate reads the manifest in dir and the tree below its template_dir.
func LoadTemplate(fsys afero.Fs, dir string) (*Template, error) {
	s, err := schema.Load(fsys, dir)
	if err != nil {
		return nil, err
	}

	treeDir := filepath.Join(dir, s.TemplateDir)
	tree, err := filesystem.LoadTree(fsys, treeDir, filesystem.TreeOptions{
		CopyWithoutRender: s.CopyWithoutRender,
	})
	if err != nil {
		return nil, err
	}

	return NewTemplate(dir, s, tree), nil
}

// NewTemplate wraps an already validated schema and tree.
func NewTemplate(dir string, s *schema.Schema, tree *generator.TemplateNode) *Template {
	return &Template{
		Dir:      dir,
		Schema:   s,
		Tree:     tree,
		renderer: generator.NewRenderer(),
	}
}

// Name returns the template's manifest name.
func (t *Template) Name() string {
	return t.Schema.Name
}

func (t *Template) validate() error {
	if t == nil || t.Schema == nil || t.Tree == nil {
		return errors.New(errors.ErrTemplateNotFound, "no template given")
	}
	if t.renderer == nil {
		t.renderer = generator.NewRenderer()
	}
	return nil
}
