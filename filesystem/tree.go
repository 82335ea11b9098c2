package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/generator"
	"github.com/spf13/afero"
)

// TreeOptions configures LoadTree
type TreeOptions struct {
	// CopyWithoutRender holds globs, relative to the tree root, of files whose
	// bodies are copied verbatim. A glob without a slash also matches base
	// names anywhere; a glob matching a directory covers its contents.
	CopyWithoutRender []string
	Walk              WalkOptions
}

// LoadTree reads the directory dir into a template tree.
// Binary files are always copied verbatim.
func LoadTree(fsys afero.Fs, dir string, opts TreeOptions) (*generator.TemplateNode, error) {
	info, err := fsys.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template directory not found: %s", dir).
			WithDetail(errors.DetailPath, dir)
	}

	root := generator.Dir("")
	dirs := map[string]*generator.TemplateNode{".": root}

	err = Walk(fsys, dir, opts.Walk, func(p string, info os.FileInfo) error {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		parent, ok := dirs[path.Dir(rel)]
		if !ok {
			return fmt.Errorf("walk visited %s before its directory", rel)
		}

		if info.IsDir() {
			node := generator.Dir(info.Name())
			dirs[rel] = node
			parent.Children = append(parent.Children, node)
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		content, err := afero.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", rel, err)
		}

		node := generator.File(info.Name(), string(content))
		node.Mode = info.Mode().Perm()
		node.Verbatim = isBinary(content) || matchesAny(opts.CopyWithoutRender, rel)
		parent.Children = append(parent.Children, node)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateNotFound, "failed to load template tree from %s", dir).
			WithDetail(errors.DetailPath, dir)
	}

	return root, nil
}

// matchesAny reports whether rel or one of its parent directories matches a glob
func matchesAny(globs []string, rel string) bool {
	for _, glob := range globs {
		glob = strings.TrimSuffix(filepath.ToSlash(glob), "/")
		for p := rel; p != "."; p = path.Dir(p) {
			if ok, _ := path.Match(glob, p); ok {
				return true
			}
			if !strings.Contains(glob, "/") {
				if ok, _ := path.Match(glob, path.Base(p)); ok {
					return true
				}
			}
		}
	}
	return false
}

// isBinary checks if content appears to be binary (contains null bytes)
func isBinary(data []byte) bool {
	checkLen := len(data)
	if checkLen > 8192 {
		checkLen = 8192
	}
	return bytes.IndexByte(data[:checkLen], 0) != -1
}
