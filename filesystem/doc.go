// Package filesystem walks template directories on an afero filesystem.
//
// # Overview
//
// Templates live on disk as plain directory trees. This package turns such a
// tree into a generator.TemplateNode while skipping version control metadata
// and editor litter:
//   - Directory traversal that skips .git, .hg and .svn
//   - Pattern-based filtering (ignore .DS_Store, *.pyc, etc.)
//   - Copy-without-render globs and binary detection for Verbatim files
//
// # Usage
//
// Load a template tree:
//
//	tree, err := filesystem.LoadTree(afero.NewOsFs(), "templates/python/template", filesystem.TreeOptions{
//	    CopyWithoutRender: []string{"*.png", "docs/_static"},
//	})
//
// Custom walk with ignore patterns:
//
//	err := filesystem.Walk(fsys, ".", filesystem.WalkOptions{
//	    IgnoreDirs:     []string{".git", "tmp"},
//	    IgnorePatterns: []string{"*.tmp", "*.bak"},
//	}, func(path string, info os.FileInfo) error {
//	    // Process file
//	    return nil
//	})
package filesystem
