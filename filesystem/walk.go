package filesystem

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultIgnoreDirs are version control directories never copied from a template
var DefaultIgnoreDirs = []string{".git", ".hg", ".svn"}

// DefaultIgnorePatterns are file names never copied from a template
var DefaultIgnorePatterns = []string{".DS_Store", "Thumbs.db", "*.pyc"}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (default: DefaultIgnorePatterns)
}

// Walk traverses a directory tree on fsys with configurable ignore patterns.
// The visitor function is called for each file and directory, in lexical
// order, parents before children. Return filepath.SkipDir from visitor to
// skip a directory.
func Walk(fsys afero.Fs, rootPath string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}
	ignorePatterns := opts.IgnorePatterns
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}

	return afero.Walk(fsys, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != rootPath {
				for _, ignore := range ignoreDirs {
					if info.Name() == ignore {
						return filepath.SkipDir
					}
				}
			}
			return visitor(path, info)
		}

		for _, pattern := range ignorePatterns {
			if matched, _ := filepath.Match(pattern, info.Name()); matched {
				return nil
			}
		}

		return visitor(path, info)
	})
}

// IsEmptyDir reports whether path is missing or an empty directory.
// A path that exists as a file is reported as not empty.
func IsEmptyDir(fsys afero.Fs, path string) (bool, error) {
	info, err := fsys.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	return afero.IsEmpty(fsys, path)
}
