package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Transaction stages directory and file writes so a tree is either fully
// materialized or, on failure, removed again.
type Transaction struct {
	fs         afero.Fs
	operations []fileOperation
	committed  bool
	created    []string // paths created by Commit, in creation order
}

// fileOperation represents a single staged write
type fileOperation struct {
	path    string
	content []byte // nil for directories
	mode    os.FileMode
	dir     bool
}

// NewTransaction creates a new file operation transaction on fsys
func NewTransaction(fsys afero.Fs) *Transaction {
	return &Transaction{
		fs:         fsys,
		operations: make([]fileOperation, 0),
	}
}

// AddDir stages a directory creation (doesn't create it yet)
func (t *Transaction) AddDir(path string) {
	t.operations = append(t.operations, fileOperation{path: path, dir: true})
}

// AddFile stages a file write operation (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.operations = append(t.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
}

// AddTree stages every directory and file of tree below dest.
func (t *Transaction) AddTree(tree *RenderedNode, dest string) {
	t.AddDir(dest)
	_ = tree.Walk(func(rel string, node *RenderedNode) error {
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if node.IsDir() {
			t.AddDir(target)
		} else {
			t.AddFile(target, node.Content, node.Mode)
		}
		return nil
	})
}

// Len returns the number of staged operations
func (t *Transaction) Len() int {
	return len(t.operations)
}

// Commit writes all staged entries.
// If any write fails, everything this transaction created is removed again.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for _, op := range t.operations {
		if op.dir {
			if err := t.mkdirAll(op.path); err != nil {
				t.rollback()
				return fmt.Errorf("failed to create directory %s: %w", op.path, err)
			}
			continue
		}

		dir := filepath.Dir(op.path)
		if err := t.mkdirAll(dir); err != nil {
			t.rollback()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := afero.WriteFile(t.fs, op.path, op.content, op.mode); err != nil {
			t.rollback()
			return fmt.Errorf("failed to write file %s: %w", op.path, err)
		}
		t.created = append(t.created, op.path)
	}

	t.committed = true
	return nil
}

// mkdirAll creates dir and records every directory level it had to create.
func (t *Transaction) mkdirAll(dir string) error {
	var missing []string
	for p := dir; ; p = filepath.Dir(p) {
		if _, err := t.fs.Stat(p); err == nil {
			break
		}
		missing = append(missing, p)
		if parent := filepath.Dir(p); parent == p {
			break
		}
	}

	if err := t.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		t.created = append(t.created, missing[i])
	}
	return nil
}

// rollback removes created paths in reverse order, best effort
func (t *Transaction) rollback() {
	for i := len(t.created) - 1; i >= 0; i-- {
		_ = t.fs.Remove(t.created[i])
	}
	t.created = nil
}
