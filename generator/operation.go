package generator

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create README.md (234 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp creates a new file with content.
//
// Validation rejects an existing file unless force=true, and rejects nil
// content (empty content is fine). Validation has no side effects.
type WriteFileOp struct {
	Fs      afero.Fs
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if !force {
		if _, err := op.Fs.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(op.Path)
	if err := op.Fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return afero.WriteFile(op.Fs, op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// MkdirOp creates a directory, including empty ones the template declares.
type MkdirOp struct {
	Fs   afero.Fs
	Path string
}

func (op *MkdirOp) Validate(ctx context.Context, force bool) error {
	info, err := op.Fs.Stat(op.Path)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("path exists and is not a directory: %s", op.Path)
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return op.Fs.MkdirAll(op.Path, 0755)
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create %s/", op.Path)
}

// PlanTree turns a rendered tree into operations rooted at dest, in
// pre-order so every directory precedes its contents.
func PlanTree(fsys afero.Fs, tree *RenderedNode, dest string) []Operation {
	ops := []Operation{&MkdirOp{Fs: fsys, Path: dest}}
	_ = tree.Walk(func(rel string, node *RenderedNode) error {
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if node.IsDir() {
			ops = append(ops, &MkdirOp{Fs: fsys, Path: target})
		} else {
			content := node.Content
			if content == nil {
				content = []byte{}
			}
			ops = append(ops, &WriteFileOp{Fs: fsys, Path: target, Content: content, Mode: node.Mode})
		}
		return nil
	})
	return ops
}
