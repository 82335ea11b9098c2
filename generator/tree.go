package generator

import (
	"bytes"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// NodeKind tags TemplateNode and RenderedNode variants.
type NodeKind int

const (
	KindDir NodeKind = iota
	KindFile
)

func (k NodeKind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// TemplateNode is one entry of a template tree. Names and bodies may contain
// placeholder and conditional markup. Template trees are read-only: the
// renderer never mutates them, so one tree can serve many concurrent runs.
type TemplateNode struct {
	Kind     NodeKind
	NameExpr string
	BodyExpr string      // File only
	Mode     fs.FileMode // File only; 0 means 0644
	Verbatim bool        // File only; body copied without rendering
	Children []*TemplateNode
}

// Dir builds a directory template node.
func Dir(nameExpr string, children ...*TemplateNode) *TemplateNode {
	return &TemplateNode{Kind: KindDir, NameExpr: nameExpr, Children: children}
}

// File builds a file template node.
func File(nameExpr, bodyExpr string) *TemplateNode {
	return &TemplateNode{Kind: KindFile, NameExpr: nameExpr, BodyExpr: bodyExpr}
}

// RenderedNode is a template node with all markup resolved.
type RenderedNode struct {
	Kind     NodeKind
	Name     string
	Content  []byte      // File only
	Mode     fs.FileMode // File only
	Children []*RenderedNode
}

// IsDir reports whether the node is a directory.
func (n *RenderedNode) IsDir() bool { return n.Kind == KindDir }

// Walk visits every node below n in pre-order, passing the slash-separated
// path relative to n. The root itself is not visited.
func (n *RenderedNode) Walk(fn func(rel string, node *RenderedNode) error) error {
	return n.walk("", fn)
}

func (n *RenderedNode) walk(prefix string, fn func(string, *RenderedNode) error) error {
	for _, child := range n.Children {
		rel := path.Join(prefix, child.Name)
		if err := fn(rel, child); err != nil {
			return err
		}
		if child.IsDir() {
			if err := child.walk(rel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Paths returns every path below n, sorted. Directories carry a trailing slash.
func (n *RenderedNode) Paths() []string {
	var paths []string
	_ = n.Walk(func(rel string, node *RenderedNode) error {
		if node.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	sort.Strings(paths)
	return paths
}

// Find returns the node at the slash-separated relative path, or nil.
func (n *RenderedNode) Find(rel string) *RenderedNode {
	cur := n
	for _, part := range splitPath(rel) {
		if !cur.IsDir() {
			return nil
		}
		var next *RenderedNode
		for _, child := range cur.Children {
			if child.Name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// Remove deletes the node at rel (recursively for directories).
// It reports whether anything was removed.
func (n *RenderedNode) Remove(rel string) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	parent := n.Find(strings.Join(parts[:len(parts)-1], "/"))
	if parent == nil || !parent.IsDir() {
		return false
	}
	last := parts[len(parts)-1]
	for i, child := range parent.Children {
		if child.Name == last {
			parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the tree.
func (n *RenderedNode) Clone() *RenderedNode {
	c := &RenderedNode{Kind: n.Kind, Name: n.Name, Mode: n.Mode}
	if n.Content != nil {
		c.Content = bytes.Clone(n.Content)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// CountFiles returns the number of files below n.
func (n *RenderedNode) CountFiles() int {
	count := 0
	_ = n.Walk(func(_ string, node *RenderedNode) error {
		if !node.IsDir() {
			count++
		}
		return nil
	})
	return count
}

func splitPath(rel string) []string {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}
