package generator

import (
	"sort"
	"strings"
	"text/template"
	"text/template/parse"
)

// HasMarkup reports whether s contains any template action.
// Text without actions is emitted byte-for-byte.
func HasMarkup(s string) bool {
	return strings.Contains(s, "{{")
}

// References returns the context keys referenced by a parsed template, sorted
// and deduplicated. Every branch is inspected, including branches that a
// given context would not take, so a misspelt key in a disabled span is still
// caught. Bodies of range and with blocks rebind the dot and are skipped;
// missing keys there are caught at execution time.
func References(tmpl *template.Template) []string {
	seen := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		collectRefs(t.Tree.Root, seen)
	}

	refs := make([]string, 0, len(seen))
	for k := range seen {
		refs = append(refs, k)
	}
	sort.Strings(refs)
	return refs
}

func collectRefs(node parse.Node, seen map[string]bool) {
	switch n := node.(type) {
	case nil:
		return
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectRefs(child, seen)
		}
	case *parse.ActionNode:
		collectRefs(n.Pipe, seen)
	case *parse.IfNode:
		collectRefs(n.Pipe, seen)
		collectRefs(n.List, seen)
		collectRefs(n.ElseList, seen)
	case *parse.RangeNode:
		collectRefs(n.Pipe, seen)
		collectRefs(n.ElseList, seen)
	case *parse.WithNode:
		collectRefs(n.Pipe, seen)
		collectRefs(n.ElseList, seen)
	case *parse.TemplateNode:
		collectRefs(n.Pipe, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			collectRefs(cmd, seen)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			collectRefs(arg, seen)
		}
	case *parse.FieldNode:
		if len(n.Ident) > 0 {
			seen[n.Ident[0]] = true
		}
	case *parse.VariableNode:
		// $.key refers to the root context
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			seen[n.Ident[1]] = true
		}
	case *parse.ChainNode:
		collectRefs(n.Node, seen)
	}
}
