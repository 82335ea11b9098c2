package output

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/simonhull/hatch/generator"
)

// TreeString renders a generated tree under a root label.
func TreeString(root string, tree *generator.RenderedNode) (string, error) {
	list := pterm.LeveledList{{Level: 0, Text: root}}
	_ = tree.Walk(func(rel string, node *generator.RenderedNode) error {
		text := node.Name
		if node.IsDir() {
			text += "/"
		}
		list = append(list, pterm.LeveledListItem{Level: strings.Count(rel, "/") + 1, Text: text})
		return nil
	})

	return pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Srender()
}

// Tree prints a generated tree under a root label.
func Tree(root string, tree *generator.RenderedNode) {
	s, err := TreeString(root, tree)
	if err != nil {
		// Fall back to a flat listing
		var b strings.Builder
		b.WriteString(root + "\n")
		for _, p := range tree.Paths() {
			b.WriteString("  " + p + "\n")
		}
		s = b.String()
	}
	emit(strings.TrimRight(s, "\n"))
}
