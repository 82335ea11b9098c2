package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether the current writer is a terminal.
func isTerminal() bool {
	f, ok := Writer().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderMarkdown renders markdown for the terminal. Anything but a
// terminal gets the source unchanged.
func RenderMarkdown(md string) string {
	if !isTerminal() {
		return md
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

// Markdown prints markdown, styled when writing to a terminal.
func Markdown(md string) {
	emit(strings.TrimRight(RenderMarkdown(md), "\n"))
}
