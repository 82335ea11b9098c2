// Package input provides interactive terminal input for option prompting.
//
// A Prompter reads answers line by line. When both ends are terminals,
// Choose shows an arrow-key menu instead of a numbered list.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter asks questions on a reader/writer pair.
type Prompter struct {
	rawIn io.Reader
	in    *bufio.Reader
	out   io.Writer
	menus bool
}

// New creates a Prompter. Arrow-key menus are enabled when in and out are
// both terminals.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		rawIn: in,
		in:    bufio.NewReader(in),
		out:   out,
		menus: IsTerminal(in) && IsTerminal(out),
	}
}

// Stdio creates a Prompter on the process's stdin and stdout.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout)
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// readLine returns the next trimmed line. ok is false at end of input.
func (p *Prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Prompt asks the user for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	name := p.Prompt("Project name", "My Package")
//	// Displays: Project name (My Package): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, promptStyle.Render(message)+": ")
	}

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks the user a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true. Otherwise, returns false.
//
// Example:
//
//	if p.Confirm("Use Docker?", true) {
//	    // User said yes (or pressed Enter with defaultYes=true)
//	}
//	// Displays: Use Docker? [Y/n]: _
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultYes
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// Choose asks the user to pick one of choices. def is the index selected
// when the user just presses Enter.
//
// Without a terminal the choices are listed with numbers and the answer may
// be either a number or the choice itself. Unrecognised answers are asked
// again; end of input selects the default.
func (p *Prompter) Choose(message string, choices []string, def int) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices for %q", message)
	}
	if def < 0 || def >= len(choices) {
		def = 0
	}

	if p.menus {
		return runMenu(p.rawIn, p.out, message, choices, def)
	}

	fmt.Fprintln(p.out, promptStyle.Render(message))
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
	}

	for {
		fmt.Fprint(p.out, hintStyle.Render(fmt.Sprintf("Choose from 1-%d (%d)", len(choices), def+1))+": ")
		answer, ok := p.readLine()
		if !ok || answer == "" {
			return choices[def], nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, c := range choices {
			if strings.EqualFold(c, answer) {
				return c, nil
			}
		}
		fmt.Fprintln(p.out, hintStyle.Render(fmt.Sprintf("%q is not one of the choices", answer)))
	}
}
