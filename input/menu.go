package input

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// errCancelled is returned when the user leaves a menu without choosing.
var errCancelled = errors.New("selection cancelled")

// IsCancelled reports whether err means the user aborted a prompt.
func IsCancelled(err error) bool {
	return errors.Is(err, errCancelled)
}

func runMenu(in io.Reader, out io.Writer, message string, choices []string, def int) (string, error) {
	model := newMenuModel(message, choices, def)
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to show menu: %w", err)
	}

	result := finalModel.(menuModel)
	if result.selected < 0 {
		return "", errCancelled
	}
	return choices[result.selected], nil
}

// menuModel is the BubbleTea model for a choice menu
type menuModel struct {
	message  string
	choices  []string
	cursor   int
	selected int
	done     bool
}

func newMenuModel(message string, choices []string, def int) menuModel {
	return menuModel{
		message:  message,
		choices:  choices,
		cursor:   def,
		selected: -1,
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input
func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.done = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case "enter":
		m.selected = m.cursor
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu; once done it collapses to the answer.
func (m menuModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.message))

	if m.done {
		if m.selected >= 0 {
			b.WriteString(" " + m.choices[m.selected])
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n" + mutedStyle.Render("  [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n")
	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("  " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("    " + choice + "\n")
		}
	}
	return b.String()
}
