package exec

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RunWithSpinner runs a command while a spinner labelled message animates
// on the executor's stderr. The command's own output is discarded.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	quiet := *e
	quiet.stdout = io.Discard
	quiet.stderr = io.Discard

	result := make(chan error, 1)
	go func() {
		result <- quiet.Run(ctx, name, args...)
	}()

	p := tea.NewProgram(newStepModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_, _ = p.Run()
	}()

	err := <-result
	p.Send(stepFinished{err: err})

	select {
	case <-stopped:
	case <-time.After(200 * time.Millisecond):
		p.Quit()
		<-stopped
	}
	return err
}

// stepFinished tells the model the command has exited.
type stepFinished struct {
	err error
}

// stepModel shows one running step and, once finished, its outcome and duration.
type stepModel struct {
	spinner  spinner.Model
	message  string
	started  time.Time
	elapsed  time.Duration
	finished bool
	err      error
}

func newStepModel(message string) *stepModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = spinStyle
	return &stepModel{spinner: s, message: message, started: time.Now()}
}

func (m *stepModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepFinished:
		m.finished = true
		m.err = msg.err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *stepModel) View() string {
	if !m.finished {
		return m.spinner.View() + " " + m.message + "..."
	}
	mark := okStyle.Render("✓")
	if m.err != nil {
		mark = failStyle.Render("✗")
	}
	return fmt.Sprintf("%s %s %s\n", mark, m.message, timeStyle.Render(m.elapsed.Round(time.Millisecond).String()))
}
