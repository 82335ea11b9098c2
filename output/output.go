// Package output provides styled terminal output for the hatch CLI.
//
// Functions use lipgloss for styling but abstract away the details from
// callers. Everything is written to a single writer, stdout by default.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetWriter redirects all output. A nil writer restores stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the current output writer.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

func emit(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

// Success prints a success message in green.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Created project: my_package")
func Success(msg string) {
	emit(successStyle.Render("✓ " + msg))
}

// Error prints an error message in red.
func Error(msg string) {
	emit(errorStyle.Render("✗ " + msg))
}

// Warn prints a non-fatal problem in yellow.
//
// Example:
//
//	output.Warn("git is not installed; the project was not committed")
func Warn(msg string) {
	emit(warnStyle.Render("! " + msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	emit(infoStyle.Render("• " + msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
//
// Example:
//
//	output.Step("cd my_package")
func Step(msg string) {
	emit(stepStyle.Render("   " + msg))
}

// Enabled prints an optional subsystem that was switched on.
func Enabled(name string) {
	emit(enabledStyle.Render("  ✓ " + name))
}

// Disabled prints an optional subsystem that was switched off.
func Disabled(name string) {
	emit("  " + disabledStyle.Render("✗ "+name))
}

// Verbose prints a debug message only if verbose mode is enabled.
//
// Example:
//
//	output.Verbose("Loading manifest from: templates/python/hatch.yml")
func Verbose(msg string) {
	mu.Lock()
	enabled := verboseMode
	mu.Unlock()
	if enabled {
		emit(stepStyle.Render("· " + msg))
	}
}
