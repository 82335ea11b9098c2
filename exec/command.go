package exec

import (
	"context"
	"strings"
)

// Command provides a fluent API for building and executing commands
type Command struct {
	executor    *Executor
	command     string
	args        []string
	env         []string
	dir         string
	showSpinner bool
	spinnerMsg  string
}

// NewCommand creates a new command builder
func NewCommand(executor *Executor, command string) *Command {
	return &Command{
		executor: executor,
		command:  command,
		args:     []string{},
	}
}

// WithArgs adds arguments to the command
func (c *Command) WithArgs(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// WithEnv adds environment variables
func (c *Command) WithEnv(env ...string) *Command {
	c.env = append(c.env, env...)
	return c
}

// WithDir sets the working directory
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithSpinner enables spinner with the given message
func (c *Command) WithSpinner(message string) *Command {
	c.showSpinner = true
	c.spinnerMsg = message
	return c
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	e := c.bind()
	if c.showSpinner {
		return e.RunWithSpinner(ctx, c.spinnerMsg, c.command, c.args...)
	}
	return e.Run(ctx, c.command, c.args...)
}

// Output executes the command and returns its trimmed standard output
func (c *Command) Output(ctx context.Context) (string, error) {
	return c.bind().Output(ctx, c.command, c.args...)
}

// bind returns an executor carrying the command-specific options
func (c *Command) bind() *Executor {
	e := &Executor{
		stdout:      c.executor.stdout,
		stderr:      c.executor.stderr,
		env:         append(append([]string(nil), c.executor.env...), c.env...),
		dir:         c.dir,
		commandFunc: c.executor.commandFunc,
	}
	if c.dir == "" {
		e.dir = c.executor.dir
	}
	return e
}

// String returns the command string representation for debugging
func (c *Command) String() string {
	parts := []string{c.command}
	parts = append(parts, c.args...)
	return strings.Join(parts, " ")
}
