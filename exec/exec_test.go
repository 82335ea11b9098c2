package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommand returns a command that re-enters this test binary
func mockCommand(name string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is the mock command executor
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "no command specified\n")
		os.Exit(1)
	}

	switch args[0] {
	case "echo":
		fmt.Println(strings.Join(args[1:], " "))
		os.Exit(0)
	case "env":
		fmt.Println(os.Getenv(args[1]))
		os.Exit(0)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Println(wd)
		os.Exit(0)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "error":
		fmt.Fprintf(os.Stderr, "first line\nfatal: not a git repository\n")
		os.Exit(128)
	case "notfound":
		os.Exit(127)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		os.Exit(1)
	}
}

func newMockExecutor(opts *Options) *Executor {
	e := NewExecutor(opts)
	e.commandFunc = mockCommand
	return e
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor(nil)
	assert.NotNil(t, executor)
	assert.Equal(t, os.Stdout, executor.stdout)
	assert.Equal(t, os.Stderr, executor.stderr)
	assert.NotNil(t, executor.commandFunc)

	var stdout, stderr bytes.Buffer
	executor = NewExecutor(&Options{
		Stdout: &stdout,
		Stderr: &stderr,
		Env:    []string{"TEST=1"},
		Dir:    "/tmp",
	})
	assert.Equal(t, &stdout, executor.stdout)
	assert.Equal(t, &stderr, executor.stderr)
	assert.Equal(t, []string{"TEST=1"}, executor.env)
	assert.Equal(t, "/tmp", executor.dir)
}

func TestExecutor_Run(t *testing.T) {
	var stdout bytes.Buffer
	executor := newMockExecutor(&Options{Stdout: &stdout})

	err := executor.Run(context.Background(), "echo", "hello", "world")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "hello world")
}

func TestExecutor_RunWithError(t *testing.T) {
	var stderr bytes.Buffer
	executor := newMockExecutor(&Options{Stderr: &stderr})

	err := executor.Run(context.Background(), "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error failed")
	assert.Contains(t, err.Error(), "fatal: not a git repository")
	assert.NotContains(t, err.Error(), "first line")
	assert.Contains(t, stderr.String(), "first line")
	assert.False(t, errors.Is(err, ErrCommandNotFound))
}

func TestExecutor_NotFound(t *testing.T) {
	t.Run("exit status 127", func(t *testing.T) {
		executor := newMockExecutor(nil)
		err := executor.Run(context.Background(), "notfound")
		assert.True(t, errors.Is(err, ErrCommandNotFound), "got %v", err)
	})

	t.Run("missing binary", func(t *testing.T) {
		executor := NewExecutor(&Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		err := executor.Run(context.Background(), "hatch-test-binary-that-does-not-exist")
		assert.True(t, errors.Is(err, ErrCommandNotFound), "got %v", err)
		assert.Contains(t, err.Error(), "hatch-test-binary-that-does-not-exist")
	})
}

func TestExecutor_Timeout(t *testing.T) {
	executor := newMockExecutor(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := executor.Run(ctx, "sleep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExecutor_AlreadyCancelled(t *testing.T) {
	executor := newMockExecutor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.Run(ctx, "echo", "never")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExecutor_Output(t *testing.T) {
	executor := newMockExecutor(&Options{Env: []string{"HATCH_TEST_VAR=test_value"}})

	out, err := executor.Output(context.Background(), "env", "HATCH_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "test_value", out)
}

func TestExecutor_WithWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	executor := newMockExecutor(&Options{Dir: dir})

	out, err := executor.Output(context.Background(), "pwd")
	require.NoError(t, err)

	want, err := os.Stat(dir)
	require.NoError(t, err)
	got, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, os.SameFile(want, got))
}

func TestExecutor_RunWithSpinner(t *testing.T) {
	var stderr bytes.Buffer
	executor := newMockExecutor(&Options{Stderr: &stderr})

	err := executor.RunWithSpinner(context.Background(), "Testing", "echo", "test")
	assert.NoError(t, err)

	err = executor.RunWithSpinner(context.Background(), "Failing", "error")
	assert.Error(t, err)
}

func TestStepModel(t *testing.T) {
	m := newStepModel("Committing")
	assert.Contains(t, m.View(), "Committing...")

	next, cmd := m.Update(stepFinished{err: errors.New("boom")})
	require.NotNil(t, cmd)
	view := next.View()
	assert.Contains(t, view, "✗")
	assert.Contains(t, view, "Committing")
	assert.NotContains(t, view, "...")

	m = newStepModel("Initializing")
	next, _ = m.Update(stepFinished{})
	assert.Contains(t, next.View(), "✓")
}

func TestCommand(t *testing.T) {
	var stdout bytes.Buffer
	executor := newMockExecutor(&Options{Stdout: &stdout, Env: []string{"BASE=1"}})

	t.Run("basic command", func(t *testing.T) {
		err := NewCommand(executor, "echo").
			WithArgs("hello", "world").
			Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "hello world")
	})

	t.Run("with environment", func(t *testing.T) {
		out, err := NewCommand(executor, "env").
			WithArgs("FOO").
			WithEnv("FOO=bar").
			Output(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "bar", out)
		assert.Equal(t, []string{"BASE=1"}, executor.env, "builder must not leak env into the executor")
	})

	t.Run("with spinner", func(t *testing.T) {
		err := NewCommand(executor, "echo").
			WithArgs("x").
			WithDir(t.TempDir()).
			WithSpinner("Processing").
			Run(context.Background())
		require.NoError(t, err)
	})

	t.Run("string representation", func(t *testing.T) {
		cmd := NewCommand(executor, "git").
			WithArgs("commit", "-m", "test message")
		assert.Equal(t, "git commit -m test message", cmd.String())
	})
}

func TestAvailable(t *testing.T) {
	assert.False(t, Available("hatch-test-binary-that-does-not-exist"))
}
