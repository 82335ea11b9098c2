package finalize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/exec"
	"github.com/simonhull/hatch/filesystem"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/logging"
	"github.com/simonhull/hatch/prune"
	"github.com/simonhull/hatch/schema"
	"github.com/spf13/afero"
)

// DefaultIdentity commits when neither the host nor the caller has one.
var DefaultIdentity = Identity{Name: "hatch", Email: "hatch@localhost"}

// Identity names the author of the initial commit.
type Identity struct {
	Name  string
	Email string
}

// Finalizer materializes trees and seals them under version control.
type Finalizer struct {
	// Fs receives the tree. Version control always runs against the OS
	// filesystem, so a non-OS Fs should be combined with NoVCS.
	Fs afero.Fs

	// Executor runs git. Nil runs git with its output discarded.
	Executor *exec.Executor
	// Git is the git binary, "git" when empty.
	Git string

	NoVCS         bool
	CommitMessage string
	// Identity is used only when the host has no git identity configured.
	Identity Identity
	// Spinner shows progress while git runs.
	Spinner bool

	// Schema and Env feed the summary. Both may be nil.
	Schema *schema.Schema
	Env    prune.Env

	Logger logging.Logger
}

// Report is what Finalize did.
type Report struct {
	Destination    string
	Files          int
	Dirs           int
	VCSInitialized bool
	Committed      bool
	Summary        Summary
	// Warnings holds FinalizeWarning errors from the best-effort steps.
	Warnings []error
}

// Finalize writes tree below dest and runs the version control and summary
// steps. Only materialization errors are returned; everything after it is
// reported through Report.Warnings.
func (f *Finalizer) Finalize(ctx context.Context, tree *generator.RenderedNode, dest string) (*Report, error) {
	log := logging.Component(f.logger(), "finalize").WithFields(logging.F("destination", dest))

	report := &Report{Destination: dest}
	if err := f.materialize(ctx, tree, dest, report); err != nil {
		log.Error("materialize failed", logging.F("error", err))
		return nil, err
	}
	log.Info("materialized", logging.F("files", report.Files), logging.F("dirs", report.Dirs))

	if f.NoVCS {
		log.Debug("version control skipped")
	} else {
		f.initRepository(ctx, dest, report, log)
	}

	if f.Schema != nil && f.Env != nil {
		summary, err := Summarize(f.Schema, f.Env)
		if err != nil {
			report.Warnings = append(report.Warnings, warning("summary", err, "could not build the summary"))
		}
		report.Summary = summary
	}

	return report, nil
}

func (f *Finalizer) materialize(ctx context.Context, tree *generator.RenderedNode, dest string, report *Report) error {
	fail := func(err error, msg string) error {
		return errors.Wrap(err, errors.ErrMaterializeFailed, msg).WithDetail(errors.DetailPath, dest)
	}

	if err := ctx.Err(); err != nil {
		return fail(err, "generation cancelled before writing")
	}

	empty, err := filesystem.IsEmptyDir(f.Fs, dest)
	if err != nil {
		return fail(err, "cannot inspect destination")
	}
	if !empty {
		return errors.Newf(errors.ErrDestinationConflict, "destination already exists and is not empty: %s", dest).
			WithDetail(errors.DetailPath, dest)
	}

	tx := generator.NewTransaction(f.Fs)
	tx.AddTree(tree, dest)
	if err := tx.Commit(); err != nil {
		return fail(err, "failed to write project")
	}

	_ = tree.Walk(func(_ string, node *generator.RenderedNode) error {
		if node.IsDir() {
			report.Dirs++
		} else {
			report.Files++
		}
		return nil
	})
	return nil
}

func (f *Finalizer) initRepository(ctx context.Context, dest string, report *Report, log logging.Logger) {
	git := f.Git
	if git == "" {
		git = "git"
	}
	run := func(step, spin string, args ...string) error {
		cmd := exec.NewCommand(f.executor(), git).WithArgs(args...).WithDir(dest)
		if step == "commit" {
			cmd.WithEnv(f.identityEnv(ctx, git, dest)...)
		}
		if f.Spinner {
			cmd.WithSpinner(spin)
		}
		log.Debug("running git", logging.F("command", cmd.String()))
		return cmd.Run(ctx)
	}

	if !exec.Available(git) {
		err := fmt.Errorf("%w: %s", exec.ErrCommandNotFound, git)
		msg := "git is not installed; the project was not put under version control"
		log.Warn(msg, logging.F("error", err))
		report.Warnings = append(report.Warnings, warning("init", err, msg))
		return
	}

	if err := run("init", "Initializing git repository", "init", "-q"); err != nil {
		msg := "git init failed; the project was not put under version control"
		log.Warn(msg, logging.F("error", err))
		report.Warnings = append(report.Warnings, warning("init", err, msg))
		return
	}
	report.VCSInitialized = true

	if err := run("add", "Staging files", "add", "-A"); err != nil {
		msg := "git add failed; the repository was initialized but nothing was committed"
		log.Warn(msg, logging.F("error", err))
		report.Warnings = append(report.Warnings, warning("add", err, msg))
		return
	}

	if err := run("commit", "Creating initial commit", "commit", "-q", "-m", f.commitMessage()); err != nil {
		msg := "git commit failed; the repository was initialized but nothing was committed"
		log.Warn(msg, logging.F("error", err))
		report.Warnings = append(report.Warnings, warning("commit", err, msg))
		return
	}
	report.Committed = true
	log.Info("initial commit created")
}

// identityEnv supplies an author and committer when git has none configured
// for dest.
func (f *Finalizer) identityEnv(ctx context.Context, git, dest string) []string {
	probe := func(key string) string {
		out, err := exec.NewCommand(f.executor(), git).WithArgs("config", key).WithDir(dest).Output(ctx)
		if err != nil {
			return ""
		}
		return out
	}

	id := f.Identity
	if id.Name == "" {
		id.Name = DefaultIdentity.Name
	}
	if id.Email == "" {
		id.Email = DefaultIdentity.Email
	}

	var env []string
	if probe("user.name") == "" {
		env = append(env, "GIT_AUTHOR_NAME="+id.Name, "GIT_COMMITTER_NAME="+id.Name)
	}
	if probe("user.email") == "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+id.Email, "GIT_COMMITTER_EMAIL="+id.Email)
	}
	return env
}

func (f *Finalizer) commitMessage() string {
	if msg := strings.TrimSpace(f.CommitMessage); msg != "" {
		return msg
	}
	if f.Schema != nil && f.Schema.CommitMessage != "" {
		return f.Schema.CommitMessage
	}
	return "Initial commit"
}

func (f *Finalizer) executor() *exec.Executor {
	if f.Executor != nil {
		return f.Executor
	}
	return exec.NewExecutor(&exec.Options{Stdout: io.Discard, Stderr: io.Discard})
}

func (f *Finalizer) logger() logging.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return logging.NewSilentLogger()
}

func warning(step string, err error, msg string) error {
	return errors.Wrap(err, errors.ErrFinalizeWarning, msg).WithDetail(errors.DetailStep, step)
}

// String renders the report's outcome in one line.
func (r *Report) String() string {
	vcs := "no version control"
	switch {
	case r.Committed:
		vcs = "committed"
	case r.VCSInitialized:
		vcs = "initialized, not committed"
	}
	return fmt.Sprintf("%s: %d files, %d directories, %s, %d warnings", r.Destination, r.Files, r.Dirs, vcs, len(r.Warnings))
}
