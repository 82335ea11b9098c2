package scaffold

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/hatch"
	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/exec"
	"github.com/simonhull/hatch/filesystem"
	"github.com/simonhull/hatch/finalize"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/logging"
	"github.com/simonhull/hatch/options"
	"github.com/simonhull/hatch/prune"
	"github.com/simonhull/hatch/schema"
	"github.com/spf13/afero"
)

// Request describes one generation run.
type Request struct {
	Template  *Template
	Overrides map[string]string

	// Destination is the project directory. When empty, the project is
	// created below OutputDir under the name the manifest's root renders to.
	Destination string
	OutputDir   string

	// Fs receives the project; the OS filesystem when nil.
	Fs afero.Fs

	// DryRun stops after pruning. Nothing is written.
	DryRun bool
	NoVCS  bool

	Git      string
	Executor *exec.Executor
	Identity finalize.Identity
	Spinner  bool

	Logger logging.Logger
}

// GenerationResult is the outcome of a successful run.
type GenerationResult struct {
	Destination string
	Context     *options.Context
	Tree        *generator.RenderedNode
	Outcomes    []prune.RuleOutcome
	// Dropped lists directories removed because their name rendered empty.
	Dropped []string
	// Report is nil for dry runs.
	Report *finalize.Report
	// Warnings holds FinalizeWarning errors; generation still succeeded.
	Warnings []error
}

// Generate resolves the options, renders and prunes the template and, unless
// DryRun is set, writes the project and commits it.
func Generate(ctx context.Context, req Request) (*GenerationResult, error) {
	if err := req.Template.validate(); err != nil {
		return nil, err
	}
	tmpl := req.Template
	s := tmpl.Schema

	logger := req.Logger
	if logger == nil {
		logger = logging.NewSilentLogger()
	}
	log := logging.Component(logger, "scaffold").WithFields(logging.F("template", s.Name))

	fsys := req.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if err := schema.CheckCompatible(s, hatch.Version); err != nil {
		return nil, err
	}

	optCtx, err := options.Resolve(s, req.Overrides)
	if err != nil {
		return nil, err
	}
	log.Debug("options resolved", logging.F("options", optCtx.Strings()), logging.F("digest", string(optCtx.Digest())))
	data := optCtx.Data()

	dest, err := destination(tmpl, req, data)
	if err != nil {
		return nil, err
	}
	log = log.WithFields(logging.F("destination", dest))

	if empty, err := filesystem.IsEmptyDir(fsys, dest); err != nil {
		return nil, errors.Wrap(err, errors.ErrMaterializeFailed, "cannot inspect destination").
			WithDetail(errors.DetailPath, dest)
	} else if !empty {
		return nil, errors.Newf(errors.ErrDestinationConflict, "destination already exists and is not empty: %s", dest).
			WithDetail(errors.DetailPath, dest)
	}

	rendered, err := tmpl.renderer.Render(tmpl.Tree, data)
	if err != nil {
		return nil, err
	}

	pruned, err := prune.Prune(rendered, optCtx, s.Prune)
	if err != nil {
		return nil, err
	}
	log.Debug("pruned", logging.F("removed", pruned.Removed()), logging.F("dropped", pruned.Dropped))

	result := &GenerationResult{
		Destination: dest,
		Context:     optCtx,
		Tree:        pruned.Tree,
		Outcomes:    pruned.Outcomes,
		Dropped:     pruned.Dropped,
	}
	if req.DryRun {
		log.Info("dry run complete", logging.F("files", pruned.Tree.CountFiles()))
		return result, nil
	}

	executor := req.Executor
	if executor == nil {
		executor = exec.NewExecutor(&exec.Options{Stdout: io.Discard, Stderr: io.Discard})
	}
	fin := &finalize.Finalizer{
		Fs:       fsys,
		Executor: executor,
		Git:      req.Git,
		NoVCS:    req.NoVCS,
		Identity: req.Identity,
		Spinner:  req.Spinner,
		Schema:   s,
		Env:      optCtx,
		Logger:   logger,
	}
	report, err := fin.Finalize(ctx, pruned.Tree, dest)
	if err != nil {
		return nil, err
	}
	result.Report = report
	result.Warnings = report.Warnings

	log.Info("project generated", logging.F("files", report.Files), logging.F("warnings", len(report.Warnings)))
	return result, nil
}

// destination picks the project directory for req.
func destination(tmpl *Template, req Request, data map[string]any) (string, error) {
	if req.Destination != "" {
		return filepath.Clean(req.Destination), nil
	}

	name, err := tmpl.renderer.RenderString("root", tmpl.Schema.Root, data)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Newf(errors.ErrInvalidPath, "project directory name %q is not a single path segment", name).
			WithDetail(errors.DetailPath, name)
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return filepath.Join(outputDir, name), nil
}
