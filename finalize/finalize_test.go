package finalize

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/simonhull/hatch/errors"
	hatchexec "github.com/simonhull/hatch/exec"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/options"
	"github.com/simonhull/hatch/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
name: python-package
commit_message: Initial commit from python-package
options:
  - key: project_name
    default: My Package
  - key: project_slug
    derive: "{{ slugify .project_name }}"
  - key: use_docker
    choices: [y, n]
    summary: Docker
  - key: use_tox
    choices: ["n", "y"]
    summary: tox
  - key: use_pre_commit
    choices: [y, n]
next_steps:
  - text: cd {{ .project_slug }}
  - text: docker compose up
    when: use_docker
  - text: tox
    when: use_tox
  - text: "{{ if .use_pre_commit }}pre-commit install{{ end }}"
`

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(manifest), schema.YAML)
	require.NoError(t, err)
	return s
}

func resolve(t *testing.T, s *schema.Schema, overrides map[string]string) *options.Context {
	t.Helper()
	ctx, err := options.Resolve(s, overrides)
	require.NoError(t, err)
	return ctx
}

func sampleTree() *generator.RenderedNode {
	return &generator.RenderedNode{Kind: generator.KindDir, Children: []*generator.RenderedNode{
		{Kind: generator.KindFile, Name: "README.md", Content: []byte("# My Package\n"), Mode: 0644},
		{Kind: generator.KindDir, Name: "src", Children: []*generator.RenderedNode{
			{Kind: generator.KindFile, Name: "main.py", Content: []byte("print()\n"), Mode: 0755},
		}},
		{Kind: generator.KindDir, Name: "docs"},
	}}
}

// fakeGit writes a shell script standing in for git. Each invocation is
// appended to the returned log file.
func fakeGit(t *testing.T, failCommit bool) (bin, logFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake git is a shell script")
	}

	dir := t.TempDir()
	logFile = filepath.Join(dir, "git.log")
	commit := `echo "author=$GIT_AUTHOR_NAME <$GIT_AUTHOR_EMAIL>" >> "` + logFile + `"`
	if failCommit {
		commit = `echo "fatal: unable to commit" >&2; exit 1`
	}

	script := `#!/bin/sh
echo "$@" >> "` + logFile + `"
case "$1" in
  init) mkdir -p .git ;;
  config) exit 1 ;;
  commit) ` + commit + ` ;;
esac
`
	bin = filepath.Join(dir, "git")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin, logFile
}

func TestFinalize_NoVCS(t *testing.T) {
	fsys := afero.NewMemMapFs()
	f := &Finalizer{Fs: fsys, NoVCS: true}

	report, err := f.Finalize(context.Background(), sampleTree(), "/out/my_package")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 2, report.Dirs)
	assert.False(t, report.VCSInitialized)
	assert.Empty(t, report.Warnings)

	content, err := afero.ReadFile(fsys, "/out/my_package/README.md")
	require.NoError(t, err)
	assert.Equal(t, "# My Package\n", string(content))

	info, err := fsys.Stat("/out/my_package/src/main.py")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	info, err = fsys.Stat("/out/my_package/docs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Contains(t, report.String(), "2 files, 2 directories, no version control")
}

func TestFinalize_DestinationConflict(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/out/my_package/keep.txt", []byte("mine"), 0644))

	f := &Finalizer{Fs: fsys, NoVCS: true}
	_, err := f.Finalize(context.Background(), sampleTree(), "/out/my_package")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationConflict))

	content, err := afero.ReadFile(fsys, "/out/my_package/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
	exists, _ := afero.Exists(fsys, "/out/my_package/README.md")
	assert.False(t, exists)
}

func TestFinalize_EmptyDestinationIsFine(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/out/my_package", 0755))

	f := &Finalizer{Fs: fsys, NoVCS: true}
	_, err := f.Finalize(context.Background(), sampleTree(), "/out/my_package")
	assert.NoError(t, err)
}

// failingFs fails every file open whose name contains match
type failingFs struct {
	afero.Fs
	match string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(name, f.match) {
		return nil, os.ErrPermission
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestFinalize_MaterializeFailedRollsBack(t *testing.T) {
	mem := afero.NewMemMapFs()
	f := &Finalizer{Fs: failingFs{Fs: mem, match: "main.py"}, NoVCS: true}

	_, err := f.Finalize(context.Background(), sampleTree(), "/out/my_package")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMaterializeFailed))

	exists, _ := afero.Exists(mem, "/out/my_package")
	assert.False(t, exists, "partial project removed")
}

func TestFinalize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := afero.NewMemMapFs()
	f := &Finalizer{Fs: fsys, NoVCS: true}
	_, err := f.Finalize(ctx, sampleTree(), "/out/my_package")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMaterializeFailed))

	exists, _ := afero.Exists(fsys, "/out/my_package")
	assert.False(t, exists)
}

func TestFinalize_GitMissing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "my_package")
	f := &Finalizer{Fs: afero.NewOsFs(), Git: "hatch-test-no-such-git"}

	report, err := f.Finalize(context.Background(), sampleTree(), dest)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	e, ok := errors.As(report.Warnings[0])
	require.True(t, ok)
	assert.Equal(t, errors.ErrFinalizeWarning, e.Code)
	assert.False(t, e.Fatal())
	assert.Equal(t, "init", e.Detail(errors.DetailStep))
	assert.Contains(t, e.Message, "not installed")
	assert.ErrorIs(t, report.Warnings[0], hatchexec.ErrCommandNotFound)

	assert.False(t, report.VCSInitialized)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestFinalize_FakeGitCommits(t *testing.T) {
	bin, logFile := fakeGit(t, false)
	dest := filepath.Join(t.TempDir(), "my_package")

	s := loadSchema(t)
	f := &Finalizer{
		Fs:       afero.NewOsFs(),
		Git:      bin,
		Identity: Identity{Name: "Ada Lovelace"},
		Schema:   s,
		Env:      resolve(t, s, nil),
	}

	report, err := f.Finalize(context.Background(), sampleTree(), dest)
	require.NoError(t, err)

	assert.Empty(t, report.Warnings)
	assert.True(t, report.VCSInitialized)
	assert.True(t, report.Committed)
	assert.DirExists(t, filepath.Join(dest, ".git"))

	log, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"init -q",
		"add -A",
		"config user.name",
		"config user.email",
		"commit -q -m Initial commit from python-package",
		"author=Ada Lovelace <hatch@localhost>",
	}, strings.Split(strings.TrimSpace(string(log)), "\n"))

	assert.Equal(t, []string{"Docker"}, report.Summary.Enabled)
	assert.Equal(t, []string{"tox"}, report.Summary.Disabled)
}

func TestFinalize_CommitFailureLeavesRepository(t *testing.T) {
	bin, _ := fakeGit(t, true)
	dest := filepath.Join(t.TempDir(), "my_package")
	f := &Finalizer{Fs: afero.NewOsFs(), Git: bin}

	report, err := f.Finalize(context.Background(), sampleTree(), dest)
	require.NoError(t, err)

	assert.True(t, report.VCSInitialized)
	assert.False(t, report.Committed)
	assert.DirExists(t, filepath.Join(dest, ".git"))

	require.Len(t, report.Warnings, 1)
	e, ok := errors.As(report.Warnings[0])
	require.True(t, ok)
	assert.Equal(t, "commit", e.Detail(errors.DetailStep))
	assert.Contains(t, e.Error(), "initialized but nothing was committed")
	assert.Contains(t, e.Error(), "unable to commit")
	assert.Contains(t, report.String(), "initialized, not committed")
}

func TestFinalize_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dest := filepath.Join(t.TempDir(), "my_package")
	f := &Finalizer{Fs: afero.NewOsFs(), CommitMessage: "Initial commit"}

	report, err := f.Finalize(context.Background(), sampleTree(), dest)
	require.NoError(t, err)
	require.Empty(t, report.Warnings)
	assert.True(t, report.Committed)

	out, err := exec.Command("git", "-C", dest, "log", "--format=%s|%an").Output()
	require.NoError(t, err)
	assert.Equal(t, "Initial commit|hatch", strings.TrimSpace(string(out)))

	out, err = exec.Command("git", "-C", dest, "ls-files").Output()
	require.NoError(t, err)
	assert.Equal(t, "README.md\nsrc/main.py", strings.TrimSpace(string(out)))
}
