package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFs fails any file open whose path contains failOn.
type failingFs struct {
	afero.Fs
	failOn string
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(name, f.failOn) {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestTransaction_Success(t *testing.T) {
	fs := afero.NewMemMapFs()

	tx := NewTransaction(fs)
	tx.AddFile("/out/file1.txt", []byte("content1"), 0644)
	tx.AddFile("/out/nested/file2.txt", []byte("content2"), 0600)
	require.NoError(t, tx.Commit())

	content, err := afero.ReadFile(fs, "/out/file1.txt")
	require.NoError(t, err)
	assert.Equal(t, "content1", string(content))

	info, err := fs.Stat("/out/nested/file2.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTransaction_AddTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	dest := filepath.Join("/work", "demo")

	tx := NewTransaction(fs)
	tx.AddTree(sampleTree(), dest)
	assert.Equal(t, 6, tx.Len())
	require.NoError(t, tx.Commit())

	for _, rel := range []string{"README.md", ".github/workflows/ci.yml", "tox.ini"} {
		exists, err := afero.Exists(fs, filepath.Join(dest, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.True(t, exists, rel)
	}
}

func TestTransaction_EmptyDirectoriesAreCreated(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := &RenderedNode{Kind: KindDir, Children: []*RenderedNode{
		{Kind: KindDir, Name: "data", Children: []*RenderedNode{}},
	}}

	tx := NewTransaction(fs)
	tx.AddTree(tree, "/out")
	require.NoError(t, tx.Commit())

	isDir, err := afero.IsDir(fs, "/out/data")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestTransaction_RollbackOnError(t *testing.T) {
	fs := &failingFs{Fs: afero.NewMemMapFs(), failOn: "tox.ini"}

	tx := NewTransaction(fs)
	tx.AddTree(sampleTree(), "/out/demo")

	err := tx.Commit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tox.ini")

	// Files and directories created before the failure are gone,
	// but the pre-existing parent chain is only removed if we made it
	for _, p := range []string{"/out/demo/README.md", "/out/demo/.github", "/out/demo", "/out"} {
		exists, _ := afero.Exists(fs, p)
		assert.False(t, exists, "%s should have been rolled back", p)
	}
}

func TestTransaction_RollbackKeepsExistingDirectories(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/existing", 0755))
	fs := &failingFs{Fs: mem, failOn: "bad"}

	tx := NewTransaction(fs)
	tx.AddFile("/existing/demo/good.txt", []byte("ok"), 0644)
	tx.AddFile("/existing/demo/bad.txt", []byte("no"), 0644)
	require.Error(t, tx.Commit())

	exists, _ := afero.Exists(mem, "/existing/demo")
	assert.False(t, exists)
	exists, _ = afero.Exists(mem, "/existing")
	assert.True(t, exists)
}

func TestTransaction_CannotCommitTwice(t *testing.T) {
	tx := NewTransaction(afero.NewMemMapFs())
	tx.AddFile("/file1.txt", []byte("content1"), 0644)

	require.NoError(t, tx.Commit())
	assert.Error(t, tx.Commit())
}
