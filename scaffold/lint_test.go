package scaffold

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_CleanTemplate(t *testing.T) {
	report, err := Lint(loadTestTemplate(t))
	require.NoError(t, err)

	assert.Empty(t, report.DeadRules)
	assert.Equal(t, []string{"tox.ini"}, report.Removed)
	assert.Equal(t, 12, report.Files)
}

func TestLint_DeadRule(t *testing.T) {
	fsys := afero.NewMemMapFs()
	manifest := `
name: demo
options:
  - key: project_slug
    default: demo
  - key: use_ci
    choices: ["y", "n"]
prune:
  - path: .gitlab-ci.yml
    when: use_ci
  - path: README.md
    when: use_ci
`
	require.NoError(t, afero.WriteFile(fsys, "/tpl/hatch.yml", []byte(manifest), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/tpl/template/README.md", []byte("# {{ .project_slug }}\n"), 0644))

	tmpl, err := LoadTemplate(fsys, "/tpl")
	require.NoError(t, err)

	report, err := Lint(tmpl)
	require.NoError(t, err)

	require.Len(t, report.DeadRules, 1)
	assert.Equal(t, ".gitlab-ci.yml", report.DeadRules[0].Target)
	assert.Contains(t, report.DeadRules[0].String(), "does not exist")
	assert.Equal(t, 1, report.Files)
}
