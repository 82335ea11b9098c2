package finalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := loadSchema(t)

	tests := []struct {
		name      string
		overrides map[string]string
		enabled   []string
		disabled  []string
		steps     []string
	}{
		{
			name:     "defaults",
			enabled:  []string{"Docker"},
			disabled: []string{"tox"},
			steps:    []string{"cd my_package", "docker compose up", "pre-commit install"},
		},
		{
			name:      "everything toggled",
			overrides: map[string]string{"use_docker": "no", "use_tox": "yes", "use_pre_commit": "n", "project_name": "Café"},
			enabled:   []string{"tox"},
			disabled:  []string{"Docker"},
			steps:     []string{"cd cafe", "tox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Summarize(s, resolve(t, s, tt.overrides))
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, sum.Enabled)
			assert.Equal(t, tt.disabled, sum.Disabled)
			assert.Equal(t, tt.steps, sum.NextSteps)
		})
	}
}

func TestSummary_Markdown(t *testing.T) {
	assert.Empty(t, Summary{}.Markdown())

	md := Summary{NextSteps: []string{"cd my_package", "tox"}}.Markdown()
	assert.Equal(t, "## Next steps\n\n- cd my_package\n- tox\n", md)
}
