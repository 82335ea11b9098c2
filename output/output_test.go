package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/simonhull/hatch/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects output during f
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(func() { SetWriter(nil) })
	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		print  func(string)
		marker string
	}{
		{"success", Success, "✓"},
		{"error", Error, "✗"},
		{"warn", Warn, "!"},
		{"info", Info, "•"},
		{"enabled", Enabled, "✓"},
		{"disabled", Disabled, "✗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, func() { tt.print("Test message") })
			assert.Contains(t, out, tt.marker)
			assert.Contains(t, out, "Test message")
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestStep(t *testing.T) {
	out := captureOutput(t, func() { Step("cd my_package") })
	assert.Contains(t, out, "cd my_package")
}

func TestVerbose(t *testing.T) {
	out := captureOutput(t, func() { Verbose("hidden") })
	assert.Empty(t, out)

	SetVerbose(true)
	defer SetVerbose(false)
	out = captureOutput(t, func() { Verbose("shown") })
	assert.Contains(t, out, "shown")
}

func TestTreeString(t *testing.T) {
	tree := &generator.RenderedNode{Kind: generator.KindDir, Children: []*generator.RenderedNode{
		{Kind: generator.KindFile, Name: "README.md"},
		{Kind: generator.KindDir, Name: "src", Children: []*generator.RenderedNode{
			{Kind: generator.KindFile, Name: "main.py"},
		}},
	}}

	s, err := TreeString("my_package", tree)
	require.NoError(t, err)
	for _, want := range []string{"my_package", "README.md", "src/", "main.py"} {
		assert.Contains(t, s, want)
	}
	assert.Less(t, strings.Index(s, "src/"), strings.Index(s, "main.py"))

	out := captureOutput(t, func() { Tree("my_package", tree) })
	assert.Contains(t, out, "main.py")
}

func TestMarkdown_PlainWhenNotTerminal(t *testing.T) {
	md := "## Next steps\n\n- cd my_package\n"
	out := captureOutput(t, func() { Markdown(md) })
	assert.Equal(t, strings.TrimRight(md, "\n")+"\n", out)
}

func TestTable(t *testing.T) {
	rows := [][]string{
		{"KEY", "KIND", "DEFAULT"},
		{"project_name", "text", "My Package"},
		{"use_docker", "flag", "y"},
	}

	s, err := TableString(rows)
	require.NoError(t, err)
	for _, want := range []string{"KEY", "project_name", "My Package", "use_docker"} {
		assert.Contains(t, s, want)
	}

	out := captureOutput(t, func() { Table(rows) })
	assert.Contains(t, out, "use_docker")
}
