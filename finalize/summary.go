package finalize

import (
	"fmt"
	"strings"

	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/prune"
	"github.com/simonhull/hatch/schema"
)

// Summary tells the user what was generated and what to do next.
type Summary struct {
	// Enabled and Disabled name the optional subsystems, from the summary
	// of each flag option, in declaration order.
	Enabled  []string
	Disabled []string
	// NextSteps are the rendered next_steps whose predicates hold.
	NextSteps []string
}

var steps = generator.NewRenderer()

// Summarize builds the summary for a resolved context.
func Summarize(s *schema.Schema, env prune.Env) (Summary, error) {
	var sum Summary
	for _, opt := range s.Flags() {
		if opt.Summary == "" {
			continue
		}
		if enabled, _ := env.Flag(opt.Key); enabled {
			sum.Enabled = append(sum.Enabled, opt.Summary)
		} else {
			sum.Disabled = append(sum.Disabled, opt.Summary)
		}
	}

	data := env.Data()
	for i, step := range s.NextSteps {
		if !step.When.IsZero() {
			ok, err := step.When.Eval(env)
			if err != nil {
				return sum, err
			}
			if !ok {
				continue
			}
		}
		text, err := steps.RenderString(fmt.Sprintf("next_steps[%d]", i), step.Text, data)
		if err != nil {
			return sum, err
		}
		if text = strings.TrimSpace(text); text != "" {
			sum.NextSteps = append(sum.NextSteps, text)
		}
	}
	return sum, nil
}

// Markdown renders the next steps as a markdown list under a heading.
// It returns "" when there are none.
func (s Summary) Markdown() string {
	if len(s.NextSteps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Next steps\n\n")
	for _, step := range s.NextSteps {
		b.WriteString("- " + step + "\n")
	}
	return b.String()
}
