package commands

import (
	"fmt"

	"github.com/simonhull/hatch/output"
	"github.com/simonhull/hatch/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// LintCmd creates and returns the 'lint' command
func LintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <template-dir>",
		Short: "Check a template for errors and dead prune rules",
		Long: `Validates the manifest, renders and prunes the template with its
default options and reports prune rules whose targets do not exist.

Dead rules are warnings unless --strict is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := scaffold.LoadTemplate(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}

			report, err := scaffold.Lint(tmpl)
			if err != nil {
				return err
			}

			for _, d := range report.DeadRules {
				output.Warn(d.String())
			}
			for _, p := range report.Removed {
				output.Verbose("default options remove " + p)
			}

			if strict && len(report.DeadRules) > 0 {
				return fmt.Errorf("%d dead prune rules", len(report.DeadRules))
			}
			output.Success(fmt.Sprintf("%s: %d files with default options, %d dead rules", tmpl.Name(), report.Files, len(report.DeadRules)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when dead prune rules are found")

	return cmd
}
