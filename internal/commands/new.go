package commands

import (
	"fmt"
	"os"

	"github.com/simonhull/hatch/finalize"
	"github.com/simonhull/hatch/generator"
	"github.com/simonhull/hatch/input"
	"github.com/simonhull/hatch/output"
	"github.com/simonhull/hatch/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewCmd creates and returns the 'new' command for generating projects
func NewCmd() *cobra.Command {
	var (
		outputDir string
		noInput   bool
		dryRun    bool
		noVCS     bool
		sets      []string
	)

	cmd := &cobra.Command{
		Use:   "new <template-dir> [key=value ...]",
		Short: "Generate a project from a template",
		Long: `Generates a project from the template in <template-dir>.

Options not given as key=value arguments or --set flags are asked for
interactively, unless --no-input is set or stdin is not a terminal, in which
case the template defaults apply. Values from default_context in the config
file are used as defaults.

Example:
  hatch new ./templates/python-package project_name="Acme Tools" use_docker=n
  hatch new ./templates/python-package --no-input --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := afero.NewOsFs()
			st, err := loadSettings(cmd, fsys)
			if err != nil {
				return err
			}

			tmpl, err := scaffold.LoadTemplate(fsys, args[0])
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Loaded template %s from %s", tmpl.Name(), tmpl.Dir))

			overrides, err := parseAssignments(append(append([]string(nil), args[1:]...), sets...))
			if err != nil {
				return err
			}

			// default_context may hold keys of other templates
			defaults := make(map[string]string)
			for key, value := range st.config.DefaultContext {
				if _, ok := tmpl.Schema.Option(key); ok {
					defaults[key] = value
				}
			}

			interactive := !noInput && !st.config.NoInput && input.IsTerminal(os.Stdin)
			if interactive {
				overrides, err = input.Ask(input.New(cmd.InOrStdin(), cmd.OutOrStdout()), tmpl.Schema, overrides, defaults)
				if err != nil {
					return err
				}
			} else {
				for key, value := range defaults {
					if _, ok := overrides[key]; !ok {
						overrides[key] = value
					}
				}
			}

			var identity finalize.Identity
			if !st.config.Git.IsZero() {
				identity = finalize.Identity{Name: st.config.Git.Name, Email: st.config.Git.Email}
				output.Verbose(fmt.Sprintf("Fallback commit identity: %s <%s>", identity.Name, identity.Email))
			}

			if outputDir == "" {
				outputDir = st.config.OutputDir
			}

			result, err := scaffold.Generate(cmd.Context(), scaffold.Request{
				Template:  tmpl,
				Overrides: overrides,
				OutputDir: outputDir,
				Fs:        fsys,
				DryRun:    dryRun,
				NoVCS:     noVCS,
				Identity:  identity,
				Spinner:   interactive,
				Logger:    st.logger,
			})
			if err != nil {
				return err
			}

			for _, key := range result.Context.Keys() {
				value, _ := result.Context.Get(key)
				output.Verbose(fmt.Sprintf("%s = %q (%s)", key, value, result.Context.Source(key)))
			}
			for _, o := range result.Outcomes {
				output.Verbose(o.String())
			}

			if dryRun {
				output.Info(fmt.Sprintf("Dry run: %s would contain %d files", result.Destination, result.Tree.CountFiles()))
				output.Tree(result.Destination, result.Tree)
				if output.IsVerbose() {
					ops := generator.PlanTree(fsys, result.Tree, result.Destination)
					return generator.Execute(cmd.Context(), ops, generator.ExecuteOptions{DryRun: true, Writer: output.Writer()})
				}
				return nil
			}

			printReport(result.Report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory the project is created in (default from config, else .)")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Do not prompt; use defaults for options not given")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the project tree without writing anything")
	cmd.Flags().BoolVar(&noVCS, "no-vcs", false, "Do not initialize a git repository")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set an option (key=value); may be repeated")

	return cmd
}

func printReport(report *finalize.Report) {
	output.Success(fmt.Sprintf("Created project: %s", report.Destination))

	for _, name := range report.Summary.Enabled {
		output.Enabled(name)
	}
	for _, name := range report.Summary.Disabled {
		output.Disabled(name)
	}

	for _, w := range report.Warnings {
		output.Warn(w.Error())
	}

	if md := report.Summary.Markdown(); md != "" {
		output.Markdown(md)
	}
}
