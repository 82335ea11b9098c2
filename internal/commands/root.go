package commands

import (
	"github.com/simonhull/hatch"
	"github.com/simonhull/hatch/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var verbose int

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Generate projects from conditional templates",
		Long: `Hatch renders a template directory into a ready-to-use project.

A template declares its options in hatch.yml. Hatch resolves them from your
answers, renders every file and directory name, removes the parts belonging
to features you turned off and commits the result to a fresh git repository.

Example:
  hatch new ./templates/python-package project_name="Acme Tools" use_docker=n`,
		Version:       hatch.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetWriter(cmd.OutOrStdout())
			output.SetVerbose(verbose > 0)
		},
	}

	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/hatch/config.yaml)")

	return cmd
}

// Register adds every hatch subcommand to root.
func Register(root *cobra.Command) {
	root.AddCommand(NewCmd())
	root.AddCommand(OptionsCmd())
	root.AddCommand(LintCmd())
	root.AddCommand(VersionCmd())
}
