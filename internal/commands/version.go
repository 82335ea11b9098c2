package commands

import (
	"fmt"

	"github.com/simonhull/hatch"
	"github.com/spf13/cobra"
)

// VersionCmd creates and returns the 'version' command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hatch version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hatch %s\n", hatch.Version)
		},
	}
}
