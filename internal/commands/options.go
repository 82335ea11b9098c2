package commands

import (
	"strings"

	"github.com/simonhull/hatch/output"
	"github.com/simonhull/hatch/schema"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// OptionsCmd creates and returns the 'options' command
func OptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options <template-dir>",
		Short: "List the options a template accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.Load(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}

			rows := [][]string{{"KEY", "KIND", "CHOICES", "DEFAULT"}}
			for _, opt := range s.Options {
				kind := opt.Kind.String()
				def := opt.Default
				switch {
				case opt.IsFlag():
					kind = "flag"
				case opt.Kind == schema.DerivedText:
					def = opt.Derive
				case opt.Format != "":
					kind += " (" + opt.Format + ")"
				}
				rows = append(rows, []string{opt.Key, kind, strings.Join(opt.Choices, ", "), def})
			}

			output.Info(s.Name)
			if s.Description != "" {
				output.Step(s.Description)
			}
			output.Table(rows)
			return nil
		},
	}
}
