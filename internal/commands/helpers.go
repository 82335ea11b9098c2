package commands

import (
	"fmt"
	"strings"

	"github.com/simonhull/hatch/config"
	"github.com/simonhull/hatch/errors"
	"github.com/simonhull/hatch/logging"
	"github.com/simonhull/hatch/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// settings are the values every subcommand derives from global flags
type settings struct {
	config *config.Config
	logger logging.Logger
}

func loadSettings(cmd *cobra.Command, fsys afero.Fs) (*settings, error) {
	verbose, _ := cmd.Flags().GetCount("verbose")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(fsys, configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(verbose, cmd.ErrOrStderr())
	if cfg.Path != "" {
		logger.Debug("config loaded", logging.F("path", cfg.Path))
	}
	return &settings{config: cfg, logger: logger}, nil
}

// parseAssignments splits key=value arguments.
func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", arg)
		}
		out[key] = value
	}
	return out, nil
}

// PrintError prints err with the details carried by coded errors.
func PrintError(err error) {
	e, ok := errors.As(err)
	if !ok {
		output.Error(err.Error())
		return
	}

	msg := e.Message
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	output.Error(msg)
	for _, key := range e.DetailKeys() {
		if v := e.Detail(key); v != "" {
			output.Step(fmt.Sprintf("%s: %s", key, v))
		}
	}
}
