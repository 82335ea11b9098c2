// Package config loads the user's hatch configuration.
//
// Settings come from a YAML file (by default $XDG_CONFIG_HOME/hatch/config.yaml)
// and from HATCH_* environment variables, which take precedence:
//
//	default_context:
//	  full_name: Ada Lovelace
//	  license: BSD-3-Clause
//	no_input: false
//	output_dir: ~/src
//	git:
//	  name: Ada Lovelace
//	  email: ada@example.com
//
// Option keys under default_context are case-insensitive; they are read
// back lowercased.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	dirName   = "hatch"
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "HATCH"
)

// Config is the user configuration.
type Config struct {
	// DefaultContext supplies option values beneath command line overrides.
	DefaultContext map[string]string
	NoInput        bool
	OutputDir      string
	Git            GitIdentity

	// Path is the file the configuration was read from, if any.
	Path string
}

// GitIdentity is used for the initial commit when the host has no identity.
type GitIdentity struct {
	Name  string
	Email string
}

// IsZero reports whether no identity is configured.
func (g GitIdentity) IsZero() bool {
	return g.Name == "" && g.Email == ""
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, dirName, fileName+"."+fileType)
}

// Load reads the configuration from path, or from DefaultPath when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error.
func Load(fsys afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output_dir", ".")
	v.SetDefault("no_input", false)
	v.SetDefault("git.name", "")
	v.SetDefault("git.email", "")

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := &Config{}
	if _, err := fsys.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		cfg.Path = path
	} else if explicit || !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.DefaultContext = v.GetStringMapString("default_context")
	cfg.NoInput = v.GetBool("no_input")
	cfg.OutputDir = expandHome(v.GetString("output_dir"))
	cfg.Git = GitIdentity{
		Name:  v.GetString("git.name"),
		Email: v.GetString("git.email"),
	}

	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	return filepath.Join(xdg.Home, strings.TrimPrefix(p, "~"))
}
