// Package config loads per-document and CLI-level settings.
//
// DocumentConfig is a small yaml-tagged struct read directly off disk, the
// way the teacher reads its project-local settings: no framework, just
// yaml.v3 into a struct, with env var overrides applied by hand. CLI-level
// config (search path across cwd and home directory, layered env var
// overrides) goes through a viper instance instead, mirroring the
// richer config surface the teacher's CLI exposes for its own settings.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DocumentConfig is the subset of document.yaml fields that govern core
// behavior: whether direct (non-transactional) mutation is permitted, what
// node type new text defaults to, and where snapshots are written.
type DocumentConfig struct {
	ForceTransactions bool   `yaml:"force-transactions" mapstructure:"force-transactions"`
	DefaultTextType   string `yaml:"default-text-type" mapstructure:"default-text-type"`
	SnapshotDir       string `yaml:"snapshot-dir" mapstructure:"snapshot-dir"`
}

// LoadDocumentConfig reads document.yaml from dir. It returns a zero-value
// DocumentConfig (not nil, not an error) if the file is absent or
// unparseable, matching the forgiving load behavior of the teacher's own
// local config reader: config that can't be read just falls back to
// defaults rather than blocking startup.
func LoadDocumentConfig(dir string) *DocumentConfig {
	path := filepath.Join(dir, "document.yaml")
	data, err := os.ReadFile(path) // #nosec G304 - path from caller-supplied dir
	if err != nil {
		return &DocumentConfig{}
	}

	var cfg DocumentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &DocumentConfig{}
	}
	return &cfg
}

// LoadDocumentConfigWithEnv layers SUBSTANCE_* environment variables on top
// of LoadDocumentConfig, env taking precedence over the file.
func LoadDocumentConfigWithEnv(dir string) *DocumentConfig {
	cfg := LoadDocumentConfig(dir)

	if v := os.Getenv("SUBSTANCE_FORCE_TRANSACTIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ForceTransactions = b
		}
	}
	if v := os.Getenv("SUBSTANCE_DEFAULT_TEXT_TYPE"); v != "" {
		cfg.DefaultTextType = v
	}
	if v := os.Getenv("SUBSTANCE_SNAPSHOT_DIR"); v != "" {
		cfg.SnapshotDir = v
	}
	return cfg
}

// CLIConfig is the richer configuration surface used by docctl: it adds
// display preferences on top of the per-document settings.
type CLIConfig struct {
	DocumentConfig `mapstructure:",squash"`
	NoColor        bool `mapstructure:"no-color"`
}

// LoadCLIConfig builds a viper instance that reads config.toml from the
// current directory (falling back to $HOME/.substance/config.toml), with
// SUBSTANCE_* environment variables overriding file values, the same
// layering order the teacher's CLI uses for its own settings.
func LoadCLIConfig() (*CLIConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".substance"))
	}

	v.SetEnvPrefix("SUBSTANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("force-transactions", false)
	v.SetDefault("default-text-type", "paragraph")
	v.SetDefault("snapshot-dir", ".")
	v.SetDefault("no-color", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
