package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// CatalogConfig selects the package catalog backend and where it lives.
// Kind is one of "portageq", "toml", or "sqlite"; Path locates the snapshot
// for the latter two, and Root is the tree root handed to portageq.
type CatalogConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
	Root string `mapstructure:"root"`
}

// Config holds all runtime configuration for a pkgtune run.
// Values are populated from .pkgtune.yaml, PKGTUNE_* env vars, and CLI flags.
type Config struct {
	ConfigRoot   string        `mapstructure:"config_root"`
	EnvDir       string        `mapstructure:"env_dir"`
	PortageqPath string        `mapstructure:"portageq_path"`
	Verbose      bool          `mapstructure:"verbose"`
	Catalog      CatalogConfig `mapstructure:"catalog"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("config_root", "/etc/portage")
	viper.SetDefault("env_dir", "/etc/portage/env")
	viper.SetDefault("portageq_path", "portageq")
	viper.SetDefault("verbose", false)
	viper.SetDefault("catalog.kind", "portageq")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.root", "/")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
