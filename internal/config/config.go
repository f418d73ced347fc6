// Package config loads the storage layer's configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the storage layer's tunables.
type Config struct {
	// DataDir is the directory holding one database file per tenant.
	DataDir string `yaml:"data_dir"`

	// PageSize is the default timeline page length when a caller
	// doesn't pass a limit.
	PageSize int `yaml:"page_size"`

	// RetentionHorizon is how many entries per timeline survive a
	// cleanup pass. Thread timelines are exempt.
	RetentionHorizon int `yaml:"retention_horizon"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:          "data",
		PageSize:         20,
		RetentionHorizon: 1000,
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.PageSize == 0 {
		c.PageSize = def.PageSize
	}
	if c.RetentionHorizon == 0 {
		c.RetentionHorizon = def.RetentionHorizon
	}
}

func (c *Config) validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RetentionHorizon < 0 {
		return fmt.Errorf("retention_horizon must be positive, got %d", c.RetentionHorizon)
	}
	return nil
}
