// Package config defines the docweave configuration and its loading rules.
package config

import "runtime"

// Config represents the complete docweave configuration.
// It can be loaded from .docweave/config.yml with environment variable
// overrides.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to document and which to ignore.
type PathsConfig struct {
	Sources []string `yaml:"sources" mapstructure:"sources"` // glob patterns for PHP sources
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// ScanConfig controls the structural scanner and doc resolution.
type ScanConfig struct {
	Defines     bool `yaml:"defines" mapstructure:"defines"`         // recognize define() declarations
	Concurrency int  `yaml:"concurrency" mapstructure:"concurrency"` // parallel unit scans, 0 = NumCPU
}

// OutputConfig defines where generated documentation lands.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`                   // output directory for Markdown
	SearchIndex bool   `yaml:"search_index" mapstructure:"search_index"` // build the bleve search index
	Database    string `yaml:"database" mapstructure:"database"`         // SQLite scan database, relative to Dir
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Sources: []string{"**/*.php"},
			Ignore: []string{
				"vendor/**",
				".git/**",
				"node_modules/**",
				"tests/fixtures/**",
			},
		},
		Scan: ScanConfig{
			Defines:     true,
			Concurrency: 0,
		},
		Output: OutputConfig{
			Dir:         "docs/api",
			SearchIndex: true,
			Database:    "docweave.db",
		},
	}
}

// EffectiveConcurrency resolves the configured concurrency, defaulting to
// the machine's CPU count.
func (c *Config) EffectiveConcurrency() int {
	if c.Scan.Concurrency > 0 {
		return c.Scan.Concurrency
	}
	return runtime.NumCPU()
}
