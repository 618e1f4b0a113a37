package config

import "fmt"

// Validate checks a loaded configuration for values the pipeline cannot
// work with.
func Validate(cfg *Config) error {
	if len(cfg.Paths.Sources) == 0 {
		return fmt.Errorf("paths.sources must contain at least one pattern")
	}
	if cfg.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must be >= 0, got %d", cfg.Scan.Concurrency)
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Output.Database == "" {
		return fmt.Errorf("output.database must not be empty")
	}
	return nil
}
