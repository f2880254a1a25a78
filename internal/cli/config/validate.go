package config

import (
	"fmt"

	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/collector"
)

// Validate checks values that do not depend on the filesystem. Directory
// checks happen in the collector so that they run right before a pass.
func (c *Config) Validate() error {
	if _, err := collector.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := collector.ParseConflictPolicy(c.OnConflict); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return fmt.Errorf("%w: %w", collector.ErrConfiguration, err)
	}
	if c.Manifest != "" {
		if err := collector.ValidateManifestName(c.Manifest); err != nil {
			return err
		}
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", collector.ErrConfiguration)
	}
	return nil
}

// RequireDirs checks that both roots are set.
func (c *Config) RequireDirs() error {
	if c.SourceDir == "" {
		return fmt.Errorf("%w: source directory is required\nHint: pass it as the first argument, use --source-dir, or set source_dir in csvcollect.yaml", collector.ErrConfiguration)
	}
	if c.TargetDir == "" {
		return fmt.Errorf("%w: target directory is required\nHint: pass it as the second argument, use --target-dir, or set target_dir in csvcollect.yaml", collector.ErrConfiguration)
	}
	return nil
}
