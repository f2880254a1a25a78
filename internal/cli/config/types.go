// Package config loads csvcollect configuration.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// config file, CSVCOLLECT_* environment variables, and explicitly set
// command-line flags. Positional arguments are applied by the commands on top.
package config

import (
	"time"

	"github.com/leapstack-labs/csvcollect/internal/collector"
)

// Config holds all CLI configuration options.
type Config struct {
	SourceDir    string        `koanf:"source_dir"`
	TargetDir    string        `koanf:"target_dir"`
	Mode         string        `koanf:"mode"`
	OnConflict   string        `koanf:"on_conflict"`
	CreateTarget bool          `koanf:"create_target"`
	Manifest     string        `koanf:"manifest"`
	StatePath    string        `koanf:"state_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Debounce     time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultStateFile = ".csvcollect/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultMode      = string(collector.ModeMove)
	DefaultConflict  = string(collector.ConflictOverwrite)
	EnvPrefix        = "CSVCOLLECT_"
)

// ConfigFileNames are searched, in order, when --config is not given.
var ConfigFileNames = []string{"csvcollect.yaml", "csvcollect.yml"}

// pathKeys are config keys holding filesystem paths.
var pathKeys = []string{"source_dir", "target_dir", "state_path"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Mode:         DefaultMode,
		OnConflict:   DefaultConflict,
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		Debounce:     collector.DefaultDebounce,
	}
}

// StateEnabled reports whether runs should be journaled.
func (c *Config) StateEnabled() bool {
	return c.StatePath != ""
}

// CollectorOptions converts the config into collector options.
func (c *Config) CollectorOptions() (collector.Options, error) {
	mode, err := collector.ParseMode(c.Mode)
	if err != nil {
		return collector.Options{}, err
	}
	policy, err := collector.ParseConflictPolicy(c.OnConflict)
	if err != nil {
		return collector.Options{}, err
	}
	return collector.Options{
		SourceDir:    c.SourceDir,
		TargetDir:    c.TargetDir,
		Mode:         mode,
		OnConflict:   policy,
		CreateTarget: c.CreateTarget,
	}, nil
}
