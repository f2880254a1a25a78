package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/csvcollect/internal/cli/config"
	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, _ := output.ParseMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// applyDirArgs lets positional arguments override the configured roots.
func applyDirArgs(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		cfg.SourceDir = abs
	}
	if len(args) > 1 {
		abs, err := filepath.Abs(args[1])
		if err != nil {
			return err
		}
		cfg.TargetDir = abs
	}
	return cfg.RequireDirs()
}

// openStore opens the run journal, or returns nil when journaling is disabled.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if !cfg.StateEnabled() {
		return nil, nil
	}
	store, err := state.OpenSQLiteStore(cfg.StatePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run journal %s: %w", cfg.StatePath, err)
	}
	return store, nil
}

// errJournalDisabled is returned by commands that need the journal.
var errJournalDisabled = errors.New("run journal is disabled\nHint: set state_path in csvcollect.yaml or pass --state")

// getConfig returns the configuration loaded by the root command, or the
// defaults when a command runs without it.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
