package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/state"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show journaled collection runs",
		Long: `List recent collection runs from the run journal, newest first.

Pass a run ID (or a unique prefix of one) to see what happened to every
company folder in that run.`,
		Example: `  # Recent runs
  csvcollect history

  # One run in detail
  csvcollect history 3f2a9c1e

  # Everything, as JSON
  csvcollect history --limit 0 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if len(args) == 1 {
				return runHistoryDetail(cmd, args[0])
			}
			return runHistoryList(cmd, limit)
		},
	}

	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum runs to show (0 for all)")

	return cmd
}

// openHistoryStore returns nil without error when no journal has been written yet.
func openHistoryStore(cc *CommandContext) (*state.SQLiteStore, error) {
	if !cc.Cfg.StateEnabled() {
		return nil, errJournalDisabled
	}
	if _, err := os.Stat(cc.Cfg.StatePath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return openStore(cc.Cfg, cc.Logger)
}

func runHistoryList(cmd *cobra.Command, limit int) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	store, err := openHistoryStore(cc)
	if err != nil {
		return err
	}
	var runs []*state.Run
	if store != nil {
		defer func() { _ = store.Close() }()
		runs, err = store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.HistoryOutput{Runs: make([]output.RunInfo, 0, len(runs))}
		for _, run := range runs {
			out.Runs = append(out.Runs, runInfo(run))
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "History"))
		r.Println("")
	default:
		r.Header(1, "History")
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			r.ID(shortID(run.ID)),
			run.StartedAt.Local().Format(time.DateTime),
			run.Mode,
			string(run.Status),
			itoa(run.Collected),
			itoa(run.NotFound),
			itoa(run.Skipped),
			itoa(run.Failed),
			run.SourceDir + " → " + run.TargetDir,
		})
	}
	r.Table([]string{"Run", "Started", "Mode", "Status", "Collected", "Not Found", "Skipped", "Failed", "Source → Target"}, rows)
	return nil
}

func runHistoryDetail(cmd *cobra.Command, id string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer
	ctx := cmd.Context()

	store, err := openHistoryStore(cc)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: %s", state.ErrRunNotFound, id)
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	entries, err := store.ListEntries(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load run entries: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := output.RunDetailOutput{
			Run:     runInfo(run),
			Folders: make([]output.FolderResult, 0, len(entries)),
		}
		for _, e := range entries {
			out.Folders = append(out.Folders, output.FolderResult{
				Folder:      e.Folder,
				Outcome:     e.Outcome,
				Source:      e.Source,
				Destination: e.Destination,
				Error:       e.Error,
			})
		}
		return r.JSON(out)
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Run "+run.ID))
		r.Println("")
	} else {
		r.Header(1, "Run "+r.ID(run.ID))
	}
	r.KeyValue("Status", string(run.Status))
	r.KeyValue("Mode", run.Mode)
	r.KeyValue("Source", run.SourceDir)
	r.KeyValue("Target", run.TargetDir)
	r.KeyValue("Started", run.StartedAt.Local().Format(time.DateTime))
	r.KeyValue("Duration", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String())
	if run.Error != "" {
		r.KeyValue("Error", run.Error)
	}
	r.Println("")

	if len(entries) == 0 {
		r.Muted("No company folders in this run")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.Destination
		if e.Error != "" {
			detail = e.Error
		}
		rows = append(rows, []string{displayName(e.Folder), e.Folder, e.Outcome, detail})
	}
	r.Table([]string{"Company", "Folder", "Outcome", "Destination / Error"}, rows)
	return nil
}

func runInfo(run *state.Run) output.RunInfo {
	return output.RunInfo{
		ID:          run.ID,
		SourceDir:   run.SourceDir,
		TargetDir:   run.TargetDir,
		Mode:        run.Mode,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Summary: output.CollectSummary{
			Folders:   run.Collected + run.NotFound + run.Skipped + run.Failed,
			Collected: run.Collected,
			NotFound:  run.NotFound,
			Skipped:   run.Skipped,
			Failed:    run.Failed,
		},
		Error: run.Error,
	}
}
