package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/leapstack-labs/csvcollect/internal/state"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [source-dir] [target-dir]",
		Short: "Collect once, then again whenever an all.csv appears",
		Long: `Run a collection pass, then keep watching the source directory. Whenever an
all.csv file is created or written in a company folder, or a new company
folder appears, another pass runs after a short quiet period.

Stop with Ctrl+C.`,
		Example: `  # Watch with the default 250ms debounce
  csvcollect watch ./companies ./data

  # Wait two seconds after the last change before collecting
  csvcollect watch ./companies ./data --debounce 2s`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args)
		},
	}

	cmd.Flags().Duration("debounce", collector.DefaultDebounce, "Quiet period before a pass runs")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	if err := applyDirArgs(cc.Cfg, args); err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		cc.Cfg.Debounce, _ = cmd.Flags().GetDuration("debounce")
	}
	opts, err := cc.Cfg.CollectorOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store state.Store
	first := true
	started := time.Now()

	onPass := func(report *collector.Report, runErr error) {
		// The journal is opened lazily so that bad roots never create it.
		if first {
			s, err := openStore(cc.Cfg, cc.Logger)
			if err != nil {
				cc.Renderer.Warning(err.Error())
			} else if s != nil {
				store = s
			}
		}

		pr := &passResult{Report: report, Err: runErr, StartedAt: started}
		cc.finishPass(ctx, store, pr)
		if err := renderPass(cc.Renderer, pr); err != nil {
			cc.Renderer.Error(err.Error())
		}
		if first && cc.Renderer.EffectiveMode() != output.ModeJSON {
			cc.Renderer.Println("")
			cc.Renderer.Muted("Watching " + opts.SourceDir + " for changes (Ctrl+C to stop)")
		}
		first = false
		started = time.Now()
	}

	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	return collector.New(cc.Logger).Watch(ctx, opts, collector.WatchOptions{
		Debounce: cc.Cfg.Debounce,
		OnPass:   onPass,
	})
}
