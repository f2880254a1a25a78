package commands

import (
	"time"

	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/spf13/cobra"
)

// NewCollectCommand creates the collect command.
func NewCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [source-dir] [target-dir]",
		Short: "Move each company's all.csv into the target directory",
		Long: `Walk the source directory, find all.csv in every company folder, and move it
to <target-dir>/<company>.csv.

Folders without all.csv are reported as "not found" and left alone. Files
that are not folders are ignored. A folder whose file cannot be moved is
reported as failed and the remaining folders are still processed.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Collect into ./data
  csvcollect collect ./leetcode-companywise-interview-questions ./data

  # Keep the original all.csv files
  csvcollect collect ./companies ./data --mode copy

  # Never replace an existing <company>.csv and write company_list.txt
  csvcollect collect ./companies ./data --on-conflict skip --manifest company_list.txt`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, args)
		},
	}

	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	if err := applyDirArgs(cc.Cfg, args); err != nil {
		return err
	}
	opts, err := cc.Cfg.CollectorOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pr := &passResult{StartedAt: time.Now()}
	pr.Report, pr.Err = collector.New(cc.Logger).Run(ctx, opts)
	if pr.Report == nil {
		// Roots were rejected before anything was touched.
		return pr.Err
	}

	store, err := openStore(cc.Cfg, cc.Logger)
	if err != nil {
		cc.Renderer.Warning(err.Error())
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		cc.finishPass(ctx, store, pr)
	} else {
		cc.finishPass(ctx, nil, pr)
	}

	if err := renderPass(cc.Renderer, pr); err != nil {
		return err
	}
	return pr.Err
}
