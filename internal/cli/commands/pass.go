package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/leapstack-labs/csvcollect/internal/state"
)

// passResult is everything produced by one collection pass.
type passResult struct {
	Report    *collector.Report
	Err       error
	RunID     string
	Manifest  *output.ManifestOutput
	StartedAt time.Time
}

// finishPass writes the manifest and journals the run. Failures of either are
// logged and shown as warnings; they never change the pass outcome.
func (cc *CommandContext) finishPass(ctx context.Context, store state.Store, pr *passResult) {
	if cc.Cfg.Manifest != "" && pr.Err == nil {
		companies, err := collector.WriteManifest(pr.Report.TargetDir, cc.Cfg.Manifest)
		if err != nil {
			cc.Logger.Warn("manifest not written", slog.Any("error", err))
			cc.Renderer.Warning("manifest not written: " + err.Error())
		} else {
			pr.Manifest = &output.ManifestOutput{
				Path:      filepath.Join(pr.Report.TargetDir, cc.Cfg.Manifest),
				Companies: companies,
			}
		}
	}

	if store != nil {
		run, err := state.RecordReport(ctx, store, pr.StartedAt, pr.Report, pr.Err)
		if err != nil {
			cc.Logger.Warn("run not journaled", slog.Any("error", err))
			cc.Renderer.Warning("run not journaled: " + err.Error())
		} else {
			pr.RunID = run.ID
		}
	}
}

// renderPass prints a pass in the effective output mode.
func renderPass(r *output.Renderer, pr *passResult) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(collectJSON(pr))
	case output.ModeMarkdown:
		passMarkdown(r, pr)
	default:
		passText(r, pr)
	}
	return nil
}

func summaryOf(report *collector.Report) output.CollectSummary {
	return output.CollectSummary{
		Folders:   len(report.Results),
		Collected: report.Collected(),
		NotFound:  report.Count(collector.OutcomeNotFound),
		Skipped:   report.Count(collector.OutcomeSkipped),
		Failed:    report.Count(collector.OutcomeFailed),
	}
}

func statusOf(o collector.Outcome) output.Status {
	switch o {
	case collector.OutcomeMoved, collector.OutcomeCopied:
		return output.StatusSuccess
	case collector.OutcomeNotFound, collector.OutcomeSkipped:
		return output.StatusSkipped
	default:
		return output.StatusFailed
	}
}

func passText(r *output.Renderer, pr *passResult) {
	report := pr.Report
	r.Header(1, "Collecting "+report.SourceDir)

	if len(report.Results) == 0 {
		r.Muted("No company folders found")
	}
	for _, res := range report.Results {
		r.StatusLine(statusOf(res.Outcome), res.Line())
	}

	s := summaryOf(report)
	r.Println("")
	r.Printf("%s collected into %s\n", r.Styles().Bold.Render(itoa(s.Collected)), report.TargetDir)
	r.Muted(summaryLine(s))

	if pr.Manifest != nil {
		r.Success("wrote " + pr.Manifest.Path)
	}
	if pr.Err != nil {
		r.Warning("pass interrupted: " + pr.Err.Error())
	}
	if pr.RunID != "" {
		r.Muted("Run: " + shortID(pr.RunID))
	}
}

func passMarkdown(r *output.Renderer, pr *passResult) {
	report := pr.Report
	r.Println(output.FormatHeader(1, "Collect"))
	r.Println("")
	r.Println(output.FormatKeyValue("Source", report.SourceDir))
	r.Println(output.FormatKeyValue("Target", report.TargetDir))
	r.Println(output.FormatKeyValue("Mode", string(report.Mode)))
	r.Println("")

	r.Println(output.FormatHeader(2, "Folders"))
	r.Println("")
	if len(report.Results) == 0 {
		r.Println("No company folders found.")
	}
	for _, res := range report.Results {
		r.Println(output.FormatListItem(res.Line()))
	}
	r.Println("")

	s := summaryOf(report)
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println("")
	r.Table([]string{"Outcome", "Count"}, [][]string{
		{"collected", itoa(s.Collected)},
		{"not found", itoa(s.NotFound)},
		{"skipped", itoa(s.Skipped)},
		{"failed", itoa(s.Failed)},
	})

	if pr.Manifest != nil {
		r.Println("")
		r.Println(output.FormatKeyValue("Manifest", pr.Manifest.Path))
	}
	if pr.Err != nil {
		r.Println("")
		r.Println(output.FormatKeyValue("Interrupted", pr.Err.Error()))
	}
	if pr.RunID != "" {
		r.Println("")
		r.Println(output.FormatKeyValue("Run", pr.RunID))
	}
}

func collectJSON(pr *passResult) output.CollectOutput {
	report := pr.Report
	out := output.CollectOutput{
		RunID:     pr.RunID,
		SourceDir: report.SourceDir,
		TargetDir: report.TargetDir,
		Mode:      string(report.Mode),
		Folders:   make([]output.FolderResult, 0, len(report.Results)),
		Summary:   summaryOf(report),
		Manifest:  pr.Manifest,
	}
	for _, res := range report.Results {
		fr := output.FolderResult{
			Folder:      res.Folder,
			Outcome:     string(res.Outcome),
			Source:      res.Source,
			Destination: res.Destination,
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		out.Folders = append(out.Folders, fr)
	}
	if pr.Err != nil {
		out.Error = pr.Err.Error()
	}
	return out
}
