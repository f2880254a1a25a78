package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/collector"
)

// RecordReport journals the outcome of one collection pass. runErr is the
// error returned alongside the report, if any.
func RecordReport(ctx context.Context, store Store, startedAt time.Time, report *collector.Report, runErr error) (*Run, error) {
	run := &Run{
		SourceDir: report.SourceDir,
		TargetDir: report.TargetDir,
		Mode:      string(report.Mode),
		Status:    RunStatusCompleted,
		StartedAt: startedAt,
		Collected: report.Collected(),
		NotFound:  report.Count(collector.OutcomeNotFound),
		Skipped:   report.Count(collector.OutcomeSkipped),
		Failed:    report.Count(collector.OutcomeFailed),
	}
	switch {
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		run.Status = RunStatusCancelled
		run.Error = runErr.Error()
	case runErr != nil:
		run.Status = RunStatusFailed
		run.Error = runErr.Error()
	}

	entries := make([]Entry, 0, len(report.Results))
	for _, res := range report.Results {
		e := Entry{
			Folder:      res.Folder,
			Outcome:     string(res.Outcome),
			Source:      res.Source,
			Destination: res.Destination,
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		entries = append(entries, e)
	}

	// A cancelled pass still gets journaled.
	if err := store.SaveRun(context.WithoutCancel(ctx), run, entries); err != nil {
		return nil, err
	}
	return run, nil
}
