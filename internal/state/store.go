// Package state keeps a journal of collection runs in SQLite.
//
// The journal is a record only. A collection pass never reads it, so the
// outcome of a run does not depend on earlier runs.
package state

import (
	"context"
	"time"
)

// RunStatus is the final status of a journaled run.
type RunStatus string

// Run statuses.
const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one collection pass.
type Run struct {
	ID          string
	SourceDir   string
	TargetDir   string
	Mode        string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Collected   int
	NotFound    int
	Skipped     int
	Failed      int
	Error       string
}

// Entry is the outcome for one company folder within a run.
type Entry struct {
	RunID       string
	Folder      string
	Outcome     string
	Source      string
	Destination string
	Error       string
}

// Store persists runs and their entries.
type Store interface {
	SaveRun(ctx context.Context, run *Run, entries []Entry) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	ListEntries(ctx context.Context, runID string) ([]Entry, error)
	Close() error
}
