package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SaveRun stores a run and its entries in one transaction. An empty run.ID
// is replaced with a new UUID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, entries []Entry) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if run.ID == "" {
		run.ID = generateID()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now().UTC()
	}

	s.logger.Debug("saving run", slog.String("id", run.ID), slog.Int("entries", len(entries)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_dir, target_dir, mode, status, started_at, completed_at,
			collected, not_found, skipped, failed, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceDir, run.TargetDir, run.Mode, string(run.Status),
		formatTime(run.StartedAt), formatTime(run.CompletedAt),
		run.Collected, run.NotFound, run.Skipped, run.Failed, nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_entries (run_id, position, folder, outcome, source, destination, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range entries {
		e := &entries[i]
		e.RunID = run.ID
		if _, err := stmt.ExecContext(ctx, run.ID, i, e.Folder, e.Outcome, e.Source,
			nullString(e.Destination), nullString(e.Error)); err != nil {
			return fmt.Errorf("failed to record entry %s: %w", e.Folder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// GetRun retrieves a run by ID. A unique ID prefix is also accepted.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	runs, err := s.queryRuns(ctx, selectRuns+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if len(runs) == 1 {
		return runs[0], nil
	}

	runs, err = s.queryRuns(ctx, selectRuns+` WHERE substr(id, 1, length(?)) = ? LIMIT 2`, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	runs, err := s.queryRuns(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListEntries retrieves the entries of a run in processing order.
func (s *SQLiteStore) ListEntries(ctx context.Context, runID string) ([]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, folder, outcome, source, destination, error
		 FROM run_entries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var dst, errMsg sql.NullString
		if err := rows.Scan(&e.RunID, &e.Folder, &e.Outcome, &e.Source, &dst, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Destination = dst.String
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

const selectRuns = `SELECT id, source_dir, target_dir, mode, status, started_at, completed_at,
	collected, not_found, skipped, failed, error FROM runs`

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...any) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var status, started, completed string
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.SourceDir, &run.TargetDir, &run.Mode, &status,
			&started, &completed, &run.Collected, &run.NotFound, &run.Skipped, &run.Failed, &errMsg); err != nil {
			return nil, err
		}
		run.Status = RunStatus(status)
		run.Error = errMsg.String

		var err error
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if run.CompletedAt, err = parseTime(completed); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
