package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures one collection pass.
type Options struct {
	SourceDir    string
	TargetDir    string
	Mode         Mode
	OnConflict   ConflictPolicy
	CreateTarget bool
}

// Collector runs collection passes.
type Collector struct {
	logger *slog.Logger
	rename renameFunc
}

// New creates a Collector. A nil logger discards all output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		logger: logger,
		rename: os.Rename,
	}
}

// Run validates both roots and then processes every company folder once.
//
// Configuration problems abort before anything is touched and wrap
// ErrConfiguration. Per-folder failures are recorded in the report and do not
// stop the pass. If ctx is cancelled between folders the partial report is
// returned together with ctx.Err().
func (c *Collector) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModeMove
	}
	if opts.OnConflict == "" {
		opts.OnConflict = ConflictOverwrite
	}

	entries, err := readSourceRoot(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	if err := prepareTargetRoot(opts.TargetDir, opts.CreateTarget); err != nil {
		return nil, err
	}

	report := &Report{
		SourceDir: opts.SourceDir,
		TargetDir: opts.TargetDir,
		Mode:      opts.Mode,
	}

	c.logger.Debug("starting collection",
		slog.String("source", opts.SourceDir),
		slog.String("target", opts.TargetDir),
		slog.String("mode", string(opts.Mode)),
		slog.String("on_conflict", string(opts.OnConflict)))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !isFolder(opts.SourceDir, entry) {
			continue
		}

		res := c.collectFolder(opts, entry.Name())
		c.logResult(res)
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func (c *Collector) collectFolder(opts Options, folder string) Result {
	res := Result{
		Folder: folder,
		Source: filepath.Join(opts.SourceDir, folder, FileName),
	}

	info, err := os.Stat(res.Source)
	if errors.Is(err, fs.ErrNotExist) {
		res.Outcome = OutcomeNotFound
		return res
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	if !info.Mode().IsRegular() {
		c.logger.Debug("candidate is not a regular file", slog.String("path", res.Source))
		res.Outcome = OutcomeNotFound
		return res
	}

	res.Destination = filepath.Join(opts.TargetDir, folder+".csv")

	if _, err := os.Lstat(res.Destination); err == nil {
		switch opts.OnConflict {
		case ConflictSkip:
			res.Outcome = OutcomeSkipped
			return res
		case ConflictFail:
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("%w: %s", ErrDestinationExists, res.Destination)
			return res
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	if opts.Mode == ModeCopy {
		err = copyFile(res.Source, res.Destination)
		res.Outcome = OutcomeCopied
	} else {
		err = moveFile(c.rename, res.Source, res.Destination)
		res.Outcome = OutcomeMoved
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
	}
	return res
}

func (c *Collector) logResult(res Result) {
	attrs := []any{slog.String("folder", res.Folder), slog.String("source", res.Source)}
	switch res.Outcome {
	case OutcomeMoved, OutcomeCopied:
		c.logger.Info(string(res.Outcome), append(attrs, slog.String("destination", res.Destination))...)
	case OutcomeNotFound:
		c.logger.Debug("not found", attrs...)
	case OutcomeSkipped:
		c.logger.Info("skipped existing destination", append(attrs, slog.String("destination", res.Destination))...)
	case OutcomeFailed:
		c.logger.Error("collect failed", append(attrs, slog.Any("error", res.Err))...)
	}
}

// readSourceRoot checks the source root and returns its entries sorted by name.
func readSourceRoot(dir string) ([]os.DirEntry, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: source directory is required", ErrConfiguration)
	}
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: source directory does not exist: %s", ErrConfiguration, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot access source directory: %w", ErrConfiguration, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: source is not a directory: %s", ErrConfiguration, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: source directory is not readable: %w", ErrConfiguration, err)
	}
	return entries, nil
}

// prepareTargetRoot checks that the target exists and accepts new files.
func prepareTargetRoot(dir string, create bool) error {
	if dir == "" {
		return fmt.Errorf("%w: target directory is required", ErrConfiguration)
	}
	if create {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: cannot create target directory: %w", ErrConfiguration, err)
		}
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: target directory does not exist: %s\nHint: create it or pass --create-target", ErrConfiguration, dir)
	}
	if err != nil {
		return fmt.Errorf("%w: cannot access target directory: %w", ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: target is not a directory: %s", ErrConfiguration, dir)
	}

	probe, err := os.CreateTemp(dir, ".csvcollect-probe-*")
	if err != nil {
		return fmt.Errorf("%w: target directory is not writable: %w", ErrConfiguration, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// isFolder reports whether entry is a directory, following symlinks.
func isFolder(root string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}
