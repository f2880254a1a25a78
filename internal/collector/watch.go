package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long watch mode waits after the last relevant event.
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnPass is called after every collection pass, including the first.
	OnPass func(*Report, error)
}

// Watch runs one pass, then re-runs a pass whenever an all.csv file is
// created or written, or a new company folder appears. Passes run serially on
// the calling goroutine. Watch returns nil when ctx is cancelled and an error
// wrapping ErrConfiguration if a root becomes invalid.
func (c *Collector) Watch(ctx context.Context, opts Options, wopts WatchOptions) error {
	if wopts.Debounce <= 0 {
		wopts.Debounce = DefaultDebounce
	}
	onPass := wopts.OnPass
	if onPass == nil {
		onPass = func(*Report, error) {}
	}

	pass := func() error {
		report, err := c.Run(ctx, opts)
		if errors.Is(err, ErrConfiguration) {
			return err
		}
		onPass(report, err)
		return nil
	}

	if err := pass(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := c.watchRoot(watcher, opts.SourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory: %w", err)
	}

	c.logger.Info("watching for changes", slog.String("source", opts.SourceDir))

	timer := time.NewTimer(wopts.Debounce)
	timer.Stop()
	schedule := func() { timer.Reset(wopts.Debounce) }

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if c.handleEvent(watcher, opts.SourceDir, event) {
				schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", slog.Any("error", err))

		case <-timer.C:
			if err := pass(); err != nil {
				return err
			}
		}
	}
}

// watchRoot adds the source root and each of its company folders.
func (c *Collector) watchRoot(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !isFolder(root, entry) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := watcher.Add(path); err != nil {
			c.logger.Warn("cannot watch folder", slog.String("path", path), slog.Any("error", err))
		}
	}
	return nil
}

// handleEvent reports whether event should trigger a new pass.
func (c *Collector) handleEvent(watcher *fsnotify.Watcher, root string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	if filepath.Dir(event.Name) == filepath.Clean(root) {
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() || !event.Has(fsnotify.Create) {
			return false
		}
		if err := watcher.Add(event.Name); err != nil {
			c.logger.Warn("cannot watch folder", slog.String("path", event.Name), slog.Any("error", err))
		}
		c.logger.Debug("new company folder", slog.String("path", event.Name))
		return true
	}

	if filepath.Base(event.Name) != FileName {
		return false
	}
	c.logger.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
	return true
}
