package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Refresher re-reads a store and publishes if the listing changed.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher detects writes made by other processes (another CLI invocation, the
// MCP server, a second TUI) and refreshes the live listing.
//
// SQLite files are watched with fsnotify so changes show up immediately; every
// backend is also polled on an interval and compared by fingerprint.
type Watcher struct {
	target   Refresher
	path     string
	interval time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a Watcher. path is the SQLite file to watch and may be
// empty; interval <= 0 disables polling.
func NewWatcher(target Refresher, path string, interval time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		target:   target,
		path:     path,
		interval: interval,
		logger:   logger.Named("watcher"),
	}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var events <-chan fsnotify.Event
	var fsErrs <-chan error
	if w.path != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer fw.Close()
		// Watch the directory: SQLite replaces -wal/-shm files, which drops file-level watches.
		if err := fw.Add(filepath.Dir(w.path)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
		}
		events = fw.Events
		fsErrs = fw.Errors
	}

	w.logger.Debug("watching for external changes", zap.String("path", w.path), zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			w.refresh(ctx, "poll")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if w.relevant(ev) {
				w.refresh(ctx, "fsnotify")
			}
		case err, ok := <-fsErrs:
			if !ok {
				fsErrs = nil
				continue
			}
			w.logger.Warn("fsnotify error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(ev.Name)
	base := filepath.Clean(w.path)
	return name == base || name == base+"-wal"
}

func (w *Watcher) refresh(ctx context.Context, reason string) {
	if err := w.target.Refresh(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("refresh failed", zap.String("reason", reason), zap.Error(err))
	}
}
