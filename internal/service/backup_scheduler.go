package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"quicknotes/internal/errs"
)

// Backuper writes a consistent copy of the note database to dest.
type Backuper interface {
	Backup(ctx context.Context, dest string) error
}

const (
	backupKey     = "backup"
	backupPattern = "notes-*.db"
	backupLayout  = "20060102-150405"
)

// ─────────────────────────────────────────────────────────────
// BackupScheduler: cron-driven database snapshots
// ─────────────────────────────────────────────────────────────

// BackupScheduler writes notes-YYYYMMDD-HHMMSS.db files into a directory on a
// cron schedule and keeps only the newest few.
type BackupScheduler struct {
	target Backuper
	dir    string
	keep   int
	logger *zap.Logger
	guard  opGuard

	// Now is the clock used to name backups.
	Now func() time.Time
}

// NewBackupScheduler creates a scheduler. keep <= 0 keeps every backup.
func NewBackupScheduler(target Backuper, dir string, keep int, logger *zap.Logger) *BackupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupScheduler{
		target: target,
		dir:    dir,
		keep:   keep,
		logger: logger.Named("backup"),
		Now:    time.Now,
	}
}

// RunOnce writes one backup and prunes old ones. It returns the new file's
// path. Overlapping calls fail with an Unavailable error.
func (b *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	if !b.guard.Begin(backupKey) {
		return "", errs.New(errs.Unavailable, "backup already running")
	}
	defer b.guard.End(backupKey)

	dest := filepath.Join(b.dir, "notes-"+b.Now().Format(backupLayout)+".db")
	if err := b.target.Backup(ctx, dest); err != nil {
		return "", err
	}
	b.logger.Info("backup written", zap.String("path", dest))

	removed, err := b.prune()
	if err != nil {
		b.logger.Warn("prune backups", zap.Error(err))
	}
	for _, p := range removed {
		b.logger.Debug("old backup removed", zap.String("path", p))
	}
	return dest, nil
}

// Run schedules RunOnce on spec and blocks until ctx is done, then waits for
// a running backup to finish.
func (b *BackupScheduler) Run(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLogger(cronLogger{b.logger.Sugar()}))
	if _, err := c.AddFunc(spec, func() {
		if _, err := b.RunOnce(ctx); err != nil && ctx.Err() == nil {
			b.logger.Error("scheduled backup failed", zap.Error(err))
		}
	}); err != nil {
		return errs.Wrap(errs.InvalidArgument, fmt.Sprintf("invalid backup schedule %q", spec), err)
	}
	c.Start()
	b.logger.Debug("backups scheduled", zap.String("schedule", spec), zap.String("dir", b.dir))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Backups lists existing backup files, oldest first.
func (b *BackupScheduler) Backups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, backupPattern))
	if err != nil {
		return nil, err
	}
	// The timestamp layout sorts chronologically.
	sort.Strings(matches)
	return matches, nil
}

func (b *BackupScheduler) prune() ([]string, error) {
	if b.keep <= 0 {
		return nil, nil
	}
	files, err := b.Backups()
	if err != nil {
		return nil, err
	}
	if len(files) <= b.keep {
		return nil, nil
	}
	stale := files[:len(files)-b.keep]
	var removed []string
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return removed, err
		}
		removed = append(removed, p)
	}
	return removed, nil
}

// cronLogger routes robfig/cron's logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
