package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
	"quicknotes/internal/service"
	"quicknotes/internal/storage"
)

type fileBackuper struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *fileBackuper) Backup(ctx context.Context, dest string) error {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("snapshot"), 0644)
}

func steppingClock(start time.Time) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func TestBackupScheduler_RunOnceNamesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	b := service.NewBackupScheduler(&fileBackuper{}, dir, 2, nil)
	b.Now = steppingClock(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))

	var written []string
	for i := 0; i < 4; i++ {
		p, err := b.RunOnce(context.Background())
		require.NoError(t, err)
		written = append(written, p)
	}
	assert.Equal(t, filepath.Join(dir, "notes-20240309-140501.db"), written[0])

	files, err := b.Backups()
	require.NoError(t, err)
	assert.Equal(t, written[2:], files)
}

func TestBackupScheduler_KeepZeroKeepsAll(t *testing.T) {
	b := service.NewBackupScheduler(&fileBackuper{}, t.TempDir(), 0, nil)
	b.Now = steppingClock(time.Now())

	for i := 0; i < 3; i++ {
		_, err := b.RunOnce(context.Background())
		require.NoError(t, err)
	}
	files, err := b.Backups()
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestBackupScheduler_RejectsOverlap(t *testing.T) {
	target := &fileBackuper{release: make(chan struct{})}
	b := service.NewBackupScheduler(target, t.TempDir(), 0, nil)

	done := make(chan error, 1)
	go func() {
		_, err := b.RunOnce(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return target.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := b.RunOnce(context.Background())
	assert.Equal(t, errs.Unavailable, errs.CodeOf(err))

	close(target.release)
	require.NoError(t, <-done)
}

func TestBackupScheduler_InvalidSchedule(t *testing.T) {
	b := service.NewBackupScheduler(&fileBackuper{}, t.TempDir(), 0, nil)
	err := b.Run(context.Background(), "every tuesday-ish")
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestBackupScheduler_RunsOnSchedule(t *testing.T) {
	target := &fileBackuper{}
	b := service.NewBackupScheduler(target, t.TempDir(), 1, nil)
	b.Now = steppingClock(time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, "@every 1s") }()

	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestBackupScheduler_WithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	store := storage.NewNoteStore(db)
	defer store.Close()
	_, err = store.Insert(ctx, &domain.Note{Heading: "Groceries", Text: "Milk"})
	require.NoError(t, err)

	b := service.NewBackupScheduler(store, filepath.Join(t.TempDir(), "backups"), 3, nil)
	path, err := b.RunOnce(ctx)
	require.NoError(t, err)

	copyDB, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	restored := storage.NewNoteStore(copyDB)
	defer restored.Close()
	notes, err := restored.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Heading)
}
