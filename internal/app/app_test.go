package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"quicknotes/internal/app"
	"quicknotes/internal/config"
	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
	"quicknotes/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "notes.db")
	cfg.Backup.Dir = filepath.Join(dir, "backups")
	cfg.Watch.PollInterval = 20 * time.Millisecond
	return cfg
}

func closeApp(t *testing.T, a *app.App) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))
}

func TestOpen_SQLiteLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := app.Open(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Notes().Create(ctx, domain.Note{Heading: "Groceries", Text: "Milk"}))
	closeApp(t, a)

	// The note survives a restart.
	a, err = app.Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer closeApp(t, a)
	notes, err := a.Notes().List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Heading)
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "oracle"

	_, err := app.Open(context.Background(), cfg, nil)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestRun_PicksUpWritesFromAnotherProcess(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeApp(t, a)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- a.Run(ctx) }()

	ch, err := a.Notes().ObserveAll(ctx)
	require.NoError(t, err)
	<-ch

	db, err := storage.OpenSQLite(cfg.Store.Path)
	require.NoError(t, err)
	other := storage.NewNoteStore(db)
	_, err = other.Insert(context.Background(), &domain.Note{Heading: "External", Text: "hi"})
	require.NoError(t, err)
	require.NoError(t, other.Close())

	select {
	case notes := <-ch:
		require.Len(t, notes, 1)
		assert.Equal(t, "External", notes[0].Heading)
	case <-time.After(3 * time.Second):
		t.Fatal("external write not observed")
	}

	cancel()
	require.NoError(t, <-runDone)
}

func TestBackup_WritesSnapshot(t *testing.T) {
	ctx := context.Background()
	a, err := app.Open(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer closeApp(t, a)

	require.NoError(t, a.Notes().Create(ctx, domain.Note{Heading: "Groceries", Text: "Milk"}))
	path, err := a.Backup(ctx)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
