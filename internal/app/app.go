package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quicknotes/internal/config"
	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
	"quicknotes/internal/service"
	"quicknotes/internal/storage"
)

// App wires storage, the note service and the background workers for one
// process. Every presentation surface (TUI, CLI, MCP) runs on top of an App.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	live    *storage.Live
	hub     *service.Hub
	notes   *service.NoteService
	watcher *storage.Watcher
	backups *service.BackupScheduler
}

// Open connects to the configured store and builds the service graph.
// A nil logger discards logs.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "invalid configuration", err)
	}

	opened, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("driver", cfg.Store.Driver), zap.String("path", opened.watchPath))

	a := &App{
		cfg:    cfg,
		logger: logger,
		live:   storage.NewLive(opened.store, logger.Named("storage")),
		hub:    &service.Hub{},
	}
	a.hub.Add(service.LogEmitter{Logger: logger.Named("events")})
	a.notes = service.NewNoteService(a.live, a.hub, logger)

	if cfg.Watch.Enabled {
		a.watcher = storage.NewWatcher(a.live, opened.watchPath, cfg.Watch.PollInterval, logger.Named("storage"))
	}
	if opened.backuper != nil {
		a.backups = service.NewBackupScheduler(opened.backuper, cfg.Backup.Dir, cfg.Backup.Keep, logger)
	}
	return a, nil
}

type openedStore struct {
	store     domain.NoteStore
	backuper  service.Backuper
	watchPath string
}

func openStore(ctx context.Context, cfg config.StoreConfig) (openedStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return openedStore{}, errs.Wrap(errs.Unavailable, "open note database", err)
		}
		store := storage.NewNoteStore(db)
		return openedStore{store: store, backuper: store, watchPath: cfg.Path}, nil

	case config.DriverPostgres, config.DriverMySQL:
		db, err := storage.OpenSQL(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return openedStore{}, errs.Wrap(errs.Unavailable, "connect to "+cfg.Driver, err)
		}
		return openedStore{store: storage.NewNoteStore(db)}, nil

	case config.DriverMongo:
		store, err := storage.OpenMongo(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return openedStore{}, errs.Wrap(errs.Unavailable, "connect to mongodb", err)
		}
		return openedStore{store: store}, nil

	default:
		return openedStore{}, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown store driver %q", cfg.Driver))
	}
}

// Notes returns the note service.
func (a *App) Notes() *service.NoteService { return a.notes }

// Events returns the hub that receives note change events. Surfaces attach
// their own emitters to it.
func (a *App) Events() *service.Hub { return a.hub }

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Run drives the background workers (external change watcher, scheduled
// backups) until ctx is done.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(gctx)
		})
	}
	if a.backups != nil && a.cfg.Backup.Schedule != "" {
		g.Go(func() error {
			return a.backups.Run(gctx, a.cfg.Backup.Schedule)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

// Backup writes one backup now and returns its path.
func (a *App) Backup(ctx context.Context) (string, error) {
	if a.backups == nil {
		return "", errs.New(errs.InvalidArgument, "backups are only supported with the sqlite driver")
	}
	return a.backups.RunOnce(ctx)
}

// Close drains dispatched writes, then closes the store.
func (a *App) Close(ctx context.Context) error {
	var errList []error
	if err := a.notes.Close(ctx); err != nil {
		errList = append(errList, fmt.Errorf("drain note service: %w", err))
	}
	if err := a.live.Close(); err != nil {
		errList = append(errList, fmt.Errorf("close store: %w", err))
	}
	a.logger.Debug("app closed")
	return errors.Join(errList...)
}
