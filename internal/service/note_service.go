package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

// ErrClosed is returned by Dispatch after Close has been called.
var ErrClosed = errs.New(errs.Unavailable, "note service is closed")

// ─────────────────────────────────────────────────────────────
// NoteService: the single point of mutation
// ─────────────────────────────────────────────────────────────

// NoteService validates requests and forwards them to the store, owns the
// current selection, and runs dispatched writes on a single FIFO writer so
// presentation code never blocks on storage.
type NoteService struct {
	store   domain.ObservableNoteStore
	emitter EventEmitter
	logger  *zap.Logger

	selMu     sync.Mutex
	selection domain.Note

	qmu     sync.Mutex
	pending []queued
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	ops     opGuard
}

type queued struct {
	id     string
	req    domain.Request
	result chan error
}

// NewNoteService starts the writer goroutine. Call Close to stop it.
// A nil emitter or logger is allowed.
func NewNoteService(store domain.ObservableNoteStore, emitter EventEmitter, logger *zap.Logger) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if emitter == nil {
		emitter = &Hub{}
	}
	s := &NoteService{
		store:   store,
		emitter: emitter,
		logger:  logger.Named("service"),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.writer()
	return s
}

// ── Synchronous operations ─────────────────────────────────

// Create validates n and inserts it.
func (s *NoteService) Create(ctx context.Context, n domain.Note) error {
	_, err := s.CreateNote(ctx, n)
	return err
}

// CreateNote is Create returning the stored note with its assigned id.
func (s *NoteService) CreateNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	n, _, err := s.insert(ctx, n)
	return n, err
}

func (s *NoteService) insert(ctx context.Context, n domain.Note) (domain.Note, bool, error) {
	if err := ValidateNote(n); err != nil {
		return n, false, err
	}
	changed, err := s.store.Insert(ctx, &n)
	if err != nil {
		return n, false, err
	}
	if changed {
		s.logger.Debug("note created", zap.Int64("id", n.ID))
		s.emitter.Emit(ctx, EventNoteCreated, n)
	} else {
		s.logger.Debug("insert ignored, id exists", zap.Int64("id", n.ID))
	}
	return n, changed, nil
}

// Save validates n and replaces the stored note with the same id.
// A missing id is a no-op.
func (s *NoteService) Save(ctx context.Context, n domain.Note) error {
	if err := ValidateNote(n); err != nil {
		return err
	}
	changed, err := s.store.Update(ctx, n)
	if err != nil {
		return err
	}
	if changed {
		s.logger.Debug("note updated", zap.Int64("id", n.ID))
		s.emitter.Emit(ctx, EventNoteUpdated, n)
	}
	return nil
}

// Remove deletes the note with n's id. A missing id is a no-op.
func (s *NoteService) Remove(ctx context.Context, n domain.Note) error {
	changed, err := s.store.Delete(ctx, n)
	if err != nil {
		return err
	}
	if changed {
		s.logger.Debug("note deleted", zap.Int64("id", n.ID))
		s.emitter.Emit(ctx, EventNoteDeleted, n)
	}
	return nil
}

// Submit executes a tagged request synchronously.
func (s *NoteService) Submit(ctx context.Context, req domain.Request) error {
	switch req.Kind {
	case domain.KindCreate:
		return s.Create(ctx, req.Note())
	case domain.KindEdit:
		return s.Save(ctx, req.Note())
	case domain.KindDelete:
		return s.Remove(ctx, req.Note())
	default:
		return errs.New(errs.InvalidArgument, "unknown request kind")
	}
}

// ── Reads ──────────────────────────────────────────────────

// ObserveAll returns the store's live listing.
func (s *NoteService) ObserveAll(ctx context.Context) (<-chan []domain.Note, error) {
	return s.store.ListAll(ctx)
}

// List returns a one-shot snapshot.
func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	return s.store.List(ctx)
}

// Find returns the note with id.
func (s *NoteService) Find(ctx context.Context, id int64) (domain.Note, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Note{}, errs.New(errs.NotFound, "note not found")
}

// ── Selection ──────────────────────────────────────────────

// Select replaces the current selection.
func (s *NoteService) Select(n domain.Note) {
	s.selMu.Lock()
	s.selection = n
	s.selMu.Unlock()
}

// CurrentSelection returns the last selected note, or domain.EmptyNote.
func (s *NoteService) CurrentSelection() domain.Note {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection
}

// ── Fire-and-forget writes ────────────────────────────────

// Dispatch queues req for the writer goroutine and returns at once. The
// returned channel yields the outcome exactly once. Queued work runs on a
// background context, so it completes even if the caller goes away.
func (s *NoteService) Dispatch(req domain.Request) <-chan error {
	result := make(chan error, 1)

	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		result <- ErrClosed
		close(result)
		return result
	}
	id := uuid.NewString()
	s.ops.Begin(id)
	s.pending = append(s.pending, queued{id: id, req: req, result: result})
	s.qmu.Unlock()

	s.signal()
	return result
}

// Pending returns the number of dispatched requests not yet finished.
func (s *NoteService) Pending() int {
	return s.ops.Active()
}

// Close stops accepting dispatched requests and waits for the queue to
// drain or ctx to end.
func (s *NoteService) Close(ctx context.Context) error {
	s.qmu.Lock()
	s.closed = true
	s.qmu.Unlock()
	s.signal()

	if err := s.ops.Wait(ctx); err != nil {
		return err
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NoteService) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *NoteService) writer() {
	defer close(s.done)
	ctx := context.Background()

	for {
		s.qmu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.qmu.Unlock()
			<-s.wake
			s.qmu.Lock()
		}
		if len(s.pending) == 0 {
			s.qmu.Unlock()
			return
		}
		item := s.pending[0]
		s.pending[0] = queued{}
		s.pending = s.pending[1:]
		s.qmu.Unlock()

		err := s.Submit(ctx, item.req)
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidNote):
			s.logger.Debug("dispatched request rejected", zap.Stringer("kind", item.req.Kind), zap.Error(err))
		default:
			s.logger.Error("dispatched request failed", zap.Stringer("kind", item.req.Kind), zap.Int64("id", item.req.ID), zap.Error(err))
		}
		item.result <- err
		close(item.result)
		s.ops.End(item.id)
	}
}
