package storage

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quicknotes/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Live: publish-on-change listing over any NoteStore
// ─────────────────────────────────────────────────────────────

// Live wraps a NoteStore and implements domain.ObservableNoteStore.
// Every mutation that changes a row, and every Refresh that finds a different
// listing, pushes a fresh snapshot to all current observers.
type Live struct {
	domain.NoteStore
	logger *zap.Logger

	// pubMu serialises list+fan-out so observers never see an older snapshot after a newer one.
	pubMu       sync.Mutex
	fingerprint string

	mu   sync.Mutex
	subs map[string]chan []domain.Note
}

// NewLive wraps store. A nil logger discards logs.
func NewLive(store domain.NoteStore, logger *zap.Logger) *Live {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Live{
		NoteStore: store,
		logger:    logger.Named("live"),
		subs:      make(map[string]chan []domain.Note),
	}
}

func (l *Live) Insert(ctx context.Context, n *domain.Note) (bool, error) {
	changed, err := l.NoteStore.Insert(ctx, n)
	if err == nil && changed {
		err = l.publish(ctx, true)
	}
	return changed, err
}

func (l *Live) Update(ctx context.Context, n domain.Note) (bool, error) {
	changed, err := l.NoteStore.Update(ctx, n)
	if err == nil && changed {
		err = l.publish(ctx, true)
	}
	return changed, err
}

func (l *Live) Delete(ctx context.Context, n domain.Note) (bool, error) {
	changed, err := l.NoteStore.Delete(ctx, n)
	if err == nil && changed {
		err = l.publish(ctx, true)
	}
	return changed, err
}

// ListAll subscribes to the live listing. The current snapshot is delivered
// first. A slow reader only ever sees the most recent snapshot.
func (l *Live) ListAll(ctx context.Context) (<-chan []domain.Note, error) {
	l.pubMu.Lock()
	defer l.pubMu.Unlock()

	notes, err := l.NoteStore.List(ctx)
	if err != nil {
		return nil, err
	}
	l.fingerprint = Fingerprint(notes)

	ch := make(chan []domain.Note, 1)
	ch <- notes

	id := uuid.NewString()
	l.mu.Lock()
	l.subs[id] = ch
	l.mu.Unlock()
	l.logger.Debug("observer subscribed", zap.String("id", id))

	go func() {
		<-ctx.Done()
		l.unsubscribe(id)
	}()
	return ch, nil
}

// Refresh re-reads the store and publishes only if the listing differs from
// the last one published. Watchers call it when something outside this
// process may have written.
func (l *Live) Refresh(ctx context.Context) error {
	return l.publish(ctx, false)
}

// Observers returns the number of live subscriptions.
func (l *Live) Observers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *Live) publish(ctx context.Context, force bool) error {
	l.pubMu.Lock()
	defer l.pubMu.Unlock()

	notes, err := l.NoteStore.List(ctx)
	if err != nil {
		return err
	}
	fp := Fingerprint(notes)
	if !force && fp == l.fingerprint {
		return nil
	}
	l.fingerprint = fp

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		offer(ch, notes)
	}
	l.logger.Debug("published notes", zap.Int("count", len(notes)), zap.Int("observers", len(l.subs)))
	return nil
}

func (l *Live) unsubscribe(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ch, ok := l.subs[id]; ok {
		delete(l.subs, id)
		close(ch)
		l.logger.Debug("observer unsubscribed", zap.String("id", id))
	}
}

// offer replaces any unread snapshot with notes. Callers hold l.mu, which is
// the only place sends happen, so the final send cannot block.
func offer(ch chan []domain.Note, notes []domain.Note) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- notes:
	default:
	}
}

// Fingerprint hashes a listing so two snapshots can be compared cheaply.
func Fingerprint(notes []domain.Note) string {
	h := sha256.New()
	var buf [8]byte
	for _, n := range notes {
		binary.BigEndian.PutUint64(buf[:], uint64(n.ID))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(len(n.Heading)))
		h.Write(buf[:])
		h.Write([]byte(n.Heading))
		binary.BigEndian.PutUint64(buf[:], uint64(len(n.Text)))
		h.Write(buf[:])
		h.Write([]byte(n.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
