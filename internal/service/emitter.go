package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Events emitted after a mutation changed the store. Data is the domain.Note.
const (
	EventNoteCreated = "note:created"
	EventNoteUpdated = "note:updated"
	EventNoteDeleted = "note:deleted"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from whatever is listening
// ─────────────────────────────────────────────────────────────

// EventEmitter receives change notifications from services. The MCP server
// forwards them to connected clients; the CLI logs them.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to a zap logger at debug level.
type LogEmitter struct {
	Logger *zap.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug("event", zap.String("event", event), zap.Any("data", data))
}

// Hub fans an event out to every attached emitter in order. Emitters can be
// attached after the service has started.
type Hub struct {
	mu       sync.RWMutex
	emitters []EventEmitter
}

// Add attaches e. A nil emitter is ignored.
func (h *Hub) Add(e EventEmitter) {
	if e == nil {
		return
	}
	h.mu.Lock()
	h.emitters = append(h.emitters, e)
	h.mu.Unlock()
}

func (h *Hub) Emit(ctx context.Context, event string, data any) {
	h.mu.RLock()
	emitters := h.emitters
	h.mu.RUnlock()
	for _, e := range emitters {
		e.Emit(ctx, event, data)
	}
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// It is safe for use from the service's writer goroutine.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Recorded returns a copy of the events seen so far.
func (m *MockEmitter) Recorded() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmittedEvent(nil), m.Events...)
}
