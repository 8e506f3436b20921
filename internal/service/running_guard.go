package service

import (
	"context"
	"sync"
)

// ExportedOpGuard is an exported alias so _test packages can test the guard.
type ExportedOpGuard = opGuard

// ─────────────────────────────────────────────────────────────
// opGuard: tracks in-flight operations by key
// ─────────────────────────────────────────────────────────────

// opGuard records which operations are running. A key can only be held once
// at a time, so the backup scheduler uses it to skip overlapping runs and the
// note service uses it to count dispatched writes that have not finished.
type opGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// Begin marks key as running. It returns false if key is already held.
func (g *opGuard) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// End releases key. Must follow a successful Begin.
func (g *opGuard) End(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.running[key]; !ok {
		return
	}
	delete(g.running, key)
	g.wg.Done()
}

// Active returns the number of keys currently held.
func (g *opGuard) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.running)
}

// Wait blocks until every held key is released or ctx is done.
func (g *opGuard) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
