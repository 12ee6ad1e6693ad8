// Package memory provides an in-process dedup.Guard for tests and
// single-process deployments, with lazy expiry checked on read.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	expiresAt time.Time
}

// Guard is a concurrency-safe in-memory dedup.Guard.
type Guard struct {
	mu      sync.Mutex
	entries map[uuid.UUID]entry
}

// New constructs an empty Guard.
func New() *Guard {
	return &Guard{entries: make(map[uuid.UUID]entry)}
}

// Seen reports whether id is marked processed and not yet expired.
func (g *Guard) Seen(ctx context.Context, id uuid.UUID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(g.entries, id)
		return false, nil
	}
	return true, nil
}

// MarkSeen records id as processed for ttl.
func (g *Guard) MarkSeen(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries[id] = entry{expiresAt: time.Now().Add(ttl)}
	return nil
}
