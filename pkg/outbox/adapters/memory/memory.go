// Package memory provides an in-process outbox.Store backed by sync.Map,
// suitable for tests and single-process deployments where durability across
// restarts is not required.
package memory

import (
	"context"
	"sync"

	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

// Store is a concurrency-safe in-memory outbox.Store.
type Store struct {
	messages sync.Map // uuid.UUID -> *wire.Message
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// Add stores msg keyed by its header id. Re-adding the same id overwrites
// with an identical message, which keeps replay idempotent.
func (s *Store) Add(ctx context.Context, msg *wire.Message) error {
	s.messages.Store(msg.Header().ID(), msg)
	return nil
}

// GetMessage returns the stored message for id, or a NotFound error.
func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*wire.Message, error) {
	v, ok := s.messages.Load(id)
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "no outbox message for id "+id.String(), nil)
	}
	return v.(*wire.Message), nil
}
