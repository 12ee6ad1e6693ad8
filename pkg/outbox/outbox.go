// Package outbox defines the Message Store: a keyed durable table of
// outgoing wire messages that survives a producer restart between Add and
// a successful send, and supports idempotent replay on recovery.
package outbox

import (
	"context"

	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

// Store persists outgoing messages keyed by id. Add must be safe for
// concurrent callers; a given message id may be added more than once
// (replay after a crash between Add and Producer.Send) without error.
type Store interface {
	Add(ctx context.Context, msg *wire.Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*wire.Message, error)
}
