// Package dedup implements the idempotency guard consulted by the Message
// Pump before dispatch: a Seen/MarkSeen check that lets an at-least-once
// delivery guarantee be paired with idempotent consumers, per the
// framework's explicit non-goal of exactly-once delivery.
package dedup

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Guard reports whether a message id has already been processed, and
// records that it has.
type Guard interface {
	// Seen reports whether id has already been marked processed.
	Seen(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkSeen records id as processed for ttl, after which it may be
	// forgotten and reprocessed if redelivered.
	MarkSeen(ctx context.Context, id uuid.UUID, ttl time.Duration) error
}
