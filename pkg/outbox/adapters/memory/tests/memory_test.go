package tests

import (
	"testing"

	"github.com/brightside-go/brightside/pkg/outbox/adapters/memory"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

type OutboxMemoryTestSuite struct {
	test.Suite
}

func (s *OutboxMemoryTestSuite) TestAddThenGet() {
	store := memory.New()
	id := uuid.New()
	header := wire.NewHeader(id, "orders.created", wire.MessageTypeCommand, uuid.Nil, "", "")
	msg := wire.New(header, wire.NewBody([]byte("body"), "text/plain"))

	s.NoError(store.Add(s.Ctx, msg))

	got, err := store.GetMessage(s.Ctx, id)
	s.NoError(err)
	s.Equal(id, got.Header().ID())
}

func (s *OutboxMemoryTestSuite) TestGetMissingFails() {
	store := memory.New()
	_, err := store.GetMessage(s.Ctx, uuid.New())
	s.Error(err)
}

// TestReplayIsIdempotent verifies re-adding the same message id does not
// error, satisfying the outbox's replay-on-recovery requirement.
func (s *OutboxMemoryTestSuite) TestReplayIsIdempotent() {
	store := memory.New()
	id := uuid.New()
	header := wire.NewHeader(id, "orders.created", wire.MessageTypeCommand, uuid.Nil, "", "")
	msg := wire.New(header, wire.NewBody(nil, ""))

	s.NoError(store.Add(s.Ctx, msg))
	s.NoError(store.Add(s.Ctx, msg))
}

func TestOutboxMemorySuite(t *testing.T) {
	test.Run(t, new(OutboxMemoryTestSuite))
}
