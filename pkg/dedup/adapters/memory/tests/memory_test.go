package tests

import (
	"testing"
	"time"

	"github.com/brightside-go/brightside/pkg/dedup/adapters/memory"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/google/uuid"
)

type DedupMemoryTestSuite struct {
	test.Suite
}

func (s *DedupMemoryTestSuite) TestSeenAfterMark() {
	guard := memory.New()
	id := uuid.New()

	seen, err := guard.Seen(s.Ctx, id)
	s.NoError(err)
	s.False(seen)

	s.NoError(guard.MarkSeen(s.Ctx, id, time.Minute))

	seen, err = guard.Seen(s.Ctx, id)
	s.NoError(err)
	s.True(seen)
}

func (s *DedupMemoryTestSuite) TestExpiryForgetsID() {
	guard := memory.New()
	id := uuid.New()

	s.NoError(guard.MarkSeen(s.Ctx, id, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	seen, err := guard.Seen(s.Ctx, id)
	s.NoError(err)
	s.False(seen)
}

func TestDedupMemorySuite(t *testing.T) {
	test.Run(t, new(DedupMemoryTestSuite))
}
