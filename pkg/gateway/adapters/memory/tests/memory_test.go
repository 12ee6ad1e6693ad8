package tests

import (
	"context"
	"testing"
	"time"

	"github.com/brightside-go/brightside/pkg/gateway/adapters/memory"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

type MemoryGatewayTestSuite struct {
	test.Suite
}

func (s *MemoryGatewayTestSuite) TestSendReceiveRoundTrip() {
	broker := memory.NewBroker()
	producer := memory.NewProducer(broker)
	consumer := memory.NewConsumer(broker, "orders-queue", "orders.created")

	header := wire.NewHeader(uuid.New(), "orders.created", wire.MessageTypeCommand, uuid.Nil, "", "")
	sent := wire.New(header, wire.NewBody([]byte("payload"), "text/plain"))

	s.NoError(producer.Send(context.Background(), sent))

	received, err := consumer.Receive(context.Background(), time.Second)
	s.NoError(err)
	s.Equal(sent.Header().ID(), received.Header().ID())
	s.Equal(sent.Body().Payload(), received.Body().Payload())
}

func (s *MemoryGatewayTestSuite) TestReceiveTimesOutWithNone() {
	broker := memory.NewBroker()
	consumer := memory.NewConsumer(broker, "empty-queue", "nothing.here")

	msg, err := consumer.Receive(context.Background(), 10*time.Millisecond)
	s.NoError(err)
	s.Equal(wire.MessageTypeNone, msg.Header().MessageType())
}

// TestHasAcknowledged verifies hasAcknowledged is true iff the message id
// matches the last delivered message and an ack was issued.
func (s *MemoryGatewayTestSuite) TestHasAcknowledged() {
	broker := memory.NewBroker()
	producer := memory.NewProducer(broker)
	consumer := memory.NewConsumer(broker, "ack-queue", "acks")

	header := wire.NewHeader(uuid.New(), "acks", wire.MessageTypeCommand, uuid.Nil, "", "")
	sent := wire.New(header, wire.NewBody(nil, ""))
	s.NoError(producer.Send(context.Background(), sent))

	received, err := consumer.Receive(context.Background(), time.Second)
	s.NoError(err)
	s.False(consumer.HasAcknowledged(received))

	s.NoError(consumer.Acknowledge(context.Background(), received))
	s.True(consumer.HasAcknowledged(received))

	other := wire.New(wire.NewHeader(uuid.New(), "acks", wire.MessageTypeCommand, uuid.Nil, "", ""), wire.NewBody(nil, ""))
	s.False(consumer.HasAcknowledged(other))
}

func (s *MemoryGatewayTestSuite) TestPurgeDiscardsQueuedMessages() {
	broker := memory.NewBroker()
	producer := memory.NewProducer(broker)
	consumer := memory.NewConsumer(broker, "purge-queue", "purge.me")

	for i := 0; i < 3; i++ {
		header := wire.NewHeader(uuid.New(), "purge.me", wire.MessageTypeCommand, uuid.Nil, "", "")
		s.NoError(producer.Send(context.Background(), wire.New(header, wire.NewBody(nil, ""))))
	}

	s.NoError(consumer.Purge(context.Background()))

	msg, err := consumer.Receive(context.Background(), 10*time.Millisecond)
	s.NoError(err)
	s.Equal(wire.MessageTypeNone, msg.Header().MessageType())
}

func TestMemoryGatewaySuite(t *testing.T) {
	test.Run(t, new(MemoryGatewayTestSuite))
}
