package tests

import (
	"context"
	"testing"
	"time"

	"github.com/brightside-go/brightside/pkg/channel"
	memorygw "github.com/brightside-go/brightside/pkg/gateway/adapters/memory"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

type ChannelTestSuite struct {
	test.Suite
}

// TestStopWithQueuedMessage verifies S7: after stop(), receive returns a
// quit sentinel and the underlying consumer's queued message is left
// unread.
func (s *ChannelTestSuite) TestStopWithQueuedMessage() {
	broker := memorygw.NewBroker()
	producer := memorygw.NewProducer(broker)
	consumer := memorygw.NewConsumer(broker, "q", "orders.created")

	header := wire.NewHeader(uuid.New(), "orders.created", wire.MessageTypeCommand, uuid.New(), "", "")
	s.NoError(producer.Send(context.Background(), wire.New(header, wire.NewBody(nil, ""))))

	ch := channel.New("orders", consumer)
	ch.Stop()

	msg, err := ch.Receive(context.Background(), time.Second)
	s.NoError(err)
	s.True(msg.IsQuit())
	s.Equal(channel.StateStopping, ch.State())

	// the underlying consumer's queue is untouched: the previously sent
	// message is still there for whoever reads the consumer next.
	drained, err := consumer.Receive(context.Background(), 10*time.Millisecond)
	s.NoError(err)
	s.Equal(wire.MessageTypeCommand, drained.Header().MessageType())
}

// TestFirstReceiveStartsChannel verifies initialized -> started transition.
func (s *ChannelTestSuite) TestFirstReceiveStartsChannel() {
	broker := memorygw.NewBroker()
	consumer := memorygw.NewConsumer(broker, "q2", "orders.shipped")
	ch := channel.New("orders", consumer)

	s.Equal(channel.StateInitialized, ch.State())
	_, err := ch.Receive(context.Background(), 10*time.Millisecond)
	s.NoError(err)
	s.Equal(channel.StateStarted, ch.State())
}

func TestChannelSuite(t *testing.T) {
	test.Run(t, new(ChannelTestSuite))
}
