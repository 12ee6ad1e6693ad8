package tests

import (
	"context"
	"testing"
	"time"

	"github.com/brightside-go/brightside/pkg/channel"
	"github.com/brightside-go/brightside/pkg/command"
	gatewaymem "github.com/brightside-go/brightside/pkg/gateway/adapters/memory"
	outboxmem "github.com/brightside-go/brightside/pkg/outbox/adapters/memory"
	"github.com/brightside-go/brightside/pkg/processor"
	"github.com/brightside-go/brightside/pkg/registry"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/brightside-go/brightside/pkg/wire"
)

const shipmentRequestedType command.Type = "ShipmentRequested"

type shipmentRequested struct {
	command.Base
	OrderID string
}

func (shipmentRequested) Type() command.Type { return shipmentRequestedType }

// IntegrationTestSuite exercises the full outbound-then-inbound loop: post
// writes to the outbox and produces onto the broker, a Consumer/Channel/
// Pump on the other side drains it back into a dispatched Send call.
type IntegrationTestSuite struct {
	test.Suite
}

func (s *IntegrationTestSuite) TestPostProduceConsumeDispatch() {
	broker := gatewaymem.NewBroker()
	producer := gatewaymem.NewProducer(broker)
	consumer := gatewaymem.NewConsumer(broker, "shipments-queue", "shipments.requested")

	handlers := registry.NewHandlerRegistry()
	mappers := registry.NewMapperRegistry()
	outboxStore := outboxmem.New()

	received := make(chan string, 1)
	s.NoError(handlers.Register(shipmentRequestedType, command.KindCommand, func() command.Handler {
		return command.HandlerFunc(func(ctx context.Context, req command.Request) error {
			received <- req.(shipmentRequested).OrderID
			return nil
		})
	}))

	s.NoError(mappers.Register(shipmentRequestedType, func(req command.Request) (*wire.Message, error) {
		sr := req.(shipmentRequested)
		header := wire.NewHeader(sr.RequestID(), "shipments.requested", wire.MessageTypeCommand, sr.RequestID(), "", "application/json")
		return wire.New(header, wire.NewBody([]byte(sr.OrderID), "application/json")), nil
	}))

	proc := processor.New(handlers, processor.WithMappers(mappers), processor.WithStore(outboxStore), processor.WithProducer(producer))

	req := shipmentRequested{Base: command.NewBase(), OrderID: "order-42"}
	s.NoError(proc.Post(s.Ctx, req))

	stored, err := outboxStore.GetMessage(s.Ctx, req.RequestID())
	s.NoError(err)
	s.Equal(req.RequestID(), stored.Header().ID())

	ch := channel.New("shipments", consumer)
	mapper := func(msg *wire.Message) (command.Request, error) {
		return shipmentRequested{Base: command.NewBase(), OrderID: string(msg.Body().Payload())}, nil
	}
	pump := channel.NewPump(ch, proc, mapper, channel.PumpConfig{ReceiveTimeout: 50 * time.Millisecond})

	ctx, cancel := context.WithTimeout(s.Ctx, time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- pump.Run(ctx) }()

	select {
	case orderID := <-received:
		s.Equal("order-42", orderID)
	case <-ctx.Done():
		s.Fail("timed out waiting for dispatched handler")
	}

	ch.Stop()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("pump did not exit after stop")
	}
}

func TestIntegrationSuite(t *testing.T) {
	test.Run(t, new(IntegrationTestSuite))
}
