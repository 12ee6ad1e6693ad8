package tests

import (
	"context"
	"testing"

	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/outbox/adapters/memory"
	"github.com/brightside-go/brightside/pkg/processor"
	"github.com/brightside-go/brightside/pkg/registry"
	"github.com/brightside-go/brightside/pkg/test"
	"github.com/brightside-go/brightside/pkg/wire"
)

const orderCreatedType command.Type = "OrderCreated"

type orderCreated struct{ command.Base }

func (orderCreated) Type() command.Type { return orderCreatedType }

type fakeProducer struct {
	sent []*wire.Message
}

func (p *fakeProducer) Send(ctx context.Context, msg *wire.Message) error {
	p.sent = append(p.sent, msg)
	return nil
}
func (p *fakeProducer) Close() error { return nil }

type ProcessorTestSuite struct {
	test.Suite
}

// TestSendCommand verifies S1: send invokes the single registered handler
// exactly once.
func (s *ProcessorTestSuite) TestSendCommand() {
	handlers := registry.NewHandlerRegistry()
	calls := 0
	s.NoError(handlers.Register(orderCreatedType, command.KindCommand, func() command.Handler {
		return command.HandlerFunc(func(ctx context.Context, req command.Request) error {
			calls++
			return nil
		})
	}))

	p := processor.New(handlers)
	s.NoError(p.Send(s.Ctx, orderCreated{Base: command.NewBase()}))
	s.Equal(1, calls)
}

// TestPublishToTwoHandlers verifies S2.
func (s *ProcessorTestSuite) TestPublishToTwoHandlers() {
	handlers := registry.NewHandlerRegistry()
	var h1Called, h2Called bool

	s.NoError(handlers.Register(orderCreatedType, command.KindEvent, func() command.Handler {
		return command.HandlerFunc(func(ctx context.Context, req command.Request) error {
			h1Called = true
			return nil
		})
	}))
	s.NoError(handlers.Register(orderCreatedType, command.KindEvent, func() command.Handler {
		return command.HandlerFunc(func(ctx context.Context, req command.Request) error {
			h2Called = true
			return nil
		})
	}))

	p := processor.New(handlers)
	s.NoError(p.Publish(s.Ctx, orderCreated{Base: command.NewBase()}))
	s.True(h1Called)
	s.True(h2Called)
}

// TestPostWithOutbox verifies S3 and invariant 5: after post the outbox
// holds the message, and the producer receives exactly one send.
func (s *ProcessorTestSuite) TestPostWithOutbox() {
	handlers := registry.NewHandlerRegistry()
	mappers := registry.NewMapperRegistry()
	store := memory.New()
	producer := &fakeProducer{}

	req := orderCreated{Base: command.NewBase()}

	s.NoError(mappers.Register(orderCreatedType, func(req command.Request) (*wire.Message, error) {
		header := wire.NewHeader(req.RequestID(), "orders.created", wire.MessageTypeCommand, req.RequestID(), "", "")
		return wire.New(header, wire.NewBody(nil, "")), nil
	}))

	p := processor.New(handlers, processor.WithMappers(mappers), processor.WithStore(store), processor.WithProducer(producer))

	s.NoError(p.Post(s.Ctx, req))

	stored, err := store.GetMessage(s.Ctx, req.RequestID())
	s.NoError(err)
	s.Equal(req.RequestID(), stored.Header().ID())
	s.Len(producer.sent, 1)
}

// TestPostWithoutProducerFails verifies post requires both producer and
// mapper registry configured.
func (s *ProcessorTestSuite) TestPostWithoutProducerFails() {
	handlers := registry.NewHandlerRegistry()
	p := processor.New(handlers)
	err := p.Post(s.Ctx, orderCreated{Base: command.NewBase()})
	s.Error(err)
}

func TestProcessorSuite(t *testing.T) {
	test.Run(t, new(ProcessorTestSuite))
}
