// Package processor implements the Command Processor: the in-process
// dispatcher that routes Commands to exactly one handler, Events to zero
// or more, and relays requests onto the Broker Gateway via the outbox.
package processor

import (
	"context"

	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/gateway"
	"github.com/brightside-go/brightside/pkg/outbox"
	"github.com/brightside-go/brightside/pkg/registry"
)

// Processor exposes send/publish/post over the Handler Registry, Mapper
// Registry, Message Store and Producer.
type Processor struct {
	handlers *registry.HandlerRegistry
	mappers  *registry.MapperRegistry
	store    outbox.Store
	producer gateway.Producer
}

// Option configures optional Processor collaborators. Post requires both
// WithMappers and WithProducer (and a store) to have been supplied; Send
// and Publish only need handlers.
type Option func(*Processor)

// WithMappers supplies the Mapper Registry consulted by Post.
func WithMappers(mappers *registry.MapperRegistry) Option {
	return func(p *Processor) { p.mappers = mappers }
}

// WithStore supplies the Message Store (outbox) consulted by Post.
func WithStore(store outbox.Store) Option {
	return func(p *Processor) { p.store = store }
}

// WithProducer supplies the Producer consulted by Post.
func WithProducer(producer gateway.Producer) Option {
	return func(p *Processor) { p.producer = producer }
}

// New constructs a Processor dispatching through handlers, with the
// collaborators Post needs supplied via options.
func New(handlers *registry.HandlerRegistry, opts ...Option) *Processor {
	p := &Processor{handlers: handlers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send resolves the single handler registered for req and invokes it
// synchronously. A request resolving to zero or more than one handler
// fails with ConfigurationError. Handler errors propagate unchanged.
func (p *Processor) Send(ctx context.Context, req command.Request) error {
	factories, err := p.handlers.Lookup(req)
	if err != nil {
		return err
	}
	if len(factories) != 1 {
		return errors.Configuration("expected exactly one handler for command type " + string(req.Type()))
	}

	handler := factories[0]()
	return handler.Handle(ctx, req)
}

// Publish invokes every handler registered for req in registration order.
// Zero registered handlers is permitted and returns silently. The first
// handler to return an error aborts the remaining invocations.
func (p *Processor) Publish(ctx context.Context, req command.Request) error {
	factories, err := p.handlers.Lookup(req)
	if err != nil {
		return err
	}

	for _, factory := range factories {
		if err := factory().Handle(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Post maps req to a Wire Message, adds it to the outbox, then sends it
// via the Producer. The outbox add always precedes the send so a crash
// between the two is recoverable by replaying the stored message. Post is
// fire-and-forget: it returns no synchronous response from the consumer
// side.
func (p *Processor) Post(ctx context.Context, req command.Request) error {
	if p.producer == nil || p.mappers == nil || p.store == nil {
		return errors.Configuration("post requires a configured producer, mapper registry and message store")
	}

	mapper, err := p.mappers.Lookup(req.Type())
	if err != nil {
		return err
	}

	msg, err := mapper(req)
	if err != nil {
		return err
	}

	if err := p.store.Add(ctx, msg); err != nil {
		return err
	}

	return p.producer.Send(ctx, msg)
}
