// Package command defines the Request/Handler abstractions the Command
// Processor dispatches: Commands (exactly one handler) and Events (zero or
// more handlers), keyed by a nominal type token rather than a runtime class
// name.
package command

import (
	"context"

	"github.com/google/uuid"
)

// Kind discriminates a Request as a Command (one handler) or an Event
// (zero or more handlers).
type Kind int

const (
	KindCommand Kind = iota
	KindEvent
)

// Type is a nominal, comparable token identifying a request variant. It
// substitutes for the runtime class name the registries in the reference
// implementation key on; concrete request types declare their own Type
// constant and return it from Type().
type Type string

// Request is the abstract request dispatched through the Command Processor.
// Its identity is generated at construction and is stable for the
// request's lifetime, propagating into any derived wire.Message.
type Request interface {
	RequestID() uuid.UUID
	Kind() Kind
	Type() Type
}

// Base is embedded by concrete Command request types. It generates a fresh
// identity at construction and is immutable thereafter.
type Base struct {
	id uuid.UUID
}

// NewBase constructs a Base with a fresh identity.
func NewBase() Base {
	return Base{id: uuid.New()}
}

func (b Base) RequestID() uuid.UUID { return b.id }
func (b Base) Kind() Kind           { return KindCommand }

// EventBase is embedded by concrete Event request types.
type EventBase struct {
	id uuid.UUID
}

// NewEventBase constructs an EventBase with a fresh identity.
func NewEventBase() EventBase {
	return EventBase{id: uuid.New()}
}

func (b EventBase) RequestID() uuid.UUID { return b.id }
func (b EventBase) Kind() Kind           { return KindEvent }

// Handler processes a single Request. Implementations may be stateful or
// stateless; orthogonal concerns (retry, circuit-breaking, logging) are
// layered on via pkg/pipeline rather than mixed into Handle itself.
type Handler interface {
	Handle(ctx context.Context, req Request) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) error

func (f HandlerFunc) Handle(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// Factory constructs a Handler on demand, the unit the Handler Registry
// stores. Most factories simply return a preconstructed singleton.
type Factory func() Handler
