// Package registry holds the Handler Registry and Mapper Registry: the
// request-type-keyed tables the Command Processor consults to resolve
// handlers and wire-message mappers.
package registry

import (
	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/concurrency"
	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/wire"
)

// HandlerRegistry maps a request Type to an ordered sequence of handler
// factories. Insertion order is preserved for Events; a Command may carry
// at most one factory.
//
// Registration is expected to happen entirely during startup, before any
// Send/Publish/Post call; lookups must be safe for concurrent readers, so
// the registry serializes writes behind a SmartRWMutex and lets reads run
// concurrently.
type HandlerRegistry struct {
	mu     *concurrency.SmartRWMutex
	byType map[command.Type][]command.Factory
}

// NewHandlerRegistry constructs an empty HandlerRegistry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		mu:     concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "handler-registry"}),
		byType: make(map[command.Type][]command.Factory),
	}
}

// Register adds a handler factory for requestType. For a Command type, a
// second registration fails with ConfigurationError; for an Event type,
// the factory is appended to the existing list.
func (r *HandlerRegistry) Register(requestType command.Type, kind command.Kind, factory command.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.byType[requestType]
	if kind == command.KindCommand && len(existing) > 0 {
		return errors.Configuration("handler already registered for command type " + string(requestType))
	}
	r.byType[requestType] = append(existing, factory)
	return nil
}

// Lookup returns the ordered factory list for req. A Command with no
// registration fails with ConfigurationError; an Event with no
// registration returns an empty list (zero subscribers is permitted).
func (r *HandlerRegistry) Lookup(req command.Request) ([]command.Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := r.byType[req.Type()]
	if req.Kind() == command.KindCommand && len(factories) == 0 {
		return nil, errors.Configuration("no handler registered for command type " + string(req.Type()))
	}
	return factories, nil
}

// Mapper produces a wire.Message for a Request.
type Mapper func(req command.Request) (*wire.Message, error)

// MapperRegistry maps a request Type to at most one Mapper callback.
type MapperRegistry struct {
	mu     *concurrency.SmartRWMutex
	byType map[command.Type]Mapper
}

// NewMapperRegistry constructs an empty MapperRegistry.
func NewMapperRegistry() *MapperRegistry {
	return &MapperRegistry{
		mu:     concurrency.NewSmartRWMutex(concurrency.MutexConfig{Name: "mapper-registry"}),
		byType: make(map[command.Type]Mapper),
	}
}

// Register adds mapper for requestType, failing ConfigurationError on a
// duplicate registration.
func (r *MapperRegistry) Register(requestType command.Type, mapper Mapper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[requestType]; exists {
		return errors.Configuration("mapper already registered for type " + string(requestType))
	}
	r.byType[requestType] = mapper
	return nil
}

// Lookup returns the mapper for requestType, failing ConfigurationError if
// absent.
func (r *MapperRegistry) Lookup(requestType command.Type) (Mapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mapper, exists := r.byType[requestType]
	if !exists {
		return nil, errors.Configuration("no mapper registered for type " + string(requestType))
	}
	return mapper, nil
}
