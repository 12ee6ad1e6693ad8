// Package channel implements the Channel and Message Pump: the in-memory
// buffer fronting a broker subscription, and the loop that drains it,
// dispatching through the Command Processor.
package channel

import (
	"context"
	"sync"
	"time"

	"github.com/brightside-go/brightside/pkg/gateway"
	"github.com/brightside-go/brightside/pkg/wire"
)

// State is the Channel's lifecycle stage.
type State string

const (
	StateInitialized State = "initialized"
	StateStarted     State = "started"
	StateStopping    State = "stopping"
)

// Channel is a buffered bridge between a gateway.Consumer and a Message
// Pump: it owns an unbounded in-memory FIFO queue and holds a shared
// reference to the Consumer, which owns the broker connection and outlives
// the Channel.
type Channel struct {
	name     string
	consumer gateway.Consumer

	mu    sync.Mutex
	state State
	queue []*wire.Message
}

// New constructs a Channel named name, fronting consumer, in the
// initialized state.
func New(name string, consumer gateway.Consumer) *Channel {
	return &Channel{name: name, consumer: consumer, state: StateInitialized}
}

func (c *Channel) Name() string { return c.name }

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Length returns the current in-memory queue depth.
func (c *Channel) Length() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Receive transitions initialized -> started on first call. If the
// internal queue is non-empty it dequeues and returns immediately.
// Otherwise, while started, it delegates to the underlying Consumer with
// the same timeout. Once stopping, the underlying Consumer is never
// touched again: receive only ever drains the queue, and once that is
// exhausted returns a fresh quit sentinel on demand.
func (c *Channel) Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error) {
	c.mu.Lock()
	if c.state == StateInitialized {
		c.state = StateStarted
	}

	if len(c.queue) > 0 {
		msg := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		return msg, nil
	}

	stopping := c.state == StateStopping
	c.mu.Unlock()

	if stopping {
		return wire.Quit(), nil
	}

	return c.consumer.Receive(ctx, timeout)
}

// Stop moves the Channel to stopping from any state and injects a quit
// sentinel into the queue so the next Receive drains it.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateStopping
	c.queue = append(c.queue, wire.Quit())
}

// Acknowledge forwards to the underlying Consumer.
func (c *Channel) Acknowledge(ctx context.Context, msg *wire.Message) error {
	return c.consumer.Acknowledge(ctx, msg)
}

// HasAcknowledged forwards to the underlying Consumer.
func (c *Channel) HasAcknowledged(msg *wire.Message) bool {
	return c.consumer.HasAcknowledged(msg)
}
