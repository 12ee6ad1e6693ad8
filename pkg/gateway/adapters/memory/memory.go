// Package memory provides an in-process gateway.Producer/Consumer pair
// backed by buffered channels, one per queue name; queues are bound to
// routing keys and there is no exchange.
// It is used for tests and for exercising the Channel/Message Pump without
// a real broker.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
)

const defaultQueueCapacity = 1024

// Broker is a shared in-process stand-in for a broker exchange: publishing
// to a routing key delivers to every queue bound to that key.
type Broker struct {
	mu       sync.Mutex
	queues   map[string]chan *wire.Message
	bindings map[string][]string // routing key -> queue names
}

// NewBroker constructs an empty Broker.
func NewBroker() *Broker {
	return &Broker{
		queues:   make(map[string]chan *wire.Message),
		bindings: make(map[string][]string),
	}
}

// declareQueue idempotently creates queueName and binds it to routingKey.
func (b *Broker) declareQueue(queueName, routingKey string) chan *wire.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.queues[queueName]
	if !ok {
		ch = make(chan *wire.Message, defaultQueueCapacity)
		b.queues[queueName] = ch
	}

	for _, bound := range b.bindings[routingKey] {
		if bound == queueName {
			return ch
		}
	}
	b.bindings[routingKey] = append(b.bindings[routingKey], queueName)
	return ch
}

// publish delivers msg to every queue bound to routingKey.
func (b *Broker) publish(routingKey string, msg *wire.Message) {
	b.mu.Lock()
	queueNames := append([]string(nil), b.bindings[routingKey]...)
	b.mu.Unlock()

	for _, name := range queueNames {
		b.mu.Lock()
		ch := b.queues[name]
		b.mu.Unlock()
		ch <- msg
	}
}

// Producer publishes Wire Messages into a Broker by routing key.
type Producer struct {
	broker *Broker
}

// NewProducer constructs a Producer publishing into broker.
func NewProducer(broker *Broker) *Producer {
	return &Producer{broker: broker}
}

func (p *Producer) Send(ctx context.Context, msg *wire.Message) error {
	p.broker.publish(msg.Header().Topic(), msg)
	return nil
}

func (p *Producer) Close() error { return nil }

// Consumer receives Wire Messages from a queue bound to routingKey, and
// tracks the single most-recently-delivered message for acknowledgement.
type Consumer struct {
	queue chan *wire.Message

	mu            sync.Mutex
	lastDelivered uuid.UUID
	lastAcked     bool
}

// NewConsumer declares queueName bound to routingKey on broker and returns
// a Consumer reading from it.
func NewConsumer(broker *Broker, queueName, routingKey string) *Consumer {
	return &Consumer{queue: broker.declareQueue(queueName, routingKey)}
}

func (c *Consumer) Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error) {
	select {
	case msg := <-c.queue:
		c.mu.Lock()
		c.lastDelivered = msg.Header().ID()
		c.lastAcked = false
		c.mu.Unlock()
		return msg, nil
	case <-time.After(timeout):
		return wire.None(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Consumer) Acknowledge(ctx context.Context, msg *wire.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Header().ID() == c.lastDelivered {
		c.lastAcked = true
	}
	return nil
}

func (c *Consumer) HasAcknowledged(msg *wire.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return msg.Header().ID() == c.lastDelivered && c.lastAcked
}

func (c *Consumer) Purge(ctx context.Context) error {
	for {
		select {
		case <-c.queue:
		default:
			return nil
		}
	}
}

func (c *Consumer) Close() error { return nil }
