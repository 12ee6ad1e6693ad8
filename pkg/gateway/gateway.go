// Package gateway defines the Broker Gateway: Producer and Consumer
// abstractions over a message broker that publish to topic-routed
// exchanges and consume via subscribed queues, with bounded retry and
// error classification layered on by Resilient and tracing/logging
// layered on by Instrumented.
package gateway

import (
	"context"
	"time"

	"github.com/brightside-go/brightside/pkg/wire"
)

// ExchangeType is the broker exchange kind a BrokerConnection declares.
type ExchangeType string

const (
	ExchangeDirect  ExchangeType = "direct"
	ExchangeFanout  ExchangeType = "fanout"
	ExchangeTopic   ExchangeType = "topic"
	ExchangeHeaders ExchangeType = "headers"
)

// BrokerConnection describes where and how to connect to the broker: the
// connection URI, the exchange to declare, its type, and durability.
type BrokerConnection struct {
	URI          string       `env:"BROKER_URI" validate:"required"`
	ExchangeName string       `env:"BROKER_EXCHANGE" validate:"required"`
	ExchangeType ExchangeType `env:"BROKER_EXCHANGE_TYPE" env-default:"direct"`
	Durable      bool         `env:"BROKER_DURABLE" env-default:"true"`
}

// Producer publishes a Wire Message to the configured broker exchange.
type Producer interface {
	// Send publishes msg's body to the configured exchange with routing
	// key msg.Header().Topic(), attaching the MessageType/MessageId/
	// CorrelationId headers. Exchange declaration is idempotent and
	// performed on first send.
	Send(ctx context.Context, msg *wire.Message) error

	// Close releases the producer's broker resources.
	Close() error
}

// Consumer receives, acknowledges and purges Wire Messages from a broker
// queue bound to the configured exchange by a routing key.
type Consumer interface {
	// Receive returns the next Wire Message, blocking up to timeout. On
	// timeout it returns a message of type none with an empty body, not
	// an error.
	Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error)

	// Acknowledge acks the most-recently-delivered underlying message iff
	// its id matches msg's id; otherwise it is a no-op.
	Acknowledge(ctx context.Context, msg *wire.Message) error

	// HasAcknowledged reports whether msg has been acked: true iff msg's
	// id matches the last delivered message's id and an ack was issued
	// for it.
	HasAcknowledged(msg *wire.Message) bool

	// Purge discards all queued messages for the subscription.
	Purge(ctx context.Context) error

	// Close releases the consumer's broker resources.
	Close() error
}
