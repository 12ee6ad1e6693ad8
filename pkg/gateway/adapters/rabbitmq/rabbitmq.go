// Package rabbitmq adapts the Broker Gateway's Producer/Consumer contracts
// onto RabbitMQ via amqp091-go: topic-routed exchange declarations, bound
// queues, and manual acknowledgement.
package rabbitmq

import (
	"context"
	"sync"
	"time"

	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/gateway"
	"github.com/brightside-go/brightside/pkg/wire"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection wraps a single AMQP connection/channel pair and the exchange
// declaration, shared by producers and consumers built against it.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	cfg gateway.BrokerConnection

	declareOnce sync.Once
	declareErr  error
}

// Dial connects to the broker described by cfg and opens a channel.
func Dial(cfg gateway.BrokerConnection) (*Connection, error) {
	conn, err := amqp.Dial(cfg.URI)
	if err != nil {
		return nil, errors.ChannelFailure(err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.ChannelFailure(err)
	}

	return &Connection{conn: conn, ch: ch, cfg: cfg}, nil
}

// declareExchange idempotently declares the connection's exchange. It is
// performed lazily on first Send/queue declaration, guarded by sync.Once so
// concurrent producers/consumers on the same Connection only declare once.
func (c *Connection) declareExchange() error {
	c.declareOnce.Do(func() {
		c.declareErr = c.ch.ExchangeDeclare(
			c.cfg.ExchangeName,
			string(c.cfg.ExchangeType),
			c.cfg.Durable,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
	})
	return c.declareErr
}

// Close closes the channel and connection.
func (c *Connection) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// Producer publishes Wire Messages to a Connection's exchange.
type Producer struct {
	conn  *Connection
	topic string
}

// NewProducer constructs a Producer publishing through conn. Each message
// is published with its own header topic as the routing key.
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

func (p *Producer) Send(ctx context.Context, msg *wire.Message) error {
	if err := p.conn.declareExchange(); err != nil {
		return errors.ChannelFailure(err)
	}

	headers, err := wire.Encode(msg)
	if err != nil {
		return err
	}

	table := amqp.Table{}
	for k, v := range headers {
		table[k] = v
	}

	err = p.conn.ch.PublishWithContext(ctx,
		p.conn.cfg.ExchangeName,
		msg.Header().Topic(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: msg.Header().ContentType(),
			Body:        msg.Body().Payload(),
			Headers:     table,
			MessageId:   msg.Header().ID().String(),
		},
	)
	if err != nil {
		return errors.ChannelFailure(err)
	}
	return nil
}

func (p *Producer) Close() error { return nil }

// Consumer receives Wire Messages from a queue bound to the Connection's
// exchange by routingKey.
type Consumer struct {
	conn       *Connection
	queueName  string
	routingKey string
	deliveries <-chan amqp.Delivery

	mu            sync.Mutex
	lastDelivered uuid.UUID
	lastDelivery  *amqp.Delivery
	lastAcked     bool
}

// Config configures the queue a Consumer binds and its prefetch.
type Config struct {
	QueueName      string
	RoutingKey     string
	PrefetchCount  int
}

// NewConsumer declares and binds the queue described by cfg, sets the
// channel's prefetch (QoS), and begins consuming with manual ack.
func NewConsumer(conn *Connection, cfg Config) (*Consumer, error) {
	if err := conn.declareExchange(); err != nil {
		return nil, errors.ChannelFailure(err)
	}

	if _, err := conn.ch.QueueDeclare(cfg.QueueName, conn.cfg.Durable, false, false, false, nil); err != nil {
		return nil, errors.ChannelFailure(err)
	}

	if err := conn.ch.QueueBind(cfg.QueueName, cfg.RoutingKey, conn.cfg.ExchangeName, false, nil); err != nil {
		return nil, errors.ChannelFailure(err)
	}

	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := conn.ch.Qos(prefetch, 0, false); err != nil {
		return nil, errors.ChannelFailure(err)
	}

	deliveries, err := conn.ch.Consume(cfg.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, errors.ChannelFailure(err)
	}

	return &Consumer{
		conn:       conn,
		queueName:  cfg.QueueName,
		routingKey: cfg.RoutingKey,
		deliveries: deliveries,
	}, nil
}

func (c *Consumer) Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error) {
	select {
	case d, ok := <-c.deliveries:
		if !ok {
			return nil, errors.ChannelFailure(nil)
		}
		msg := wire.Parse(wire.RawMessage{
			Headers:     stringifyHeaders(d.Headers),
			RoutingKey:  d.RoutingKey,
			ContentType: d.ContentType,
			Body:        d.Body,
		})

		c.mu.Lock()
		c.lastDelivered = msg.Header().ID()
		c.lastDelivery = &d
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

	if msg.Header().ID() != c.lastDelivered || c.lastDelivery == nil {
		return nil
	}
	if err := c.lastDelivery.Ack(false); err != nil {
		return errors.ChannelFailure(err)
	}
	c.lastAcked = true
	return nil
}

func (c *Consumer) HasAcknowledged(msg *wire.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return msg.Header().ID() == c.lastDelivered && c.lastAcked
}

func (c *Consumer) Purge(ctx context.Context) error {
	if _, err := c.conn.ch.QueuePurge(c.queueName, false); err != nil {
		return errors.ChannelFailure(err)
	}
	return nil
}

func (c *Consumer) Close() error { return nil }

func stringifyHeaders(table amqp.Table) map[string]string {
	headers := make(map[string]string, len(table))
	for k, v := range table {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}
	return headers
}
