package gateway

import (
	"context"
	"time"

	"github.com/brightside-go/brightside/pkg/logger"
	"github.com/brightside-go/brightside/pkg/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedProducer wraps a Producer with tracing and structured logging.
type InstrumentedProducer struct {
	next   Producer
	tracer trace.Tracer
}

// NewInstrumentedProducer wraps next with tracing/logging.
func NewInstrumentedProducer(next Producer) *InstrumentedProducer {
	return &InstrumentedProducer{next: next, tracer: otel.Tracer("pkg/gateway")}
}

func (p *InstrumentedProducer) Send(ctx context.Context, msg *wire.Message) error {
	h := msg.Header()
	ctx, span := p.tracer.Start(ctx, "gateway.Send", trace.WithAttributes(
		attribute.String("gateway.topic", h.Topic()),
		attribute.String("gateway.message_id", h.ID().String()),
		attribute.String("gateway.message_type", string(h.MessageType())),
	))
	defer span.End()

	logger.L().InfoContext(ctx, "sending message", "topic", h.Topic(), "message_id", h.ID())

	if err := p.next.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "failed to send message", "topic", h.Topic(), "error", err)
		return err
	}

	span.SetStatus(codes.Ok, "message sent")
	return nil
}

func (p *InstrumentedProducer) Close() error {
	logger.L().Info("closing producer")
	return p.next.Close()
}

// InstrumentedConsumer wraps a Consumer with tracing and structured logging.
type InstrumentedConsumer struct {
	next   Consumer
	tracer trace.Tracer
}

// NewInstrumentedConsumer wraps next with tracing/logging.
func NewInstrumentedConsumer(next Consumer) *InstrumentedConsumer {
	return &InstrumentedConsumer{next: next, tracer: otel.Tracer("pkg/gateway")}
}

func (c *InstrumentedConsumer) Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.Receive")
	defer span.End()

	msg, err := c.next.Receive(ctx, timeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "failed to receive message", "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("gateway.message_id", msg.Header().ID().String()),
		attribute.String("gateway.message_type", string(msg.Header().MessageType())),
	)
	return msg, nil
}

func (c *InstrumentedConsumer) Acknowledge(ctx context.Context, msg *wire.Message) error {
	logger.L().DebugContext(ctx, "acknowledging message", "message_id", msg.Header().ID())
	return c.next.Acknowledge(ctx, msg)
}

func (c *InstrumentedConsumer) HasAcknowledged(msg *wire.Message) bool {
	return c.next.HasAcknowledged(msg)
}

func (c *InstrumentedConsumer) Purge(ctx context.Context) error {
	logger.L().Info("purging consumer queue")
	return c.next.Purge(ctx)
}

func (c *InstrumentedConsumer) Close() error {
	logger.L().Info("closing consumer")
	return c.next.Close()
}
