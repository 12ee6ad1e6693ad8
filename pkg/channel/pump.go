package channel

import (
	"context"
	"time"

	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/dedup"
	"github.com/brightside-go/brightside/pkg/logger"
	"github.com/brightside-go/brightside/pkg/wire"
)

// Dispatcher is the subset of the Command Processor the Pump depends on:
// send for commands, publish for events.
type Dispatcher interface {
	Send(ctx context.Context, req command.Request) error
	Publish(ctx context.Context, req command.Request) error
}

// RequestMapper deserialises a Wire Message body back into a Request,
// keyed by topic or body type as the caller sees fit.
type RequestMapper func(msg *wire.Message) (command.Request, error)

// PumpConfig configures a Pump's behavior.
type PumpConfig struct {
	// ReceiveTimeout bounds each Channel.Receive call.
	ReceiveTimeout time.Duration

	// DedupGuard, if set, is consulted before dispatch and updated after a
	// successful handle, so redelivered messages are not reprocessed.
	DedupGuard dedup.Guard

	// DedupTTL bounds how long a message id is remembered by DedupGuard.
	DedupTTL time.Duration
}

// Pump is a long-running loop over a Channel: exactly one pump runs per
// channel, and it alone is responsible for the acknowledgement protocol.
// Handlers must never ack directly.
type Pump struct {
	channel    *Channel
	dispatcher Dispatcher
	mapper     RequestMapper
	cfg        PumpConfig
}

// NewPump constructs a Pump draining channel through dispatcher, using
// mapper to turn wire payloads back into requests.
func NewPump(ch *Channel, dispatcher Dispatcher, mapper RequestMapper, cfg PumpConfig) *Pump {
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = time.Second
	}
	return &Pump{channel: ch, dispatcher: dispatcher, mapper: mapper, cfg: cfg}
}

// Run drains the channel until a quit sentinel is received or ctx is
// canceled. It returns nil on clean termination.
func (p *Pump) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, err := p.channel.Receive(ctx, p.cfg.ReceiveTimeout)
		if err != nil {
			return err
		}

		if msg.IsQuit() {
			return nil
		}

		switch msg.Header().MessageType() {
		case wire.MessageTypeNone:
			continue
		case wire.MessageTypeUnacceptable:
			if err := p.channel.Acknowledge(ctx, msg); err != nil {
				logger.L().ErrorContext(ctx, "failed to acknowledge unacceptable message", "error", err)
			}
			continue
		}

		p.dispatch(ctx, msg)
	}
}

func (p *Pump) dispatch(ctx context.Context, msg *wire.Message) {
	id := msg.Header().ID()

	if p.cfg.DedupGuard != nil {
		seen, err := p.cfg.DedupGuard.Seen(ctx, id)
		if err != nil {
			logger.L().ErrorContext(ctx, "dedup guard check failed", "message_id", id, "error", err)
		} else if seen {
			if err := p.channel.Acknowledge(ctx, msg); err != nil {
				logger.L().ErrorContext(ctx, "failed to acknowledge duplicate message", "error", err)
			}
			return
		}
	}

	req, err := p.mapper(msg)
	if err != nil {
		logger.L().ErrorContext(ctx, "failed to deserialise message, dropping", "message_id", id, "error", err)
		if err := p.channel.Acknowledge(ctx, msg); err != nil {
			logger.L().ErrorContext(ctx, "failed to acknowledge poison message", "error", err)
		}
		return
	}

	if err := p.dispatchRequest(ctx, req); err != nil {
		logger.L().ErrorContext(ctx, "handler failed, leaving message un-acked", "message_id", id, "error", err)
		return
	}

	if p.cfg.DedupGuard != nil {
		if err := p.cfg.DedupGuard.MarkSeen(ctx, id, p.cfg.DedupTTL); err != nil {
			logger.L().ErrorContext(ctx, "failed to mark message seen", "message_id", id, "error", err)
		}
	}

	if err := p.channel.Acknowledge(ctx, msg); err != nil {
		logger.L().ErrorContext(ctx, "failed to acknowledge processed message", "message_id", id, "error", err)
	}
}

func (p *Pump) dispatchRequest(ctx context.Context, req command.Request) error {
	if req.Kind() == command.KindEvent {
		return p.dispatcher.Publish(ctx, req)
	}
	return p.dispatcher.Send(ctx, req)
}
