package gateway

import (
	"context"
	"time"

	"github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/logger"
	"github.com/brightside-go/brightside/pkg/resilience"
	"github.com/brightside-go/brightside/pkg/wire"
)

// ResilientConfig configures the retry and circuit breaker wrapping a
// Producer/Consumer pair. The zero value runs each operation once, with no
// retry and no circuit breaker; DefaultResilientConfig supplies the bounded
// fixed-interval broker retry policy.
type ResilientConfig struct {
	Retry          resilience.RetryConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
}

// DefaultResilientConfig returns the broker retry policy with no circuit
// breaker.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{Retry: resilience.BrokerRetryConfig()}
}

// sendOperation binds the state a retried Producer.Send needs: the
// underlying producer and the message being sent. execute performs one
// attempt; onError classifies the final failure once retries are
// exhausted. This mirrors the reference gateway's inner publish/
// error-callback closures as a small stateful builder instead of captured
// closures.
type sendOperation struct {
	producer Producer
	msg      *wire.Message
}

func (op *sendOperation) execute(ctx context.Context) error {
	return op.producer.Send(ctx, op.msg)
}

func (op *sendOperation) onError(err error) error {
	return errors.ChannelFailure(err)
}

// receiveOperation binds the state a retried Consumer.Receive needs.
type receiveOperation struct {
	consumer Consumer
	timeout  time.Duration
	result   *wire.Message
}

func (op *receiveOperation) execute(ctx context.Context) error {
	msg, err := op.consumer.Receive(ctx, op.timeout)
	if err != nil {
		return err
	}
	op.result = msg
	return nil
}

func (op *receiveOperation) onError(err error) error {
	return errors.ChannelFailure(err)
}

// purgeOperation binds the state a retried Consumer.Purge needs.
type purgeOperation struct {
	consumer Consumer
}

func (op *purgeOperation) execute(ctx context.Context) error {
	return op.consumer.Purge(ctx)
}

func (op *purgeOperation) onError(err error) error {
	return errors.ChannelFailure(err)
}

// ResilientProducer wraps a Producer with bounded retry and an optional
// circuit breaker. On retry exhaustion, Send fails with ChannelFailureError.
type ResilientProducer struct {
	next     Producer
	cfg      ResilientConfig
	breaker  *resilience.CircuitBreaker
}

// NewResilientProducer wraps next with the given ResilientConfig.
func NewResilientProducer(next Producer, cfg ResilientConfig) *ResilientProducer {
	rp := &ResilientProducer{next: next, cfg: cfg}
	if cfg.CircuitBreaker != nil {
		rp.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return rp
}

func (rp *ResilientProducer) Send(ctx context.Context, msg *wire.Message) error {
	op := &sendOperation{producer: rp.next, msg: msg}

	run := op.execute
	if rp.breaker != nil {
		run = func(ctx context.Context) error { return rp.breaker.Execute(ctx, op.execute) }
	}

	if err := resilience.Retry(ctx, rp.cfg.Retry, run); err != nil {
		if errors.IsCircuitBroken(err) {
			return err
		}
		logger.L().ErrorContext(ctx, "producer send exhausted retries", "topic", msg.Header().Topic(), "error", err)
		return op.onError(err)
	}
	return nil
}

func (rp *ResilientProducer) Close() error {
	return rp.next.Close()
}

// ResilientConsumer wraps a Consumer with bounded retry and an optional
// circuit breaker around Receive and Purge. Acknowledge/HasAcknowledged
// are forwarded directly, without retry or the circuit breaker.
type ResilientConsumer struct {
	next    Consumer
	cfg     ResilientConfig
	breaker *resilience.CircuitBreaker
}

// NewResilientConsumer wraps next with the given ResilientConfig.
func NewResilientConsumer(next Consumer, cfg ResilientConfig) *ResilientConsumer {
	rc := &ResilientConsumer{next: next, cfg: cfg}
	if cfg.CircuitBreaker != nil {
		rc.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return rc
}

func (rc *ResilientConsumer) Receive(ctx context.Context, timeout time.Duration) (*wire.Message, error) {
	op := &receiveOperation{consumer: rc.next, timeout: timeout}

	run := op.execute
	if rc.breaker != nil {
		run = func(ctx context.Context) error { return rc.breaker.Execute(ctx, op.execute) }
	}

	if err := resilience.Retry(ctx, rc.cfg.Retry, run); err != nil {
		if errors.IsCircuitBroken(err) {
			return nil, err
		}
		logger.L().ErrorContext(ctx, "consumer receive exhausted retries", "error", err)
		return nil, op.onError(err)
	}
	return op.result, nil
}

func (rc *ResilientConsumer) Acknowledge(ctx context.Context, msg *wire.Message) error {
	return rc.next.Acknowledge(ctx, msg)
}

func (rc *ResilientConsumer) HasAcknowledged(msg *wire.Message) bool {
	return rc.next.HasAcknowledged(msg)
}

func (rc *ResilientConsumer) Purge(ctx context.Context) error {
	op := &purgeOperation{consumer: rc.next}

	run := op.execute
	if rc.breaker != nil {
		run = func(ctx context.Context) error { return rc.breaker.Execute(ctx, op.execute) }
	}

	if err := resilience.Retry(ctx, rc.cfg.Retry, run); err != nil {
		if errors.IsCircuitBroken(err) {
			return err
		}
		return op.onError(err)
	}
	return nil
}

func (rc *ResilientConsumer) Close() error {
	return rc.next.Close()
}
