package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightside-go/brightside/pkg/command"
	brighterrors "github.com/brightside-go/brightside/pkg/errors"
	"github.com/brightside-go/brightside/pkg/pipeline"
	"github.com/brightside-go/brightside/pkg/resilience"
	"github.com/brightside-go/brightside/pkg/test"
)

const flakyType command.Type = "Flaky"

type flakyCommand struct{ command.Base }

func (flakyCommand) Type() command.Type { return flakyType }

type countingFailer struct {
	calls     int
	failTimes int
}

func (f *countingFailer) Handle(ctx context.Context, req command.Request) error {
	f.calls++
	if f.calls <= f.failTimes {
		return errors.New("boom")
	}
	return nil
}

type alwaysFailer struct{ calls int }

func (f *alwaysFailer) Handle(ctx context.Context, req command.Request) error {
	f.calls++
	return errors.New("boom")
}

type PipelineTestSuite struct {
	test.Suite
}

func retryCfg(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     1,
	}
}

// TestRetrySucceedsAfterFailures verifies S4: a handler that raises twice
// then succeeds, under retry(3), completes with call count 3.
func (s *PipelineTestSuite) TestRetrySucceedsAfterFailures() {
	inner := &countingFailer{failTimes: 2}
	h := pipeline.Compose(inner, pipeline.WithRetry(retryCfg(3), nil))

	err := h.Handle(s.Ctx, flakyCommand{Base: command.NewBase()})
	s.NoError(err)
	s.Equal(3, inner.calls)
}

// TestRetryExhaustion verifies S5 and invariant 8: a handler that always
// fails under retry(3) is invoked exactly 3 times and the original error
// surfaces.
func (s *PipelineTestSuite) TestRetryExhaustion() {
	inner := &alwaysFailer{}
	h := pipeline.Compose(inner, pipeline.WithRetry(retryCfg(3), nil))

	err := h.Handle(s.Ctx, flakyCommand{Base: command.NewBase()})
	s.Error(err)
	s.Equal(3, inner.calls)
}

// TestCircuitBreakerTrips verifies S6 and invariant 9: after the failure
// threshold is reached, subsequent calls raise CircuitBrokenError without
// invoking the wrapped handler.
func (s *PipelineTestSuite) TestCircuitBreakerTrips() {
	inner := &alwaysFailer{}
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "flaky",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
	})
	h := pipeline.Compose(inner, pipeline.WithCircuitBreaker(cb))

	for i := 0; i < 3; i++ {
		err := h.Handle(s.Ctx, flakyCommand{Base: command.NewBase()})
		s.Error(err)
	}
	s.Equal(3, inner.calls)

	err := h.Handle(s.Ctx, flakyCommand{Base: command.NewBase()})
	s.Error(err)
	s.True(brighterrors.IsCircuitBroken(err))
	s.Equal(3, inner.calls, "breaker must short-circuit without calling the handler")
}

// TestRetryAroundCircuitBreaker verifies composing retry around circuit
// breaker yields: retry until the breaker opens, then propagate
// CircuitBrokenError.
func (s *PipelineTestSuite) TestRetryAroundCircuitBreaker() {
	inner := &alwaysFailer{}
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "flaky-retry",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
	})
	h := pipeline.Compose(inner, pipeline.WithRetry(retryCfg(5), nil), pipeline.WithCircuitBreaker(cb))

	err := h.Handle(s.Ctx, flakyCommand{Base: command.NewBase()})
	s.Error(err)
	s.True(brighterrors.IsCircuitBroken(err))
	s.Equal(2, inner.calls)
}

func TestPipelineSuite(t *testing.T) {
	test.Run(t, new(PipelineTestSuite))
}
