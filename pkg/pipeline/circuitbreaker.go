package pipeline

import (
	"context"

	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/resilience"
)

// WithCircuitBreaker short-circuits the wrapped handler with
// CircuitBrokenError once cb's failure threshold is reached, until its
// reset timeout elapses and a probe call succeeds.
//
// Composed as retry(circuitBreaker(handler)), this yields "retry until the
// breaker opens, then propagate CircuitBrokenError" per the framework's
// decorator composition contract.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Middleware {
	return func(next command.Handler) command.Handler {
		return handlerFunc(func(ctx context.Context, req command.Request) error {
			return cb.Execute(ctx, func(ctx context.Context) error {
				return next.Handle(ctx, req)
			})
		})
	}
}
