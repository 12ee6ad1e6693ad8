package pipeline

import (
	"context"

	"github.com/brightside-go/brightside/pkg/command"
	"github.com/brightside-go/brightside/pkg/resilience"
)

// WithRetry invokes the wrapped handler up to cfg.MaxAttempts times,
// retrying while retryable(err) is true, and re-raises the last error on
// exhaustion. A nil retryable keeps cfg.RetryIf; when that is also nil,
// every non-nil error is retried.
func WithRetry(cfg resilience.RetryConfig, retryable func(error) bool) Middleware {
	if retryable != nil {
		cfg.RetryIf = retryable
	}
	return func(next command.Handler) command.Handler {
		return handlerFunc(func(ctx context.Context, req command.Request) error {
			return resilience.Retry(ctx, cfg, func(ctx context.Context) error {
				return next.Handle(ctx, req)
			})
		})
	}
}
