// Package pipeline implements the orthogonal handler decorators (logging,
// retry, circuit breaker) applied around command.Handler.Handle, composed
// as Handler transformers rather than language-level decorators.
package pipeline

import (
	"context"

	"github.com/brightside-go/brightside/pkg/command"
)

// Middleware wraps a Handler, returning a new Handler that layers one
// orthogonal concern around it.
type Middleware func(command.Handler) command.Handler

// Compose applies mw to h in declaration order, outermost applied first on
// entry: Compose(h, a, b) behaves as a(b(h)). a's entry-side work runs
// before b's, and its exit-side work runs after.
func Compose(h command.Handler, mw ...Middleware) command.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// handlerFunc adapts a plain function to command.Handler without the
// caller needing to know about command.HandlerFunc.
type handlerFunc func(ctx context.Context, req command.Request) error

func (f handlerFunc) Handle(ctx context.Context, req command.Request) error {
	return f(ctx, req)
}
