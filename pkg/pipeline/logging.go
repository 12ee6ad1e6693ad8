package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brightside-go/brightside/pkg/command"
)

// WithLogging emits an "entering" record carrying the request's string
// form, invokes the wrapped handler, then emits an "exiting" record.
func WithLogging(log *slog.Logger) Middleware {
	return func(next command.Handler) command.Handler {
		return handlerFunc(func(ctx context.Context, req command.Request) error {
			log.InfoContext(ctx, "entering handler", "request", requestString(req), "request_id", req.RequestID())

			err := next.Handle(ctx, req)

			if err != nil {
				log.ErrorContext(ctx, "exiting handler", "request", requestString(req), "request_id", req.RequestID(), "error", err)
			} else {
				log.InfoContext(ctx, "exiting handler", "request", requestString(req), "request_id", req.RequestID())
			}
			return err
		})
	}
}

func requestString(req command.Request) string {
	return fmt.Sprintf("%s(%s)", req.Type(), req.RequestID())
}
