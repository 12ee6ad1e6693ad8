package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/brightside-go/brightside/pkg/logger"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestTraceHandlerInjectsSpanContext(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewTraceHandler(slog.NewJSONHandler(&buf, nil))
	l := slog.New(h)

	tp := trace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.InfoContext(ctx, "hello")

	var out map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, span.SpanContext().TraceID().String(), out["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), out["span_id"])
}

func TestTraceHandlerNoSpan(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewTraceHandler(slog.NewJSONHandler(&buf, nil))
	l := slog.New(h)

	l.InfoContext(context.Background(), "hello")

	var out map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotContains(t, out, "trace_id")
}
