package service

import (
	"context"
)

// Tracer runs operations inside trace spans.
// Tracer 在追踪 Span 中执行操作。
type Tracer interface {
	// TraceOperation runs fn in a span named name. An error returned by fn is recorded on the span
	// and returned unchanged.
	// TraceOperation 在名为 name 的 Span 中执行 fn，fn 返回的错误会记录到 Span 并原样返回。
	TraceOperation(ctx context.Context, name string, attrs map[string]interface{}, fn func(context.Context) error) error
}

// NoopTracer runs fn without a span.
type NoopTracer struct{}

func (NoopTracer) TraceOperation(ctx context.Context, _ string, _ map[string]interface{}, fn func(context.Context) error) error {
	return fn(ctx)
}
