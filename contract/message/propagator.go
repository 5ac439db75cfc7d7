package message

import "context"

// HeaderPropagator injects tracing context into export headers.
// Implementations may bridge to OpenTelemetry or any other propagation standard,
// keeping exporters free of concrete tracing libraries.
// Implementations mutate the provided map and must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator is a no-op implementation for tests or when tracing is disabled.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(ctx context.Context, headers map[string]string) {
	_ = ctx
	_ = headers
}
