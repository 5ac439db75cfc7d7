package rabbitmq_test

import (
	"context"

	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

type traceKey struct{}

// ctxPropagator copies a trace id stored in the context into the headers.
type ctxPropagator struct{}

func (ctxPropagator) Inject(ctx context.Context, headers map[string]string) {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		headers["traceparent"] = id
	}
}

var (
	_ cmsg.HeaderPropagator = ctxPropagator{}
	_ cmsg.HeaderPropagator = cmsg.NopHeaderPropagator{}
)
