package memory

import (
	"log/slog"

	"github.com/next-trace/scg-messenger/adapters/inmemory"
	"github.com/next-trace/scg-messenger/messenger"
)

// New constructs a Hub whose Forward subscriptions record into an in-memory
// exporter, and returns both along with a cleanup function that resets the hub.
func New(logger *slog.Logger, opts ...messenger.Option) (*messenger.Hub, *inmemory.Exporter, func()) {
	exp := inmemory.New()
	h := messenger.New(exp, logger, opts...)
	cleanup := func() {
		h.Reset()
		exp.Reset()
	}

	return h, exp, cleanup
}
