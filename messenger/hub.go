package messenger

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

// Hub owns one Registry per message type.
// Construct it once at application start and pass it to the code that subscribes
// and publishes. Hub is concurrency-safe and contains no global state.
type Hub struct {
	mu         sync.RWMutex
	registries map[reflect.Type]any

	exp           cmsg.Exporter
	exportTimeout time.Duration
	onExportError func(msgType string, err error)
	logger        *slog.Logger
}

// Option configures a Hub instance.
type Option func(*Hub)

// WithExportTimeout bounds every export performed by Forward subscriptions.
func WithExportTimeout(d time.Duration) Option {
	return func(h *Hub) { h.exportTimeout = d }
}

// WithExportErrorHandler replaces the default error logging for failed exports.
func WithExportErrorHandler(fn func(msgType string, err error)) Option {
	return func(h *Hub) { h.onExportError = fn }
}

// New constructs a Hub with an optional exporter and logger.
func New(exp cmsg.Exporter, logger *slog.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := &Hub{
		registries: make(map[reflect.Type]any),
		exp:        exp,
		logger:     logger,
	}

	for _, o := range opts {
		o(h)
	}

	return h
}

// RegistryOf returns the registry for message type T, creating it on first use.
// Exactly one registry exists per type for the lifetime of the Hub (or until Reset).
func RegistryOf[T cmsg.Message](h *Hub) *Registry[T] {
	t := reflect.TypeFor[T]()

	h.mu.RLock()
	r, ok := h.registries[t]
	h.mu.RUnlock()

	if ok {
		return r.(*Registry[T]) //nolint:forcetypeassert // keyed by T
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok = h.registries[t]; ok {
		return r.(*Registry[T]) //nolint:forcetypeassert // keyed by T
	}

	reg := NewRegistry[T]()
	h.registries[t] = reg
	h.logger.Debug("registry created", "type", t.String())

	return reg
}

func lookup[T cmsg.Message](h *Hub) (*Registry[T], bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.registries[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}

	return r.(*Registry[T]), true //nolint:forcetypeassert // keyed by T
}

// Reset drops every registry. Subscriptions taken before Reset no longer
// receive messages; releasing them stays a silent no-op.
func (h *Hub) Reset() {
	h.mu.Lock()
	n := len(h.registries)
	h.registries = make(map[reflect.Type]any)
	h.mu.Unlock()

	h.logger.Debug("registries reset", "count", n)
}

// Types returns the sorted names of message types that have a registry.
func (h *Hub) Types() []string {
	h.mu.RLock()
	names := make([]string, 0, len(h.registries))

	for t := range h.registries {
		names = append(names, t.String())
	}
	h.mu.RUnlock()

	slices.Sort(names)

	return names
}

// Subscribe subscribes handler to all future messages of type T.
func Subscribe[T cmsg.Message](h *Hub, handler cmsg.Handler[T]) (*Subscription, error) {
	return RegistryOf[T](h).Subscribe(handler)
}

// Publish delivers msg synchronously to all current subscribers of type T.
func Publish[T cmsg.Message](h *Hub, msg T) {
	RegistryOf[T](h).Publish(msg)
}

// HasSubscribers reports whether any handler is subscribed to T.
// Unlike Subscribe and Publish it never creates a registry.
func HasSubscribers[T cmsg.Message](h *Hub) bool {
	r, ok := lookup[T](h)

	return ok && !r.IsEmpty()
}
