package messenger

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

// entry is one subscription. Go function values are not comparable, so entries
// are removed by identity: releasing a subscription removes exactly its own entry.
type entry[T cmsg.Message] struct {
	fn cmsg.Handler[T]
}

// Registry holds the handlers subscribed to message type T and dispatches to them.
//
// Mutations take the mutex; Publish reads an immutable snapshot through a single
// atomic load and only locks when the snapshot must be rebuilt.
type Registry[T cmsg.Message] struct {
	mu       sync.Mutex
	entries  []*entry[T]
	snapshot atomic.Pointer[[]cmsg.Handler[T]]
	dirty    atomic.Bool
	live     atomic.Int64
}

// NewRegistry returns an empty registry for message type T.
func NewRegistry[T cmsg.Message]() *Registry[T] {
	r := &Registry[T]{}
	empty := []cmsg.Handler[T]{}
	r.snapshot.Store(&empty)

	return r
}

// Subscribe appends h to the registry. The same function may be subscribed
// more than once; each call returns an independent Subscription.
// The handler is dispatched from the next Publish that rebuilds the snapshot.
func (r *Registry[T]) Subscribe(h cmsg.Handler[T]) (*Subscription, error) {
	if h == nil {
		return nil, fmt.Errorf("subscribe %s: %w", typeName[T](), merr.ErrNilHandler)
	}

	e := &entry[T]{fn: h}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.live.Store(int64(len(r.entries)))
	r.dirty.Store(true)
	r.mu.Unlock()

	return newSubscription(func() { r.unsubscribe(e) }), nil
}

// unsubscribe removes one occurrence of e. Absent entries are ignored.
func (r *Registry[T]) unsubscribe(e *entry[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.entries, e)
	if i < 0 {
		return
	}

	r.entries = slices.Delete(r.entries, i, i+1)
	r.live.Store(int64(len(r.entries)))
	r.dirty.Store(true)
}

// Publish invokes every subscribed handler with msg, in subscription order, on
// the calling goroutine. Handlers added while a Publish is iterating are not
// part of that call. A panicking handler is not recovered: the panic reaches
// the caller and the remaining handlers are skipped.
func (r *Registry[T]) Publish(msg T) {
	if r.dirty.Load() {
		r.rebuild()
	}

	handlers := *r.snapshot.Load()
	for _, h := range handlers {
		h(msg)
	}
}

func (r *Registry[T]) rebuild() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty.Load() {
		return
	}

	snap := make([]cmsg.Handler[T], len(r.entries))
	for i, e := range r.entries {
		snap[i] = e.fn
	}

	r.snapshot.Store(&snap)
	r.dirty.Store(false)
}

// IsEmpty reports whether no handler is subscribed. Publishers can use it to
// skip building a message nobody listens to.
func (r *Registry[T]) IsEmpty() bool { return r.live.Load() == 0 }

// Len returns the number of live subscriptions.
func (r *Registry[T]) Len() int { return int(r.live.Load()) }

func typeName[T cmsg.Message]() string {
	return reflect.TypeFor[T]().String()
}
