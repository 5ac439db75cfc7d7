package message

// Message is a marker interface for values that flow through the messenger.
// It carries no behavior; any value type can be used.
type Message interface{}

// Handler receives one published message of type T.
// Handlers run synchronously on the publisher's goroutine, in subscription order.
type Handler[T Message] func(msg T)

// Topical lets a message choose its own export destination.
type Topical interface{ Topic() string }
