package message

// Token ends a single subscription.
// Release may be called any number of times; only the first call has an effect.
// Close is the io.Closer form of Release and always returns nil.
type Token interface {
	Release()
	Close() error
}
