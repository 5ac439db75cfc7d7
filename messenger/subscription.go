package messenger

import cmsg "github.com/next-trace/scg-messenger/contract/message"

// Subscription ends one subscription when released.
//
// Release is idempotent but not safe for concurrent use on the same instance;
// a subscription is meant to have a single owner.
type Subscription struct {
	release  func()
	released bool
}

var _ cmsg.Token = (*Subscription)(nil)

func newSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Release removes the subscribed handler. Only the first call has an effect.
func (s *Subscription) Release() {
	if s == nil || s.released {
		return
	}

	s.released = true

	if s.release != nil {
		s.release()
	}

	s.release = nil
}

// Close releases the subscription, allowing `defer sub.Close()`. It always returns nil.
func (s *Subscription) Close() error {
	s.Release()

	return nil
}

// Released reports whether Release has run.
func (s *Subscription) Released() bool { return s != nil && s.released }
