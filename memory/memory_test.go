package memory

import (
	"testing"

	cmsg "github.com/next-trace/scg-messenger/contract/message"
	"github.com/next-trace/scg-messenger/messenger"
)

type testEvt struct{ N int }

func TestNewMemoryHub_BasicFlow(t *testing.T) {
	h, exp, cleanup := New(nil)
	defer cleanup()

	// Subscribe and publish
	seen := 0
	sub, err := messenger.Subscribe(h, func(e testEvt) { seen += e.N })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Forward the same type to the exporter
	fwd, err := messenger.Forward[testEvt](h, cmsg.ExportOptions{Topic: "evts"})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	messenger.Publish(h, testEvt{N: 3})

	if seen != 3 {
		t.Fatalf("expected seen=3 got %d", seen)
	}

	if exp.Len() != 1 {
		t.Fatalf("expected 1 export got %d", exp.Len())
	}

	sub.Release()
	fwd.Release()

	if messenger.HasSubscribers[testEvt](h) {
		t.Fatalf("expected no subscribers after release")
	}

	// Cleanup resets both hub and exporter
	cleanup()

	if len(h.Types()) != 0 || exp.Len() != 0 {
		t.Fatalf("cleanup left state behind: types=%v exports=%d", h.Types(), exp.Len())
	}
}
