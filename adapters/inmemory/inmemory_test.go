package inmemory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/next-trace/scg-messenger/adapters/inmemory"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

type userCreated struct{ ID string }

func TestInmemory_ExportRecordings(t *testing.T) {
	ex := inmemory.New()

	opts := cmsg.ExportOptions{Topic: "users", Key: "k"}
	if err := ex.Export(t.Context(), userCreated{ID: "1"}, opts); err != nil {
		t.Fatalf("export: %v", err)
	}

	got := ex.Exports()
	if len(got) != 1 {
		t.Fatalf("want 1 export, got %d", len(got))
	}

	if got[0].Msg.(userCreated).ID != "1" || got[0].Opts.Topic != "users" {
		t.Fatalf("export=%+v", got[0])
	}

	ex.Reset()

	if ex.Len() != 0 {
		t.Fatalf("want 0 after reset, got %d", ex.Len())
	}
}

func TestInmemory_CanceledContext(t *testing.T) {
	ex := inmemory.New()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := ex.Export(ctx, userCreated{}, cmsg.ExportOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	if ex.Len() != 0 {
		t.Fatalf("canceled export must not be recorded")
	}
}

func TestInmemory_ConcurrentSafety(t *testing.T) {
	ex := inmemory.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = ex.Export(t.Context(), userCreated{ID: "c"}, cmsg.ExportOptions{})
		}()
	}

	wg.Wait()

	if ex.Len() != 50 {
		t.Fatalf("exports=%d", ex.Len())
	}
}
