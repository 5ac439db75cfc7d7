package messenger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
	"github.com/next-trace/scg-messenger/messenger"
)

type orderPlaced struct{ ID string }

type fakeExporter struct {
	msgs     []cmsg.Message
	opts     []cmsg.ExportOptions
	deadline []bool
	err      error
}

func (f *fakeExporter) Export(ctx context.Context, msg cmsg.Message, opts cmsg.ExportOptions) error {
	_, hasDeadline := ctx.Deadline()
	f.msgs = append(f.msgs, msg)
	f.opts = append(f.opts, opts)
	f.deadline = append(f.deadline, hasDeadline)

	return f.err
}

func Test_Forward_NotConfigured(t *testing.T) {
	h := messenger.New(nil, nil)

	_, err := messenger.Forward[orderPlaced](h, cmsg.ExportOptions{})
	if !errors.Is(err, merr.ErrExportNotConfigured) {
		t.Fatalf("want ErrExportNotConfigured, got %v", err)
	}

	if messenger.HasSubscribers[orderPlaced](h) {
		t.Fatalf("failed forward must not subscribe")
	}
}

func Test_Forward_ExportsWithHeaders(t *testing.T) {
	exp := &fakeExporter{}
	h := messenger.New(exp, nil)

	callerHeaders := map[string]string{"tenant": "acme"}

	sub, err := messenger.Forward[orderPlaced](h, cmsg.ExportOptions{Topic: "orders", Key: "k", Headers: callerHeaders})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	messenger.Publish(h, orderPlaced{ID: "o-1"})
	messenger.Publish(h, orderPlaced{ID: "o-2"})

	if len(exp.msgs) != 2 {
		t.Fatalf("want 2 exports, got %d", len(exp.msgs))
	}

	if exp.msgs[0].(orderPlaced).ID != "o-1" {
		t.Fatalf("msg=%+v", exp.msgs[0])
	}

	o := exp.opts[0]
	if o.Topic != "orders" || o.Key != "k" || o.Headers["tenant"] != "acme" {
		t.Fatalf("opts=%+v", o)
	}

	if o.Headers[cmsg.HeaderMessageType] != "messenger_test.orderPlaced" {
		t.Fatalf("type header=%q", o.Headers[cmsg.HeaderMessageType])
	}

	id1, err := uuid.Parse(exp.opts[0].Headers[cmsg.HeaderMessageID])
	if err != nil {
		t.Fatalf("message id: %v", err)
	}

	id2, _ := uuid.Parse(exp.opts[1].Headers[cmsg.HeaderMessageID])
	if id1 == id2 {
		t.Fatalf("message ids must be unique per export")
	}

	if len(callerHeaders) != 1 {
		t.Fatalf("caller headers mutated: %+v", callerHeaders)
	}

	if exp.deadline[0] {
		t.Fatalf("no timeout configured, context must not carry a deadline")
	}

	sub.Release()
	messenger.Publish(h, orderPlaced{ID: "o-3"})

	if len(exp.msgs) != 2 {
		t.Fatalf("export after release: %d", len(exp.msgs))
	}
}

func Test_Forward_ErrorHandlerAndTimeout(t *testing.T) {
	exp := &fakeExporter{err: errors.New("broker down")}

	var (
		gotType string
		gotErr  error
	)

	h := messenger.New(exp, nil,
		messenger.WithExportTimeout(time.Second),
		messenger.WithExportErrorHandler(func(msgType string, err error) {
			gotType, gotErr = msgType, err
		}),
	)

	if _, err := messenger.Forward[orderPlaced](h, cmsg.ExportOptions{}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	delivered := 0
	_, _ = messenger.Subscribe(h, func(orderPlaced) { delivered++ })

	messenger.Publish(h, orderPlaced{ID: "o-1"})

	if gotType != "messenger_test.orderPlaced" || gotErr == nil {
		t.Fatalf("error handler not called: type=%q err=%v", gotType, gotErr)
	}

	if delivered != 1 {
		t.Fatalf("export failure must not stop later handlers, delivered=%d", delivered)
	}

	if !exp.deadline[0] {
		t.Fatalf("export timeout must bound the context")
	}
}
