package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

const messagesPrefix = "messages."

// Writer is a minimal Kafka-like writer interface.
// Users can adapt segmentio/kafka-go or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements cmsg.Exporter using an injected Writer.
type Adapter struct {
	Writer Writer
}

var _ cmsg.Exporter = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

func (a *Adapter) Export(ctx context.Context, msg cmsg.Message, opts cmsg.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka export: %w", merr.ErrExportFailed)
	}

	val, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka export serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	topic := topicFor(msg, opts)
	headers := exportHeaders(opts)

	var key []byte
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	if err = a.Writer.Write(ctx, topic, key, val, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka export write to %q: %w", topic, errors.Join(merr.ErrExportFailed, err))
	}

	return nil
}

// helpers (duplicated for simplicity and test isolation)

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	return name
}

func topicFor(msg cmsg.Message, o cmsg.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := msg.(cmsg.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return messagesPrefix + typeName(msg)
}

func exportHeaders(o cmsg.ExportOptions) map[string]string {
	h := make(map[string]string, len(o.Headers))
	for k, v := range o.Headers {
		h[k] = v
	}

	return h
}
