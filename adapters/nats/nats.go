package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

const messagePrefix = "messages."

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements cmsg.Exporter using an injected NATS-like Client.
type Adapter struct {
	Client Client
}

// Ensure Adapter implements the contract.
var _ cmsg.Exporter = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

func (a *Adapter) Export(ctx context.Context, msg cmsg.Message, opts cmsg.ExportOptions) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	sa := &serializeArgs{
		subject: subjectFor(msg, opts),
		payload: msg,
		headers: exportHeaders(opts),
	}

	return a.serializeAndPublish(ctx, sa)
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats export: %w", merr.ErrExportFailed)
	}

	return nil
}

type serializeArgs struct {
	subject string
	payload any
	headers map[string]string
}

func (a *Adapter) serializeAndPublish(ctx context.Context, sa *serializeArgs) error {
	body, err := json.Marshal(sa.payload)
	if err != nil {
		return fmt.Errorf("nats export serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	return a.publish(ctx, sa.subject, body, sa.headers)
}

func (a *Adapter) publish(_ context.Context, subject string, body []byte, headers map[string]string) error {
	if err := a.Client.Publish(subject, body, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats export publish %s: %w", subject, errors.Join(merr.ErrExportFailed, err))
	}

	return nil
}

// helpers

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" { // unnamed (e.g., map/struct literal)
		name = t.String()
	}

	return name
}

func subjectFor(msg cmsg.Message, o cmsg.ExportOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if tp, ok := msg.(cmsg.Topical); ok && tp.Topic() != "" {
		return tp.Topic()
	}

	return messagePrefix + typeName(msg)
}

func exportHeaders(o cmsg.ExportOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		h[k] = v
	}

	if o.Key != "" {
		h["key"] = o.Key
	}

	return h
}
