package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	amqp "github.com/rabbitmq/amqp091-go"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

const messagePrefix = "messages."

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

// Adapter implements cmsg.Exporter over a Publisher.
// Exchange is the target exchange; empty means the default exchange.
type Adapter struct {
	Publisher  Publisher
	Exchange   string
	Propagator cmsg.HeaderPropagator // optional, for context propagation into headers
}

var _ cmsg.Exporter = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp cmsg.HeaderPropagator) *Adapter {
	return &Adapter{Publisher: p, Propagator: hp}
}

func (a *Adapter) Export(ctx context.Context, msg cmsg.Message, opts cmsg.ExportOptions) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("rabbitmq export serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	return a.publish(ctx, routingFor(msg, opts), body, exportHeaders(opts))
}

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

func routingFor(msg cmsg.Message, o cmsg.ExportOptions) string {
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

// internal helpers (readiness + publishing)

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq export: %w", merr.ErrExportFailed)
	}

	return nil
}

func (a *Adapter) publish(ctx context.Context, routingKey string, body []byte, headers map[string]string) error {
	// Inject tracing context via configured propagator (keeps adapter decoupled)
	if a.Propagator != nil {
		a.Propagator.Inject(ctx, headers)
	}

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: routingKey,
		Body:       body,
		Headers:    headers,
	}
	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq export publish %s: %w", routingKey, errors.Join(merr.ErrExportFailed, err))
	}

	return nil
}

func toTable(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}

	h := amqp.Table{}
	for k, v := range headers {
		h[k] = v
	}

	return h
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			Headers:     toTable(m.Headers),
			Body:        m.Body,
			ContentType: "application/json",
		},
	)
}

// NewWithAMQPChannel exports through an existing channel to the default exchange.
func NewWithAMQPChannel(ch *amqp.Channel) *Adapter {
	return &Adapter{Publisher: amqpChannelPublisher{ch: ch}}
}
