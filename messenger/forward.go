package messenger

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

// Forward subscribes a handler that exports every published T through the
// Hub's exporter. Each export carries a fresh message id header.
//
// Handlers return nothing, so export failures are reported to the export error
// handler (by default an error log record) instead of the publisher.
func Forward[T cmsg.Message](h *Hub, opts cmsg.ExportOptions) (*Subscription, error) {
	name := typeName[T]()
	if h.exp == nil {
		return nil, fmt.Errorf("forward %s: %w", name, merr.ErrExportNotConfigured)
	}

	return Subscribe[T](h, func(msg T) {
		if err := h.export(name, msg, opts); err != nil {
			h.exportFailed(name, err)
		}
	})
}

func (h *Hub) export(name string, msg cmsg.Message, opts cmsg.ExportOptions) error {
	ctx := context.Background()

	if h.exportTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.exportTimeout)
		defer cancel()
	}

	o := opts
	o.Headers = make(map[string]string, len(opts.Headers)+2)
	maps.Copy(o.Headers, opts.Headers)
	o.Headers[cmsg.HeaderMessageID] = uuid.NewString()
	o.Headers[cmsg.HeaderMessageType] = name

	return h.exp.Export(ctx, msg, o)
}

func (h *Hub) exportFailed(name string, err error) {
	if h.onExportError != nil {
		h.onExportError(name, err)

		return
	}

	h.logger.Error("export failed", "type", name, "err", err)
}
