package message

import "context"

// Exporter hands a message to an external broker.
// Library users pick an implementation from the adapters packages or provide their own.
type Exporter interface {
	Export(ctx context.Context, msg Message, opts ExportOptions) error
}

// ExportOptions controls a single export.
// Topic overrides the destination derived from the message; Key is a partitioning or routing hint.
type ExportOptions struct {
	Topic   string
	Key     string
	Headers map[string]string
}

// Well-known export headers.
const (
	HeaderMessageID   = "x-message-id"
	HeaderMessageType = "x-message-type"
)
