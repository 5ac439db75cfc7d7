package inmemory

import (
	"context"
	"sync"

	cmsg "github.com/next-trace/scg-messenger/contract/message"
)

// Export is one recorded call to Exporter.Export.
type Export struct {
	Msg  cmsg.Message
	Opts cmsg.ExportOptions
}

// Exporter is a thread-safe in-memory implementation of cmsg.Exporter.
// It records exports for testing and examples.
type Exporter struct {
	mu      sync.Mutex
	exports []Export
}

// Ensure Exporter implements the contract.
var _ cmsg.Exporter = (*Exporter)(nil)

// New creates a new in-memory exporter instance.
func New() *Exporter { return &Exporter{} }

func (e *Exporter) Export(
	ctx context.Context,
	msg cmsg.Message,
	opts cmsg.ExportOptions,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	e.exports = append(e.exports, Export{Msg: msg, Opts: opts})
	e.mu.Unlock()

	return nil
}

// Exports returns a copy of everything recorded so far.
func (e *Exporter) Exports() []Export {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Export(nil), e.exports...)
}

// Len returns the number of recorded exports.
func (e *Exporter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.exports)
}

// Reset drops every recorded export.
func (e *Exporter) Reset() {
	e.mu.Lock()
	e.exports = nil
	e.mu.Unlock()
}
