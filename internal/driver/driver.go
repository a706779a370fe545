package driver

import (
	"context"
	"errors"
)

// ErrClosed is returned when a connection or engine is used after Close.
var ErrClosed = errors.New("connection is closed")

// Row is one result record returned by the backend. Persistence rows carry
// "id", "label" and "properties" keys; edge rows additionally carry "source"
// and "target".
type Row map[string]any

// ResultStream is a pending server response. FetchData returns the complete
// row sequence for a previously submitted script; it is meaningful at most
// once per submission.
type ResultStream interface {
	FetchData(ctx context.Context) ([]Row, error)
}

// RemoteConnection is the transport-level seam to the backend. Submit sends
// a script with its bindings and returns a pending result handle without
// blocking for data. Close is a one-shot teardown.
type RemoteConnection interface {
	Submit(ctx context.Context, script string, bindings map[string]any, lang string) (ResultStream, error)
	Close(ctx context.Context) error
	URL() string
}
