package driver

import (
	"context"
	"fmt"
)

// Features reports backend capabilities relevant to session orchestration.
type Features struct {
	Transactions bool
}

// Engine submits compiled scripts through a remote connection. It owns the
// connection for its lifetime; Close releases it exactly once.
type Engine struct {
	conn     RemoteConnection
	lang     string
	features Features
}

// NewEngine creates an engine over conn submitting scripts in the given
// target language.
func NewEngine(conn RemoteConnection, lang string, features Features) *Engine {
	return &Engine{
		conn:     conn,
		lang:     lang,
		features: features,
	}
}

// Features returns the backend capability report.
func (e *Engine) Features() Features {
	return e.features
}

// Submit sends a script with its bindings and returns the pending result
// stream. The session argument names a server-side session for
// session-scoped transaction mode; it is empty outside that mode and is
// forwarded untouched.
func (e *Engine) Submit(ctx context.Context, script string, bindings map[string]any, session string) (ResultStream, error) {
	if e.conn == nil {
		return nil, fmt.Errorf("submit: %w", ErrClosed)
	}
	_ = session // reserved for session-scoped transports
	return e.conn.Submit(ctx, script, bindings, e.lang)
}

// Close releases the underlying connection. Further use of the engine fails
// with ErrClosed.
func (e *Engine) Close(ctx context.Context) error {
	if e.conn == nil {
		return ErrClosed
	}
	err := e.conn.Close(ctx)
	e.conn = nil
	return err
}
