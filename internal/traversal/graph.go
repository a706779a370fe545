package traversal

import (
	"context"
	"fmt"

	"graphogm/internal/driver"
)

// Translator compiles backend-agnostic bytecode into a backend script.
type Translator interface {
	Translate(Bytecode) (string, error)
	TargetLanguage() string
}

// Strategy executes a finalized traversal against a backend.
type Strategy interface {
	Apply(ctx context.Context, t *Traversal) (driver.ResultStream, error)
}

// RemoteStrategy translates a traversal's bytecode and submits the script
// through the graph's remote connection. Apply blocks for submission
// acknowledgment only, never for data.
type RemoteStrategy struct {
	graph *RemoteGraph
}

// Apply submits the traversal and returns the connection's pending stream.
func (s *RemoteStrategy) Apply(ctx context.Context, t *Traversal) (driver.ResultStream, error) {
	conn := s.graph.conn
	if conn == nil {
		return nil, fmt.Errorf("apply: %w", driver.ErrClosed)
	}
	script, err := s.graph.translator.Translate(t.Bytecode())
	if err != nil {
		return nil, err
	}
	return conn.Submit(ctx, script, t.Bindings(), s.graph.translator.TargetLanguage())
}

// RemoteGraph pairs a translator with a remote connection. There is exactly
// one strategy per graph, fixed at construction.
type RemoteGraph struct {
	translator Translator
	conn       driver.RemoteConnection
	strategy   Strategy
}

// NewRemoteGraph creates a graph over the given translator and connection.
func NewRemoteGraph(translator Translator, conn driver.RemoteConnection) *RemoteGraph {
	g := &RemoteGraph{
		translator: translator,
		conn:       conn,
	}
	g.strategy = &RemoteStrategy{graph: g}
	return g
}

// Translator returns the graph's script translator.
func (g *RemoteGraph) Translator() Translator {
	return g.translator
}

// Traversal returns a source producing traversals against this graph.
func (g *RemoteGraph) Traversal() *Source {
	return &Source{graph: g, strategy: g.strategy}
}

// Close releases the remote connection exactly once; any further use of the
// graph or its traversals fails with driver.ErrClosed.
func (g *RemoteGraph) Close(ctx context.Context) error {
	if g.conn == nil {
		return driver.ErrClosed
	}
	err := g.conn.Close(ctx)
	g.conn = nil
	return err
}

func (g *RemoteGraph) String() string {
	if g.conn == nil {
		return "remotegraph[closed]"
	}
	return "remotegraph[" + g.conn.URL() + "]"
}
