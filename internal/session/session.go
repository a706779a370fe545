// Package session implements the unit-of-work coordinator: a pending queue
// of unsaved elements, an identity cache of persisted ones, and the
// orchestration that turns "persist this element" into one correctly-chosen
// traversal with its result merged back.
package session

import (
	"context"
	"errors"
	"fmt"

	"graphogm/internal/driver"
	"graphogm/internal/graph"
	"graphogm/internal/mapper"
	"graphogm/internal/query"
	"graphogm/internal/traversal"
)

var (
	// ErrUnknownElementKind is returned by Save for an element that is
	// neither a vertex nor an edge.
	ErrUnknownElementKind = errors.New("unknown element kind")

	// ErrMissingEndpoints is returned by SaveEdge before any request is
	// issued when source or target is absent.
	ErrMissingEndpoints = errors.New("edge requires source and target vertices")

	// ErrNoTransactionPolicy is returned when transaction finalization or
	// wrapping is required but no policy has been configured.
	ErrNoTransactionPolicy = errors.New("no transaction policy configured")
)

// Engine is the execution seam the session submits compiled scripts through.
// *driver.Engine satisfies it.
type Engine interface {
	Submit(ctx context.Context, script string, bindings map[string]any, session string) (driver.ResultStream, error)
	Features() driver.Features
}

// Session is a unit of work over one engine. It owns its pending queue and
// identity cache exclusively; it is not safe for concurrent use, callers
// sharing one session must serialize access.
type Session struct {
	engine  Engine
	builder *query.Builder

	policy        TransactionPolicy
	sessionScoped bool
	sessionID     string

	pending []graph.Element
	current map[string]graph.Element
}

// New creates a session executing through engine with traversals produced by
// builder.
func New(engine Engine, builder *query.Builder) *Session {
	return &Session{
		engine:  engine,
		builder: builder,
		current: make(map[string]graph.Element),
	}
}

// Current returns the identity cache: server-assigned id to the last-known
// persisted element. The map is live; treat it as read-only.
func (s *Session) Current() map[string]graph.Element {
	return s.current
}

// Pending returns a copy of the not-yet-flushed queue in FIFO order.
func (s *Session) Pending() []graph.Element {
	out := make([]graph.Element, len(s.pending))
	copy(out, s.pending)
	return out
}

// Add appends elements to the pending queue. No network effect.
func (s *Session) Add(elements ...graph.Element) {
	s.pending = append(s.pending, elements...)
}

// Flush drains the pending queue in FIFO order, saving each element fully
// before the next. Elements enqueued while flushing are drained too. A save
// failure aborts the drain and propagates; the failing element has already
// been dequeued, so callers resuming after a partial flush should inspect
// Pending first.
func (s *Session) Flush(ctx context.Context) error {
	for len(s.pending) > 0 {
		element := s.pending[0]
		s.pending = s.pending[1:]
		if _, err := s.Save(ctx, element); err != nil {
			return err
		}
	}
	return nil
}

// Save persists one element, dispatching on its variant.
func (s *Session) Save(ctx context.Context, element graph.Element) (graph.Element, error) {
	switch e := element.(type) {
	case *graph.Vertex:
		return s.SaveVertex(ctx, e)
	case *graph.Edge:
		return s.SaveEdge(ctx, e)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownElementKind, element)
	}
}

// SaveVertex persists v and refreshes its identity cache entry.
func (s *Session) SaveVertex(ctx context.Context, v *graph.Vertex) (*graph.Vertex, error) {
	merged, err := s.saveElement(ctx, v,
		func() *traversal.Traversal { return s.builder.GetVertexByID(v) },
		func() *traversal.Traversal { return s.builder.AddVertex(v) },
		func() *traversal.Traversal { return s.builder.UpdateVertex(v) },
		func(row driver.Row) graph.Element { return mapper.MapVertexToOGM(row, v, v.Mapping) },
	)
	if err != nil {
		return nil, err
	}
	s.current[merged.ElementID()] = merged
	return merged.(*graph.Vertex), nil
}

// SaveEdge persists e and refreshes its identity cache entry. It fails with
// ErrMissingEndpoints before issuing any request if an endpoint is absent.
func (s *Session) SaveEdge(ctx context.Context, e *graph.Edge) (*graph.Edge, error) {
	if !e.HasEndpoints() {
		return nil, ErrMissingEndpoints
	}
	merged, err := s.saveElement(ctx, e,
		func() *traversal.Traversal { return s.builder.GetEdgeByID(e) },
		func() *traversal.Traversal { return s.builder.AddEdge(e) },
		func() *traversal.Traversal { return s.builder.UpdateEdge(e) },
		func(row driver.Row) graph.Element { return mapper.MapEdgeToOGM(row, e, e.Mapping) },
	)
	if err != nil {
		return nil, err
	}
	s.current[merged.ElementID()] = merged
	return merged.(*graph.Edge), nil
}

// saveElement runs the generic persist algorithm. An element with an
// identity is fetched first; an empty fetch means the id is stale and the
// element is created anew rather than updated (upsert-by-id).
func (s *Session) saveElement(
	ctx context.Context,
	element graph.Element,
	get, create, update func() *traversal.Traversal,
	merge func(driver.Row) graph.Element,
) (graph.Element, error) {
	var chosen *traversal.Traversal
	if element.ElementID() != "" {
		rows, err := s.fetch(ctx, get())
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			chosen = create()
		} else {
			chosen = update()
		}
	} else {
		chosen = create()
	}

	rows, err := s.fetch(ctx, chosen)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no rows for persisted element")
	}
	return merge(rows[0]), nil
}

// RemoveVertex deletes v remotely and evicts its identity cache entry.
func (s *Session) RemoveVertex(ctx context.Context, v *graph.Vertex) error {
	return s.removeElement(ctx, v, s.builder.RemoveVertex(v))
}

// RemoveEdge deletes e remotely and evicts its identity cache entry.
func (s *Session) RemoveEdge(ctx context.Context, e *graph.Edge) error {
	return s.removeElement(ctx, e, s.builder.RemoveEdge(e))
}

func (s *Session) removeElement(ctx context.Context, element graph.Element, t *traversal.Traversal) error {
	if _, err := s.fetch(ctx, t); err != nil {
		return err
	}
	delete(s.current, element.ElementID())
	return nil
}

// GetVertex fetches v by identity and merges the result onto a new vertex.
// A nil vertex with nil error means not found; that is a normal outcome.
func (s *Session) GetVertex(ctx context.Context, v *graph.Vertex) (*graph.Vertex, error) {
	rows, err := s.fetch(ctx, s.builder.GetVertexByID(v))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := mapper.MapVertexToOGM(rows[0], v.Clone(), v.Mapping)
	s.current[out.ID] = out
	return out, nil
}

// GetEdge fetches e by identity and merges the result onto a new edge. A nil
// edge with nil error means not found.
func (s *Session) GetEdge(ctx context.Context, e *graph.Edge) (*graph.Edge, error) {
	rows, err := s.fetch(ctx, s.builder.GetEdgeByID(e))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := mapper.MapEdgeToOGM(rows[0], e.Clone(), e.Mapping)
	s.current[out.ID] = out
	return out, nil
}

// ExecuteTraversal compiles a traversal and submits it through the engine.
// Every persistence path funnels through here; the backend observes
// submissions in call order. When the backend supports transactions and the
// session is not session-scoped, the script is wrapped per the configured
// transaction policy.
func (s *Session) ExecuteTraversal(ctx context.Context, t *traversal.Traversal) (driver.ResultStream, error) {
	script, bindings, err := s.builder.Compile(t)
	if err != nil {
		return nil, err
	}
	if s.engine.Features().Transactions && !s.sessionScoped {
		if s.policy == nil {
			return nil, fmt.Errorf("wrap in tx: %w", ErrNoTransactionPolicy)
		}
		script = s.policy.WrapInTx(script)
	}
	return s.engine.Submit(ctx, script, bindings, s.sessionID)
}

func (s *Session) fetch(ctx context.Context, t *traversal.Traversal) ([]driver.Row, error) {
	stream, err := s.ExecuteTraversal(ctx, t)
	if err != nil {
		return nil, err
	}
	return stream.FetchData(ctx)
}
