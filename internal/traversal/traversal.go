package traversal

import (
	"context"
	"errors"

	"graphogm/internal/driver"
)

// ErrNotSupported is returned by bulk terminal operations on the
// asynchronous traversal; consume the result stream one element at a time
// instead.
var ErrNotSupported = errors.New("operation not supported on asynchronous traversal")

// Traversal is a pending sequence of steps against one graph. Every step
// method returns an extended copy; in-flight traversals never share mutable
// state.
type Traversal struct {
	source   *Source
	bytecode Bytecode
	bindings map[string]any
}

func (t *Traversal) extend(op string, args ...any) *Traversal {
	return &Traversal{
		source:   t.source,
		bytecode: t.bytecode.Append(op, args...),
		bindings: t.bindings,
	}
}

// Bind returns a traversal with a named value added to its bindings.
func (t *Traversal) Bind(name string, value any) *Traversal {
	bindings := make(map[string]any, len(t.bindings)+1)
	for k, v := range t.bindings {
		bindings[k] = v
	}
	bindings[name] = value
	return &Traversal{
		source:   t.source,
		bytecode: t.bytecode,
		bindings: bindings,
	}
}

// Bytecode returns the accumulated step sequence.
func (t *Traversal) Bytecode() Bytecode {
	return t.bytecode
}

// Bindings returns the named values referenced by the step sequence.
func (t *Traversal) Bindings() map[string]any {
	return t.bindings
}

// Property appends a property assignment; value should be a Binding.
func (t *Traversal) Property(key string, value any) *Traversal {
	return t.extend(OpProperty, key, value)
}

// From sets the source endpoint of an addE traversal.
func (t *Traversal) From(id Binding) *Traversal {
	return t.extend(OpFrom, id)
}

// To sets the target endpoint of an addE traversal.
func (t *Traversal) To(id Binding) *Traversal {
	return t.extend(OpTo, id)
}

// Drop appends the element-removal terminal step.
func (t *Traversal) Drop() *Traversal {
	return t.extend(OpDrop)
}

// ValueMap appends the projection step returning id, label and properties.
func (t *Traversal) ValueMap() *Traversal {
	return t.extend(OpValueMap)
}

// Next submits the traversal through the source's strategy and returns the
// pending result stream.
func (t *Traversal) Next(ctx context.Context) (driver.ResultStream, error) {
	return t.source.strategy.Apply(ctx, t)
}

// ToList fails with ErrNotSupported: bulk materialization requires an
// explicit multi-step pull on the stream, not an eager buffer.
func (t *Traversal) ToList() ([]driver.Row, error) {
	return nil, ErrNotSupported
}

// ToSet fails with ErrNotSupported, like ToList.
func (t *Traversal) ToSet() ([]driver.Row, error) {
	return nil, ErrNotSupported
}

// Source produces traversals bound to one graph and its fixed strategy.
type Source struct {
	graph    *RemoteGraph
	strategy Strategy
}

// Graph returns the graph this source is bound to.
func (s *Source) Graph() *RemoteGraph {
	return s.graph
}

func (s *Source) start(op string, args ...any) *Traversal {
	t := &Traversal{source: s, bindings: map[string]any{}}
	return t.extend(op, args...)
}

// V starts a vertex traversal; the optional argument is a bound identity.
func (s *Source) V(args ...any) *Traversal {
	return s.start(OpV, args...)
}

// E starts an edge traversal; the optional argument is a bound identity.
func (s *Source) E(args ...any) *Traversal {
	return s.start(OpE, args...)
}

// AddV starts a vertex-creation traversal.
func (s *Source) AddV(label string) *Traversal {
	return s.start(OpAddV, label)
}

// AddE starts an edge-creation traversal.
func (s *Source) AddE(label string) *Traversal {
	return s.start(OpAddE, label)
}
