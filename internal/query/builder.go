package query

import (
	"fmt"
	"sort"

	"graphogm/internal/graph"
	"graphogm/internal/traversal"
)

// Binding names used by every builder operation.
const (
	bindID     = "id"
	bindSource = "source"
	bindTarget = "target"
)

// Builder produces traversal descriptions for the persistence operations.
// It is pure: no operation performs I/O. Literal values are always extracted
// into bindings, never embedded in the step sequence.
type Builder struct {
	source *traversal.Source
}

// NewBuilder creates a builder producing traversals over source.
func NewBuilder(source *traversal.Source) *Builder {
	return &Builder{source: source}
}

// GetVertexByID builds a fetch-by-id traversal for v.
func (b *Builder) GetVertexByID(v *graph.Vertex) *traversal.Traversal {
	return b.source.V(traversal.Binding(bindID)).
		ValueMap().
		Bind(bindID, v.ID)
}

// AddVertex builds a creation traversal for v.
func (b *Builder) AddVertex(v *graph.Vertex) *traversal.Traversal {
	t := b.source.AddV(v.Label)
	t = withProperties(t, v.Properties, v.Mapping)
	return t.ValueMap()
}

// UpdateVertex builds an update traversal for v; v must carry an identity.
func (b *Builder) UpdateVertex(v *graph.Vertex) *traversal.Traversal {
	t := b.source.V(traversal.Binding(bindID))
	t = withProperties(t, v.Properties, v.Mapping)
	return t.ValueMap().Bind(bindID, v.ID)
}

// RemoveVertex builds a deletion traversal for v.
func (b *Builder) RemoveVertex(v *graph.Vertex) *traversal.Traversal {
	return b.source.V(traversal.Binding(bindID)).
		Drop().
		Bind(bindID, v.ID)
}

// GetEdgeByID builds a fetch-by-id traversal for e.
func (b *Builder) GetEdgeByID(e *graph.Edge) *traversal.Traversal {
	return b.source.E(traversal.Binding(bindID)).
		ValueMap().
		Bind(bindID, e.ID)
}

// AddEdge builds a creation traversal for e. Both endpoints must be present
// and persisted; the session validates this before building.
func (b *Builder) AddEdge(e *graph.Edge) *traversal.Traversal {
	t := b.source.AddE(e.Label).
		From(traversal.Binding(bindSource)).
		To(traversal.Binding(bindTarget))
	t = withProperties(t, e.Properties, e.Mapping)
	return t.ValueMap().
		Bind(bindSource, e.Source.ID).
		Bind(bindTarget, e.Target.ID)
}

// UpdateEdge builds an update traversal for e; e must carry an identity.
func (b *Builder) UpdateEdge(e *graph.Edge) *traversal.Traversal {
	t := b.source.E(traversal.Binding(bindID))
	t = withProperties(t, e.Properties, e.Mapping)
	return t.ValueMap().Bind(bindID, e.ID)
}

// RemoveEdge builds a deletion traversal for e.
func (b *Builder) RemoveEdge(e *graph.Edge) *traversal.Traversal {
	return b.source.E(traversal.Binding(bindID)).
		Drop().
		Bind(bindID, e.ID)
}

// Compile translates a traversal into a backend script plus its bindings.
func (b *Builder) Compile(t *traversal.Traversal) (string, map[string]any, error) {
	script, err := b.source.Graph().Translator().Translate(t.Bytecode())
	if err != nil {
		return "", nil, err
	}
	return script, t.Bindings(), nil
}

// withProperties appends one property step per OGM field, in sorted field
// order so compiled scripts are deterministic. Field values are bound as
// p0, p1, ... and property names follow the element's mapping.
func withProperties(t *traversal.Traversal, properties map[string]any, mapping graph.Mapping) *traversal.Traversal {
	fields := make([]string, 0, len(properties))
	for field := range properties {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for i, field := range fields {
		name := fmt.Sprintf("p%d", i)
		t = t.Property(mapping.PropertyName(field), traversal.Binding(name)).
			Bind(name, properties[field])
	}
	return t
}
