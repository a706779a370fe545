package graph

// Kind discriminates the two element variants.
type Kind string

const (
	KindVertex Kind = "vertex"
	KindEdge   Kind = "edge"
)

// Element is the closed set of persistable graph entities. Only *Vertex and
// *Edge implement it; a Session rejects anything else at the deserialization
// boundary.
type Element interface {
	Kind() Kind
	// ElementID returns the server-assigned identity, or "" if the element
	// has not been persisted yet.
	ElementID() string
	SetID(id string)
	FieldMapping() Mapping

	sealed()
}

// Vertex represents a graph vertex. ID is empty until the first successful
// save assigns one.
type Vertex struct {
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Mapping    Mapping        `json:"-"`
}

// NewVertex creates an unpersisted vertex with the given label.
func NewVertex(label string) *Vertex {
	return &Vertex{
		Label:      label,
		Properties: make(map[string]any),
	}
}

func (v *Vertex) Kind() Kind            { return KindVertex }
func (v *Vertex) ElementID() string     { return v.ID }
func (v *Vertex) SetID(id string)       { v.ID = id }
func (v *Vertex) FieldMapping() Mapping { return v.Mapping }
func (v *Vertex) sealed()               {}

// SetProperty sets an OGM field value, initializing the property map if
// needed.
func (v *Vertex) SetProperty(field string, value any) {
	if v.Properties == nil {
		v.Properties = make(map[string]any)
	}
	v.Properties[field] = value
}

// Clone returns a copy of v with its own property map.
func (v *Vertex) Clone() *Vertex {
	out := *v
	out.Properties = make(map[string]any, len(v.Properties))
	for k, val := range v.Properties {
		out.Properties[k] = val
	}
	return &out
}

// Edge represents a graph edge. Source and Target are mandatory at save
// time; an edge without both endpoints is rejected before any network call.
type Edge struct {
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Mapping    Mapping        `json:"-"`
	Source     *Vertex        `json:"source,omitempty"`
	Target     *Vertex        `json:"target,omitempty"`
}

// NewEdge creates an unpersisted edge between source and target.
func NewEdge(label string, source, target *Vertex) *Edge {
	return &Edge{
		Label:      label,
		Properties: make(map[string]any),
		Source:     source,
		Target:     target,
	}
}

func (e *Edge) Kind() Kind            { return KindEdge }
func (e *Edge) ElementID() string     { return e.ID }
func (e *Edge) SetID(id string)       { e.ID = id }
func (e *Edge) FieldMapping() Mapping { return e.Mapping }
func (e *Edge) sealed()               {}

// HasEndpoints reports whether both source and target are present.
func (e *Edge) HasEndpoints() bool {
	return e.Source != nil && e.Target != nil
}

// SetProperty sets an OGM field value, initializing the property map if
// needed.
func (e *Edge) SetProperty(field string, value any) {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[field] = value
}

// Clone returns a copy of e with its own property map. Endpoints are shared,
// not copied; they are owned by the caller.
func (e *Edge) Clone() *Edge {
	out := *e
	out.Properties = make(map[string]any, len(e.Properties))
	for k, val := range e.Properties {
		out.Properties[k] = val
	}
	return &out
}
