package graph

// Mapping declares how an element's OGM field names translate to graph
// property names. Fields without an entry map to themselves.
type Mapping struct {
	Properties map[string]string `json:"properties,omitempty"`
}

// NewMapping creates a mapping from OGM field names to graph property names.
func NewMapping(properties map[string]string) Mapping {
	return Mapping{Properties: properties}
}

// PropertyName returns the graph property name for an OGM field.
func (m Mapping) PropertyName(field string) string {
	if name, ok := m.Properties[field]; ok {
		return name
	}
	return field
}

// FieldName returns the OGM field name for a graph property.
func (m Mapping) FieldName(property string) string {
	for field, name := range m.Properties {
		if name == property {
			return field
		}
	}
	return property
}
