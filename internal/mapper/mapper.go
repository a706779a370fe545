// Package mapper merges backend result rows onto domain elements, honoring
// each element's declared field mapping.
package mapper

import (
	"graphogm/internal/driver"
	"graphogm/internal/graph"
)

// MapVertexToOGM merges one result row onto v and returns it. The row's
// graph property names are translated back to OGM field names through m.
func MapVertexToOGM(row driver.Row, v *graph.Vertex, m graph.Mapping) *graph.Vertex {
	if id, ok := row["id"].(string); ok {
		v.ID = id
	}
	if label, ok := row["label"].(string); ok && label != "" {
		v.Label = label
	}
	mergeProperties(row, v.SetProperty, m)
	return v
}

// MapEdgeToOGM merges one result row onto e and returns it. Endpoint
// identities from the row are pushed onto the edge's source and target
// vertices when present.
func MapEdgeToOGM(row driver.Row, e *graph.Edge, m graph.Mapping) *graph.Edge {
	if id, ok := row["id"].(string); ok {
		e.ID = id
	}
	if label, ok := row["label"].(string); ok && label != "" {
		e.Label = label
	}
	if source, ok := row["source"].(string); ok && e.Source != nil {
		e.Source.ID = source
	}
	if target, ok := row["target"].(string); ok && e.Target != nil {
		e.Target.ID = target
	}
	mergeProperties(row, e.SetProperty, m)
	return e
}

func mergeProperties(row driver.Row, set func(string, any), m graph.Mapping) {
	properties, ok := row["properties"].(map[string]any)
	if !ok {
		return
	}
	for name, value := range properties {
		set(m.FieldName(name), value)
	}
}
