// Package storage reads and writes graph elements as JSONL, the input and
// audit format of the CLI.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"graphogm/internal/graph"
)

// record is the JSONL wire form of one element.
type record struct {
	Kind       graph.Kind     `json:"kind"`
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Source     string         `json:"source,omitempty"`
	Target     string         `json:"target,omitempty"`
}

// ReadElements decodes a JSONL stream of vertex and edge records. Edge
// endpoints reference vertex records by id; an endpoint id without a
// matching vertex earlier in the stream resolves to a stub vertex carrying
// only that id.
func ReadElements(r io.Reader) ([]graph.Element, error) {
	var elements []graph.Element
	byID := make(map[string]*graph.Vertex)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		switch rec.Kind {
		case graph.KindVertex:
			v := &graph.Vertex{
				ID:         rec.ID,
				Label:      rec.Label,
				Properties: rec.Properties,
			}
			if v.Properties == nil {
				v.Properties = make(map[string]any)
			}
			if rec.ID != "" {
				byID[rec.ID] = v
			}
			elements = append(elements, v)
		case graph.KindEdge:
			if rec.Source == "" || rec.Target == "" {
				return nil, fmt.Errorf("line %d: edge record needs source and target ids", line)
			}
			e := &graph.Edge{
				ID:         rec.ID,
				Label:      rec.Label,
				Properties: rec.Properties,
				Source:     resolveEndpoint(byID, rec.Source),
				Target:     resolveEndpoint(byID, rec.Target),
			}
			if e.Properties == nil {
				e.Properties = make(map[string]any)
			}
			elements = append(elements, e)
		default:
			return nil, fmt.Errorf("line %d: unknown element kind %q", line, rec.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return elements, nil
}

func resolveEndpoint(byID map[string]*graph.Vertex, id string) *graph.Vertex {
	if v, ok := byID[id]; ok {
		return v
	}
	return &graph.Vertex{ID: id, Properties: make(map[string]any)}
}

// JSONLWriter emits elements to the output, one JSON record per line.
type JSONLWriter struct {
	w       io.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLWriter creates a writer emitting to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

// WriteElement writes one element record.
func (jw *JSONLWriter) WriteElement(element graph.Element) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	switch e := element.(type) {
	case *graph.Vertex:
		return jw.encoder.Encode(record{
			Kind:       graph.KindVertex,
			ID:         e.ID,
			Label:      e.Label,
			Properties: e.Properties,
		})
	case *graph.Edge:
		rec := record{
			Kind:       graph.KindEdge,
			ID:         e.ID,
			Label:      e.Label,
			Properties: e.Properties,
		}
		if e.Source != nil {
			rec.Source = e.Source.ID
		}
		if e.Target != nil {
			rec.Target = e.Target.ID
		}
		return jw.encoder.Encode(rec)
	default:
		return fmt.Errorf("unknown element kind %T", element)
	}
}

// Close closes the underlying writer if it implements io.Closer.
func (jw *JSONLWriter) Close() error {
	if c, ok := jw.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
