// Package loader bulk-imports elements into Neo4j, bypassing the session.
// Unlike the session, which tracks server-assigned identities, the loader
// keys elements by their client-supplied id property so that re-running an
// import merges instead of duplicating.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"graphogm/internal/graph"
)

// Neo4jLoader handles batch loading of elements into Neo4j.
type Neo4jLoader struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jLoader creates a new loader instance.
func NewNeo4jLoader(driver neo4j.DriverWithContext, dbName string) *Neo4jLoader {
	return &Neo4jLoader{
		Driver: driver,
		DBName: dbName,
	}
}

// BatchLoadVertices loads a batch of vertices using UNWIND, one write per
// label. Every vertex must carry a client-supplied id.
func (l *Neo4jLoader) BatchLoadVertices(ctx context.Context, vertices []*graph.Vertex) error {
	if len(vertices) == 0 {
		return nil
	}

	batches, err := groupVerticesByLabel(vertices)
	if err != nil {
		return err
	}

	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for label, batch := range batches {
		query := buildVertexQuery(label)
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, query, map[string]any{"batch": batch})
		})
		if err != nil {
			return fmt.Errorf("failed to load vertices for label %s: %w", label, err)
		}
	}

	return nil
}

// BatchLoadEdges loads a batch of edges using UNWIND, one write per label.
// Edges reference their endpoints by client-supplied vertex id.
func (l *Neo4jLoader) BatchLoadEdges(ctx context.Context, edges []*graph.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	batches, err := groupEdgesByLabel(edges)
	if err != nil {
		return err
	}

	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for label, batch := range batches {
		query := buildEdgeQuery(label)
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, query, map[string]any{"batch": batch})
		})
		if err != nil {
			return fmt.Errorf("failed to load edges for label %s: %w", label, err)
		}
	}

	return nil
}

// Wipe deletes all data from the database.
func (l *Neo4jLoader) Wipe(ctx context.Context) error {
	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, buildWipeQuery(), nil)
	})
	return err
}

// ApplyConstraints creates a uniqueness constraint on the id property for
// each given label.
func (l *Neo4jLoader) ApplyConstraints(ctx context.Context, labels []string) error {
	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	for _, label := range labels {
		query := buildConstraintQuery(label)
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, query, nil)
		})
		if err != nil {
			return fmt.Errorf("failed to apply constraint for label %s: %w", label, err)
		}
	}
	return nil
}

// Helpers extracted for testing
func groupVerticesByLabel(vertices []*graph.Vertex) (map[string][]map[string]any, error) {
	batches := make(map[string][]map[string]any)
	for i, v := range vertices {
		if v.ID == "" {
			return nil, fmt.Errorf("vertex %d has no id; bulk loading needs client-supplied ids", i)
		}
		label := v.Label
		if label == "" {
			label = "Generic"
		}

		props := make(map[string]any)
		for field, value := range v.Properties {
			props[v.Mapping.PropertyName(field)] = value
		}
		props["id"] = v.ID

		batches[label] = append(batches[label], props)
	}
	return batches, nil
}

func buildVertexQuery(label string) string {
	return fmt.Sprintf(`
			UNWIND $batch AS row
			MERGE (n:%s {id: row.id})
			SET n += row
		`, sanitizeLabel(label))
}

func groupEdgesByLabel(edges []*graph.Edge) (map[string][]map[string]any, error) {
	batches := make(map[string][]map[string]any)
	for i, e := range edges {
		if !e.HasEndpoints() {
			return nil, fmt.Errorf("edge %d is missing an endpoint", i)
		}
		if e.Source.ID == "" || e.Target.ID == "" {
			return nil, fmt.Errorf("edge %d references an endpoint without an id", i)
		}
		label := e.Label
		if label == "" {
			label = "RELATED_TO"
		}

		row := map[string]any{
			"sourceId": e.Source.ID,
			"targetId": e.Target.ID,
		}
		for field, value := range e.Properties {
			row[e.Mapping.PropertyName(field)] = value
		}

		batches[label] = append(batches[label], row)
	}
	return batches, nil
}

func buildEdgeQuery(label string) string {
	return fmt.Sprintf(`
			UNWIND $batch AS row
			MATCH (source {id: row.sourceId})
			MATCH (target {id: row.targetId})
			MERGE (source)-[r:%s]->(target)
		`, sanitizeLabel(label))
}

func buildWipeQuery() string {
	return "MATCH (n) DETACH DELETE n"
}

func buildConstraintQuery(label string) string {
	return fmt.Sprintf(
		"CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE",
		sanitizeLabel(label))
}

func sanitizeLabel(label string) string {
	return strings.ReplaceAll(label, "`", "")
}
