package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"graphogm/internal/config"
)

// LangCypher is the target language spoken by Neo4jConnection.
const LangCypher = "cypher"

// Neo4jConnection implements RemoteConnection over the official Neo4j Go
// driver. Scripts are executed as Cypher; each submission runs in its own
// auto-committed transaction.
type Neo4jConnection struct {
	driver neo4j.DriverWithContext
	uri    string
}

// NewNeo4jConnection creates a connection to Neo4j and verifies it.
func NewNeo4jConnection(ctx context.Context, cfg config.Config) (*Neo4jConnection, error) {
	auth := neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, "")

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connectivity to neo4j: %w", err)
	}

	return &Neo4jConnection{
		driver: driver,
		uri:    cfg.Neo4jURI,
	}, nil
}

// Driver exposes the underlying Neo4j driver for collaborators that bypass
// the submission path, such as the bulk loader.
func (c *Neo4jConnection) Driver() neo4j.DriverWithContext {
	return c.driver
}

// URL returns the backend URI.
func (c *Neo4jConnection) URL() string {
	return c.uri
}

// Close closes the Neo4j driver.
func (c *Neo4jConnection) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Submit starts the script asynchronously and returns a stream whose
// FetchData yields the full record set.
func (c *Neo4jConnection) Submit(ctx context.Context, script string, bindings map[string]any, lang string) (ResultStream, error) {
	if lang != LangCypher {
		return nil, fmt.Errorf("unsupported query language: %s", lang)
	}

	stream := &neo4jResultStream{done: make(chan neo4jOutcome, 1)}
	go func() {
		rows, err := c.run(ctx, script, bindings)
		stream.done <- neo4jOutcome{rows: rows, err: err}
	}()
	return stream, nil
}

func (c *Neo4jConnection) run(ctx context.Context, script string, bindings map[string]any) ([]Row, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, script, bindings, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	rows := make([]Row, 0, len(result.Records))
	for _, record := range result.Records {
		row := Row{}
		for _, key := range record.Keys {
			value, _ := record.Get(key)
			row[key] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type neo4jOutcome struct {
	rows []Row
	err  error
}

type neo4jResultStream struct {
	done chan neo4jOutcome
}

// FetchData waits for the submission to finish and returns its rows.
func (s *neo4jResultStream) FetchData(ctx context.Context) ([]Row, error) {
	select {
	case out := <-s.done:
		return out.rows, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
