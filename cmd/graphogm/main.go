package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"graphogm/internal/config"
	"graphogm/internal/driver"
	"graphogm/internal/graph"
	"graphogm/internal/loader"
	"graphogm/internal/query"
	"graphogm/internal/session"
	"graphogm/internal/storage"
	"graphogm/internal/traversal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: graphogm <command> [options]")
		fmt.Println("Commands: save, get, remove")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "save":
		handleSave(os.Args[2:])
	case "get":
		handleGet(os.Args[2:])
	case "remove":
		handleRemove(os.Args[2:])
	case "load":
		handleLoad(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// setupSession wires connection, engine, graph and builder into a session.
// The returned cleanup closes the engine.
func setupSession(ctx context.Context) (*session.Session, func()) {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg := config.LoadConfig()
	if cfg.Neo4jURI == "" {
		log.Fatal("NEO4J_URI environment variable is not set")
	}

	conn, err := driver.NewNeo4jConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}

	engine := driver.NewEngine(conn, driver.LangCypher, driver.Features{Transactions: true})
	g := traversal.NewRemoteGraph(query.NewCypherTranslator(), conn)
	builder := query.NewBuilder(g.Traversal())

	sess := session.New(engine, builder)
	sess.SetTransactionPolicy(session.AutoCommitPolicy{}, false, "")

	cleanup := func() {
		if err := engine.Close(ctx); err != nil {
			log.Printf("Engine close error: %v", err)
		}
	}
	return sess, cleanup
}

func handleSave(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	inputPtr := fs.String("input", "elements.jsonl", "JSONL file of elements to persist")
	outputPtr := fs.String("output", "", "Optional JSONL file for the persisted elements")
	fs.Parse(args)

	file, err := os.Open(*inputPtr)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer file.Close()

	elements, err := storage.ReadElements(file)
	if err != nil {
		log.Fatalf("Failed to read elements: %v", err)
	}

	ctx := context.Background()
	sess, cleanup := setupSession(ctx)
	defer cleanup()

	sess.Add(elements...)
	if err := sess.Flush(ctx); err != nil {
		log.Fatalf("Flush failed with %d elements still pending: %v", len(sess.Pending()), err)
	}

	log.Printf("Persisted %d elements", len(elements))

	if *outputPtr != "" {
		out, err := os.Create(*outputPtr)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		writer := storage.NewJSONLWriter(out)
		defer writer.Close()
		for _, element := range elements {
			if err := writer.WriteElement(element); err != nil {
				log.Printf("Warning: failed to write element: %v", err)
			}
		}
	}
}

func handleGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	idPtr := fs.String("id", "", "Element id to fetch")
	kindPtr := fs.String("kind", string(graph.KindVertex), "Element kind: vertex or edge")
	fs.Parse(args)

	if *idPtr == "" {
		log.Fatal("-id is required for 'get'")
	}

	ctx := context.Background()
	sess, cleanup := setupSession(ctx)
	defer cleanup()

	var result any
	var err error
	switch graph.Kind(*kindPtr) {
	case graph.KindVertex:
		var v *graph.Vertex
		v, err = sess.GetVertex(ctx, &graph.Vertex{ID: *idPtr})
		if v != nil {
			result = v
		}
	case graph.KindEdge:
		var e *graph.Edge
		e, err = sess.GetEdge(ctx, &graph.Edge{ID: *idPtr})
		if e != nil {
			result = e
		}
	default:
		log.Fatalf("Unknown kind: %s", *kindPtr)
	}
	if err != nil {
		log.Fatalf("Get failed: %v", err)
	}
	if result == nil {
		fmt.Println("not found")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}

func handleLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	inputPtr := fs.String("input", "elements.jsonl", "JSONL file of elements to bulk load")
	wipePtr := fs.Bool("wipe", false, "Wipe the database before loading")
	constraintsPtr := fs.Bool("constraints", true, "Apply id uniqueness constraints before loading")
	dbPtr := fs.String("db", "", "Target database name")
	fs.Parse(args)

	file, err := os.Open(*inputPtr)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer file.Close()

	elements, err := storage.ReadElements(file)
	if err != nil {
		log.Fatalf("Failed to read elements: %v", err)
	}

	var vertices []*graph.Vertex
	var edges []*graph.Edge
	labels := map[string]bool{}
	for _, element := range elements {
		switch e := element.(type) {
		case *graph.Vertex:
			vertices = append(vertices, e)
			labels[e.Label] = true
		case *graph.Edge:
			edges = append(edges, e)
		}
	}

	ctx := context.Background()
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg := config.LoadConfig()
	if cfg.Neo4jURI == "" {
		log.Fatal("NEO4J_URI environment variable is not set")
	}
	conn, err := driver.NewNeo4jConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer conn.Close(ctx)

	ld := loader.NewNeo4jLoader(conn.Driver(), *dbPtr)

	if *wipePtr {
		if err := ld.Wipe(ctx); err != nil {
			log.Fatalf("Wipe failed: %v", err)
		}
	}
	if *constraintsPtr {
		names := make([]string, 0, len(labels))
		for label := range labels {
			if label != "" {
				names = append(names, label)
			}
		}
		if err := ld.ApplyConstraints(ctx, names); err != nil {
			log.Fatalf("Failed to apply constraints: %v", err)
		}
	}

	if err := ld.BatchLoadVertices(ctx, vertices); err != nil {
		log.Fatalf("Failed to load vertices: %v", err)
	}
	if err := ld.BatchLoadEdges(ctx, edges); err != nil {
		log.Fatalf("Failed to load edges: %v", err)
	}
	log.Printf("Loaded %d vertices and %d edges", len(vertices), len(edges))
}

func handleRemove(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	idPtr := fs.String("id", "", "Element id to remove")
	kindPtr := fs.String("kind", string(graph.KindVertex), "Element kind: vertex or edge")
	fs.Parse(args)

	if *idPtr == "" {
		log.Fatal("-id is required for 'remove'")
	}

	ctx := context.Background()
	sess, cleanup := setupSession(ctx)
	defer cleanup()

	var err error
	switch graph.Kind(*kindPtr) {
	case graph.KindVertex:
		err = sess.RemoveVertex(ctx, &graph.Vertex{ID: *idPtr})
	case graph.KindEdge:
		err = sess.RemoveEdge(ctx, &graph.Edge{ID: *idPtr})
	default:
		log.Fatalf("Unknown kind: %s", *kindPtr)
	}
	if err != nil {
		log.Fatalf("Remove failed: %v", err)
	}
	log.Printf("Removed %s %s", *kindPtr, *idPtr)
}
