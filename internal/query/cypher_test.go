package query

import (
	"strings"
	"testing"

	"graphogm/internal/traversal"
)

func emptySource() *traversal.Source {
	return traversal.NewRemoteGraph(NewCypherTranslator(), nil).Traversal()
}

func TestTranslateFetchVertex(t *testing.T) {
	tr := emptySource().V(traversal.Binding("id")).ValueMap()

	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	want := "MATCH (n) WHERE elementId(n) = $id RETURN elementId(n) AS id, labels(n)[0] AS label, properties(n) AS properties"
	if script != want {
		t.Errorf("unexpected script:\n got %s\nwant %s", script, want)
	}
}

func TestTranslateCreateVertex(t *testing.T) {
	tr := emptySource().AddV("person").
		Property("name", traversal.Binding("p0")).
		Property("age", traversal.Binding("p1")).
		ValueMap()

	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.HasPrefix(script, "CREATE (n:`person`) SET n.`name` = $p0, n.`age` = $p1 RETURN") {
		t.Errorf("unexpected script: %s", script)
	}
}

func TestTranslateUpdateVertex(t *testing.T) {
	tr := emptySource().V(traversal.Binding("id")).
		Property("name", traversal.Binding("p0")).
		ValueMap()

	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.HasPrefix(script, "MATCH (n) WHERE elementId(n) = $id SET n.`name` = $p0 RETURN") {
		t.Errorf("unexpected script: %s", script)
	}
}

func TestTranslateRemoveVertex(t *testing.T) {
	tr := emptySource().V(traversal.Binding("id")).Drop()

	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	want := "MATCH (n) WHERE elementId(n) = $id DETACH DELETE n RETURN count(n) AS removed"
	if script != want {
		t.Errorf("unexpected script:\n got %s\nwant %s", script, want)
	}
}

func TestTranslateCreateEdge(t *testing.T) {
	tr := emptySource().AddE("knows").
		From(traversal.Binding("source")).
		To(traversal.Binding("target")).
		Property("since", traversal.Binding("p0")).
		ValueMap()

	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	for _, fragment := range []string{
		"MATCH (a) WHERE elementId(a) = $source",
		"MATCH (b) WHERE elementId(b) = $target",
		"CREATE (a)-[r:`knows`]->(b)",
		"SET r.`since` = $p0",
		"elementId(a) AS source, elementId(b) AS target",
	} {
		if !strings.Contains(script, fragment) {
			t.Errorf("script missing %q: %s", fragment, script)
		}
	}
}

func TestTranslateFetchAndRemoveEdge(t *testing.T) {
	fetch := emptySource().E(traversal.Binding("id")).ValueMap()
	script, err := NewCypherTranslator().Translate(fetch.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.HasPrefix(script, "MATCH (a)-[r]->(b) WHERE elementId(r) = $id RETURN elementId(r) AS id, type(r) AS label") {
		t.Errorf("unexpected fetch script: %s", script)
	}

	remove := emptySource().E(traversal.Binding("id")).Drop()
	script, err = NewCypherTranslator().Translate(remove.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	want := "MATCH (a)-[r]->(b) WHERE elementId(r) = $id DELETE r RETURN count(r) AS removed"
	if script != want {
		t.Errorf("unexpected remove script:\n got %s\nwant %s", script, want)
	}
}

func TestTranslateErrors(t *testing.T) {
	translator := NewCypherTranslator()

	cases := []struct {
		name string
		bc   traversal.Bytecode
	}{
		{"empty bytecode", traversal.Bytecode{}},
		{"no terminal", emptySource().V(traversal.Binding("id")).Bytecode()},
		{"embedded identity", emptySource().V("7").ValueMap().Bytecode()},
		{"embedded property value", emptySource().AddV("person").Property("name", "maude").ValueMap().Bytecode()},
		{"addE without endpoints", emptySource().AddE("knows").ValueMap().Bytecode()},
		{"empty label", emptySource().AddV("").ValueMap().Bytecode()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := translator.Translate(tc.bc); err == nil {
				t.Error("expected a translation error")
			}
		})
	}
}

func TestLabelsAreQuoted(t *testing.T) {
	tr := emptySource().AddV("weird `label`").ValueMap()
	script, err := NewCypherTranslator().Translate(tr.Bytecode())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if strings.Contains(script, "``") || !strings.Contains(script, "`weird label`") {
		t.Errorf("label not sanitized: %s", script)
	}
}
