package traversal

import (
	"context"
	"errors"
	"testing"

	"graphogm/internal/driver"
)

type fakeTranslator struct {
	script string
	err    error
}

func (t *fakeTranslator) Translate(Bytecode) (string, error) { return t.script, t.err }
func (t *fakeTranslator) TargetLanguage() string             { return "fake" }

type fakeConn struct {
	script   string
	bindings map[string]any
	lang     string
	closed   int
}

func (c *fakeConn) Submit(_ context.Context, script string, bindings map[string]any, lang string) (driver.ResultStream, error) {
	c.script = script
	c.bindings = bindings
	c.lang = lang
	return fakeStream{}, nil
}

func (c *fakeConn) Close(context.Context) error {
	c.closed++
	return nil
}

func (c *fakeConn) URL() string { return "bolt://fake:7687" }

type fakeStream struct{}

func (fakeStream) FetchData(context.Context) ([]driver.Row, error) { return nil, nil }

func TestTraversalImmutability(t *testing.T) {
	g := NewRemoteGraph(&fakeTranslator{}, &fakeConn{})
	source := g.Traversal()

	base := source.V(Binding("id"))
	withProp := base.Property("name", Binding("p0"))
	withDrop := base.Drop()

	if got := len(base.Bytecode().Steps()); got != 1 {
		t.Fatalf("base traversal mutated: %d steps", got)
	}
	if got := len(withProp.Bytecode().Steps()); got != 2 {
		t.Fatalf("expected 2 steps, got %d", got)
	}
	if got := len(withDrop.Bytecode().Steps()); got != 2 {
		t.Fatalf("expected 2 steps, got %d", got)
	}
	if withDrop.Bytecode().Steps()[1].Op != OpDrop {
		t.Fatalf("expected drop step, got %s", withDrop.Bytecode().Steps()[1].Op)
	}
}

func TestBindDoesNotMutate(t *testing.T) {
	g := NewRemoteGraph(&fakeTranslator{}, &fakeConn{})
	base := g.Traversal().V(Binding("id"))

	bound := base.Bind("id", "7")
	if len(base.Bindings()) != 0 {
		t.Fatalf("base bindings mutated: %v", base.Bindings())
	}
	if bound.Bindings()["id"] != "7" {
		t.Fatalf("expected binding id=7, got %v", bound.Bindings())
	}

	rebound := bound.Bind("p0", "maude")
	if len(bound.Bindings()) != 1 {
		t.Fatalf("bound bindings mutated: %v", bound.Bindings())
	}
	if len(rebound.Bindings()) != 2 {
		t.Fatalf("expected 2 bindings, got %v", rebound.Bindings())
	}
}

func TestToListToSetNotSupported(t *testing.T) {
	g := NewRemoteGraph(&fakeTranslator{}, &fakeConn{})
	traversal := g.Traversal().V(Binding("id"))

	if _, err := traversal.ToList(); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported from ToList, got %v", err)
	}
	if _, err := traversal.ToSet(); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported from ToSet, got %v", err)
	}
}

func TestNextSubmitsTranslatedScript(t *testing.T) {
	conn := &fakeConn{}
	g := NewRemoteGraph(&fakeTranslator{script: "MATCH (n) RETURN n"}, conn)

	traversal := g.Traversal().V(Binding("id")).Bind("id", "7")
	stream, err := traversal.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if stream == nil {
		t.Fatal("expected a result stream")
	}
	if conn.script != "MATCH (n) RETURN n" {
		t.Fatalf("unexpected script: %s", conn.script)
	}
	if conn.bindings["id"] != "7" {
		t.Fatalf("unexpected bindings: %v", conn.bindings)
	}
	if conn.lang != "fake" {
		t.Fatalf("unexpected lang: %s", conn.lang)
	}
}

func TestNextTranslationError(t *testing.T) {
	boom := errors.New("bad bytecode")
	g := NewRemoteGraph(&fakeTranslator{err: boom}, &fakeConn{})

	_, err := g.Traversal().V(Binding("id")).Next(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected translation error, got %v", err)
	}
}

func TestCloseIsOneShot(t *testing.T) {
	conn := &fakeConn{}
	g := NewRemoteGraph(&fakeTranslator{}, conn)
	traversal := g.Traversal().V(Binding("id"))

	if err := g.Close(context.Background()); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if conn.closed != 1 {
		t.Fatalf("expected one close, got %d", conn.closed)
	}

	if err := g.Close(context.Background()); !errors.Is(err, driver.ErrClosed) {
		t.Fatalf("expected ErrClosed on second close, got %v", err)
	}
	if _, err := traversal.Next(context.Background()); !errors.Is(err, driver.ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
	if g.String() != "remotegraph[closed]" {
		t.Fatalf("unexpected string: %s", g.String())
	}
}

func TestGraphString(t *testing.T) {
	g := NewRemoteGraph(&fakeTranslator{}, &fakeConn{})
	if g.String() != "remotegraph[bolt://fake:7687]" {
		t.Fatalf("unexpected string: %s", g.String())
	}
}
