package document

import (
	"errors"
	"testing"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

func para(id, text string) *ParagraphNode {
	return NewParagraph(id, attributed.Plain(text))
}

func ids(d *Document) []string {
	out := make([]string, 0, d.Len())
	for _, n := range d.Nodes() {
		out = append(out, n.ID())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkIndex verifies that every node is reachable by id at its position.
func checkIndex(t *testing.T, d *Document) {
	t.Helper()
	if len(d.index) != len(d.nodes) {
		t.Fatalf("index has %d entries, document has %d nodes", len(d.index), len(d.nodes))
	}
	for i, n := range d.nodes {
		if got := d.IndexOf(n.ID()); got != i {
			t.Fatalf("IndexOf(%s) = %d, want %d", n.ID(), got, i)
		}
	}
}

func TestNewDocument(t *testing.T) {
	d := New(para("a", "one"), NewHorizontalRule("b"), para("c", "three"))
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}
	checkIndex(t, d)
	if d.NodeByID("b") == nil {
		t.Error("NodeByID(b) = nil")
	}
	if d.NodeByID("missing") != nil {
		t.Error("NodeByID(missing) should be nil")
	}
}

func TestDuplicateIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate id")
		}
	}()
	New(para("a", "one"), para("a", "two"))
}

func TestInsertAndDeleteKeepIndexInSync(t *testing.T) {
	d := New(para("a", ""), para("b", ""), para("c", ""))

	tests := []struct {
		name string
		op   func() error
		want []string
	}{
		{"insert before first", func() error { return d.InsertBefore("a", para("x", "")) }, []string{"x", "a", "b", "c"}},
		{"insert after middle", func() error { return d.InsertAfter("a", para("y", "")) }, []string{"x", "a", "y", "b", "c"}},
		{"insert at end", func() error { return d.InsertAt(5, para("z", "")) }, []string{"x", "a", "y", "b", "c", "z"}},
		{"delete middle", func() error { _, _, err := d.Delete("y"); return err }, []string{"x", "a", "b", "c", "z"}},
		{"delete first", func() error { _, _, err := d.Delete("x"); return err }, []string{"a", "b", "c", "z"}},
		{"move last to front", func() error { _, err := d.Move("z", 0); return err }, []string{"z", "a", "b", "c"}},
		{"move front to end", func() error { _, err := d.Move("z", 3); return err }, []string{"a", "b", "c", "z"}},
		{"replace with new id", func() error { return d.Replace("b", para("q", "")) }, []string{"a", "q", "c", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err != nil {
				t.Fatalf("op failed: %v", err)
			}
			if got := ids(d); !equalStrings(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			checkIndex(t, d)
		})
	}
	if d.Contains("b") {
		t.Error("replaced id b should no longer resolve")
	}
}

func TestMissingNodeErrors(t *testing.T) {
	d := New(para("a", ""))
	if err := d.InsertAfter("nope", para("b", "")); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("InsertAfter error = %v, want ErrNodeNotFound", err)
	}
	if _, _, err := d.Delete("nope"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Delete error = %v, want ErrNodeNotFound", err)
	}
	if err := d.InsertAt(5, para("b", "")); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("InsertAt error = %v, want ErrIndexOutOfRange", err)
	}
	checkIndex(t, d)
}

func TestNodeBeforeAfter(t *testing.T) {
	d := New(para("a", ""), para("b", ""), para("c", ""))
	if n := d.NodeBefore("b"); n == nil || n.ID() != "a" {
		t.Errorf("NodeBefore(b) = %v, want a", n)
	}
	if n := d.NodeAfter("b"); n == nil || n.ID() != "c" {
		t.Errorf("NodeAfter(b) = %v, want c", n)
	}
	if d.NodeBefore("a") != nil || d.NodeAfter("c") != nil {
		t.Error("edges should have no neighbour")
	}
}

func TestCopyIsDeep(t *testing.T) {
	p := para("a", "hello")
	p.SetMetadata(MetaTextAlign, AlignCenter)
	d := New(p, NewListItem("b", Ordered, 1, attributed.Plain("item")))

	c := d.Copy()
	if !c.Equal(d) {
		t.Fatal("copy should equal original")
	}
	p.SetText(attributed.Plain("changed"))
	p.SetMetadata(MetaTextAlign, nil)
	if c.Equal(d) {
		t.Error("mutating original should not affect copy")
	}
	cp := c.NodeByID("a").(*ParagraphNode)
	if cp.Text().String() != "hello" || AlignmentOf(cp) != AlignCenter {
		t.Errorf("copy changed: %q %s", cp.Text().String(), AlignmentOf(cp))
	}
}

func TestParagraphDefaultsToParagraphBlockType(t *testing.T) {
	p := para("a", "")
	if got := BlockTypeOf(p); got != attributed.Attribution(Paragraph) {
		t.Errorf("BlockTypeOf() = %v, want paragraph", got)
	}
	p.SetMetadata(MetaBlockType, attributed.Attribution(Header2))
	if HeaderLevel(BlockTypeOf(p)) != 2 {
		t.Errorf("HeaderLevel() = %d, want 2", HeaderLevel(BlockTypeOf(p)))
	}
}

func TestBlockTypeByName(t *testing.T) {
	for _, name := range []string{"header1", "header6", "blockquote", "codeBlock", "paragraph"} {
		if b, ok := BlockTypeByName(name); !ok || b.Name != name {
			t.Errorf("BlockTypeByName(%q) = %v, %v", name, b, ok)
		}
	}
	if _, ok := BlockTypeByName("bold"); ok {
		t.Error("bold is not a block type")
	}
}

func TestNodesEqual(t *testing.T) {
	a := NewTask("t", false, attributed.Plain("x"))
	b := NewTask("t", false, attributed.Plain("x"))
	if !NodesEqual(a, b) {
		t.Error("identical tasks should be equal")
	}
	b.Complete = true
	if NodesEqual(a, b) {
		t.Error("tasks with different completion should differ")
	}
	if NodesEqual(NewImage("i", "u", ""), NewHorizontalRule("i")) {
		t.Error("different kinds should differ")
	}
}

func TestText(t *testing.T) {
	d := New(para("a", "one"), NewImage("i", "x.png", ""), para("b", "two"))
	if got := d.Text(); got != "one\n\ntwo" {
		t.Errorf("Text() = %q, want %q", got, "one\n\ntwo")
	}
}

func TestNewNodeIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewNodeID()
		if id == "" || seen[id] {
			t.Fatalf("NewNodeID() returned duplicate or empty id %q", id)
		}
		seen[id] = true
	}
}
