package script

import (
	"errors"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

func newEditor(t *testing.T, src string, text string, opts ...Option) (*editor.Editor, *Reaction) {
	t.Helper()
	r, err := NewReaction(src, opts...)
	if err != nil {
		t.Fatalf("NewReaction() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	doc := document.New(document.NewParagraph("p1", attributed.Plain(text)))
	return editor.New(doc, editor.WithReactions(r)), r
}

func TestReactionChangesBlockType(t *testing.T) {
	src := `
function react(events)
  for _, e in ipairs(events) do
    if e.topic == "document.node.changed" and doc.text(e.node) == "TODO" and doc.block_type(e.node) == "paragraph" then
      editor.set_block_type(e.node, "header2")
    end
  end
end`
	ed, _ := newEditor(t, src, "TOD")
	ed.Execute(editor.InsertTextRequest{Position: document.At("p1", document.TextPosition(3)), Text: "O"})

	n := ed.Document().NodeByID("p1")
	if got := document.BlockTypeOf(n); got != attributed.Attribution(document.Header2) {
		t.Fatalf("block type = %v, want header2", got)
	}

	// The script's change belongs to the same undo entry.
	if _, err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	n = ed.Document().NodeByID("p1")
	if got := document.BlockTypeOf(n); got != attributed.Attribution(document.Paragraph) {
		t.Errorf("block type after undo = %v, want paragraph", got)
	}
	if got := n.(document.TextNode).Text().String(); got != "TOD" {
		t.Errorf("text after undo = %q, want TOD", got)
	}
}

func TestReactionEditsText(t *testing.T) {
	src := `
function react(events)
  for _, e in ipairs(events) do
    if e.node ~= nil then
      local s = doc.text(e.node)
      local i = string.find(s, "(c)", 1, true)
      if i ~= nil then
        editor.delete_text(e.node, i - 1, i + 2)
        editor.insert_text(e.node, i - 1, "©")
        editor.toggle(e.node, i - 1, i, "bold")
      end
    end
  end
end`
	ed, _ := newEditor(t, src, "(c")
	ed.Execute(editor.InsertTextRequest{Position: document.At("p1", document.TextPosition(2)), Text: ")"})

	got := ed.Document().NodeByID("p1").(document.TextNode).Text()
	want := attributed.New("©", attributed.Span{Attribution: attributed.Bold, Range: attributed.NewRange(0, 1)})
	if !got.Equal(want) {
		t.Errorf("text = %#v, want %#v", got, want)
	}
}

func TestReactionSeesEvents(t *testing.T) {
	src := `
seen = {}
function react(events)
  for _, e in ipairs(events) do
    table.insert(seen, e.topic .. ":" .. (e.node or "") .. ":" .. (doc.kind(e.node or "") or "-"))
  end
end`
	ed, r := newEditor(t, src, "a")
	ed.Execute(editor.InsertNodeAtIndexRequest{Index: 1, Node: document.NewHorizontalRule("hr")})

	seen, ok := r.state.L.GetGlobal("seen").(*lua.LTable)
	if !ok || seen.Len() == 0 {
		t.Fatal("react did not record events")
	}
	if got := seen.RawGetInt(1).String(); got != "document.node.inserted:hr:horizontal_rule" {
		t.Errorf("seen[1] = %q", got)
	}
}

func TestReactionErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src := `function react(events) error("boom") end`
	ed, r := newEditor(t, src, "a", WithLogger(zap.New(core)), WithName("boom.lua"))
	ed.Execute(editor.InsertTextRequest{Position: document.At("p1", document.TextPosition(1)), Text: "b"})

	if r.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", r.Errors())
	}
	entries := logs.FilterMessage("script reaction failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d failures, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["script"]; got != "boom.lua" {
		t.Errorf("script field = %v, want boom.lua", got)
	}
	// The edit itself still happened.
	if got := ed.Document().NodeByID("p1").(document.TextNode).Text().String(); got != "ab" {
		t.Errorf("text = %q, want ab", got)
	}
}

func TestNewReactionErrors(t *testing.T) {
	if _, err := NewReaction(`x = 1`); !errors.Is(err, ErrNoReactFunction) {
		t.Errorf("NewReaction() error = %v, want ErrNoReactFunction", err)
	}
	if _, err := NewReaction(`function react(`); err == nil {
		t.Error("NewReaction() error = nil for a syntax error")
	}
}

func TestSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()
	for _, name := range []string{"os", "io", "debug", "require", "dofile", "loadstring"} {
		if err := s.DoString("assert(" + name + " == nil)"); err != nil {
			t.Errorf("%s is reachable: %v", name, err)
		}
	}
	if err := s.DoString(`assert(string.upper("a") == "A" and math.max(1, 2) == 2)`); err != nil {
		t.Errorf("safe libraries missing: %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()
	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("DoString() error = %v, want ErrTimeout", err)
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewState(WithStateLogger(zap.New(core)))
	defer s.Close()
	if err := s.DoString(`print("hello", 42)`); err != nil {
		t.Fatal(err)
	}
	if got := logs.All(); len(got) != 1 || !strings.Contains(got[0].Message, "hello\t42") {
		t.Errorf("logged %v, want hello\\t42", got)
	}
}
