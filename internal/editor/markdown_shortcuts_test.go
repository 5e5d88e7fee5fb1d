package editor

import (
	"testing"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

func TestMarkdownShortcuts(t *testing.T) {
	tests := []struct {
		typed string
		check func(t *testing.T, doc *document.Document)
	}{
		{"# ", wantBlockType(document.Header1)},
		{"### ", wantBlockType(document.Header3)},
		{"> ", wantBlockType(document.Blockquote)},
		{"- ", wantListItem(document.Unordered)},
		{"* ", wantListItem(document.Unordered)},
		{"1. ", wantListItem(document.Ordered)},
		{"[x] ", func(t *testing.T, doc *document.Document) {
			task, ok := doc.NodeByID("p1").(*document.TaskNode)
			if !ok || !task.Complete {
				t.Errorf("node = %#v, want complete task", doc.NodeByID("p1"))
			}
		}},
		{"--- ", func(t *testing.T, doc *document.Document) {
			if doc.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", doc.Len())
			}
			if _, ok := doc.NodeAt(0).(*document.HorizontalRuleNode); !ok {
				t.Errorf("first node = %T, want *HorizontalRuleNode", doc.NodeAt(0))
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			ed := New(newDoc(""), WithMarkdownShortcuts())
			ed.Execute(ChangeSelectionRequest{Selection: caretAt("p1", 0)})
			ed.Execute(InsertTextRequest{Position: textAt("p1", 0), Text: tt.typed})

			tt.check(t, ed.Document())
			tn := ed.Document().NodeByID("p1").(document.TextNode)
			if !tn.Text().IsEmpty() {
				t.Errorf("prefix not removed: %q", tn.Text().String())
			}
			if got, want := ed.Composer().Selection(), caretAt("p1", 0); *got != *want {
				t.Errorf("Selection() = %v, want %v", got, want)
			}
		})
	}
}

func wantBlockType(bt attributed.NamedAttribution) func(*testing.T, *document.Document) {
	return func(t *testing.T, doc *document.Document) {
		if got := document.BlockTypeOf(doc.NodeByID("p1")); got != attributed.Attribution(bt) {
			t.Errorf("BlockTypeOf() = %v, want %v", got, bt)
		}
	}
}

func wantListItem(typ document.ListItemType) func(*testing.T, *document.Document) {
	return func(t *testing.T, doc *document.Document) {
		item, ok := doc.NodeByID("p1").(*document.ListItemNode)
		if !ok || item.Type != typ {
			t.Errorf("node = %#v, want %v list item", doc.NodeByID("p1"), typ)
		}
	}
}

func TestMarkdownShortcutTypedCharacterByCharacter(t *testing.T) {
	ed := New(newDoc(""), WithMarkdownShortcuts())
	ed.Execute(InsertTextRequest{Position: textAt("p1", 0), Text: "#"})
	if got := document.BlockTypeOf(ed.Document().NodeByID("p1")); got != attributed.Attribution(document.Paragraph) {
		t.Fatalf("BlockTypeOf() after '#' = %v, want paragraph", got)
	}
	ed.Execute(InsertTextRequest{Position: textAt("p1", 1), Text: " "})
	if got := document.BlockTypeOf(ed.Document().NodeByID("p1")); got != attributed.Attribution(document.Header1) {
		t.Errorf("BlockTypeOf() = %v, want header1", got)
	}
}

func TestMarkdownShortcutIgnoresExistingPrefix(t *testing.T) {
	ed := New(newDoc("- already"), WithMarkdownShortcuts())
	ed.Execute(InsertTextRequest{Position: textAt("p1", 9), Text: "!"})
	if _, ok := ed.Document().NodeByID("p1").(*document.ParagraphNode); !ok {
		t.Errorf("node = %T, want *ParagraphNode", ed.Document().NodeByID("p1"))
	}
}

func TestMarkdownShortcutUndoesWithTyping(t *testing.T) {
	ed := New(newDoc(""), WithMarkdownShortcuts())
	ed.Execute(InsertTextRequest{Position: textAt("p1", 0), Text: "- "})
	if got := ed.UndoCount(); got != 1 {
		t.Fatalf("UndoCount() = %d, want 1", got)
	}
	if _, err := ed.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	p, ok := ed.Document().NodeByID("p1").(*document.ParagraphNode)
	if !ok || !p.Text().IsEmpty() {
		t.Errorf("node after undo = %#v, want empty paragraph", ed.Document().NodeByID("p1"))
	}
}
