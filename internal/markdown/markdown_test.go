package markdown

import (
	"fmt"
	"testing"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// sequentialIDs returns a generator yielding n1, n2, ...
func sequentialIDs() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("n%d", i)
	}
}

func span(a attributed.Attribution, start, end int) attributed.Span {
	return attributed.Span{Attribution: a, Range: attributed.NewRange(start, end)}
}

func withBlockType(n *document.ParagraphNode, bt attributed.NamedAttribution) *document.ParagraphNode {
	n.SetMetadata(document.MetaBlockType, attributed.Attribution(bt))
	return n
}

func withAlign(n *document.ParagraphNode, a document.TextAlign) *document.ParagraphNode {
	n.SetMetadata(document.MetaTextAlign, a)
	return n
}

func TestSerialize(t *testing.T) {
	p := func(text string, spans ...attributed.Span) *document.ParagraphNode {
		return document.NewParagraph(document.NewNodeID(), attributed.New(text, spans...))
	}
	link := attributed.NewLink("https://x.dev")

	tests := []struct {
		name   string
		syntax Syntax
		nodes  []document.Node
		want   string
	}{
		{"header", SyntaxSuperEditor, []document.Node{withBlockType(p("My Header"), document.Header1)}, "# My Header"},
		{"header level 3", SyntaxSuperEditor, []document.Node{withBlockType(p("Deep"), document.Header3)}, "### Deep"},
		{"bold", SyntaxSuperEditor, []document.Node{p("This is a paragraph.", span(attributed.Bold, 5, 9))}, "This **is a** paragraph."},
		{"nested styles", SyntaxSuperEditor, []document.Node{
			p("a b c", span(attributed.Bold, 0, 5), span(attributed.Italics, 2, 3)),
		}, "**a *b* c**"},
		{"trailing space leaves bold", SyntaxSuperEditor, []document.Node{
			p("bold text", span(attributed.Bold, 0, 5)),
		}, "**bold** text"},
		{"link", SyntaxSuperEditor, []document.Node{p("see docs", span(link, 4, 8))}, "see [docs](https://x.dev)"},
		{"code", SyntaxSuperEditor, []document.Node{p("run go test", span(attributed.Code, 4, 11))}, "run `go test`"},
		{"strikethrough extended", SyntaxSuperEditor, []document.Node{p("gone", span(attributed.Strikethrough, 0, 4))}, "~gone~"},
		{"strikethrough normal", SyntaxNormal, []document.Node{p("gone", span(attributed.Strikethrough, 0, 4))}, "~~gone~~"},
		{"underline extended", SyntaxSuperEditor, []document.Node{p("u", span(attributed.Underline, 0, 1))}, "¬u¬"},
		{"underline normal", SyntaxNormal, []document.Node{p("u", span(attributed.Underline, 0, 1))}, "u"},
		{"escapes", SyntaxSuperEditor, []document.Node{p("a*b_c")}, `a\*b\_c`},
		{"leading header mark", SyntaxSuperEditor, []document.Node{p("# not")}, `\# not`},
		{"leading ordinal", SyntaxSuperEditor, []document.Node{p("1. x")}, `1\. x`},
		{"leading dash", SyntaxSuperEditor, []document.Node{p("- y")}, `\- y`},
		{"blockquote", SyntaxSuperEditor, []document.Node{withBlockType(p("q1\nq2"), document.Blockquote)}, "> q1  \n> q2"},
		{"code block", SyntaxSuperEditor, []document.Node{withBlockType(p("x := 1"), document.CodeBlock)}, "```\nx := 1\n```"},
		{"center extended", SyntaxSuperEditor, []document.Node{withAlign(p("Hi"), document.AlignCenter)}, ":---:\nHi"},
		{"center normal", SyntaxNormal, []document.Node{withAlign(p("Hi"), document.AlignCenter)}, "Hi"},
		{"lists", SyntaxSuperEditor, []document.Node{
			document.NewListItem("l1", document.Unordered, 0, attributed.Plain("a")),
			document.NewListItem("l2", document.Ordered, 1, attributed.Plain("b")),
			document.NewListItem("l3", document.Ordered, 1, attributed.Plain("c")),
		}, "* a\n  1. b\n  2. c"},
		{"tasks", SyntaxSuperEditor, []document.Node{
			document.NewTask("t1", false, attributed.Plain("todo")),
			document.NewTask("t2", true, attributed.Plain("done")),
		}, "- [ ] todo\n- [x] done"},
		{"image and rule", SyntaxSuperEditor, []document.Node{
			document.NewImage("i1", "cat.png", "cat"),
			document.NewHorizontalRule("hr"),
		}, "![cat](cat.png)\n\n---"},
		{"paragraph then list", SyntaxSuperEditor, []document.Node{
			p("p"),
			document.NewListItem("l1", document.Unordered, 0, attributed.Plain("a")),
		}, "p\n\n* a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(document.New(tt.nodes...), WithSyntax(tt.syntax))
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	doc := Parse("# Header 1")
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	n := doc.First().(*document.ParagraphNode)
	if got := document.BlockTypeOf(n); got != attributed.Attribution(document.Header1) {
		t.Errorf("block type = %v, want header1", got)
	}
	if got := n.Text().String(); got != "Header 1" {
		t.Errorf("text = %q, want %q", got, "Header 1")
	}
}

func TestParseEmpty(t *testing.T) {
	doc := Parse("")
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	n, ok := doc.First().(*document.ParagraphNode)
	if !ok || !n.Text().IsEmpty() {
		t.Errorf("First() = %#v, want an empty paragraph", doc.First())
	}
}

func TestParseListIndent(t *testing.T) {
	doc := Parse("* a\n* b\n  * c\n  * d\n* e")
	want := []int{0, 0, 1, 1, 0}
	if doc.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", doc.Len(), len(want))
	}
	for i, n := range doc.Nodes() {
		item, ok := n.(*document.ListItemNode)
		if !ok {
			t.Fatalf("node %d is %T, want list item", i, n)
		}
		if item.Indent != want[i] {
			t.Errorf("item %d Indent = %d, want %d", i, item.Indent, want[i])
		}
	}
}

func TestParseOrderedStart(t *testing.T) {
	doc := Parse("3. a\n4. b\n   1. inner")
	first := doc.NodeAt(0).(*document.ListItemNode)
	if first.Start != 3 {
		t.Errorf("Start = %d, want 3", first.Start)
	}
	if got := doc.ListItemOrdinal(doc.NodeAt(1).ID()); got != 4 {
		t.Errorf("ListItemOrdinal(second) = %d, want 4", got)
	}
	inner := doc.NodeAt(2).(*document.ListItemNode)
	if inner.Indent != 1 || inner.Start != 0 {
		t.Errorf("inner = indent %d start %d, want 1, 0", inner.Indent, inner.Start)
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		name      string
		syntax    Syntax
		src       string
		wantNodes int
		wantAlign document.TextAlign
		wantText  string
	}{
		{"center", SyntaxSuperEditor, ":---:\nHello", 1, document.AlignCenter, "Hello"},
		{"right", SyntaxSuperEditor, "---:\nHello", 1, document.AlignRight, "Hello"},
		{"justify header", SyntaxSuperEditor, "-::-\n# T", 1, document.AlignJustify, "T"},
		{"explicit left", SyntaxSuperEditor, ":---\nHello", 1, document.AlignLeft, "Hello"},
		{"token without target", SyntaxSuperEditor, ":---:\n\nHello", 2, document.AlignLeft, ":---:"},
		{"normal syntax", SyntaxNormal, ":---:\nHello", 1, document.AlignLeft, ":---:\nHello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.src, WithSyntax(tt.syntax))
			if doc.Len() != tt.wantNodes {
				t.Fatalf("Len() = %d, want %d", doc.Len(), tt.wantNodes)
			}
			n := doc.First().(*document.ParagraphNode)
			if got := document.AlignmentOf(n); got != tt.wantAlign {
				t.Errorf("alignment = %v, want %v", got, tt.wantAlign)
			}
			if got := n.Text().String(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestParseBlocks(t *testing.T) {
	doc := Parse("- [x] done\n- [ ] todo\n\n```go\nfunc main() {}\n\n```\n\n***\n\n![alt](a.png)\n\n> quoted\n> twice",
		WithNodeIDs(sequentialIDs()))

	want := document.New(
		document.NewTask("n1", true, attributed.Plain("done")),
		document.NewTask("n2", false, attributed.Plain("todo")),
		withBlockType(document.NewParagraph("n3", attributed.Plain("func main() {}\n")), document.CodeBlock),
		document.NewHorizontalRule("n4"),
		document.NewImage("n5", "a.png", "alt"),
		withBlockType(document.NewParagraph("n6", attributed.Plain("quoted\ntwice")), document.Blockquote),
	)
	if !doc.Equal(want) {
		t.Errorf("Parse() = %q, want %q", doc.Text(), want.Text())
		for i, n := range doc.Nodes() {
			t.Logf("node %d: %#v", i, n)
		}
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		src    string
		want   attributed.Text
	}{
		{"bold", SyntaxSuperEditor, "This **is a** paragraph.",
			attributed.New("This is a paragraph.", span(attributed.Bold, 5, 9))},
		{"italics and code", SyntaxSuperEditor, "*a* `b`",
			attributed.New("a b", span(attributed.Italics, 0, 1), span(attributed.Code, 2, 3))},
		{"empty link target", SyntaxSuperEditor, "[text]()",
			attributed.New("text", span(attributed.NewLink(""), 0, 4))},
		{"link", SyntaxSuperEditor, "go [here](https://x.dev)",
			attributed.New("go here", span(attributed.NewLink("https://x.dev"), 3, 7))},
		{"strikethrough", SyntaxNormal, "~~gone~~",
			attributed.New("gone", span(attributed.Strikethrough, 0, 4))},
		{"underline extended", SyntaxSuperEditor, "¬u¬",
			attributed.New("u", span(attributed.Underline, 0, 1))},
		{"underline normal", SyntaxNormal, "¬u¬", attributed.Plain("¬u¬")},
		{"escaped not", SyntaxSuperEditor, `a \¬ b`, attributed.Plain("a ¬ b")},
		{"literal caret", SyntaxSuperEditor, "a ^ b^", attributed.Plain("a ^ b^")},
		{"escapes", SyntaxSuperEditor, `a\*b\_c`, attributed.Plain("a*b_c")},
		{"hard break", SyntaxSuperEditor, "a  \nb", attributed.Plain("a\nb")},
		{"soft break", SyntaxSuperEditor, "a\nb", attributed.Plain("a\nb")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.src, WithSyntax(tt.syntax))
			got := doc.First().(document.TextNode).Text()
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) text = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	build := func() *document.Document {
		next := sequentialIDs()
		p := func(text string, spans ...attributed.Span) *document.ParagraphNode {
			return document.NewParagraph(next(), attributed.New(text, spans...))
		}
		return document.New(
			withAlign(withBlockType(p("Title"), document.Header2), document.AlignCenter),
			p(""),
			p(""),
			p("Some bold and it, with *stars*",
				span(attributed.Bold, 5, 9),
				span(attributed.Italics, 14, 16),
				span(attributed.Underline, 14, 16)),
			document.NewListItem(next(), document.Ordered, 0, attributed.Plain("one")),
			document.NewListItem(next(), document.Ordered, 0, attributed.Plain("two")),
			document.NewListItem(next(), document.Unordered, 1, attributed.New("link", span(attributed.NewLink("https://a.b/c"), 0, 4))),
			document.NewTask(next(), true, attributed.Plain("ship")),
			withBlockType(p("quote\nline"), document.Blockquote),
			withBlockType(p("```\ncode\n```"), document.CodeBlock),
			document.NewImage(next(), "img.png", "pic"),
			document.NewHorizontalRule(next()),
			p("1. not a list"),
			p(""),
		)
	}
	for _, syntax := range []Syntax{SyntaxSuperEditor, SyntaxNormal} {
		t.Run(syntax.String(), func(t *testing.T) {
			doc := build()
			if syntax == SyntaxNormal {
				// Normal syntax has no alignment or underline.
				doc.First().SetMetadata(document.MetaTextAlign, nil)
				n := doc.NodeAt(3).(*document.ParagraphNode)
				n.SetText(n.Text().RemoveAttribution(attributed.Underline, attributed.NewRange(0, n.Text().Len())))
			}
			md := Serialize(doc, WithSyntax(syntax))
			got := Parse(md, WithSyntax(syntax), WithNodeIDs(sequentialIDs()))
			if !got.Equal(doc) {
				t.Errorf("round trip mismatch for\n%s", md)
				for i, n := range got.Nodes() {
					t.Logf("node %d: %#v", i, n)
				}
			}
		})
	}
}

func TestParseSyntax(t *testing.T) {
	if s, err := ParseSyntax("normal"); err != nil || s != SyntaxNormal {
		t.Errorf("ParseSyntax(normal) = %v, %v", s, err)
	}
	if s, err := ParseSyntax("super_editor"); err != nil || s != SyntaxSuperEditor {
		t.Errorf("ParseSyntax(super_editor) = %v, %v", s, err)
	}
	if _, err := ParseSyntax("latex"); err == nil {
		t.Error("ParseSyntax(latex) error = nil")
	}
}
