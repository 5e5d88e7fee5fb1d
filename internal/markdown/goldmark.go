package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

// Block structure is recognized line by line in parse.go, so goldmark
// only ever sees the inline content of one block.
func newInlineParser(syntax Syntax) parser.Parser {
	inlines := append(parser.DefaultInlineParsers(),
		util.Prioritized(extension.NewStrikethroughParser(), 500))
	if syntax == SyntaxSuperEditor {
		inlines = append(inlines, util.Prioritized(underlineParser{}, 500))
	}
	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(inlines...),
	)
}

const (
	// underlineDelim stands in for "¬" while goldmark pairs delimiters.
	// Only ASCII punctuation can trigger an inline parser.
	underlineDelim = '^'
	// escapedNot stands in for a backslash-escaped "¬".
	escapedNot = '\x1e'
)

var kindUnderline = ast.NewNodeKind("Underline")

type underlineNode struct {
	ast.BaseInline
}

func (n *underlineNode) Kind() ast.NodeKind { return kindUnderline }

func (n *underlineNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type underlineDelimiters struct{}

func (underlineDelimiters) IsDelimiter(b byte) bool { return b == underlineDelim }

func (underlineDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (underlineDelimiters) OnMatch(consumes int) ast.Node { return &underlineNode{} }

type underlineParser struct{}

func (underlineParser) Trigger() []byte { return []byte{underlineDelim} }

func (underlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	d := parser.ScanDelimiter(line, before, 1, underlineDelimiters{})
	if d == nil {
		return nil
	}
	d.Segment = segment.WithStop(segment.Start + d.OriginalLength)
	block.Advance(d.OriginalLength)
	pc.PushDelimiter(d)
	return d
}

// prepareUnderline rewrites "¬" delimiters for the underline parser.
// Literal carets are escaped so they cannot pair, and code spans are
// copied untouched.
func prepareUnderline(src string) string {
	var sb strings.Builder
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			if rs[i+1] == '¬' {
				sb.WriteRune(escapedNot)
			} else {
				sb.WriteRune(r)
				sb.WriteRune(rs[i+1])
			}
			i++
		case r == '`':
			n := backtickRun(rs, i)
			end := closingBackticks(rs, i+n, n)
			if end < 0 {
				end = i + n
			} else {
				end += n
			}
			sb.WriteString(string(rs[i:end]))
			i = end - 1
		case r == underlineDelim:
			sb.WriteString(`\^`)
		case r == '¬':
			sb.WriteByte(underlineDelim)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func backtickRun(rs []rune, i int) int {
	n := 0
	for i+n < len(rs) && rs[i+n] == '`' {
		n++
	}
	return n
}

func closingBackticks(rs []rune, from, n int) int {
	for i := from; i < len(rs); {
		if rs[i] != '`' {
			i++
			continue
		}
		run := backtickRun(rs, i)
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

// parseInline converts inline Markdown to attributed text.
func (c *Codec) parseInline(content string) attributed.Text {
	if strings.TrimSpace(content) == "" {
		return attributed.Plain("")
	}
	src := content
	if c.syntax == SyntaxSuperEditor {
		src = prepareUnderline(src)
	}
	b := &inlineBuilder{syntax: c.syntax, source: []byte(src)}
	root := c.inline.Parse(text.NewReader(b.source))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if n != root.FirstChild() {
			b.write("\n")
		}
		b.children(n)
	}
	return attributed.New(b.sb.String(), b.spans...)
}

type inlineBuilder struct {
	syntax Syntax
	source []byte
	sb     strings.Builder
	length int
	spans  []attributed.Span
}

func (b *inlineBuilder) write(s string) {
	b.sb.WriteString(s)
	b.length += utf8.RuneCountInString(s)
}

func (b *inlineBuilder) children(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		b.node(child)
	}
}

// styled walks n's children and attributes whatever they produced.
func (b *inlineBuilder) styled(n ast.Node, a attributed.Attribution) {
	start := b.length
	b.children(n)
	if b.length > start {
		b.spans = append(b.spans, attributed.Span{Attribution: a, Range: attributed.NewRange(start, b.length)})
	}
}

func (b *inlineBuilder) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		s := b.unescape(n.Segment.Value(b.source))
		if n.HardLineBreak() || n.SoftLineBreak() {
			s = strings.TrimRight(s, " \t") + "\n"
		}
		b.write(s)
	case *ast.String:
		b.write(b.unescape(n.Value))
	case *ast.CodeSpan:
		var sb strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(b.source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			case *ast.String:
				sb.Write(t.Value)
			}
		}
		start := b.length
		b.write(sb.String())
		if b.length > start {
			b.spans = append(b.spans, attributed.Span{Attribution: attributed.Code, Range: attributed.NewRange(start, b.length)})
		}
	case *ast.Emphasis:
		if n.Level >= 2 {
			b.styled(n, attributed.Bold)
		} else {
			b.styled(n, attributed.Italics)
		}
	case *extast.Strikethrough:
		b.styled(n, attributed.Strikethrough)
	case *underlineNode:
		b.styled(n, attributed.Underline)
	case *ast.Link:
		b.styled(n, attributed.NewLink(unescape(string(n.Destination))))
	case *ast.AutoLink:
		start := b.length
		b.write(string(n.Label(b.source)))
		b.spans = append(b.spans, attributed.Span{
			Attribution: attributed.NewLink(string(n.URL(b.source))),
			Range:       attributed.NewRange(start, b.length),
		})
	case *ast.Image:
		b.write("![")
		b.children(n)
		b.write("](" + string(n.Destination) + ")")
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.write(string(seg.Value(b.source)))
		}
	default:
		b.children(n)
	}
}

func (b *inlineBuilder) unescape(raw []byte) string {
	if b.syntax != SyntaxSuperEditor {
		return string(util.UnescapePunctuations(raw))
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '\\' && i+1 < len(raw) && isASCIIPunct(raw[i+1]):
			i++
			sb.WriteByte(raw[i])
		case c == underlineDelim:
			sb.WriteString("¬")
		case c == escapedNot:
			sb.WriteString("¬")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
