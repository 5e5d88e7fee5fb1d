package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

var (
	headerLine = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*))?$`)
	headerTail = regexp.MustCompile(`(^|[ \t]+)#+[ \t]*$`)
	fenceOpen  = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})(.*)$")
	quoteLine  = regexp.MustCompile(`^ {0,3}> ?(.*)$`)
	taskLine   = regexp.MustCompile(`^\s*[-*+] \[([ xX])\](?: (.*))?$`)
	listLine   = regexp.MustCompile(`^(\s*)([-*+]|(\d{1,9})[.)])(?: (.*))?$`)
	imageLine  = regexp.MustCompile(`^!\[((?:[^\]\\]|\\.)*)\]\(\s*(<[^>]*>|\S*?)(?:\s+"[^"]*")?\s*\)\s*$`)
)

var alignByToken = map[string]document.TextAlign{
	":---":  document.AlignLeft,
	":---:": document.AlignCenter,
	"---:":  document.AlignRight,
	"-::-":  document.AlignJustify,
}

// Parse reads Markdown into a document. It never fails: unrecognized
// syntax becomes paragraph text. Blank lines beyond a single block
// separator become empty paragraphs, two lines per paragraph, so a
// serialized document with empty paragraphs reads back unchanged.
func (c *Codec) Parse(src string) *document.Document {
	p := &blockParser{codec: c, doc: document.New()}
	p.lines = strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	p.run()
	return p.doc
}

type blockParser struct {
	codec *Codec
	doc   *document.Document
	lines []string
	pos   int

	blank     int
	seenBlock bool
	// widths holds the leading whitespace of each open list level.
	widths []int
	// align is a pending alignment token for the next paragraph or header.
	align document.TextAlign
}

func (p *blockParser) run() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if strings.TrimSpace(line) == "" {
			p.blank++
			p.pos++
			continue
		}
		p.parseBlock(line)
	}
	if !p.seenBlock {
		p.emptyParagraphs(p.blank/2 + 1)
		return
	}
	p.emptyParagraphs(p.blank / 2)
}

func (p *blockParser) emptyParagraphs(n int) {
	for range n {
		p.doc.Append(document.NewParagraph(p.codec.newID(), attributed.Plain("")))
	}
}

// flushBlank accounts for the blank lines that preceded a new block.
func (p *blockParser) flushBlank() {
	empties := p.blank / 2
	if !p.seenBlock {
		empties = (p.blank + 1) / 2
	}
	p.emptyParagraphs(empties)
	if empties > 0 {
		p.widths = nil
	}
	p.blank = 0
	p.seenBlock = true
}

func (p *blockParser) startBlock(n document.Node) {
	p.flushBlank()
	if _, ok := n.(*document.ListItemNode); !ok {
		p.widths = nil
	}
	p.doc.Append(n)
}

func (p *blockParser) parseBlock(line string) {
	// Empty paragraphs precede the block in id order as well as position.
	p.flushBlank()
	if p.codec.syntax == SyntaxSuperEditor {
		if a, ok := alignByToken[strings.TrimSpace(line)]; ok && p.alignTarget() {
			p.align = a
			p.pos++
			return
		}
	}

	switch {
	case fenceOpen.MatchString(line):
		p.parseFence(line)
	case headerLine.MatchString(line):
		p.parseHeader(line)
	case isRuleLine(line):
		p.pos++
		p.startBlock(document.NewHorizontalRule(p.codec.newID()))
	case imageLine.MatchString(line):
		m := imageLine.FindStringSubmatch(line)
		url := strings.TrimSuffix(strings.TrimPrefix(m[2], "<"), ">")
		p.pos++
		p.startBlock(document.NewImage(p.codec.newID(), unescape(url), unescape(m[1])))
	case quoteLine.MatchString(line):
		p.parseQuote()
	case taskLine.MatchString(line):
		p.parseTask(line)
	case listLine.MatchString(line):
		p.parseListItem(line)
	case isIndentedCode(line):
		p.parseIndentedCode()
	default:
		p.parseParagraph()
	}
}

// alignTarget reports whether the line after the current one is a
// paragraph or header an alignment token can apply to.
func (p *blockParser) alignTarget() bool {
	if p.pos+1 >= len(p.lines) {
		return false
	}
	next := p.lines[p.pos+1]
	if strings.TrimSpace(next) == "" {
		return false
	}
	if headerLine.MatchString(next) {
		return true
	}
	return !startsBlock(next) && !imageLine.MatchString(next) && !isIndentedCode(next)
}

// startsBlock reports whether line interrupts a paragraph.
func startsBlock(line string) bool {
	return fenceOpen.MatchString(line) || headerLine.MatchString(line) || isRuleLine(line) ||
		quoteLine.MatchString(line) || taskLine.MatchString(line) || listLine.MatchString(line)
}

func isRuleLine(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < 3 || len(line)-len(strings.TrimLeft(line, " ")) > 3 {
		return false
	}
	ch := s[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func (p *blockParser) textNode(n document.Node) document.Node {
	if p.align != "" {
		if p.align != document.AlignLeft {
			n.SetMetadata(document.MetaTextAlign, p.align)
		}
		p.align = ""
	}
	return n
}

func (p *blockParser) parseHeader(line string) {
	m := headerLine.FindStringSubmatch(line)
	level := len(m[1])
	content := strings.TrimSpace(headerTail.ReplaceAllString(m[2], ""))
	n := document.NewParagraph(p.codec.newID(), p.codec.parseInline(content))
	n.SetMetadata(document.MetaBlockType, attributed.Attribution(document.HeaderBlockType(level)))
	p.pos++
	p.startBlock(p.textNode(n))
}

func (p *blockParser) parseFence(line string) {
	m := fenceOpen.FindStringSubmatch(line)
	fence := m[1]
	var body []string
	p.pos++
	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		p.pos++
		t := strings.TrimSpace(l)
		if len(t) >= len(fence) && strings.Trim(t, fence[:1]) == "" {
			break
		}
		body = append(body, l)
	}
	n := document.NewParagraph(p.codec.newID(), attributed.Plain(strings.Join(body, "\n")))
	n.SetMetadata(document.MetaBlockType, attributed.Attribution(document.CodeBlock))
	p.startBlock(n)
}

func (p *blockParser) parseIndentedCode() {
	var body []string
	for p.pos < len(p.lines) && isIndentedCode(p.lines[p.pos]) {
		l := p.lines[p.pos]
		if strings.HasPrefix(l, "\t") {
			l = l[1:]
		} else {
			l = l[4:]
		}
		body = append(body, l)
		p.pos++
	}
	n := document.NewParagraph(p.codec.newID(), attributed.Plain(strings.Join(body, "\n")))
	n.SetMetadata(document.MetaBlockType, attributed.Attribution(document.CodeBlock))
	p.startBlock(n)
}

func (p *blockParser) parseQuote() {
	var body []string
	for p.pos < len(p.lines) {
		m := quoteLine.FindStringSubmatch(p.lines[p.pos])
		if m == nil {
			break
		}
		body = append(body, m[1])
		p.pos++
	}
	n := document.NewParagraph(p.codec.newID(), p.codec.parseInline(strings.Join(body, "\n")))
	n.SetMetadata(document.MetaBlockType, attributed.Attribution(document.Blockquote))
	p.startBlock(n)
}

// continuation collects the lazy continuation lines of a paragraph or list
// item.
func (p *blockParser) continuation(first string) string {
	lines := []string{first}
	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		if strings.TrimSpace(l) == "" || startsBlock(l) {
			break
		}
		lines = append(lines, strings.TrimLeft(l, " \t"))
		p.pos++
	}
	return strings.Join(lines, "\n")
}

func (p *blockParser) parseParagraph() {
	first := strings.TrimLeft(p.lines[p.pos], " \t")
	p.pos++
	n := document.NewParagraph(p.codec.newID(), p.codec.parseInline(p.continuation(first)))
	p.startBlock(p.textNode(n))
}

func (p *blockParser) parseTask(line string) {
	m := taskLine.FindStringSubmatch(line)
	p.pos++
	content := p.continuation(m[2])
	p.startBlock(document.NewTask(p.codec.newID(), m[1] != " ", p.codec.parseInline(content)))
}

func (p *blockParser) parseListItem(line string) {
	m := listLine.FindStringSubmatch(line)
	width := len(strings.ReplaceAll(m[1], "\t", "    "))
	p.pos++
	content := p.continuation(m[4])

	typ := document.Unordered
	if m[3] != "" {
		typ = document.Ordered
	}
	n := document.NewListItem(p.codec.newID(), typ, 0, p.codec.parseInline(content))
	n.Indent = p.indentFor(width)
	if typ == document.Ordered {
		if start, _ := strconv.Atoi(m[3]); start != 1 && p.firstInRun(n) {
			n.Start = start
		}
	}
	p.startBlock(n)
}

// indentFor maps a marker's leading whitespace to a nesting level.
func (p *blockParser) indentFor(width int) int {
	for len(p.widths) > 0 && p.widths[len(p.widths)-1] > width {
		p.widths = p.widths[:len(p.widths)-1]
	}
	if len(p.widths) == 0 || p.widths[len(p.widths)-1] < width {
		p.widths = append(p.widths, width)
	}
	return len(p.widths) - 1
}

// firstInRun reports whether no earlier ordered item shares n's list and
// indent, mirroring how ordinals are counted.
func (p *blockParser) firstInRun(n *document.ListItemNode) bool {
	for i := p.doc.Len() - 1; i >= 0; i-- {
		prev, ok := p.doc.NodeAt(i).(*document.ListItemNode)
		if !ok || prev.Type != document.Ordered || prev.Indent < n.Indent {
			return true
		}
		if prev.Indent == n.Indent {
			return false
		}
	}
	return true
}

// unescape removes backslashes before ASCII punctuation.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}
