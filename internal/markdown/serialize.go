package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

var alignTokens = map[document.TextAlign]string{
	document.AlignCenter:  ":---:",
	document.AlignRight:   "---:",
	document.AlignJustify: "-::-",
}

// Serialize renders doc as Markdown. Blocks are separated by a blank line,
// except consecutive list items and tasks which sit on adjacent lines.
func (c *Codec) Serialize(doc *document.Document) string {
	var sb strings.Builder
	var prev document.Node
	for _, n := range doc.Nodes() {
		block, ok := c.serializeNode(doc, n)
		if !ok {
			continue
		}
		if prev != nil {
			if isListLike(prev) && isListLike(n) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(block)
		prev = n
	}
	return sb.String()
}

func isListLike(n document.Node) bool {
	switch n.(type) {
	case *document.ListItemNode, *document.TaskNode:
		return true
	}
	return false
}

func (c *Codec) serializeNode(doc *document.Document, n document.Node) (string, bool) {
	switch n := n.(type) {
	case *document.ParagraphNode:
		return c.serializeParagraph(n), true
	case *document.ListItemNode:
		marker := "* "
		if n.Type == document.Ordered {
			marker = strconv.Itoa(doc.ListItemOrdinal(n.ID())) + ". "
		}
		return strings.Repeat("  ", n.Indent) + marker + escapeLines(c.serializeInline(n.Text())), true
	case *document.TaskNode:
		box := "- [ ] "
		if n.Complete {
			box = "- [x] "
		}
		return box + escapeLines(c.serializeInline(n.Text())), true
	case *document.ImageNode:
		return "![" + escapeText(n.AltText, c.syntax) + "](" + linkTarget(n.URL) + ")", true
	case *document.HorizontalRuleNode:
		return "---", true
	default:
		c.logger.Warn("skipping node without markdown form",
			zap.String("node", n.ID()),
			zap.String("type", fmt.Sprintf("%T", n)))
		return "", false
	}
}

func (c *Codec) serializeParagraph(n *document.ParagraphNode) string {
	bt := document.BlockTypeOf(n)
	if bt == attributed.Attribution(document.CodeBlock) {
		return codeFence(n.Text().String())
	}

	body := c.serializeInline(n.Text())
	var sb strings.Builder
	if c.syntax == SyntaxSuperEditor && !n.Text().IsEmpty() {
		if tok, ok := alignTokens[document.AlignmentOf(n)]; ok {
			sb.WriteString(tok)
			sb.WriteString("\n")
		}
	}
	switch {
	case document.HeaderLevel(bt) > 0:
		sb.WriteString(strings.Repeat("#", document.HeaderLevel(bt)))
		sb.WriteString(" ")
		if headerTail.MatchString(body) {
			i := strings.LastIndex(body, "#")
			body = body[:i] + `\` + body[i:]
		}
		sb.WriteString(body)
	case bt == attributed.Attribution(document.Blockquote):
		sb.WriteString("> ")
		sb.WriteString(strings.ReplaceAll(body, "\n", "\n> "))
	default:
		sb.WriteString(escapeLines(body))
	}
	return sb.String()
}

func codeFence(code string) string {
	longest := 0
	for _, line := range strings.Split(code, "\n") {
		run := len(line) - len(strings.TrimLeft(line, "`"))
		longest = max(longest, run)
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + "\n" + code + "\n" + fence
}

var (
	orderedPrefix = regexp.MustCompile(`^(\d{1,9})([.)])( |$)`)
	alignLine     = regexp.MustCompile(`^(:---:|---:|-::-|:---)$`)
)

// escapeLines escapes characters at the start of each line that would
// otherwise begin a block.
func escapeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = escapeLineStart(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(line string) string {
	if line == "" {
		return line
	}
	if m := orderedPrefix.FindStringSubmatchIndex(line); m != nil {
		return line[:m[3]] + `\` + line[m[3]:]
	}
	if alignLine.MatchString(line) {
		return `\` + line
	}
	switch line[0] {
	case '#', '>':
		return `\` + line
	case '-', '+':
		if len(line) == 1 || line[1] == ' ' || isRuleLine(line) {
			return `\` + line
		}
	}
	return line
}
