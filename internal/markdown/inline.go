package markdown

import (
	"strings"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

// inlineRank orders the styles an inline run can open, outermost first.
// Code is handled separately because nothing nests inside a code span.
func (c *Codec) inlineRank(a attributed.Attribution) int {
	switch a {
	case attributed.Attribution(attributed.Bold):
		return 1
	case attributed.Attribution(attributed.Italics):
		return 2
	case attributed.Attribution(attributed.Strikethrough):
		return 3
	case attributed.Attribution(attributed.Underline):
		if c.syntax == SyntaxSuperEditor {
			return 4
		}
		return -1
	}
	if _, ok := a.(attributed.LinkAttribution); ok {
		return 0
	}
	return -1
}

func (c *Codec) markers(a attributed.Attribution) (open, close string) {
	switch a {
	case attributed.Attribution(attributed.Bold):
		return "**", "**"
	case attributed.Attribution(attributed.Italics):
		return "*", "*"
	case attributed.Attribution(attributed.Strikethrough):
		if c.syntax == SyntaxSuperEditor {
			return "~", "~"
		}
		return "~~", "~~"
	case attributed.Attribution(attributed.Underline):
		return "¬", "¬"
	}
	link := a.(attributed.LinkAttribution)
	return "[", "](" + linkTarget(link.URL) + ")"
}

// serializeInline writes t with Markdown inline markup. Open styles stay
// open across runs for as long as they continue, so "a **b *c* d**" keeps
// one bold pair around the italic word.
func (c *Codec) serializeInline(t attributed.Text) string {
	var (
		out  []byte
		open []attributed.Attribution
	)
	closeTo := func(keep int) {
		if keep >= len(open) {
			return
		}
		var tail []byte
		if !hasLink(open[keep:]) {
			out, tail = splitTrailingSpace(out)
		}
		for i := len(open) - 1; i >= keep; i-- {
			_, cl := c.markers(open[i])
			out = append(out, cl...)
		}
		out = append(out, tail...)
		open = open[:keep]
	}

	runes := []rune(t.String())
	for _, run := range t.Runs() {
		keep := 0
		for keep < len(open) && run.Attributions.Contains(open[keep]) {
			keep++
		}
		closeTo(keep)

		var opening []attributed.Attribution
		for _, a := range run.Attributions {
			if c.inlineRank(a) >= 0 && !containsAttribution(open, a) {
				opening = append(opening, a)
			}
		}
		sortByRank(opening, c.inlineRank)

		segment := string(runes[run.Range.Start:run.Range.End])
		if len(opening) > 0 && !hasLink(opening) {
			lead := segment[:len(segment)-len(strings.TrimLeft(segment, " \t"))]
			out = append(out, escapeText(lead, c.syntax)...)
			segment = segment[len(lead):]
		}
		for _, a := range opening {
			op, _ := c.markers(a)
			out = append(out, op...)
			open = append(open, a)
		}

		if run.Attributions.Contains(attributed.Code) {
			out = append(out, codeSpan(segment)...)
		} else {
			out = append(out, escapeText(segment, c.syntax)...)
		}
	}
	closeTo(0)
	return string(out)
}

func sortByRank(as []attributed.Attribution, rank func(attributed.Attribution) int) {
	for i := 1; i < len(as); i++ {
		for j := i; j > 0 && rank(as[j]) < rank(as[j-1]); j-- {
			as[j], as[j-1] = as[j-1], as[j]
		}
	}
}

func containsAttribution(as []attributed.Attribution, a attributed.Attribution) bool {
	for _, x := range as {
		if x == a {
			return true
		}
	}
	return false
}

func hasLink(as []attributed.Attribution) bool {
	for _, a := range as {
		if _, ok := a.(attributed.LinkAttribution); ok {
			return true
		}
	}
	return false
}

// splitTrailingSpace detaches trailing whitespace so that a closing
// delimiter touches the text it closes.
func splitTrailingSpace(b []byte) (body, tail []byte) {
	i := len(b)
	for i > 0 && (b[i-1] == ' ' || b[i-1] == '\t' || b[i-1] == '\n') {
		i--
	}
	tail = append([]byte(nil), b[i:]...)
	return b[:i], tail
}

// escapeText backslash-escapes characters with inline meaning and turns
// line breaks into hard breaks.
func escapeText(s string, syntax Syntax) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`', '[', ']', '~', '<':
			sb.WriteByte('\\')
		case '¬':
			if syntax == SyntaxSuperEditor {
				sb.WriteByte('\\')
			}
		case '\n':
			sb.WriteString("  ")
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") ||
		(strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ") && strings.TrimSpace(s) != "") {
		s = " " + s + " "
	}
	return fence + s + fence
}

func linkTarget(url string) string {
	if strings.ContainsAny(url, " ()<>") {
		r := strings.NewReplacer("<", `\<`, ">", `\>`)
		return "<" + r.Replace(url) + ">"
	}
	return url
}
