package attributed

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text is an immutable string with attribution spans.
// The zero value is an empty text with no spans.
type Text struct {
	text   string
	length int
	spans  []Span
}

// Plain creates a Text without any spans.
func Plain(text string) Text {
	return Text{text: text, length: utf8.RuneCountInString(text)}
}

// New creates a Text with the given spans. Spans are normalized: mergeable
// spans that overlap or touch are coalesced. New panics if a span lies
// outside the text.
func New(text string, spans ...Span) Text {
	t := Plain(text)
	for _, s := range spans {
		if !s.Range.IsValid() || s.Range.End > t.length {
			panic(fmt.Sprintf("attributed: span %s outside text of length %d", s, t.length))
		}
	}
	t.spans = normalizeSpans(spans)
	return t
}

// FromMarkers creates a Text from boundary markers.
func FromMarkers(text string, markers []SpanMarker) (Text, error) {
	spans, err := spansFromMarkers(markers)
	if err != nil {
		return Text{}, err
	}
	t := Plain(text)
	for _, s := range spans {
		if !s.Range.IsValid() || s.Range.End > t.length {
			return Text{}, fmt.Errorf("span %s: %w", s, ErrOffsetOutOfRange)
		}
	}
	t.spans = normalizeSpans(spans)
	return t, nil
}

// String returns the plain text.
func (t Text) String() string { return t.text }

// Len returns the length of the text in code points.
func (t Text) Len() int { return t.length }

// IsEmpty returns true if the text has no characters.
func (t Text) IsEmpty() bool { return t.length == 0 }

// Spans returns a copy of the spans ordered by start offset.
func (t Text) Spans() []Span {
	return append([]Span(nil), t.spans...)
}

// Markers returns the span boundaries ordered by offset.
func (t Text) Markers() []SpanMarker {
	return markersFor(t.spans)
}

// Substring returns the plain text in [start, end).
func (t Text) Substring(start, end int) string {
	t.checkRange(start, end)
	r := []rune(t.text)
	return string(r[start:end])
}

// RuneAt returns the character at offset.
func (t Text) RuneAt(offset int) rune {
	if offset < 0 || offset >= t.length {
		panic(fmt.Sprintf("attributed: offset %d outside text of length %d", offset, t.length))
	}
	return []rune(t.text)[offset]
}

// Insert returns a new Text with s inserted at offset.
//
// Spans strictly around offset grow to cover the inserted text. Spans that
// start or end exactly at offset grow only when their attribution is an
// Expander; otherwise the inserted text inherits nothing from them. The
// attributions in apply are added over the inserted range.
func (t Text) Insert(s string, offset int, apply ...Attribution) Text {
	if offset < 0 || offset > t.length {
		panic(fmt.Sprintf("attributed: insert offset %d outside text of length %d", offset, t.length))
	}
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return t
	}

	r := []rune(t.text)
	out := Text{
		text:   string(r[:offset]) + s + string(r[offset:]),
		length: t.length + n,
	}

	spans := make([]Span, 0, len(t.spans)+len(apply))
	for _, sp := range t.spans {
		a, b := sp.Range.Start, sp.Range.End
		grow := expands(sp.Attribution)
		switch {
		case b < offset:
		case a < offset && offset < b:
			b += n
		case a < offset && b == offset:
			if grow {
				b += n
			}
		case a == offset:
			if grow {
				b += n
			} else {
				a += n
				b += n
			}
		default:
			a += n
			b += n
		}
		spans = append(spans, Span{Attribution: sp.Attribution, Range: Range{Start: a, End: b}})
	}
	for _, attr := range apply {
		spans = append(spans, Span{Attribution: attr, Range: Range{Start: offset, End: offset + n}})
	}
	out.spans = normalizeSpans(spans)
	return out
}

// InsertText returns a new Text with other (and its spans) inserted at offset.
func (t Text) InsertText(other Text, offset int) Text {
	if offset < 0 || offset > t.length {
		panic(fmt.Sprintf("attributed: insert offset %d outside text of length %d", offset, t.length))
	}
	return t.CopyRange(0, offset).Append(other).Append(t.CopyRange(offset, t.length))
}

// Delete returns a new Text without the characters in [start, end).
// Spans inside the range disappear, spans crossing a boundary are truncated.
func (t Text) Delete(start, end int) Text {
	t.checkRange(start, end)
	if start == end {
		return t
	}
	n := end - start
	r := []rune(t.text)
	out := Text{
		text:   string(r[:start]) + string(r[end:]),
		length: t.length - n,
	}

	shift := func(x int) int {
		switch {
		case x <= start:
			return x
		case x <= end:
			return start
		default:
			return x - n
		}
	}
	spans := make([]Span, 0, len(t.spans))
	for _, sp := range t.spans {
		spans = append(spans, Span{
			Attribution: sp.Attribution,
			Range:       Range{Start: shift(sp.Range.Start), End: shift(sp.Range.End)},
		})
	}
	out.spans = normalizeSpans(spans)
	return out
}

// CopyRange returns the sub-text in [start, end) with offsets rebased to 0.
func (t Text) CopyRange(start, end int) Text {
	t.checkRange(start, end)
	out := Plain(t.Substring(start, end))
	window := Range{Start: start, End: end}
	spans := make([]Span, 0, len(t.spans))
	for _, sp := range t.spans {
		if sp.Range.IsEmpty() {
			if sp.Range.Start >= start && sp.Range.Start <= end {
				spans = append(spans, Span{Attribution: sp.Attribution, Range: sp.Range.Shift(-start)})
			}
			continue
		}
		if !sp.Range.Overlaps(window) {
			continue
		}
		spans = append(spans, Span{Attribution: sp.Attribution, Range: sp.Range.Intersect(window).Shift(-start)})
	}
	out.spans = normalizeSpans(spans)
	return out
}

// Append returns the concatenation of t and other. A mergeable span open at
// the end of t and at the start of other becomes one continuous span.
func (t Text) Append(other Text) Text {
	out := Text{
		text:   t.text + other.text,
		length: t.length + other.length,
	}
	spans := make([]Span, 0, len(t.spans)+len(other.spans))
	spans = append(spans, t.spans...)
	for _, sp := range other.spans {
		spans = append(spans, Span{Attribution: sp.Attribution, Range: sp.Range.Shift(t.length)})
	}
	out.spans = normalizeSpans(spans)
	return out
}

// AddAttribution returns a new Text with attr applied over r.
//
// It fails when r is invalid or out of bounds, or when attr would overlap a
// span with the same ID that it cannot merge with. Adding an attribution that
// already covers r is a no-op.
func (t Text) AddAttribution(attr Attribution, r Range) (Text, error) {
	if !r.IsValid() || r.End > t.length {
		return t, fmt.Errorf("add %s over %s in text of length %d: %w", attr.ID(), r, t.length, ErrRangeInvalid)
	}
	if r.IsEmpty() && !allowsZeroWidth(attr) {
		return t, nil
	}
	for _, sp := range t.spans {
		if sp.Attribution.CanMergeWith(attr) && sp.Range.ContainsRange(r) {
			return t, nil
		}
		if sp.Attribution.ID() == attr.ID() && !sp.Attribution.CanMergeWith(attr) && sp.Range.Overlaps(r) {
			return t, fmt.Errorf("add %s over %s: %w", attr.ID(), r, ErrIncompatibleOverlap)
		}
	}
	out := t
	out.spans = normalizeSpans(append(t.Spans(), Span{Attribution: attr, Range: r}))
	return out, nil
}

// RemoveAttribution returns a new Text with attr removed from r. Spans that
// extend beyond r are split around it.
func (t Text) RemoveAttribution(attr Attribution, r Range) Text {
	t.checkRange(r.Start, r.End)
	spans := make([]Span, 0, len(t.spans)+1)
	for _, sp := range t.spans {
		if !attr.CanMergeWith(sp.Attribution) || !sp.Range.Overlaps(r) {
			spans = append(spans, sp)
			continue
		}
		if sp.Range.Start < r.Start {
			spans = append(spans, Span{Attribution: sp.Attribution, Range: Range{Start: sp.Range.Start, End: r.Start}})
		}
		if sp.Range.End > r.End {
			spans = append(spans, Span{Attribution: sp.Attribution, Range: Range{Start: r.End, End: sp.Range.End}})
		}
	}
	out := t
	out.spans = normalizeSpans(spans)
	return out
}

// ToggleAttribution removes attr from r if it covers all of r, and adds it
// otherwise.
func (t Text) ToggleAttribution(attr Attribution, r Range) (Text, error) {
	if t.HasAttributionThroughout(attr, r) {
		return t.RemoveAttribution(attr, r), nil
	}
	return t.AddAttribution(attr, r)
}

// HasAttributionAt reports whether attr covers the character at offset.
func (t Text) HasAttributionAt(attr Attribution, offset int) bool {
	for _, sp := range t.spans {
		if sp.Attribution.CanMergeWith(attr) && sp.Range.Contains(offset) {
			return true
		}
	}
	return false
}

// HasAttributionThroughout reports whether a single span of attr covers r.
// Empty ranges are never covered.
func (t Text) HasAttributionThroughout(attr Attribution, r Range) bool {
	if r.IsEmpty() {
		return false
	}
	for _, sp := range t.spans {
		if sp.Attribution.CanMergeWith(attr) && sp.Range.ContainsRange(r) {
			return true
		}
	}
	return false
}

// AttributionsAt returns every attribution whose span covers offset.
func (t Text) AttributionsAt(offset int) Set {
	var out Set
	for _, sp := range t.spans {
		if sp.Range.Contains(offset) {
			out = out.add(sp.Attribution)
		}
	}
	return out.sorted()
}

// AttributionsThroughout returns the attributions that cover all of r.
func (t Text) AttributionsThroughout(r Range) Set {
	var out Set
	if r.IsEmpty() {
		return out
	}
	for _, sp := range t.spans {
		if sp.Range.ContainsRange(r) {
			out = out.add(sp.Attribution)
		}
	}
	return out.sorted()
}

// SpansInRange returns the spans that overlap r, clipped to r.
func (t Text) SpansInRange(r Range) []Span {
	var out []Span
	for _, sp := range t.spans {
		if sp.Range.Overlaps(r) {
			out = append(out, Span{Attribution: sp.Attribution, Range: sp.Range.Intersect(r)})
		}
	}
	return out
}

// Run is a maximal range of characters sharing one set of attributions.
type Run struct {
	Range        Range
	Attributions Set
}

// Runs splits the text into consecutive runs at every span boundary.
// An empty text yields no runs.
func (t Text) Runs() []Run {
	if t.length == 0 {
		return nil
	}
	cuts := map[int]bool{0: true, t.length: true}
	for _, sp := range t.spans {
		cuts[sp.Range.Start] = true
		cuts[sp.Range.End] = true
	}
	var runs []Run
	start := 0
	for i := 1; i <= t.length; i++ {
		if !cuts[i] {
			continue
		}
		runs = append(runs, Run{Range: Range{Start: start, End: i}, Attributions: t.AttributionsAt(start)})
		start = i
	}
	return runs
}

// Equal reports whether both texts have the same characters and spans.
func (t Text) Equal(other Text) bool {
	if t.text != other.text || len(t.spans) != len(other.spans) {
		return false
	}
	for i := range t.spans {
		if t.spans[i].Range != other.spans[i].Range || t.spans[i].Attribution != other.spans[i].Attribution {
			return false
		}
	}
	return true
}

// GoString returns a debug representation with spans.
func (t Text) GoString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q", t.text)
	for _, sp := range t.spans {
		sb.WriteString(" ")
		sb.WriteString(sp.String())
	}
	return sb.String()
}

func (t Text) checkRange(start, end int) {
	if start < 0 || start > end || end > t.length {
		panic(fmt.Sprintf("attributed: range [%d:%d) outside text of length %d", start, end, t.length))
	}
}
