package attributed

import (
	"fmt"
	"sort"
)

// Span applies an attribution to a range of characters.
type Span struct {
	Attribution Attribution
	Range       Range
}

// String returns a debug representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("%s%s", s.Attribution.ID(), s.Range)
}

// MarkerType distinguishes the two boundaries of a span.
type MarkerType uint8

const (
	// MarkerStart opens a span at its offset.
	MarkerStart MarkerType = iota
	// MarkerEnd closes a span at its (exclusive) offset.
	MarkerEnd
)

// String returns "start" or "end".
func (t MarkerType) String() string {
	if t == MarkerStart {
		return "start"
	}
	return "end"
}

// SpanMarker is one boundary of a span.
type SpanMarker struct {
	Attribution Attribution
	Offset      int
	Type        MarkerType
}

// normalizeSpans sorts spans and coalesces every pair of mergeable spans that
// overlap or touch. Inverted ranges are dropped, as are empty ranges whose
// attribution is not ZeroWidthSafe.
func normalizeSpans(spans []Span) []Span {
	in := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Attribution == nil || s.Range.Start > s.Range.End {
			continue
		}
		if s.Range.IsEmpty() && !allowsZeroWidth(s.Attribution) {
			continue
		}
		in = append(in, s)
	}
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].Range.Start < in[j].Range.Start
	})

	out := make([]Span, 0, len(in))
	for _, s := range in {
		merged := false
		// Spans of one mergeable family are disjoint and sorted in out, so
		// only the last of them can reach s.
		for i := len(out) - 1; i >= 0; i-- {
			if !out[i].Attribution.CanMergeWith(s.Attribution) {
				continue
			}
			if out[i].Range.Touches(s.Range) {
				out[i].Range.End = max(out[i].Range.End, s.Range.End)
				merged = true
			}
			break
		}
		if !merged {
			out = append(out, s)
		}
	}

	sortSpans(out)
	return out
}

func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End < b.Range.End
		}
		return attributionLess(a.Attribution, b.Attribution)
	})
}

// markersFor expands spans into boundary markers ordered by offset. At a
// shared offset, closing markers of non-empty spans come first, then opening
// markers, then the closing markers of zero-width spans.
func markersFor(spans []Span) []SpanMarker {
	type ranked struct {
		m    SpanMarker
		rank int
	}
	all := make([]ranked, 0, len(spans)*2)
	for _, s := range spans {
		endRank := 0
		if s.Range.IsEmpty() {
			endRank = 2
		}
		all = append(all,
			ranked{SpanMarker{s.Attribution, s.Range.Start, MarkerStart}, 1},
			ranked{SpanMarker{s.Attribution, s.Range.End, MarkerEnd}, endRank},
		)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].m.Offset != all[j].m.Offset {
			return all[i].m.Offset < all[j].m.Offset
		}
		return all[i].rank < all[j].rank
	})
	out := make([]SpanMarker, len(all))
	for i, r := range all {
		out[i] = r.m
	}
	return out
}

// spansFromMarkers pairs each end marker with the most recent unmatched start
// marker of an equal attribution.
func spansFromMarkers(markers []SpanMarker) ([]Span, error) {
	var open []SpanMarker
	var spans []Span
	for _, m := range markers {
		if m.Type == MarkerStart {
			open = append(open, m)
			continue
		}
		matched := -1
		for i := len(open) - 1; i >= 0; i-- {
			if open[i].Attribution == m.Attribution {
				matched = i
				break
			}
		}
		if matched < 0 {
			return nil, fmt.Errorf("end marker for %s at %d has no start: %w", m.Attribution.ID(), m.Offset, ErrRangeInvalid)
		}
		spans = append(spans, Span{Attribution: m.Attribution, Range: Range{Start: open[matched].Offset, End: m.Offset}})
		open = append(open[:matched], open[matched+1:]...)
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("start marker for %s at %d is never closed: %w", open[0].Attribution.ID(), open[0].Offset, ErrRangeInvalid)
	}
	return spans, nil
}
