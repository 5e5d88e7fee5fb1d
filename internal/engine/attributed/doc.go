// Package attributed provides text with overlapping style spans.
//
// A Text value is an immutable string paired with a set of spans. Each span
// applies one Attribution (bold, a link, a block type) to a half-open range of
// characters [Start, End). Offsets are counted in Unicode code points, never in
// bytes or UTF-16 code units.
//
// # Span Invariant
//
// For any attribution, the spans carrying it never overlap or touch: two spans
// whose attributions can merge are coalesced into a single span whenever an
// operation would make them overlap or become adjacent. Spans of different
// attributions overlap freely. Two spans with the same attribution ID that
// cannot merge (links to different URLs) may touch but never overlap.
//
// Every operation returns a new Text; the receiver is left untouched:
//
//	t := attributed.Plain("Hello world")
//	t, _ = t.AddAttribution(attributed.Bold, attributed.NewRange(0, 5))
//	t = t.Insert("big ", 6)            // "Hello big world"
//	t = t.Delete(0, 6)                 // "big world", bold span removed
//	head := t.CopyRange(0, 3)          // "big"
//	joined := head.Append(t.CopyRange(3, t.Len()))
//
// # Markers
//
// Spans can be viewed as start/end markers with Markers. End markers carry the
// exclusive end offset of their span.
package attributed
