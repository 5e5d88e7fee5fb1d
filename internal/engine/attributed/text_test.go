package attributed

import (
	"errors"
	"math/rand"
	"testing"
)

type expandingAttr struct{}

func (expandingAttr) ID() string            { return "comment" }
func (expandingAttr) ExpandsOnInsert() bool { return true }

func (expandingAttr) CanMergeWith(other Attribution) bool {
	_, ok := other.(expandingAttr)
	return ok
}

type anchorAttr struct{}

func (anchorAttr) ID() string            { return "anchor" }
func (anchorAttr) AllowsZeroWidth() bool { return true }

func (anchorAttr) CanMergeWith(other Attribution) bool {
	_, ok := other.(anchorAttr)
	return ok
}

func mustAdd(t *testing.T, text Text, attr Attribution, start, end int) Text {
	t.Helper()
	out, err := text.AddAttribution(attr, NewRange(start, end))
	if err != nil {
		t.Fatalf("AddAttribution(%s, [%d:%d)) failed: %v", attr.ID(), start, end, err)
	}
	return out
}

func TestPlain(t *testing.T) {
	text := Plain("héllo 🌍")
	if text.Len() != 7 {
		t.Errorf("Len() = %d, want 7", text.Len())
	}
	if got := text.Substring(6, 7); got != "🌍" {
		t.Errorf("Substring(6, 7) = %q, want %q", got, "🌍")
	}
	if len(text.Spans()) != 0 {
		t.Error("plain text should have no spans")
	}
}

func TestAddAttributionMergesSameAttribution(t *testing.T) {
	text := Plain("This is a paragraph.")
	text = mustAdd(t, text, Bold, 0, 4)
	text = mustAdd(t, text, Bold, 4, 7)
	text = mustAdd(t, text, Bold, 2, 5)

	spans := text.Spans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %#v", len(spans), text)
	}
	if spans[0].Range != NewRange(0, 7) {
		t.Errorf("span range = %s, want [0:7)", spans[0].Range)
	}
}

func TestAddAttributionDifferentAttributionsOverlap(t *testing.T) {
	text := Plain("overlapping")
	text = mustAdd(t, text, Bold, 0, 6)
	text = mustAdd(t, text, Italics, 3, 9)

	if len(text.Spans()) != 2 {
		t.Fatalf("got %d spans, want 2", len(text.Spans()))
	}
	got := text.AttributionsAt(4)
	if !got.Equal(Set{Bold, Italics}) {
		t.Errorf("AttributionsAt(4) = %v, want bold+italics", got)
	}
}

func TestAddAttributionInvalidRange(t *testing.T) {
	text := Plain("abc")
	tests := []struct {
		name string
		r    Range
	}{
		{"inverted", NewRange(2, 1)},
		{"negative", NewRange(-1, 2)},
		{"past end", NewRange(0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := text.AddAttribution(Bold, tt.r)
			if !errors.Is(err, ErrRangeInvalid) {
				t.Errorf("AddAttribution(%s) error = %v, want ErrRangeInvalid", tt.r, err)
			}
		})
	}
}

func TestAddAttributionAlreadyCoveredIsNoop(t *testing.T) {
	text := mustAdd(t, Plain("abcdef"), Bold, 0, 6)
	again := mustAdd(t, text, Bold, 2, 4)
	if !again.Equal(text) {
		t.Errorf("re-adding covered range changed text: %#v", again)
	}
}

func TestAddAttributionIncompatibleLinks(t *testing.T) {
	text := mustAdd(t, Plain("click here"), NewLink("https://a.example"), 0, 5)

	if _, err := text.AddAttribution(NewLink("https://b.example"), NewRange(3, 8)); !errors.Is(err, ErrIncompatibleOverlap) {
		t.Errorf("overlapping different links error = %v, want ErrIncompatibleOverlap", err)
	}

	adjacent := mustAdd(t, text, NewLink("https://b.example"), 5, 10)
	if len(adjacent.Spans()) != 2 {
		t.Errorf("adjacent different links should stay separate, got %#v", adjacent)
	}

	same := mustAdd(t, text, NewLink("https://a.example"), 5, 10)
	if len(same.Spans()) != 1 {
		t.Errorf("adjacent equal links should merge, got %#v", same)
	}
}

func TestInsert(t *testing.T) {
	base := mustAdd(t, Plain("abcdef"), Bold, 2, 4) // "cd"

	tests := []struct {
		name     string
		offset   int
		wantText string
		want     Range
	}{
		{"before span", 1, "aXXbcdef", NewRange(4, 6)},
		{"at span start", 2, "abXXcdef", NewRange(4, 6)},
		{"inside span", 3, "abcXXdef", NewRange(2, 6)},
		{"at span end", 4, "abcdXXef", NewRange(2, 4)},
		{"after span", 5, "abcdeXXf", NewRange(2, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Insert("XX", tt.offset)
			if got.String() != tt.wantText {
				t.Errorf("text = %q, want %q", got.String(), tt.wantText)
			}
			spans := got.Spans()
			if len(spans) != 1 || spans[0].Range != tt.want {
				t.Errorf("spans = %#v, want bold%s", got, tt.want)
			}
		})
	}
}

func TestInsertExpandingAttribution(t *testing.T) {
	base := mustAdd(t, Plain("abcdef"), expandingAttr{}, 2, 4)

	atStart := base.Insert("X", 2)
	if got := atStart.Spans()[0].Range; got != NewRange(2, 5) {
		t.Errorf("insert at start: range = %s, want [2:5)", got)
	}
	atEnd := base.Insert("X", 4)
	if got := atEnd.Spans()[0].Range; got != NewRange(2, 5) {
		t.Errorf("insert at end: range = %s, want [2:5)", got)
	}
}

func TestInsertAppliesAttributions(t *testing.T) {
	text := mustAdd(t, Plain("ab"), Bold, 0, 1)
	text = text.Insert("X", 1, Bold, Italics)

	if !text.HasAttributionThroughout(Bold, NewRange(0, 2)) {
		t.Errorf("bold should cover [0:2), got %#v", text)
	}
	if !text.HasAttributionAt(Italics, 1) || text.HasAttributionAt(Italics, 0) {
		t.Errorf("italics should cover only the inserted character, got %#v", text)
	}
}

func TestDelete(t *testing.T) {
	base := Plain("0123456789")
	base = mustAdd(t, base, Bold, 2, 5)
	base = mustAdd(t, base, Italics, 6, 9)

	got := base.Delete(4, 7)
	if got.String() != "0123789" {
		t.Fatalf("text = %q, want %q", got.String(), "0123789")
	}
	spans := got.Spans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %#v", len(spans), got)
	}
	if spans[0].Attribution != Bold || spans[0].Range != NewRange(2, 4) {
		t.Errorf("bold span = %s, want bold[2:4)", spans[0])
	}
	if spans[1].Attribution != Italics || spans[1].Range != NewRange(4, 6) {
		t.Errorf("italics span = %s, want italics[4:6)", spans[1])
	}

	gone := base.Delete(1, 6)
	if gone.HasAttributionAt(Bold, 1) || len(gone.Spans()) != 1 {
		t.Errorf("fully deleted span should vanish, got %#v", gone)
	}
}

func TestDeleteKeepsZeroWidthSafeSpans(t *testing.T) {
	text := mustAdd(t, Plain("abcdef"), anchorAttr{}, 2, 4)
	text = text.Delete(1, 5)
	spans := text.Spans()
	if len(spans) != 1 || spans[0].Range != NewRange(1, 1) {
		t.Errorf("zero-width-safe span = %#v, want anchor[1:1)", text)
	}
}

func TestCopyRange(t *testing.T) {
	text := mustAdd(t, Plain("Hello world"), Bold, 3, 8)
	sub := text.CopyRange(5, 11)
	if sub.String() != " world" {
		t.Fatalf("text = %q, want %q", sub.String(), " world")
	}
	spans := sub.Spans()
	if len(spans) != 1 || spans[0].Range != NewRange(0, 3) {
		t.Errorf("spans = %#v, want bold[0:3)", sub)
	}
}

func TestAppendCoalescesBoundarySpan(t *testing.T) {
	left := mustAdd(t, Plain("abc"), Bold, 1, 3)
	right := mustAdd(t, Plain("def"), Bold, 0, 2)

	joined := left.Append(right)
	spans := joined.Spans()
	if len(spans) != 1 || spans[0].Range != NewRange(1, 5) {
		t.Errorf("spans = %#v, want one bold[1:5)", joined)
	}
}

func TestRemoveAttributionSplitsSpan(t *testing.T) {
	text := mustAdd(t, Plain("abcdefgh"), Bold, 0, 8)
	text = text.RemoveAttribution(Bold, NewRange(3, 5))

	spans := text.Spans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Range != NewRange(0, 3) || spans[1].Range != NewRange(5, 8) {
		t.Errorf("spans = %#v, want bold[0:3) bold[5:8)", text)
	}
}

func TestToggleAttribution(t *testing.T) {
	text := Plain("toggle")
	on, err := text.ToggleAttribution(Underline, NewRange(0, 6))
	if err != nil {
		t.Fatal(err)
	}
	if !on.HasAttributionThroughout(Underline, NewRange(0, 6)) {
		t.Error("toggle should add underline")
	}
	off, err := on.ToggleAttribution(Underline, NewRange(0, 6))
	if err != nil {
		t.Fatal(err)
	}
	if len(off.Spans()) != 0 {
		t.Errorf("toggle should remove underline, got %#v", off)
	}
}

func TestAttributionsAtIsHalfOpen(t *testing.T) {
	text := mustAdd(t, Plain("abcdef"), Code, 1, 3)
	tests := []struct {
		offset int
		want   bool
	}{
		{0, false}, {1, true}, {2, true}, {3, false},
	}
	for _, tt := range tests {
		if got := text.AttributionsAt(tt.offset).Contains(Code); got != tt.want {
			t.Errorf("AttributionsAt(%d) contains code = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestRuns(t *testing.T) {
	text := Plain("abcdef")
	text = mustAdd(t, text, Bold, 0, 4)
	text = mustAdd(t, text, Italics, 2, 6)

	runs := text.Runs()
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	want := []struct {
		r     Range
		attrs Set
	}{
		{NewRange(0, 2), Set{Bold}},
		{NewRange(2, 4), Set{Bold, Italics}},
		{NewRange(4, 6), Set{Italics}},
	}
	for i, w := range want {
		if runs[i].Range != w.r || !runs[i].Attributions.Equal(w.attrs) {
			t.Errorf("run %d = %v %v, want %v %v", i, runs[i].Range, runs[i].Attributions, w.r, w.attrs)
		}
	}
}

func TestFromMarkers(t *testing.T) {
	orig := mustAdd(t, mustAdd(t, Plain("abcdef"), Bold, 0, 3), Italics, 2, 5)
	rebuilt, err := FromMarkers(orig.String(), orig.Markers())
	if err != nil {
		t.Fatal(err)
	}
	if !rebuilt.Equal(orig) {
		t.Errorf("FromMarkers(Markers()) = %#v, want %#v", rebuilt, orig)
	}

	_, err = FromMarkers("abc", []SpanMarker{{Attribution: Bold, Offset: 0, Type: MarkerStart}})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("unbalanced markers error = %v, want ErrRangeInvalid", err)
	}
}

// checkSpanInvariant verifies that markers are balanced and that spans of one
// mergeable attribution never overlap or touch.
func checkSpanInvariant(t *testing.T, text Text) {
	t.Helper()
	depth := map[Attribution]int{}
	for _, m := range text.Markers() {
		if m.Type == MarkerStart {
			depth[m.Attribution]++
			if depth[m.Attribution] > 1 {
				t.Fatalf("attribution %s opened twice at %d: %#v", m.Attribution.ID(), m.Offset, text)
			}
		} else {
			depth[m.Attribution]--
			if depth[m.Attribution] < 0 {
				t.Fatalf("attribution %s closed before open at %d: %#v", m.Attribution.ID(), m.Offset, text)
			}
		}
	}
	for a, d := range depth {
		if d != 0 {
			t.Fatalf("attribution %s unbalanced: %#v", a.ID(), text)
		}
	}
	spans := text.Spans()
	for i := range spans {
		if spans[i].Range.End > text.Len() {
			t.Fatalf("span %s beyond text length %d", spans[i], text.Len())
		}
		for j := i + 1; j < len(spans); j++ {
			if spans[i].Attribution.CanMergeWith(spans[j].Attribution) && spans[i].Range.Touches(spans[j].Range) {
				t.Fatalf("spans %s and %s should have merged", spans[i], spans[j])
			}
		}
	}
}

func TestSpanInvariantUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	attrs := []Attribution{Bold, Italics, Underline, NewLink("https://x.example")}
	text := Plain("the quick brown fox jumps over the lazy dog")

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			off := rng.Intn(text.Len() + 1)
			text = text.Insert("ab", off)
		case 1:
			if text.Len() == 0 {
				continue
			}
			a := rng.Intn(text.Len())
			b := a + rng.Intn(min(4, text.Len()-a)+1)
			text = text.Delete(a, b)
		default:
			if text.Len() == 0 {
				continue
			}
			a := rng.Intn(text.Len())
			b := a + rng.Intn(text.Len()-a+1)
			next, err := text.AddAttribution(attrs[rng.Intn(len(attrs))], NewRange(a, b))
			if err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
			text = next
		}
		checkSpanInvariant(t, text)
	}
}

func TestSplitAppendRoundTrip(t *testing.T) {
	text := Plain("a ü 🌍 bold italic text")
	text = mustAdd(t, text, Bold, 2, 10)
	text = mustAdd(t, text, Italics, 6, 18)
	text = mustAdd(t, text, NewLink("https://x.example"), 0, 3)

	for k := 0; k <= text.Len(); k++ {
		joined := text.CopyRange(0, k).Append(text.CopyRange(k, text.Len()))
		if joined.String() != text.String() {
			t.Fatalf("split at %d: text = %q, want %q", k, joined.String(), text.String())
		}
		if !joined.Equal(text) {
			t.Fatalf("split at %d: spans = %#v, want %#v", k, joined, text)
		}
		for off := 0; off < text.Len(); off++ {
			if !joined.AttributionsAt(off).Equal(text.AttributionsAt(off)) {
				t.Fatalf("split at %d: coverage at %d differs", k, off)
			}
		}
	}
}
