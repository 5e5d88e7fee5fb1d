package ime

import (
	"errors"
	"testing"
)

func TestNewDelta(t *testing.T) {
	tests := []struct {
		name       string
		old        string
		start, end int
		text       string
		wantKind   DeltaKind
		wantText   string
		wantRange  TextRange
	}{
		{"insertion", "ab", 1, 1, "x", Insertion, "x", TextRange{1, 1}},
		{"deletion", "abc", 1, 2, "", Deletion, "", TextRange{1, 2}},
		{"replacement", "teh", 0, 3, "the", Replacement, "the", TextRange{0, 3}},
		{"non-text", "ab", -1, -1, "", NonTextUpdate, "", TextRange{-1, -1}},
		{"same text", "ab", 0, 2, "ab", NonTextUpdate, "", TextRange{0, 2}},
		{"composing extension", "hel", 0, 3, "hell", Insertion, "l", TextRange{3, 3}},
		{"composing truncation", "hell", 0, 4, "hel", Deletion, "", TextRange{3, 4}},
		{"empty range and text", "ab", 1, 1, "", NonTextUpdate, "", TextRange{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDelta(tt.old, tt.start, tt.end, tt.text, NoSelection, NoRange)
			if err != nil {
				t.Fatalf("NewDelta() error = %v", err)
			}
			if d.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", d.Kind, tt.wantKind)
			}
			if d.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", d.Text, tt.wantText)
			}
			if d.Range != tt.wantRange {
				t.Errorf("Range = %v, want %v", d.Range, tt.wantRange)
			}
		})
	}
}

func TestNewDeltaMalformed(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"past end", 2, 5},
		{"reversed", 2, 1},
		{"negative start", -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDelta("abc", tt.start, tt.end, "", NoSelection, NoRange)
			if !errors.Is(err, ErrMalformedDelta) {
				t.Errorf("NewDelta() error = %v, want ErrMalformedDelta", err)
			}
		})
	}
}

func TestDeltaApply(t *testing.T) {
	tests := []struct {
		name string
		old  string
		s, e int
		text string
		want string
	}{
		{"insert", "ac", 1, 1, "b", "abc"},
		{"delete", "abc", 0, 2, "", "c"},
		{"replace multibyte", "añb", 1, 2, "n", "anb"},
		{"extension", "hel", 0, 3, "hello", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDelta(tt.old, tt.s, tt.e, tt.text, Caret(0), NoRange)
			if err != nil {
				t.Fatal(err)
			}
			if got := d.Apply().Text; got != tt.want {
				t.Errorf("Apply().Text = %q, want %q", got, tt.want)
			}
		})
	}
}
