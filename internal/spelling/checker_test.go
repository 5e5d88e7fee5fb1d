package spelling

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

func TestDictionaryCheckerCheck(t *testing.T) {
	d := NewDictionaryChecker("hello", "world", "don't", "café", "help")

	tests := []struct {
		name string
		text string
		want []Mistake
	}{
		{"all known", "Hello, world!", nil},
		{"contraction", "don't", nil},
		{"numbers skipped", "hello 42 world", nil},
		{"misspelling", "helo world", []Mistake{
			{Word: "helo", Range: attributed.NewRange(0, 4), Suggestions: []string{"hello", "help"}},
		}},
		{"code point offsets", "café wrld", []Mistake{
			{Word: "wrld", Range: attributed.NewRange(5, 9), Suggestions: []string{"world"}},
		}},
		{"no suggestions", "xyzzy", []Mistake{
			{Word: "xyzzy", Range: attributed.NewRange(0, 5)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Check(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Check() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDictionaryCheckerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDictionaryChecker().Check(ctx, "word"); err == nil {
		t.Error("Check() error = nil for a cancelled context")
	}
}

func TestLoadDictionary(t *testing.T) {
	d, err := LoadDictionary(strings.NewReader("# words\nAlpha\n\n beta \n"))
	if err != nil {
		t.Fatalf("LoadDictionary() error = %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if !d.Contains("ALPHA") || !d.Contains("beta") {
		t.Error("Contains() = false for a loaded word")
	}
}

func TestOneEdit(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"helo", "hello", true},
		{"hello", "helo", true},
		{"hallo", "hello", true},
		{"hlelo", "hello", true},
		{"hello", "hello", false},
		{"hxllx", "hello", false},
		{"he", "hello", false},
	}
	for _, tt := range tests {
		if got := oneEdit([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("oneEdit(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
