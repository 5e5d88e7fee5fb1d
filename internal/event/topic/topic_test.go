package topic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatcherPatterns(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"document.node.inserted", "document.node.inserted", true},
		{"document.node.inserted", "document.node.*", true},
		{"document.node.inserted", "document.*", false},
		{"document.node.inserted", "document.**", true},
		{"document", "document.**", true},
		{"composer.selection.changed", "*.selection.changed", true},
		{"composer.composing.changed", "*.selection.changed", false},
		{"editor.intention.start", "**", true},
		{"editor.intention.start", "**.start", true},
		{"editor.intention.start", "editor.**.start", true},
		{"editor.start", "editor.*.start", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			m := NewMatcher[bool]()
			m.Add(tt.pattern, true)
			if got := len(m.Match(tt.topic)) == 1; got != tt.want {
				t.Errorf("Match(%q) with pattern %q = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	for _, bad := range []Topic{"", ".a", "a.", "a..b"} {
		if bad.IsValid() {
			t.Errorf("IsValid(%q) = true", bad)
		}
	}
	if !Topic("document.node.*").IsValid() {
		t.Error("wildcard pattern should be valid")
	}
}

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher[string]()
	m.Add("document.node.inserted", "exact")
	m.Add("document.node.*", "single")
	m.Add("document.**", "multi")
	m.Add("**", "all")
	m.Add("composer.**", "composer")

	got := m.Match("document.node.inserted")
	want := []string{"exact", "single", "multi", "all"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}

	if got := m.Match("composer.selection.changed"); !cmp.Equal(got, []string{"all", "composer"}) {
		t.Errorf("Match(composer) = %v", got)
	}
}

func TestMatcherMultiWildcardCountsOnce(t *testing.T) {
	m := NewMatcher[int]()
	m.Add("**.changed", 1)
	if got := m.Match("document.node.changed"); len(got) != 1 {
		t.Errorf("Match() = %v, want a single value", got)
	}
}

func TestMatcherSamePatternTwice(t *testing.T) {
	m := NewMatcher[string]()
	a := m.Add("document.*.*", "a")
	b := m.Add("document.*.*", "b")
	if a == b {
		t.Fatal("registrations should get distinct ids")
	}
	if got := m.Match("document.node.moved"); !cmp.Equal(got, []string{"a", "b"}) {
		t.Errorf("Match() = %v, want [a b]", got)
	}
	if !m.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if got := m.Match("document.node.moved"); !cmp.Equal(got, []string{"b"}) {
		t.Errorf("Match() after remove = %v, want [b]", got)
	}
	if m.Remove(a) {
		t.Error("second Remove should report unknown id")
	}
}

func TestMatcherRemovePrunes(t *testing.T) {
	m := NewMatcher[int]()
	id := m.Add("editor.intention.start", 1)
	m.Remove(id)
	if len(m.root.children) != 0 {
		t.Errorf("empty branches should be pruned, root has %d children", len(m.root.children))
	}
	if len(m.where) != 0 {
		t.Error("matcher should be empty")
	}
}

func TestMatcherInvalidPatternPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewMatcher[int]().Add("a..b", 1)
}
