package topic

import "strings"

// Topic names an event kind as dot-separated segments, most general first,
// such as "document.node.inserted". Patterns are topics that may also use
// the wildcard segments below.
type Topic string

const (
	// WildcardSingle stands for exactly one segment.
	WildcardSingle = "*"
	// WildcardMulti stands for any run of segments, including none.
	WildcardMulti = "**"

	separator = "."
)

// Segments splits t at each separator. The empty topic has no segments.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), separator)
}

// IsValid reports whether t is non-empty and every segment has text.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}
