package editor

import (
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// Composer holds the user's selection, the IME composing region and the
// attributions that the next typed character will carry.
//
// Selection and composing region change only through commands, so that every
// change is logged as an event. Preferences are transient and not undoable.
type Composer struct {
	selection   *document.DocumentSelection
	composing   *document.DocumentRange
	preferences attributed.Set
}

// NewComposer creates a composer with no selection.
func NewComposer() *Composer {
	return &Composer{}
}

// Selection returns a copy of the current selection, or nil.
func (c *Composer) Selection() *document.DocumentSelection {
	return cloneSelection(c.selection)
}

// ComposingRegion returns a copy of the composing region, or nil.
func (c *Composer) ComposingRegion() *document.DocumentRange {
	return cloneRange(c.composing)
}

// Preferences returns the attributions applied to newly typed text.
func (c *Composer) Preferences() attributed.Set {
	return append(attributed.Set(nil), c.preferences...)
}

// SetPreferences replaces the typing preferences.
func (c *Composer) SetPreferences(s attributed.Set) {
	c.preferences = append(attributed.Set(nil), s...)
}

// updatePreferencesFromCaret adopts the attributions of the character before
// a collapsed caret, minus links.
func (c *Composer) updatePreferencesFromCaret(doc *document.Document) {
	c.preferences = nil
	if c.selection == nil || !c.selection.IsCollapsed() {
		return
	}
	off, ok := c.selection.Extent.TextOffset()
	if !ok || off == 0 {
		return
	}
	tn, ok := doc.NodeByID(c.selection.Extent.NodeID).(document.TextNode)
	if !ok || off > tn.Text().Len() {
		return
	}
	for _, a := range tn.Text().AttributionsAt(off - 1) {
		if a.ID() != attributed.LinkID {
			c.preferences = append(c.preferences, a)
		}
	}
}

func cloneSelection(s *document.DocumentSelection) *document.DocumentSelection {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func cloneRange(r *document.DocumentRange) *document.DocumentRange {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func sameSelection(a, b *document.DocumentSelection) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameRange(a, b *document.DocumentRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
