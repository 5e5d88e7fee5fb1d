package ime

import (
	"fmt"
	"slices"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/document"
)

const (
	// DefaultPrefix precedes the flat value so that a backspace at the start
	// of the first node still reaches the editor as a deletion.
	DefaultPrefix = "\u200B"

	// BlockPlaceholder stands in for a node without text.
	BlockPlaceholder = "~"

	separator = '\n'
)

// NodeRange is the flat range [Start, End) holding one node's content.
type NodeRange struct {
	NodeID string
	Start  int
	End    int
	Block  bool
}

// Serialization is the flat IME view of a document: every node's text in
// document order, separated by newlines, after a fixed prefix. It maps
// between flat offsets and document positions in both directions.
type Serialization struct {
	prefix []rune
	text   []rune
	ranges []NodeRange
	index  map[string]int
}

// Serialize builds the flat view of doc.
func Serialize(doc *document.Document, prefix string) *Serialization {
	s := &Serialization{prefix: []rune(prefix)}
	s.text = append(s.text, s.prefix...)
	for i, n := range doc.Nodes() {
		if i > 0 {
			s.text = append(s.text, separator)
		}
		content, block := flatContent(n)
		start := len(s.text)
		s.text = append(s.text, content...)
		s.ranges = append(s.ranges, NodeRange{NodeID: n.ID(), Start: start, End: len(s.text), Block: block})
	}
	s.reindex()
	return s
}

func flatContent(n document.Node) ([]rune, bool) {
	if tn, ok := n.(document.TextNode); ok {
		return []rune(tn.Text().String()), false
	}
	return []rune(BlockPlaceholder), true
}

// Text returns the flat value.
func (s *Serialization) Text() string { return string(s.text) }

// Len returns the length of the flat value in code points.
func (s *Serialization) Len() int { return len(s.text) }

// PrefixLen returns the length of the prefix in code points.
func (s *Serialization) PrefixLen() int { return len(s.prefix) }

// Ranges returns the node ranges in document order.
func (s *Serialization) Ranges() []NodeRange { return slices.Clone(s.ranges) }

// RangeOf returns the flat range of a node.
func (s *Serialization) RangeOf(id string) (NodeRange, bool) {
	i, ok := s.index[id]
	if !ok {
		return NodeRange{}, false
	}
	return s.ranges[i], true
}

// NodeAt returns the node whose range contains flat, counting a range's end
// as inside it. Offsets in the prefix resolve to the first node.
func (s *Serialization) NodeAt(flat int) (NodeRange, bool) {
	if flat < 0 || flat > len(s.text) || len(s.ranges) == 0 {
		return NodeRange{}, false
	}
	if flat <= len(s.prefix) {
		return s.ranges[0], true
	}
	i, found := slices.BinarySearchFunc(s.ranges, flat, func(r NodeRange, off int) int {
		switch {
		case r.End < off:
			return -1
		case r.Start > off:
			return 1
		}
		return 0
	})
	if !found {
		return NodeRange{}, false
	}
	return s.ranges[i], true
}

// DocumentPosition converts a flat offset to a document position.
func (s *Serialization) DocumentPosition(flat int) (document.DocumentPosition, bool) {
	r, ok := s.NodeAt(flat)
	if !ok {
		return document.DocumentPosition{}, false
	}
	off := max(flat-r.Start, 0)
	if r.Block {
		if off == 0 {
			return document.At(r.NodeID, document.Upstream), true
		}
		return document.At(r.NodeID, document.Downstream), true
	}
	return document.At(r.NodeID, document.TextPosition(off)), true
}

// FlatOffset converts a document position to a flat offset.
func (s *Serialization) FlatOffset(p document.DocumentPosition) (int, bool) {
	r, ok := s.RangeOf(p.NodeID)
	if !ok {
		return 0, false
	}
	switch pos := p.Position.(type) {
	case document.TextNodePosition:
		if r.Block || pos.Offset > r.End-r.Start {
			return 0, false
		}
		return r.Start + pos.Offset, true
	case document.EdgePosition:
		if pos == document.Upstream {
			return r.Start, true
		}
		return r.End, true
	}
	return 0, false
}

// DocumentSelection converts a flat selection.
func (s *Serialization) DocumentSelection(sel TextSelection) (*document.DocumentSelection, bool) {
	if !sel.IsValid() {
		return nil, true
	}
	base, ok1 := s.DocumentPosition(sel.Base)
	extent, ok2 := s.DocumentPosition(sel.Extent)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &document.DocumentSelection{Base: base, Extent: extent}, true
}

// TextSelection converts a document selection to the flat value.
func (s *Serialization) TextSelection(sel *document.DocumentSelection) TextSelection {
	if sel == nil {
		return NoSelection
	}
	base, ok1 := s.FlatOffset(sel.Base)
	extent, ok2 := s.FlatOffset(sel.Extent)
	if !ok1 || !ok2 {
		return NoSelection
	}
	return TextSelection{Base: base, Extent: extent}
}

// DocumentRange converts a flat range.
func (s *Serialization) DocumentRange(r TextRange) (*document.DocumentRange, bool) {
	if !r.IsValid() {
		return nil, true
	}
	start, ok1 := s.DocumentPosition(r.Start)
	end, ok2 := s.DocumentPosition(r.End)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &document.DocumentRange{Start: start, End: end}, true
}

// TextRange converts a document range to the flat value.
func (s *Serialization) TextRange(r *document.DocumentRange) TextRange {
	if r == nil {
		return NoRange
	}
	start, ok1 := s.FlatOffset(r.Start)
	end, ok2 := s.FlatOffset(r.End)
	if !ok1 || !ok2 {
		return NoRange
	}
	if start > end {
		start, end = end, start
	}
	return TextRange{Start: start, End: end}
}

// Value returns the editing value for a selection and composing region.
func (s *Serialization) Value(sel *document.DocumentSelection, composing *document.DocumentRange) EditingValue {
	return EditingValue{Text: s.Text(), Selection: s.TextSelection(sel), Composing: s.TextRange(composing)}
}

// Equal reports whether both serializations hold the same text and ranges.
func (s *Serialization) Equal(other *Serialization) bool {
	return slices.Equal(s.text, other.text) && slices.Equal(s.ranges, other.ranges)
}

// Apply patches the serialization with editor events so that it matches the
// document after them without re-serializing the untouched nodes. It fails
// with ErrDesync when an event names a node the serialization does not hold;
// the serialization must then be rebuilt.
func (s *Serialization) Apply(events []editor.Event) error {
	for _, ev := range events {
		ne, ok := ev.(editor.NodeEvent)
		if !ok {
			continue
		}
		_, known := s.index[ne.ChangedNodeID()]
		switch e := ev.(type) {
		case editor.NodeChangeEvent:
			if !known {
				return fmt.Errorf("change of %s: %w", e.NodeID, ErrDesync)
			}
			content, block := flatContent(e.After)
			s.resize(e.NodeID, content, block)
		case editor.NodeInsertedEvent:
			if known || e.Index < 0 || e.Index > len(s.ranges) {
				return fmt.Errorf("insertion of %s at %d: %w", e.NodeID, e.Index, ErrDesync)
			}
			content, block := flatContent(e.Node)
			s.insert(e.Index, e.NodeID, content, block)
		case editor.NodeRemovedEvent:
			if !known {
				return fmt.Errorf("removal of %s: %w", e.NodeID, ErrDesync)
			}
			s.remove(e.NodeID)
		case editor.NodeMovedEvent:
			if !known || e.To < 0 || e.To >= len(s.ranges) {
				return fmt.Errorf("move of %s to %d: %w", e.NodeID, e.To, ErrDesync)
			}
			r := s.ranges[s.index[e.NodeID]]
			content := slices.Clone(s.text[r.Start:r.End])
			s.remove(e.NodeID)
			s.insert(e.To, e.NodeID, content, r.Block)
		}
	}
	return nil
}

func (s *Serialization) resize(id string, content []rune, block bool) {
	i := s.index[id]
	r := s.ranges[i]
	s.text = slices.Replace(s.text, r.Start, r.End, content...)
	delta := len(content) - (r.End - r.Start)
	s.ranges[i].End = r.Start + len(content)
	s.ranges[i].Block = block
	s.shift(i+1, delta)
}

func (s *Serialization) insert(index int, id string, content []rune, block bool) {
	var nr NodeRange
	switch {
	case len(s.ranges) == 0:
		start := len(s.prefix)
		s.text = slices.Insert(s.text, start, content...)
		nr = NodeRange{NodeID: id, Start: start, End: start + len(content), Block: block}
	case index > 0:
		at := s.ranges[index-1].End
		s.text = slices.Insert(s.text, at, append([]rune{separator}, content...)...)
		s.shift(index, len(content)+1)
		nr = NodeRange{NodeID: id, Start: at + 1, End: at + 1 + len(content), Block: block}
	default:
		start := len(s.prefix)
		s.text = slices.Insert(s.text, start, append(slices.Clone(content), separator)...)
		s.shift(0, len(content)+1)
		nr = NodeRange{NodeID: id, Start: start, End: start + len(content), Block: block}
	}
	s.ranges = slices.Insert(s.ranges, index, nr)
	s.reindex()
}

func (s *Serialization) remove(id string) {
	i := s.index[id]
	r := s.ranges[i]
	var from, to int
	switch {
	case len(s.ranges) == 1:
		from, to = r.Start, r.End
	case i > 0:
		from, to = s.ranges[i-1].End, r.End
	default:
		from, to = r.Start, s.ranges[1].Start
	}
	s.text = slices.Delete(s.text, from, to)
	s.shift(i+1, from-to)
	s.ranges = slices.Delete(s.ranges, i, i+1)
	s.reindex()
}

func (s *Serialization) shift(from, delta int) {
	for j := from; j < len(s.ranges); j++ {
		s.ranges[j].Start += delta
		s.ranges[j].End += delta
	}
}

func (s *Serialization) reindex() {
	s.index = make(map[string]int, len(s.ranges))
	for i, r := range s.ranges {
		s.index[r.NodeID] = i
	}
}
