package document

import "fmt"

// NodePosition is a position inside a single node. It is either a
// TextNodePosition or an EdgePosition.
type NodePosition interface {
	fmt.Stringer
	isNodePosition()
}

// Affinity disambiguates two caret placements at the same text offset, such
// as the end of a wrapped line and the start of the next one.
type Affinity uint8

const (
	AffinityDownstream Affinity = iota
	AffinityUpstream
)

// TextNodePosition is a code point offset inside a text node.
type TextNodePosition struct {
	Offset   int
	Affinity Affinity
}

// TextPosition returns a downstream text position at offset.
func TextPosition(offset int) TextNodePosition {
	return TextNodePosition{Offset: offset}
}

func (p TextNodePosition) String() string {
	if p.Affinity == AffinityUpstream {
		return fmt.Sprintf("%d^", p.Offset)
	}
	return fmt.Sprintf("%d", p.Offset)
}

func (TextNodePosition) isNodePosition() {}

// EdgePosition addresses a non-text node as a whole: the caret sits either
// before it (upstream) or after it (downstream).
type EdgePosition uint8

const (
	// Upstream is the position before a non-text node.
	Upstream EdgePosition = iota
	// Downstream is the position after a non-text node.
	Downstream
)

func (p EdgePosition) String() string {
	if p == Upstream {
		return "upstream"
	}
	return "downstream"
}

func (EdgePosition) isNodePosition() {}

// DocumentPosition is a position inside a specific node.
type DocumentPosition struct {
	NodeID   string
	Position NodePosition
}

// At returns a DocumentPosition.
func At(nodeID string, pos NodePosition) DocumentPosition {
	return DocumentPosition{NodeID: nodeID, Position: pos}
}

// String returns "node@position".
func (p DocumentPosition) String() string {
	return fmt.Sprintf("%s@%v", p.NodeID, p.Position)
}

// TextOffset returns the text offset of the position and whether the position
// is a text position.
func (p DocumentPosition) TextOffset() (int, bool) {
	tp, ok := p.Position.(TextNodePosition)
	return tp.Offset, ok
}

// SamePlace reports whether two positions address the same place, ignoring
// text affinity.
func (p DocumentPosition) SamePlace(other DocumentPosition) bool {
	if p.NodeID != other.NodeID {
		return false
	}
	a, aText := p.Position.(TextNodePosition)
	b, bText := other.Position.(TextNodePosition)
	if aText && bText {
		return a.Offset == b.Offset
	}
	return p.Position == other.Position
}

// DocumentSelection is a base and an extent position. The extent is where the
// caret is; the base is where the selection started.
type DocumentSelection struct {
	Base   DocumentPosition
	Extent DocumentPosition
}

// Collapsed returns a selection with base and extent at pos.
func Collapsed(pos DocumentPosition) DocumentSelection {
	return DocumentSelection{Base: pos, Extent: pos}
}

// IsCollapsed reports whether base and extent address the same place.
func (s DocumentSelection) IsCollapsed() bool {
	return s.Base.SamePlace(s.Extent)
}

// String returns a debug representation.
func (s DocumentSelection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("caret(%s)", s.Extent)
	}
	return fmt.Sprintf("selection(%s -> %s)", s.Base, s.Extent)
}

// DocumentRange is an ordered span of content from Start to End.
type DocumentRange struct {
	Start DocumentPosition
	End   DocumentPosition
}

// IsCollapsed reports whether the range is empty.
func (r DocumentRange) IsCollapsed() bool {
	return r.Start.SamePlace(r.End)
}

// String returns a debug representation.
func (r DocumentRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}
