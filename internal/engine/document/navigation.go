package document

import "fmt"

// ComparePositions orders two positions in document order. It returns -1, 0
// or +1. Text affinity is ignored. It panics if either node is missing.
func (d *Document) ComparePositions(a, b DocumentPosition) int {
	ia, ib := d.mustIndex(a.NodeID), d.mustIndex(b.NodeID)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	}
	return compareNodePositions(a.Position, b.Position)
}

func compareNodePositions(a, b NodePosition) int {
	switch pa := a.(type) {
	case TextNodePosition:
		if pb, ok := b.(TextNodePosition); ok {
			return compareInts(pa.Offset, pb.Offset)
		}
	case EdgePosition:
		if pb, ok := b.(EdgePosition); ok {
			return compareInts(int(pa), int(pb))
		}
	}
	panic(fmt.Sprintf("document: cannot compare positions %v and %v", a, b))
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// NormalizeRange returns the range between a and b with Start before End.
func (d *Document) NormalizeRange(a, b DocumentPosition) DocumentRange {
	if d.ComparePositions(a, b) <= 0 {
		return DocumentRange{Start: a, End: b}
	}
	return DocumentRange{Start: b, End: a}
}

// SelectionRange returns the normalized range covered by a selection.
func (d *Document) SelectionRange(s DocumentSelection) DocumentRange {
	return d.NormalizeRange(s.Base, s.Extent)
}

// NodesInside returns the nodes from a through b inclusive, in document order
// regardless of the order of a and b.
func (d *Document) NodesInside(a, b DocumentPosition) []Node {
	ia, ib := d.mustIndex(a.NodeID), d.mustIndex(b.NodeID)
	if ia > ib {
		ia, ib = ib, ia
	}
	return append([]Node(nil), d.nodes[ia:ib+1]...)
}

// PositionExists reports whether p references an existing node and, for text
// positions, an offset inside that node's text.
func (d *Document) PositionExists(p DocumentPosition) bool {
	n := d.NodeByID(p.NodeID)
	if n == nil {
		return false
	}
	switch pos := p.Position.(type) {
	case TextNodePosition:
		tn, ok := n.(TextNode)
		return ok && pos.Offset >= 0 && pos.Offset <= tn.Text().Len()
	case EdgePosition:
		_, isText := n.(TextNode)
		return !isText
	}
	return false
}

// ListItemOrdinal returns the displayed number of an ordered list item.
//
// It walks backward while preceding nodes are ordered list items at the same
// or a deeper indent, counting those at exactly the same indent. An explicit
// Start on the first item of the run offsets the count. The result is never
// cached because any edit in the run changes it.
func (d *Document) ListItemOrdinal(id string) int {
	i := d.IndexOf(id)
	if i < 0 {
		return 0
	}
	item, ok := d.nodes[i].(*ListItemNode)
	if !ok || item.Type != Ordered {
		return 0
	}
	first := item
	count := 0
	for j := i - 1; j >= 0; j-- {
		prev, ok := d.nodes[j].(*ListItemNode)
		if !ok || prev.Type != Ordered || prev.Indent < item.Indent {
			break
		}
		if prev.Indent == item.Indent {
			count++
			first = prev
		}
	}
	start := 1
	if first.Start > 0 {
		start = first.Start
	}
	return start + count
}

func (d *Document) mustIndex(id string) int {
	i, ok := d.index[id]
	if !ok {
		panic(fmt.Sprintf("document: position references missing node %q", id))
	}
	return i
}
