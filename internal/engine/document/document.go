package document

import (
	"fmt"
	"strings"
)

// Document is an ordered list of nodes with an id index.
//
// Every mutation updates the index before returning, so lookups by id are
// constant time and never observe a stale index.
type Document struct {
	nodes []Node
	index map[string]int
}

// New creates a document holding nodes in order. It panics on duplicate ids.
func New(nodes ...Node) *Document {
	d := &Document{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		d.insertAt(len(d.nodes), n)
	}
	return d
}

// Len returns the number of nodes.
func (d *Document) Len() int { return len(d.nodes) }

// IsEmpty returns true if the document has no nodes.
func (d *Document) IsEmpty() bool { return len(d.nodes) == 0 }

// Nodes returns the nodes in order. The slice is a copy; the nodes are not.
func (d *Document) Nodes() []Node {
	return append([]Node(nil), d.nodes...)
}

// NodeAt returns the node at index i, or nil.
func (d *Document) NodeAt(i int) Node {
	if i < 0 || i >= len(d.nodes) {
		return nil
	}
	return d.nodes[i]
}

// NodeByID returns the node with id, or nil.
func (d *Document) NodeByID(id string) Node {
	if i, ok := d.index[id]; ok {
		return d.nodes[i]
	}
	return nil
}

// IndexOf returns the index of the node with id, or -1.
func (d *Document) IndexOf(id string) int {
	if i, ok := d.index[id]; ok {
		return i
	}
	return -1
}

// Contains reports whether a node with id exists.
func (d *Document) Contains(id string) bool {
	_, ok := d.index[id]
	return ok
}

// First returns the first node, or nil.
func (d *Document) First() Node { return d.NodeAt(0) }

// Last returns the last node, or nil.
func (d *Document) Last() Node { return d.NodeAt(len(d.nodes) - 1) }

// NodeBefore returns the node preceding id, or nil.
func (d *Document) NodeBefore(id string) Node {
	i := d.IndexOf(id)
	if i <= 0 {
		return nil
	}
	return d.nodes[i-1]
}

// NodeAfter returns the node following id, or nil.
func (d *Document) NodeAfter(id string) Node {
	i := d.IndexOf(id)
	if i < 0 {
		return nil
	}
	return d.NodeAt(i + 1)
}

// InsertAt inserts n at index i, shifting later nodes down.
// It panics if n's id is already present.
func (d *Document) InsertAt(i int, n Node) error {
	if i < 0 || i > len(d.nodes) {
		return fmt.Errorf("insert %s at %d of %d: %w", n.ID(), i, len(d.nodes), ErrIndexOutOfRange)
	}
	d.insertAt(i, n)
	return nil
}

// InsertBefore inserts n immediately before the node with existingID.
func (d *Document) InsertBefore(existingID string, n Node) error {
	i, ok := d.index[existingID]
	if !ok {
		return fmt.Errorf("insert before %s: %w", existingID, ErrNodeNotFound)
	}
	d.insertAt(i, n)
	return nil
}

// InsertAfter inserts n immediately after the node with existingID.
func (d *Document) InsertAfter(existingID string, n Node) error {
	i, ok := d.index[existingID]
	if !ok {
		return fmt.Errorf("insert after %s: %w", existingID, ErrNodeNotFound)
	}
	d.insertAt(i+1, n)
	return nil
}

// Append adds n at the end of the document.
func (d *Document) Append(n Node) {
	d.insertAt(len(d.nodes), n)
}

// Replace swaps the node with oldID for n. The new node normally keeps the
// old id so that positions referencing it stay valid.
func (d *Document) Replace(oldID string, n Node) error {
	i, ok := d.index[oldID]
	if !ok {
		return fmt.Errorf("replace %s: %w", oldID, ErrNodeNotFound)
	}
	if n.ID() != oldID {
		if _, dup := d.index[n.ID()]; dup {
			panic(fmt.Sprintf("document: duplicate node id %q", n.ID()))
		}
		delete(d.index, oldID)
		d.index[n.ID()] = i
	}
	d.nodes[i] = n
	return nil
}

// Delete removes the node with id and returns it along with its former index.
func (d *Document) Delete(id string) (Node, int, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, -1, fmt.Errorf("delete %s: %w", id, ErrNodeNotFound)
	}
	n := d.nodes[i]
	d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
	delete(d.index, id)
	d.reindex(i)
	return n, i, nil
}

// Move relocates the node with id to index to, where to is interpreted after
// the node has been removed.
func (d *Document) Move(id string, to int) (from int, err error) {
	from, ok := d.index[id]
	if !ok {
		return -1, fmt.Errorf("move %s: %w", id, ErrNodeNotFound)
	}
	if to < 0 || to >= len(d.nodes) {
		return from, fmt.Errorf("move %s to %d of %d: %w", id, to, len(d.nodes), ErrIndexOutOfRange)
	}
	if from == to {
		return from, nil
	}
	n := d.nodes[from]
	d.nodes = append(d.nodes[:from], d.nodes[from+1:]...)
	d.nodes = append(d.nodes[:to], append([]Node{n}, d.nodes[to:]...)...)
	d.reindex(min(from, to))
	return from, nil
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	nodes := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		nodes[i] = n.Copy()
	}
	return New(nodes...)
}

// Text returns the plain text of all text nodes joined by newlines. Non-text
// nodes contribute an empty line.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, n := range d.nodes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if tn, ok := n.(TextNode); ok {
			sb.WriteString(tn.Text().String())
		}
	}
	return sb.String()
}

// Equal reports whether both documents hold equal nodes in the same order.
func (d *Document) Equal(other *Document) bool {
	if len(d.nodes) != len(other.nodes) {
		return false
	}
	for i := range d.nodes {
		if !NodesEqual(d.nodes[i], other.nodes[i]) {
			return false
		}
	}
	return true
}

func (d *Document) insertAt(i int, n Node) {
	if n == nil {
		panic("document: nil node")
	}
	if _, dup := d.index[n.ID()]; dup {
		panic(fmt.Sprintf("document: duplicate node id %q", n.ID()))
	}
	d.nodes = append(d.nodes, nil)
	copy(d.nodes[i+1:], d.nodes[i:])
	d.nodes[i] = n
	d.reindex(i)
}

// reindex refreshes index entries for nodes at positions >= from.
func (d *Document) reindex(from int) {
	for i := from; i < len(d.nodes); i++ {
		d.index[d.nodes[i].ID()] = i
	}
}
