package document

import (
	"maps"

	"github.com/google/uuid"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

// NewNodeID returns a fresh, globally unique node identifier.
func NewNodeID() string {
	return uuid.NewString()
}

// Node is one block-level unit of content.
//
// The set of node kinds is closed: ParagraphNode, ListItemNode, TaskNode,
// ImageNode and HorizontalRuleNode. Consumers switch on the concrete type.
type Node interface {
	// ID returns the node's identifier, unique within its document.
	ID() string

	// Metadata returns the metadata value for key, or nil.
	Metadata(key string) any

	// SetMetadata sets or, for a nil value, clears a metadata value.
	SetMetadata(key string, value any)

	// MetadataKeys returns the keys present in the metadata.
	MetadataKeys() []string

	// BeginningPosition is the first addressable position in the node.
	BeginningPosition() NodePosition

	// EndPosition is the last addressable position in the node.
	EndPosition() NodePosition

	// IsSelectable reports whether the caret can be placed in the node.
	IsSelectable() bool

	// Copy returns a deep copy with the same id.
	Copy() Node

	isNode()
}

// TextNode is a node whose content is an attributed.Text.
type TextNode interface {
	Node
	Text() attributed.Text
	SetText(attributed.Text)
}

type nodeBase struct {
	id       string
	metadata map[string]any
}

func newNodeBase(id string) nodeBase {
	if id == "" {
		panic("document: empty node id")
	}
	return nodeBase{id: id, metadata: make(map[string]any)}
}

func (b *nodeBase) ID() string { return b.id }

func (b *nodeBase) Metadata(key string) any { return b.metadata[key] }

func (b *nodeBase) SetMetadata(key string, value any) {
	if value == nil {
		delete(b.metadata, key)
		return
	}
	b.metadata[key] = value
}

func (b *nodeBase) MetadataKeys() []string {
	keys := make([]string, 0, len(b.metadata))
	for k := range b.metadata {
		keys = append(keys, k)
	}
	return keys
}

func (b *nodeBase) copyBase() nodeBase {
	return nodeBase{id: b.id, metadata: maps.Clone(b.metadata)}
}

func (b *nodeBase) isNode() {}

type textNode struct {
	nodeBase
	text attributed.Text
}

func (n *textNode) Text() attributed.Text     { return n.text }
func (n *textNode) SetText(t attributed.Text) { n.text = t }

func (n *textNode) BeginningPosition() NodePosition {
	return TextNodePosition{Offset: 0}
}

func (n *textNode) EndPosition() NodePosition {
	return TextNodePosition{Offset: n.text.Len()}
}

func (n *textNode) IsSelectable() bool { return true }

func (n *textNode) copyText() textNode {
	return textNode{nodeBase: n.copyBase(), text: n.text}
}

// ParagraphNode is a text block whose block type (header, blockquote, code or
// plain paragraph) lives in its metadata.
type ParagraphNode struct {
	textNode
}

// NewParagraph creates a paragraph with the Paragraph block type.
func NewParagraph(id string, text attributed.Text) *ParagraphNode {
	n := &ParagraphNode{textNode{nodeBase: newNodeBase(id), text: text}}
	n.SetMetadata(MetaBlockType, attributed.Attribution(Paragraph))
	return n
}

// Copy implements Node.
func (n *ParagraphNode) Copy() Node {
	return &ParagraphNode{n.copyText()}
}

// ListItemType distinguishes ordered from unordered list items.
type ListItemType uint8

const (
	Unordered ListItemType = iota
	Ordered
)

// String returns "unordered" or "ordered".
func (t ListItemType) String() string {
	if t == Ordered {
		return "ordered"
	}
	return "unordered"
}

// ListItemNode is one item of an ordered or unordered list.
type ListItemNode struct {
	textNode
	Type   ListItemType
	Indent int
	// Start is an explicit first ordinal for an ordered list, or 0.
	Start int
}

// NewListItem creates a list item.
func NewListItem(id string, typ ListItemType, indent int, text attributed.Text) *ListItemNode {
	return &ListItemNode{
		textNode: textNode{nodeBase: newNodeBase(id), text: text},
		Type:     typ,
		Indent:   indent,
	}
}

// Copy implements Node.
func (n *ListItemNode) Copy() Node {
	return &ListItemNode{textNode: n.copyText(), Type: n.Type, Indent: n.Indent, Start: n.Start}
}

// TaskNode is a checkable to-do item.
type TaskNode struct {
	textNode
	Complete bool
}

// NewTask creates a task.
func NewTask(id string, complete bool, text attributed.Text) *TaskNode {
	return &TaskNode{textNode: textNode{nodeBase: newNodeBase(id), text: text}, Complete: complete}
}

// Copy implements Node.
func (n *TaskNode) Copy() Node {
	return &TaskNode{textNode: n.copyText(), Complete: n.Complete}
}

type blockNode struct {
	nodeBase
}

func (n *blockNode) BeginningPosition() NodePosition { return Upstream }
func (n *blockNode) EndPosition() NodePosition       { return Downstream }

// ImageNode displays an image.
type ImageNode struct {
	blockNode
	URL     string
	AltText string
}

// NewImage creates an image node.
func NewImage(id, url, altText string) *ImageNode {
	return &ImageNode{blockNode: blockNode{newNodeBase(id)}, URL: url, AltText: altText}
}

// IsSelectable implements Node.
func (n *ImageNode) IsSelectable() bool { return true }

// Copy implements Node.
func (n *ImageNode) Copy() Node {
	return &ImageNode{blockNode: blockNode{n.copyBase()}, URL: n.URL, AltText: n.AltText}
}

// HorizontalRuleNode is a visual divider. The caret never rests on it.
type HorizontalRuleNode struct {
	blockNode
}

// NewHorizontalRule creates a horizontal rule.
func NewHorizontalRule(id string) *HorizontalRuleNode {
	return &HorizontalRuleNode{blockNode{newNodeBase(id)}}
}

// IsSelectable implements Node.
func (n *HorizontalRuleNode) IsSelectable() bool { return false }

// Copy implements Node.
func (n *HorizontalRuleNode) Copy() Node {
	return &HorizontalRuleNode{blockNode{n.copyBase()}}
}

// NodesEqual reports whether two nodes have the same kind, id, metadata and
// content.
func NodesEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID() != b.ID() || !metadataEqual(a, b) {
		return false
	}
	switch x := a.(type) {
	case *ParagraphNode:
		y, ok := b.(*ParagraphNode)
		return ok && x.text.Equal(y.text)
	case *ListItemNode:
		y, ok := b.(*ListItemNode)
		return ok && x.text.Equal(y.text) && x.Type == y.Type && x.Indent == y.Indent && x.Start == y.Start
	case *TaskNode:
		y, ok := b.(*TaskNode)
		return ok && x.text.Equal(y.text) && x.Complete == y.Complete
	case *ImageNode:
		y, ok := b.(*ImageNode)
		return ok && x.URL == y.URL && x.AltText == y.AltText
	case *HorizontalRuleNode:
		_, ok := b.(*HorizontalRuleNode)
		return ok
	}
	return false
}

func metadataEqual(a, b Node) bool {
	ka, kb := a.MetadataKeys(), b.MetadataKeys()
	if len(ka) != len(kb) {
		return false
	}
	for _, k := range ka {
		if a.Metadata(k) != b.Metadata(k) {
			return false
		}
	}
	return true
}
