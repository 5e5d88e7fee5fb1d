package document

import "github.com/dshills/richdoc/internal/engine/attributed"

// Metadata keys understood by the editor and the codecs.
const (
	MetaBlockType = "blockType"
	MetaTextAlign = "textAlign"
)

// Block type attributions stored under MetaBlockType.
var (
	Header1    = attributed.NamedAttribution{Name: "header1"}
	Header2    = attributed.NamedAttribution{Name: "header2"}
	Header3    = attributed.NamedAttribution{Name: "header3"}
	Header4    = attributed.NamedAttribution{Name: "header4"}
	Header5    = attributed.NamedAttribution{Name: "header5"}
	Header6    = attributed.NamedAttribution{Name: "header6"}
	Blockquote = attributed.NamedAttribution{Name: "blockquote"}
	CodeBlock  = attributed.NamedAttribution{Name: "codeBlock"}
	Paragraph  = attributed.NamedAttribution{Name: "paragraph"}
)

var headers = []attributed.NamedAttribution{Header1, Header2, Header3, Header4, Header5, Header6}

// HeaderBlockType returns the block type for a header level in 1..6.
func HeaderBlockType(level int) attributed.NamedAttribution {
	if level < 1 || level > len(headers) {
		panic("document: header level out of range")
	}
	return headers[level-1]
}

// HeaderLevel returns the header level of a block type, or 0 if it is not a
// header.
func HeaderLevel(blockType attributed.Attribution) int {
	for i, h := range headers {
		if blockType == attributed.Attribution(h) {
			return i + 1
		}
	}
	return 0
}

// BlockTypeByName resolves a block type name such as "header2".
func BlockTypeByName(name string) (attributed.NamedAttribution, bool) {
	for _, b := range append(headers[:len(headers):len(headers)], Blockquote, CodeBlock, Paragraph) {
		if b.Name == name {
			return b, true
		}
	}
	return attributed.NamedAttribution{}, false
}

// TextAlign is the horizontal alignment of a paragraph.
type TextAlign string

// Alignment values stored under MetaTextAlign.
const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// BlockTypeOf returns the block type stored in a node's metadata, or nil.
func BlockTypeOf(n Node) attributed.Attribution {
	a, _ := n.Metadata(MetaBlockType).(attributed.Attribution)
	return a
}

// AlignmentOf returns the alignment stored in a node's metadata, defaulting to
// AlignLeft.
func AlignmentOf(n Node) TextAlign {
	if a, ok := n.Metadata(MetaTextAlign).(TextAlign); ok && a != "" {
		return a
	}
	return AlignLeft
}
