// Package document provides the block-level document model: an ordered list
// of content nodes, each with a stable identifier, plus the position,
// selection and range types that address content inside them.
//
// The package provides:
//
//   - Text nodes (paragraphs, list items, tasks) carrying an attributed.Text
//   - Non-text nodes (images, horizontal rules) addressed by upstream and
//     downstream edge positions
//   - Document, an ordered node list with an id index kept in sync on every
//     mutation
//   - DocumentPosition, DocumentSelection and DocumentRange
//   - Ordered list ordinal computation
//
// Basic usage:
//
//	doc := document.New(
//	    document.NewParagraph("1", attributed.Plain("Hello")),
//	    document.NewHorizontalRule("2"),
//	)
//	doc.InsertAfter("1", document.NewParagraph(document.NewNodeID(), attributed.Plain("World")))
//
// Document is not safe for concurrent mutation. It is owned by exactly one
// editor, which routes all changes through its command pipeline.
package document
