// Package markdown converts documents to and from Markdown.
//
// Two dialects are supported. SyntaxSuperEditor extends CommonMark with
// "¬underline¬", single-tilde "~strikethrough~" and an alignment line
// placed directly above a paragraph or header:
//
//	:---:   center
//	---:    right
//	-::-    justify
//
// SyntaxNormal writes only what common renderers understand and drops the
// extensions on output.
//
// Blocks are recognized line by line; inline markup is parsed with
// goldmark. Parsing never fails. Input that does not match a block form
// becomes paragraph text, and extra blank lines become empty paragraphs so
// that serializing and parsing a document preserves its vertical spacing.
package markdown
