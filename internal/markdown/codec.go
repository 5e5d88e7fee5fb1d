package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
)

// ErrUnknownSyntax indicates an unrecognized syntax name.
var ErrUnknownSyntax = errors.New("unknown markdown syntax")

// Syntax selects the Markdown dialect.
type Syntax uint8

const (
	// SyntaxSuperEditor is the extended dialect: "¬" underline, "~"
	// strikethrough and alignment token lines.
	SyntaxSuperEditor Syntax = iota
	// SyntaxNormal emits only what common renderers understand.
	SyntaxNormal
)

func (s Syntax) String() string {
	if s == SyntaxNormal {
		return "normal"
	}
	return "super_editor"
}

// ParseSyntax resolves "super_editor" or "normal".
func ParseSyntax(name string) (Syntax, error) {
	switch strings.ToLower(name) {
	case "super_editor", "supereditor", "extended", "":
		return SyntaxSuperEditor, nil
	case "normal", "strict":
		return SyntaxNormal, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownSyntax)
}

// Option configures a Codec.
type Option func(*Codec)

// WithSyntax selects the dialect. The default is SyntaxSuperEditor.
func WithSyntax(s Syntax) Option {
	return func(c *Codec) { c.syntax = s }
}

// WithNodeIDs sets the generator for ids of parsed nodes. The default is
// document.NewNodeID.
func WithNodeIDs(next func() string) Option {
	return func(c *Codec) {
		if next != nil {
			c.newID = next
		}
	}
}

// WithLogger sets the logger used to report lossy input.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Codec converts between documents and Markdown text.
type Codec struct {
	syntax Syntax
	newID  func() string
	logger *zap.Logger
	inline parser.Parser
}

// New creates a codec.
func New(opts ...Option) *Codec {
	c := &Codec{
		syntax: SyntaxSuperEditor,
		newID:  document.NewNodeID,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.inline = newInlineParser(c.syntax)
	return c
}

// Syntax returns the codec's dialect.
func (c *Codec) Syntax() Syntax { return c.syntax }

// Serialize renders doc with a codec built from opts.
func Serialize(doc *document.Document, opts ...Option) string {
	return New(opts...).Serialize(doc)
}

// Parse reads src with a codec built from opts.
func Parse(src string, opts ...Option) *document.Document {
	return New(opts...).Parse(src)
}
