package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/config"
	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/spelling"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithConfig sets the configuration. The default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithChecker enables spell checking with the given checker, regardless
// of the configuration.
func WithChecker(c spelling.Checker) Option {
	return func(e *Engine) {
		e.checker = c
	}
}

// WithReactions adds reactions that run before scripts and spelling.
func WithReactions(reactions ...editor.Reaction) Option {
	return func(e *Engine) {
		e.extra = append(e.extra, reactions...)
	}
}

// WithScript adds a Lua reaction from source. name labels its log output.
func WithScript(name, src string) Option {
	return func(e *Engine) {
		e.inlineScripts = append(e.inlineScripts, namedScript{name: name, src: src})
	}
}

// WithNodeIDs sets the id generator used when parsing Markdown.
func WithNodeIDs(next func() string) Option {
	return func(e *Engine) {
		e.newID = next
	}
}
