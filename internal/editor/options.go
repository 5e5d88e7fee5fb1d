package editor

import "go.uber.org/zap"

// Default configuration values.
const (
	DefaultMaxUndoEntries    = 1000
	DefaultMaxReactionPasses = 16
	DefaultMaxListIndent     = 6
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithLogger sets the logger used for fizzled commands and diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithMaxReactionPasses caps how many times reactions may run within one
// transaction before the editor panics.
func WithMaxReactionPasses(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxReactionPasses = max
		}
	}
}

// WithMaxListIndent sets the deepest list indent IndentListItemRequest
// produces.
func WithMaxListIndent(max int) Option {
	return func(e *Editor) {
		if max >= 0 {
			e.maxListIndent = max
		}
	}
}

// WithReactions registers reactions in order.
func WithReactions(reactions ...Reaction) Option {
	return func(e *Editor) {
		e.reactions = append(e.reactions, reactions...)
	}
}

// WithRequestHandlers registers request handlers ahead of the built-in one.
func WithRequestHandlers(handlers ...RequestHandler) Option {
	return func(e *Editor) {
		e.handlers = append(append([]RequestHandler(nil), handlers...), e.handlers...)
	}
}

// WithMarkdownShortcuts enables the built-in reaction that converts typed
// Markdown prefixes such as "# " into block formatting.
func WithMarkdownShortcuts() Option {
	return func(e *Editor) {
		e.reactions = append(e.reactions, MarkdownShortcutReaction{})
	}
}
