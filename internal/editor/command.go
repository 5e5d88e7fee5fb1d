package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
)

// EditContext gives commands access to the state they edit.
type EditContext struct {
	Document *document.Document
	Composer *Composer
	Logger   *zap.Logger

	// MaxListIndent caps IndentListItemRequest.
	MaxListIndent int
}

// Command resolves one request against the current state. It mutates the
// document and composer only through the executor so that every change is
// logged as an event.
//
// A command whose preconditions do not hold fizzles: it logs a warning via
// CommandExecutor.Fizzle and returns without changing anything.
type Command interface {
	Execute(ctx *EditContext, exec *CommandExecutor)
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc func(ctx *EditContext, exec *CommandExecutor)

// Execute implements Command.
func (f CommandFunc) Execute(ctx *EditContext, exec *CommandExecutor) {
	f(ctx, exec)
}

// RequestHandler returns the command for a request, or nil if it does not
// handle the request.
type RequestHandler func(Request) Command
