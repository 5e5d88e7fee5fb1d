// Package history provides undo/redo stacks for the document editor.
//
// History is generic over the target a command acts on, so the editor can
// keep its own event types while reusing the stack, grouping and checkpoint
// logic here.
//
// # Commands
//
// A Command knows how to undo and redo itself against a target:
//
//	type Command[T any] interface {
//	    Undo(target T) error
//	    Redo(target T) error
//	    Description() string
//	}
//
// # History Stack
//
//	h := history.New[*editor.EditContext](1000) // Max 1000 undo entries
//	h.Push(cmd)
//	h.Undo(ctx)
//	h.Redo(ctx)
//
// # Command Grouping
//
// Commands pushed between BeginGroup and EndGroup become one undo unit. The
// editor opens a group for every top-level transaction, so all commands and
// reaction-triggered commands of one Execute call undo together. Nested
// BeginGroup calls are ignored, which folds re-entrant transactions into the
// outermost one.
//
//	h.BeginGroup("split paragraph")
//	h.Push(split)
//	h.Push(moveCaret)
//	h.EndGroup()
package history
