package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
)

// CommandExecutor performs document and composer mutations on behalf of a
// command and logs one event per mutation. Node changes always carry deep
// before and after snapshots so that every event can be inverted.
type CommandExecutor struct {
	ctx     *EditContext
	request string
	events  []Event
	fizzled bool
}

func newExecutor(ctx *EditContext, request string) *CommandExecutor {
	return &CommandExecutor{ctx: ctx, request: request}
}

// Events returns the events logged so far.
func (x *CommandExecutor) Events() []Event {
	return append([]Event(nil), x.events...)
}

// Fizzled reports whether the command gave up.
func (x *CommandExecutor) Fizzled() bool { return x.fizzled }

// Fizzle logs that the command's preconditions do not hold. The command must
// return without further mutations.
func (x *CommandExecutor) Fizzle(reason string, fields ...zap.Field) {
	x.fizzled = true
	fields = append([]zap.Field{zap.String("request", x.request), zap.String("reason", reason)}, fields...)
	x.ctx.Logger.Warn("command fizzled", fields...)
}

// ExecuteCommand runs a sub-command whose events join this command's events.
func (x *CommandExecutor) ExecuteCommand(cmd Command) {
	cmd.Execute(x.ctx, x)
}

func (x *CommandExecutor) log(ev Event) {
	x.events = append(x.events, ev)
}

// InsertNodeAt inserts n at index. It reports false if the index is out of
// range.
func (x *CommandExecutor) InsertNodeAt(index int, n document.Node) bool {
	if err := x.ctx.Document.InsertAt(index, n); err != nil {
		return false
	}
	x.log(NodeInsertedEvent{NodeID: n.ID(), Index: index, Node: n.Copy()})
	return true
}

// InsertNodeBefore inserts n before existingID.
func (x *CommandExecutor) InsertNodeBefore(existingID string, n document.Node) bool {
	i := x.ctx.Document.IndexOf(existingID)
	if i < 0 {
		return false
	}
	return x.InsertNodeAt(i, n)
}

// InsertNodeAfter inserts n after existingID.
func (x *CommandExecutor) InsertNodeAfter(existingID string, n document.Node) bool {
	i := x.ctx.Document.IndexOf(existingID)
	if i < 0 {
		return false
	}
	return x.InsertNodeAt(i+1, n)
}

// ReplaceNode swaps the node with oldID for n. A replacement with the same id
// is logged as a change; otherwise as a removal followed by an insertion.
func (x *CommandExecutor) ReplaceNode(oldID string, n document.Node) bool {
	doc := x.ctx.Document
	old := doc.NodeByID(oldID)
	if old == nil {
		return false
	}
	if n.ID() != oldID {
		i := doc.IndexOf(oldID)
		if _, _, err := doc.Delete(oldID); err != nil {
			return false
		}
		x.log(NodeRemovedEvent{NodeID: oldID, Index: i, Node: old})
		return x.InsertNodeAt(i, n)
	}
	before := old.Copy()
	if err := doc.Replace(oldID, n); err != nil {
		return false
	}
	x.log(NodeChangeEvent{NodeID: oldID, Before: before, After: n.Copy()})
	return true
}

// DeleteNode removes the node with id.
func (x *CommandExecutor) DeleteNode(id string) bool {
	n, i, err := x.ctx.Document.Delete(id)
	if err != nil {
		return false
	}
	x.log(NodeRemovedEvent{NodeID: id, Index: i, Node: n})
	return true
}

// MoveNode moves the node with id to index to.
func (x *CommandExecutor) MoveNode(id string, to int) bool {
	from, err := x.ctx.Document.Move(id, to)
	if err != nil {
		return false
	}
	if from != to {
		x.log(NodeMovedEvent{NodeID: id, From: from, To: to})
	}
	return true
}

// ChangeNode mutates the node with id in place. No event is logged if the
// mutation leaves the node unchanged.
func (x *CommandExecutor) ChangeNode(id string, mutate func(document.Node)) bool {
	n := x.ctx.Document.NodeByID(id)
	if n == nil {
		return false
	}
	before := n.Copy()
	mutate(n)
	if document.NodesEqual(before, n) {
		return true
	}
	x.log(NodeChangeEvent{NodeID: id, Before: before, After: n.Copy()})
	return true
}

// SetSelection replaces the selection and refreshes typing preferences. Setting
// the current selection again keeps the preferences.
func (x *CommandExecutor) SetSelection(sel *document.DocumentSelection, reason string) {
	c := x.ctx.Composer
	old := c.selection
	if sameSelection(old, sel) {
		return
	}
	c.selection = cloneSelection(sel)
	c.updatePreferencesFromCaret(x.ctx.Document)
	x.log(SelectionChangeEvent{Old: cloneSelection(old), New: cloneSelection(sel), Reason: reason})
}

// SetComposingRegion replaces the composing region.
func (x *CommandExecutor) SetComposingRegion(r *document.DocumentRange) {
	c := x.ctx.Composer
	if sameRange(c.composing, r) {
		return
	}
	old := c.composing
	c.composing = cloneRange(r)
	x.log(ComposingRegionChangeEvent{Old: old, New: cloneRange(r)})
}

// BeginIntention marks the start of a group of related events.
func (x *CommandExecutor) BeginIntention(name string) {
	x.log(IntentionEvent{Intention: name, Start: true})
}

// EndIntention closes a group opened with BeginIntention.
func (x *CommandExecutor) EndIntention(name string) {
	x.log(IntentionEvent{Intention: name, Start: false})
}

// apply performs the mutation described by ev without logging it. It is used
// to undo and redo history entries.
func apply(ctx *EditContext, ev Event) {
	doc := ctx.Document
	var err error
	switch e := ev.(type) {
	case NodeInsertedEvent:
		err = doc.InsertAt(e.Index, e.Node.Copy())
	case NodeRemovedEvent:
		_, _, err = doc.Delete(e.NodeID)
	case NodeChangeEvent:
		err = doc.Replace(e.NodeID, e.After.Copy())
	case NodeMovedEvent:
		_, err = doc.Move(e.NodeID, e.To)
	case SelectionChangeEvent:
		ctx.Composer.selection = cloneSelection(e.New)
		ctx.Composer.updatePreferencesFromCaret(doc)
	case ComposingRegionChangeEvent:
		ctx.Composer.composing = cloneRange(e.New)
	case IntentionEvent:
	default:
		panic(fmt.Sprintf("editor: cannot replay event %T", ev))
	}
	if err != nil {
		panic(fmt.Sprintf("editor: history diverged from document replaying %s: %v", ev, err))
	}
}
