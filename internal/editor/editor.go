package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
	"github.com/dshills/richdoc/internal/engine/history"
	"github.com/dshills/richdoc/internal/event/topic"
)

// Reaction observes the events of a finished transaction and may execute
// further requests through the editor. Those requests join the same
// transaction and history entry.
type Reaction interface {
	React(ctx *EditContext, ed *Editor, events []Event)
}

// ReactionFunc adapts a function to the Reaction interface.
type ReactionFunc func(ctx *EditContext, ed *Editor, events []Event)

// React implements Reaction.
func (f ReactionFunc) React(ctx *EditContext, ed *Editor, events []Event) {
	f(ctx, ed, events)
}

// SelectionListener is notified when a transaction changed the selection.
type SelectionListener func(sel *document.DocumentSelection)

// ComposingListener is notified when a transaction changed the composing
// region.
type ComposingListener func(r *document.DocumentRange)

// ChangeListener is notified with all events of a transaction, undo or redo
// after the subscribers have seen them.
type ChangeListener func(events []Event)

type listener[F any] struct {
	id uint64
	fn F
}

// Editor owns a document and composer and is the only way to change them.
//
// Execute runs requests as one transaction: composer notifications are held
// back until the outermost Execute returns, reactions run once over the
// transaction's events, and the whole transaction becomes one undo entry.
// Editor is not safe for concurrent use; all calls must come from one
// goroutine.
type Editor struct {
	ctx     *EditContext
	logger  *zap.Logger
	history *history.History[*replay]

	handlers    []RequestHandler
	reactions   []Reaction
	subscribers *topic.Matcher[func(Event)]

	nextListenerID     uint64
	selectionListeners []listener[SelectionListener]
	composingListeners []listener[ComposingListener]
	changeListeners    []listener[ChangeListener]

	maxUndoEntries    int
	maxReactionPasses int
	maxListIndent     int

	depth       int
	replaying   bool
	txEvents    []Event
	txSelection *document.DocumentSelection
	txComposing *document.DocumentRange
}

// New creates an editor for doc.
func New(doc *document.Document, opts ...Option) *Editor {
	if doc == nil {
		panic("editor: nil document")
	}
	e := &Editor{
		logger:            zap.NewNop(),
		handlers:          []RequestHandler{builtinHandler},
		subscribers:       topic.NewMatcher[func(Event)](),
		maxUndoEntries:    DefaultMaxUndoEntries,
		maxReactionPasses: DefaultMaxReactionPasses,
		maxListIndent:     DefaultMaxListIndent,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.New[*replay](e.maxUndoEntries)
	e.ctx = &EditContext{
		Document:      doc,
		Composer:      NewComposer(),
		Logger:        e.logger,
		MaxListIndent: e.maxListIndent,
	}
	return e
}

// Document returns the edited document. Callers must not mutate it directly.
func (e *Editor) Document() *document.Document { return e.ctx.Document }

// Composer returns the composer.
func (e *Editor) Composer() *Composer { return e.ctx.Composer }

// Context returns the edit context passed to commands.
func (e *Editor) Context() *EditContext { return e.ctx }

// Logger returns the editor's logger.
func (e *Editor) Logger() *zap.Logger { return e.logger }

// InTransaction reports whether an Execute call is in progress.
func (e *Editor) InTransaction() bool { return e.depth > 0 }

// AddRequestHandler registers a handler ahead of all existing handlers.
func (e *Editor) AddRequestHandler(h RequestHandler) {
	e.handlers = append([]RequestHandler{h}, e.handlers...)
}

// AddReaction appends a reaction.
func (e *Editor) AddReaction(r Reaction) {
	e.reactions = append(e.reactions, r)
}

// Subscribe registers fn for events whose topic matches pattern. Events are
// delivered in order after each transaction, undo and redo. The returned
// function removes the subscription.
func (e *Editor) Subscribe(pattern topic.Topic, fn func(Event)) (unsubscribe func()) {
	id := e.subscribers.Add(pattern, fn)
	return func() { e.subscribers.Remove(id) }
}

// AddSelectionListener registers fn and returns a function removing it.
func (e *Editor) AddSelectionListener(fn SelectionListener) (remove func()) {
	e.nextListenerID++
	id := e.nextListenerID
	e.selectionListeners = append(e.selectionListeners, listener[SelectionListener]{id, fn})
	return func() { e.selectionListeners = removeListener(e.selectionListeners, id) }
}

// AddComposingListener registers fn and returns a function removing it.
func (e *Editor) AddComposingListener(fn ComposingListener) (remove func()) {
	e.nextListenerID++
	id := e.nextListenerID
	e.composingListeners = append(e.composingListeners, listener[ComposingListener]{id, fn})
	return func() { e.composingListeners = removeListener(e.composingListeners, id) }
}

// AddChangeListener registers fn and returns a function removing it.
func (e *Editor) AddChangeListener(fn ChangeListener) (remove func()) {
	e.nextListenerID++
	id := e.nextListenerID
	e.changeListeners = append(e.changeListeners, listener[ChangeListener]{id, fn})
	return func() { e.changeListeners = removeListener(e.changeListeners, id) }
}

func removeListener[F any](ls []listener[F], id uint64) []listener[F] {
	out := ls[:0:0]
	for _, l := range ls {
		if l.id != id {
			out = append(out, l)
		}
	}
	return out
}

// Execute runs requests in order and returns the events they logged,
// including events of reactions when this is the outermost call.
//
// Calls made from reactions or commands while a transaction is open join
// that transaction. A request without a handler is a programmer error and
// panics.
func (e *Editor) Execute(requests ...Request) []Event {
	if e.replaying {
		panic("editor: Execute called during undo or redo")
	}
	outermost := e.depth == 0
	if outermost {
		e.beginTransaction(requests)
		defer func() {
			if r := recover(); r != nil {
				e.abortTransaction()
				panic(r)
			}
		}()
	}

	e.depth++
	start := len(e.txEvents)
	for _, r := range requests {
		e.run(r)
	}
	if outermost {
		e.react()
	}
	e.depth--

	out := append([]Event(nil), e.txEvents[start:]...)
	if outermost {
		e.endTransaction()
	}
	return out
}

func (e *Editor) resolve(r Request) Command {
	for _, h := range e.handlers {
		if cmd := h(r); cmd != nil {
			return cmd
		}
	}
	panic(fmt.Sprintf("editor: no command handler for request %T", r))
}

func (e *Editor) run(r Request) {
	cmd := e.resolve(r)
	x := newExecutor(e.ctx, r.RequestName())
	cmd.Execute(e.ctx, x)
	if len(x.events) == 0 {
		return
	}
	e.history.Push(&changeSet{name: r.RequestName(), events: x.events})
	e.txEvents = append(e.txEvents, x.events...)
}

// react runs reactions over the transaction's events. Each later pass sees
// only the events produced by the previous pass.
func (e *Editor) react() {
	if len(e.reactions) == 0 {
		return
	}
	seen := 0
	for pass := 0; seen < len(e.txEvents); pass++ {
		if pass == e.maxReactionPasses {
			panic(fmt.Sprintf("editor: reactions still producing events after %d passes", pass))
		}
		batch := append([]Event(nil), e.txEvents[seen:]...)
		seen = len(e.txEvents)
		for _, r := range e.reactions {
			r.React(e.ctx, e, batch)
		}
	}
}

func (e *Editor) beginTransaction(requests []Request) {
	e.txEvents = nil
	e.txSelection = e.ctx.Composer.Selection()
	e.txComposing = e.ctx.Composer.ComposingRegion()
	name := "edit"
	if len(requests) > 0 {
		name = requests[0].RequestName()
	}
	e.history.BeginGroup(name)
}

func (e *Editor) endTransaction() {
	events := e.txEvents
	e.txEvents = nil
	if ContainsContentChange(events) {
		e.history.EndGroup()
	} else {
		// Transactions that only move the caret are not recorded.
		e.history.CancelGroup()
	}
	e.notify(events, e.txSelection, e.txComposing)
}

func (e *Editor) abortTransaction() {
	e.depth = 0
	e.txEvents = nil
	e.history.CancelGroup()
}

// notify publishes events to subscribers and, at most once each, tells
// listeners about a changed selection or composing region.
func (e *Editor) notify(events []Event, selBefore *document.DocumentSelection, compBefore *document.DocumentRange) {
	for _, ev := range events {
		for _, fn := range e.subscribers.Match(ev.Topic()) {
			fn(ev)
		}
	}
	if sel := e.ctx.Composer.Selection(); !sameSelection(sel, selBefore) {
		for _, l := range append([]listener[SelectionListener](nil), e.selectionListeners...) {
			l.fn(sel)
		}
	}
	if comp := e.ctx.Composer.ComposingRegion(); !sameRange(comp, compBefore) {
		for _, l := range append([]listener[ComposingListener](nil), e.composingListeners...) {
			l.fn(comp)
		}
	}
	if len(events) > 0 {
		for _, l := range append([]listener[ChangeListener](nil), e.changeListeners...) {
			l.fn(events)
		}
	}
}

// Undo reverts the most recent transaction and returns the inverse events it
// applied. Reactions do not run.
func (e *Editor) Undo() ([]Event, error) {
	return e.replayWith(func(r *replay) error { return e.history.Undo(r) })
}

// Redo re-applies the most recently undone transaction.
func (e *Editor) Redo() ([]Event, error) {
	return e.replayWith(func(r *replay) error { return e.history.Redo(r) })
}

// CanUndo reports whether there is a transaction to undo.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether there is a transaction to redo.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// UndoCount returns the number of undoable transactions.
func (e *Editor) UndoCount() int { return e.history.UndoCount() }

// UndoInfo describes the undoable transactions, oldest first.
func (e *Editor) UndoInfo() []history.EntryInfo { return e.history.UndoInfo() }

// RedoCount returns the number of undone transactions Redo can re-apply.
func (e *Editor) RedoCount() int { return e.history.RedoCount() }

// RedoInfo describes the redoable transactions. The last one is redone first.
func (e *Editor) RedoInfo() []history.EntryInfo { return e.history.RedoInfo() }

// NextUndo names the transaction Undo would revert.
func (e *Editor) NextUndo() (string, bool) {
	info, ok := e.history.PeekUndo()
	return info.Description, ok
}

// Checkpoint marks the current history position.
func (e *Editor) Checkpoint() history.Checkpoint { return e.history.CreateCheckpoint() }

// UndoToCheckpoint undoes every transaction recorded after cp.
func (e *Editor) UndoToCheckpoint(cp history.Checkpoint) ([]Event, error) {
	return e.replayWith(func(r *replay) error { return e.history.UndoToCheckpoint(cp, r) })
}

// RedoToCheckpoint redoes undone transactions until the history is back at
// cp, or until nothing is left to redo.
func (e *Editor) RedoToCheckpoint(cp history.Checkpoint) ([]Event, error) {
	return e.replayWith(func(r *replay) error { return e.history.RedoToCheckpoint(cp, r) })
}

// ClearHistory drops all undo and redo entries.
func (e *Editor) ClearHistory() {
	if e.InTransaction() {
		panic("editor: ClearHistory called inside a transaction")
	}
	e.history.Clear()
}

func (e *Editor) replayWith(step func(*replay) error) ([]Event, error) {
	if e.InTransaction() {
		panic("editor: undo or redo called inside a transaction")
	}
	sel, comp := e.ctx.Composer.Selection(), e.ctx.Composer.ComposingRegion()
	r := &replay{ctx: e.ctx}
	e.replaying = true
	err := step(r)
	e.replaying = false
	if len(r.applied) > 0 {
		e.notify(r.applied, sel, comp)
	}
	return r.applied, err
}

// replay is the history target: it applies events and records them.
type replay struct {
	ctx     *EditContext
	applied []Event
}

// changeSet is the history entry for one request's events.
type changeSet struct {
	name   string
	events []Event
}

func (c *changeSet) Undo(r *replay) error {
	for i := len(c.events) - 1; i >= 0; i-- {
		inv := invert(c.events[i])
		apply(r.ctx, inv)
		r.applied = append(r.applied, inv)
	}
	return nil
}

func (c *changeSet) Redo(r *replay) error {
	for _, ev := range c.events {
		apply(r.ctx, ev)
		r.applied = append(r.applied, ev)
	}
	return nil
}

func (c *changeSet) Description() string { return c.name }
