package history

import (
	"errors"
	"sync"
	"time"
)

// Errors returned by Undo and Redo on an empty stack.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a History is created with a non-positive
// limit.
const DefaultMaxEntries = 1000

type entry[T any] struct {
	cmd Command[T]
	at  time.Time
}

func (en *entry[T]) info() EntryInfo {
	return EntryInfo{Description: en.cmd.Description(), Timestamp: en.at}
}

// History keeps the undo and redo stacks for a target of type T. Commands
// run without the lock held, so a command may query its own History.
type History[T any] struct {
	mu    sync.Mutex
	undo  []*entry[T]
	redo  []*entry[T]
	limit int

	// open group; depth counts nested BeginGroup calls
	depth     int
	groupName string
	pending   []Command[T]
}

// New creates a History holding at most limit undo entries.
func New[T any](limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	return &History[T]{limit: limit}
}

// Push records an already applied command and clears the redo stack. While
// a group is open the command joins the group instead.
func (h *History[T]) Push(cmd Command[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth > 0 {
		h.pending = append(h.pending, cmd)
		return
	}
	h.record(cmd)
}

func (h *History[T]) record(cmd Command[T]) {
	h.undo = append(h.undo, &entry[T]{cmd: cmd, at: time.Now()})
	h.redo = nil
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = h.undo[over:]
	}
}

// Undo reverts the newest entry and moves it to the redo stack. A failed
// undo leaves the entry where it was.
func (h *History[T]) Undo(target T) error {
	return h.move(&h.undo, &h.redo, ErrNothingToUndo, func(c Command[T]) error { return c.Undo(target) })
}

// Redo re-applies the newest undone entry.
func (h *History[T]) Redo(target T) error {
	return h.move(&h.redo, &h.undo, ErrNothingToRedo, func(c Command[T]) error { return c.Redo(target) })
}

func (h *History[T]) move(from, to *[]*entry[T], empty error, run func(Command[T]) error) error {
	h.mu.Lock()
	n := len(*from)
	if n == 0 {
		h.mu.Unlock()
		return empty
	}
	en := (*from)[n-1]
	*from = (*from)[:n-1]
	h.mu.Unlock()

	err := run(en.cmd)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		*from = append(*from, en)
		return err
	}
	*to = append(*to, en)
	return nil
}

// CanUndo reports whether Undo has an entry to revert.
func (h *History[T]) CanUndo() bool { return h.UndoCount() > 0 }

// CanRedo reports whether Redo has an entry to re-apply.
func (h *History[T]) CanRedo() bool { return h.RedoCount() > 0 }

// UndoCount returns the depth of the undo stack.
func (h *History[T]) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the depth of the redo stack.
func (h *History[T]) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// BeginGroup opens a group. Commands pushed until the matching EndGroup
// become one entry named after the outermost group.
func (h *History[T]) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		h.groupName = name
		h.pending = nil
	}
	h.depth++
}

// EndGroup closes the innermost group. Closing the outermost group records
// its commands as a CompoundCommand; an empty group records nothing.
func (h *History[T]) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if len(h.pending) > 0 {
		h.record(NewCompoundCommand(h.groupName, h.pending...))
	}
	h.pending = nil
}

// CancelGroup discards every open group without recording it. The target
// keeps whatever the discarded commands did to it.
func (h *History[T]) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.depth = 0
	h.pending = nil
}

// Clear empties both stacks and discards any open group.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo, h.redo = nil, nil
	h.depth = 0
	h.pending = nil
}

// UndoInfo describes the undo stack, oldest first.
func (h *History[T]) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undo)
}

// RedoInfo describes the redo stack, oldest first. The last element is the
// entry Redo would re-apply.
func (h *History[T]) RedoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redo)
}

// PeekUndo describes the entry Undo would revert.
func (h *History[T]) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return EntryInfo{}, false
	}
	return h.undo[len(h.undo)-1].info(), true
}

func infos[T any](entries []*entry[T]) []EntryInfo {
	out := make([]EntryInfo, len(entries))
	for i, en := range entries {
		out[i] = en.info()
	}
	return out
}
