package history

// Checkpoint is a position in a History, measured as undo stack depth.
type Checkpoint struct {
	depth int
}

// CreateCheckpoint returns the current position.
func (h *History[T]) CreateCheckpoint() Checkpoint {
	return Checkpoint{depth: h.UndoCount()}
}

// UndoToCheckpoint undoes entries until the undo stack is back at cp.
func (h *History[T]) UndoToCheckpoint(cp Checkpoint, target T) error {
	for h.UndoCount() > cp.depth {
		if err := h.Undo(target); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes entries until the undo stack reaches cp or the
// redo stack runs out. A new Push after undoing clears the redo stack, so a
// checkpoint taken before that push can no longer be reached.
func (h *History[T]) RedoToCheckpoint(cp Checkpoint, target T) error {
	for h.UndoCount() < cp.depth && h.CanRedo() {
		if err := h.Redo(target); err != nil {
			return err
		}
	}
	return nil
}
