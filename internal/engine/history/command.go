package history

import (
	"fmt"
	"time"
)

// Command is one undoable unit recorded in a History.
type Command[T any] interface {
	// Undo reverses the command's effect on target.
	Undo(target T) error

	// Redo re-applies the command's effect on target.
	Redo(target T) error

	// Description returns a human-readable description of the command.
	Description() string
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand[T any] struct {
	Name     string
	Commands []Command[T]
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand[T any](name string, commands ...Command[T]) *CompoundCommand[T] {
	return &CompoundCommand[T]{
		Name:     name,
		Commands: commands,
	}
}

// Redo re-applies all commands in order. If one fails, the commands already
// re-applied are undone again.
func (c *CompoundCommand[T]) Redo(target T) error {
	for i, cmd := range c.Commands {
		if err := cmd.Redo(target); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(target)
			}
			return fmt.Errorf("redo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand[T]) Undo(target T) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(target); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand[T]) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// EntryInfo describes a recorded entry without exposing its command.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}
