package editor

import (
	"fmt"

	"github.com/dshills/richdoc/internal/engine/document"
	"github.com/dshills/richdoc/internal/event/topic"
)

// Event topics.
const (
	TopicNodeInserted    topic.Topic = "document.node.inserted"
	TopicNodeRemoved     topic.Topic = "document.node.removed"
	TopicNodeChanged     topic.Topic = "document.node.changed"
	TopicNodeMoved       topic.Topic = "document.node.moved"
	TopicSelection       topic.Topic = "composer.selection.changed"
	TopicComposingRegion topic.Topic = "composer.composing.changed"
	TopicIntentionStart  topic.Topic = "editor.intention.start"
	TopicIntentionEnd    topic.Topic = "editor.intention.end"
)

// Event is an immutable fact describing one change made by a command. Events
// are the unit of undo and the input of reactions.
type Event interface {
	Topic() topic.Topic
	fmt.Stringer
}

// NodeEvent is an event that changes document content.
type NodeEvent interface {
	Event
	ChangedNodeID() string
}

// NodeInsertedEvent records that Node was inserted at Index. Node is a
// snapshot taken at insertion time.
type NodeInsertedEvent struct {
	NodeID string
	Index  int
	Node   document.Node
}

func (e NodeInsertedEvent) Topic() topic.Topic    { return TopicNodeInserted }
func (e NodeInsertedEvent) ChangedNodeID() string { return e.NodeID }
func (e NodeInsertedEvent) String() string {
	return fmt.Sprintf("inserted %s at %d", e.NodeID, e.Index)
}

// NodeRemovedEvent records that Node was removed from Index.
type NodeRemovedEvent struct {
	NodeID string
	Index  int
	Node   document.Node
}

func (e NodeRemovedEvent) Topic() topic.Topic    { return TopicNodeRemoved }
func (e NodeRemovedEvent) ChangedNodeID() string { return e.NodeID }
func (e NodeRemovedEvent) String() string {
	return fmt.Sprintf("removed %s from %d", e.NodeID, e.Index)
}

// NodeChangeEvent records an in-place change or same-id replacement of a
// node. Before and After are deep snapshots.
type NodeChangeEvent struct {
	NodeID string
	Before document.Node
	After  document.Node
}

func (e NodeChangeEvent) Topic() topic.Topic    { return TopicNodeChanged }
func (e NodeChangeEvent) ChangedNodeID() string { return e.NodeID }
func (e NodeChangeEvent) String() string        { return fmt.Sprintf("changed %s", e.NodeID) }

// NodeMovedEvent records that a node moved between indices.
type NodeMovedEvent struct {
	NodeID string
	From   int
	To     int
}

func (e NodeMovedEvent) Topic() topic.Topic    { return TopicNodeMoved }
func (e NodeMovedEvent) ChangedNodeID() string { return e.NodeID }
func (e NodeMovedEvent) String() string {
	return fmt.Sprintf("moved %s from %d to %d", e.NodeID, e.From, e.To)
}

// SelectionChangeEvent records a change of the composer selection. A nil
// selection means no selection.
type SelectionChangeEvent struct {
	Old    *document.DocumentSelection
	New    *document.DocumentSelection
	Reason string
}

func (e SelectionChangeEvent) Topic() topic.Topic { return TopicSelection }
func (e SelectionChangeEvent) String() string {
	return fmt.Sprintf("selection %s -> %s (%s)", selectionString(e.Old), selectionString(e.New), e.Reason)
}

// ComposingRegionChangeEvent records a change of the IME composing region.
type ComposingRegionChangeEvent struct {
	Old *document.DocumentRange
	New *document.DocumentRange
}

func (e ComposingRegionChangeEvent) Topic() topic.Topic { return TopicComposingRegion }
func (e ComposingRegionChangeEvent) String() string {
	return fmt.Sprintf("composing %s -> %s", rangeString(e.Old), rangeString(e.New))
}

// Well-known intentions.
const (
	IntentionNewline          = "newline"
	IntentionSplitParagraph   = "split-paragraph"
	IntentionSubmitParagraph  = "submit-paragraph"
	IntentionMarkdownShortcut = "markdown-shortcut"
)

// IntentionEvent brackets a group of events that together express one user
// intention, such as splitting a paragraph.
type IntentionEvent struct {
	Intention string
	Start     bool
}

func (e IntentionEvent) Topic() topic.Topic {
	if e.Start {
		return TopicIntentionStart
	}
	return TopicIntentionEnd
}

func (e IntentionEvent) String() string {
	if e.Start {
		return "begin " + e.Intention
	}
	return "end " + e.Intention
}

// invert returns the event that undoes ev.
func invert(ev Event) Event {
	switch e := ev.(type) {
	case NodeInsertedEvent:
		return NodeRemovedEvent(e)
	case NodeRemovedEvent:
		return NodeInsertedEvent(e)
	case NodeChangeEvent:
		return NodeChangeEvent{NodeID: e.NodeID, Before: e.After, After: e.Before}
	case NodeMovedEvent:
		return NodeMovedEvent{NodeID: e.NodeID, From: e.To, To: e.From}
	case SelectionChangeEvent:
		return SelectionChangeEvent{Old: e.New, New: e.Old, Reason: "undo"}
	case ComposingRegionChangeEvent:
		return ComposingRegionChangeEvent{Old: e.New, New: e.Old}
	case IntentionEvent:
		return IntentionEvent{Intention: e.Intention, Start: !e.Start}
	}
	panic(fmt.Sprintf("editor: cannot invert event %T", ev))
}

// ContainsContentChange reports whether events include a node event.
func ContainsContentChange(events []Event) bool {
	for _, ev := range events {
		if _, ok := ev.(NodeEvent); ok {
			return true
		}
	}
	return false
}

// ChangedNodeIDs returns the distinct ids of nodes touched by events, in first
// occurrence order.
func ChangedNodeIDs(events []Event) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range events {
		if ne, ok := ev.(NodeEvent); ok && !seen[ne.ChangedNodeID()] {
			seen[ne.ChangedNodeID()] = true
			out = append(out, ne.ChangedNodeID())
		}
	}
	return out
}

func selectionString(s *document.DocumentSelection) string {
	if s == nil {
		return "none"
	}
	return s.String()
}

func rangeString(r *document.DocumentRange) string {
	if r == nil {
		return "none"
	}
	return r.String()
}
