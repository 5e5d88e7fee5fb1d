package editor

import (
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// Request is an immutable description of an intended change. Requests are
// resolved to commands by the editor's request handlers.
//
// The requests in this file are handled by the built-in handler. Other
// packages may define their own request types and register a RequestHandler
// for them.
type Request interface {
	RequestName() string
}

// ChangeSelectionRequest replaces the selection. A nil Selection clears it.
type ChangeSelectionRequest struct {
	Selection *document.DocumentSelection
	Reason    string
}

// ChangeComposingRegionRequest replaces the IME composing region.
type ChangeComposingRegionRequest struct {
	Region *document.DocumentRange
}

// ClearComposingRegionRequest removes the composing region.
type ClearComposingRegionRequest struct{}

// SetComposerPreferencesRequest replaces the attributions applied to typed
// text.
type SetComposerPreferencesRequest struct {
	Preferences attributed.Set
}

// InsertTextRequest inserts plain text at a text position. A zero Position
// inserts at the caret.
type InsertTextRequest struct {
	Position     document.DocumentPosition
	Text         string
	Attributions attributed.Set

	// ApplyPreferences adds the composer's typing preferences to
	// Attributions, as for text typed by the user.
	ApplyPreferences bool
}

// InsertAttributedTextRequest inserts attributed text at a text position.
type InsertAttributedTextRequest struct {
	Position document.DocumentPosition
	Text     attributed.Text
}

// DeleteContentRequest deletes everything between two positions, across
// nodes if necessary.
type DeleteContentRequest struct {
	Range document.DocumentRange
}

// DeleteUpstreamCharacterRequest deletes the selection if expanded, otherwise
// the grapheme before the caret. At the start of a node it merges with or
// deletes the previous node.
type DeleteUpstreamCharacterRequest struct{}

// DeleteDownstreamCharacterRequest deletes the selection if expanded,
// otherwise the grapheme after the caret.
type DeleteDownstreamCharacterRequest struct{}

// InsertNewlineRequest inserts a block break at the caret.
type InsertNewlineRequest struct{}

// SplitParagraphRequest splits a paragraph at SplitOffset, moving the tail
// into a new paragraph with NewNodeID.
type SplitParagraphRequest struct {
	NodeID      string
	SplitOffset int
	NewNodeID   string
}

// SplitListItemRequest splits a list item into two items of the same type
// and indent.
type SplitListItemRequest struct {
	NodeID      string
	SplitOffset int
	NewNodeID   string
}

// SplitTaskRequest splits a task; the new task is not complete.
type SplitTaskRequest struct {
	NodeID      string
	SplitOffset int
	NewNodeID   string
}

// CombineParagraphsRequest appends the text of SecondNodeID to FirstNodeID
// and removes SecondNodeID.
type CombineParagraphsRequest struct {
	FirstNodeID  string
	SecondNodeID string
}

// InsertNodeAtIndexRequest inserts Node at Index.
type InsertNodeAtIndexRequest struct {
	Index int
	Node  document.Node
}

// InsertNodeBeforeRequest inserts Node before ExistingNodeID.
type InsertNodeBeforeRequest struct {
	ExistingNodeID string
	Node           document.Node
}

// InsertNodeAfterRequest inserts Node after ExistingNodeID.
type InsertNodeAfterRequest struct {
	ExistingNodeID string
	Node           document.Node
}

// ReplaceNodeRequest swaps ExistingNodeID for Node.
type ReplaceNodeRequest struct {
	ExistingNodeID string
	Node           document.Node
}

// DeleteNodeRequest removes a node.
type DeleteNodeRequest struct {
	NodeID string
}

// MoveNodeRequest moves a node to NewIndex.
type MoveNodeRequest struct {
	NodeID   string
	NewIndex int
}

// ChangeBlockTypeRequest sets the block type of a paragraph.
type ChangeBlockTypeRequest struct {
	NodeID    string
	BlockType attributed.Attribution
}

// ChangeAlignmentRequest sets the alignment of a text node.
type ChangeAlignmentRequest struct {
	NodeID    string
	Alignment document.TextAlign
}

// ConvertParagraphToListItemRequest turns a paragraph into a list item.
type ConvertParagraphToListItemRequest struct {
	NodeID string
	Type   document.ListItemType
}

// ConvertListItemToParagraphRequest turns a list item into a paragraph.
type ConvertListItemToParagraphRequest struct {
	NodeID string
}

// ChangeListItemTypeRequest switches a list item between ordered and
// unordered.
type ChangeListItemTypeRequest struct {
	NodeID string
	Type   document.ListItemType
}

// IndentListItemRequest increases a list item's indent, up to the configured
// maximum.
type IndentListItemRequest struct {
	NodeID string
}

// UnindentListItemRequest decreases a list item's indent. An item at indent 0
// becomes a paragraph.
type UnindentListItemRequest struct {
	NodeID string
}

// ConvertParagraphToTaskRequest turns a paragraph into a task.
type ConvertParagraphToTaskRequest struct {
	NodeID   string
	Complete bool
}

// ConvertTaskToParagraphRequest turns a task into a paragraph.
type ConvertTaskToParagraphRequest struct {
	NodeID string
}

// ChangeTaskCompletionRequest checks or unchecks a task.
type ChangeTaskCompletionRequest struct {
	NodeID   string
	Complete bool
}

// AddTextAttributionsRequest applies attributions over a document range.
type AddTextAttributionsRequest struct {
	Range        document.DocumentRange
	Attributions []attributed.Attribution
}

// RemoveTextAttributionsRequest removes attributions from a document range.
type RemoveTextAttributionsRequest struct {
	Range        document.DocumentRange
	Attributions []attributed.Attribution
}

// ToggleTextAttributionsRequest removes each attribution if it already covers
// all text in the range, and adds it otherwise.
type ToggleTextAttributionsRequest struct {
	Range        document.DocumentRange
	Attributions []attributed.Attribution
}

func (ChangeSelectionRequest) RequestName() string           { return "change-selection" }
func (ChangeComposingRegionRequest) RequestName() string     { return "change-composing-region" }
func (ClearComposingRegionRequest) RequestName() string      { return "clear-composing-region" }
func (SetComposerPreferencesRequest) RequestName() string    { return "set-composer-preferences" }
func (InsertTextRequest) RequestName() string                { return "insert-text" }
func (InsertAttributedTextRequest) RequestName() string      { return "insert-attributed-text" }
func (DeleteContentRequest) RequestName() string             { return "delete-content" }
func (DeleteUpstreamCharacterRequest) RequestName() string   { return "delete-upstream-character" }
func (DeleteDownstreamCharacterRequest) RequestName() string { return "delete-downstream-character" }
func (InsertNewlineRequest) RequestName() string             { return "insert-newline" }
func (SplitParagraphRequest) RequestName() string            { return "split-paragraph" }
func (SplitListItemRequest) RequestName() string             { return "split-list-item" }
func (SplitTaskRequest) RequestName() string                 { return "split-task" }
func (CombineParagraphsRequest) RequestName() string         { return "combine-paragraphs" }
func (InsertNodeAtIndexRequest) RequestName() string         { return "insert-node-at-index" }
func (InsertNodeBeforeRequest) RequestName() string          { return "insert-node-before" }
func (InsertNodeAfterRequest) RequestName() string           { return "insert-node-after" }
func (ReplaceNodeRequest) RequestName() string               { return "replace-node" }
func (DeleteNodeRequest) RequestName() string                { return "delete-node" }
func (MoveNodeRequest) RequestName() string                  { return "move-node" }
func (ChangeBlockTypeRequest) RequestName() string           { return "change-block-type" }
func (ChangeAlignmentRequest) RequestName() string           { return "change-alignment" }
func (ConvertParagraphToListItemRequest) RequestName() string {
	return "convert-paragraph-to-list-item"
}
func (ConvertListItemToParagraphRequest) RequestName() string {
	return "convert-list-item-to-paragraph"
}
func (ChangeListItemTypeRequest) RequestName() string     { return "change-list-item-type" }
func (IndentListItemRequest) RequestName() string         { return "indent-list-item" }
func (UnindentListItemRequest) RequestName() string       { return "unindent-list-item" }
func (ConvertParagraphToTaskRequest) RequestName() string { return "convert-paragraph-to-task" }
func (ConvertTaskToParagraphRequest) RequestName() string { return "convert-task-to-paragraph" }
func (ChangeTaskCompletionRequest) RequestName() string   { return "change-task-completion" }
func (AddTextAttributionsRequest) RequestName() string    { return "add-text-attributions" }
func (RemoveTextAttributionsRequest) RequestName() string { return "remove-text-attributions" }
func (ToggleTextAttributionsRequest) RequestName() string { return "toggle-text-attributions" }
