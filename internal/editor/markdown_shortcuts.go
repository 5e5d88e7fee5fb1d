package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

type shortcutKind uint8

const (
	shortcutHeader shortcutKind = iota
	shortcutUnordered
	shortcutOrdered
	shortcutBlockquote
	shortcutTask
	shortcutDoneTask
	shortcutRule
)

type shortcut struct {
	prefix string
	kind   shortcutKind
	level  int
}

var shortcuts = []shortcut{
	{"# ", shortcutHeader, 1},
	{"## ", shortcutHeader, 2},
	{"### ", shortcutHeader, 3},
	{"#### ", shortcutHeader, 4},
	{"##### ", shortcutHeader, 5},
	{"###### ", shortcutHeader, 6},
	{"- ", shortcutUnordered, 0},
	{"* ", shortcutUnordered, 0},
	{"1. ", shortcutOrdered, 0},
	{"> ", shortcutBlockquote, 0},
	{"[ ] ", shortcutTask, 0},
	{"[x] ", shortcutDoneTask, 0},
	{"--- ", shortcutRule, 0},
}

// MarkdownShortcutReaction converts a plain paragraph into a header, list
// item, blockquote, task or horizontal rule when the user types the matching
// Markdown prefix at its start.
type MarkdownShortcutReaction struct{}

// React implements Reaction.
func (MarkdownShortcutReaction) React(ctx *EditContext, ed *Editor, events []Event) {
	before := make(map[string]string)
	var order []string
	for _, ev := range events {
		ce, ok := ev.(NodeChangeEvent)
		if !ok {
			continue
		}
		if _, seen := before[ce.NodeID]; seen {
			continue
		}
		order = append(order, ce.NodeID)
		if tn, ok := ce.Before.(document.TextNode); ok {
			before[ce.NodeID] = tn.Text().String()
		} else {
			before[ce.NodeID] = ""
		}
	}
	for _, id := range order {
		p, ok := ctx.Document.NodeByID(id).(*document.ParagraphNode)
		if !ok || document.BlockTypeOf(p) != attributed.Attribution(document.Paragraph) {
			continue
		}
		text := p.Text().String()
		for i, sc := range shortcuts {
			if strings.HasPrefix(text, sc.prefix) && !strings.HasPrefix(before[id], sc.prefix) {
				ed.Execute(markdownShortcutRequest{NodeID: id, shortcut: i})
				break
			}
		}
	}
}

type markdownShortcutRequest struct {
	NodeID   string
	shortcut int
}

func (markdownShortcutRequest) RequestName() string { return "markdown-shortcut" }

func applyMarkdownShortcut(ctx *EditContext, x *CommandExecutor, req markdownShortcutRequest) {
	sc := shortcuts[req.shortcut]
	p, ok := ctx.Document.NodeByID(req.NodeID).(*document.ParagraphNode)
	if !ok || !strings.HasPrefix(p.Text().String(), sc.prefix) {
		x.Fizzle("shortcut prefix no longer present", zap.String("node", req.NodeID))
		return
	}
	x.BeginIntention(IntentionMarkdownShortcut)
	defer x.EndIntention(IntentionMarkdownShortcut)

	id := req.NodeID
	deleteRange(ctx, x, document.At(id, document.TextPosition(0)), document.At(id, document.TextPosition(len(sc.prefix))))
	switch sc.kind {
	case shortcutHeader:
		changeBlockType(ctx, x, ChangeBlockTypeRequest{NodeID: id, BlockType: document.HeaderBlockType(sc.level)})
	case shortcutBlockquote:
		changeBlockType(ctx, x, ChangeBlockTypeRequest{NodeID: id, BlockType: document.Blockquote})
	case shortcutUnordered:
		convertParagraphToListItem(ctx, x, ConvertParagraphToListItemRequest{NodeID: id, Type: document.Unordered})
	case shortcutOrdered:
		convertParagraphToListItem(ctx, x, ConvertParagraphToListItemRequest{NodeID: id, Type: document.Ordered})
	case shortcutTask, shortcutDoneTask:
		convertParagraphToTask(ctx, x, ConvertParagraphToTaskRequest{NodeID: id, Complete: sc.kind == shortcutDoneTask})
	case shortcutRule:
		x.InsertNodeBefore(id, document.NewHorizontalRule(document.NewNodeID()))
	}
}
