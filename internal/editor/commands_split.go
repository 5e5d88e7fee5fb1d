package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// splitTextNode moves the text after offset into a new node built by
// makeTail and places the caret at the start of the new node.
func splitTextNode(ctx *EditContext, x *CommandExecutor, id string, offset int, newID string,
	makeTail func(old document.TextNode, newID string, tail attributed.Text) document.Node) {
	doc := ctx.Document
	tn, ok := doc.NodeByID(id).(document.TextNode)
	if !ok {
		x.Fizzle("split target is not a text node", zap.String("node", id))
		return
	}
	if offset < 0 || offset > tn.Text().Len() {
		x.Fizzle("split offset out of range", zap.String("node", id), zap.Int("offset", offset))
		return
	}
	if newID == "" {
		newID = document.NewNodeID()
	}
	if doc.Contains(newID) {
		x.Fizzle("node id already in document", zap.String("node", newID))
		return
	}

	intention := IntentionSplitParagraph
	if offset == tn.Text().Len() {
		intention = IntentionSubmitParagraph
	}
	x.BeginIntention(intention)
	defer x.EndIntention(intention)

	text := tn.Text()
	tail := makeTail(tn, newID, text.CopyRange(offset, text.Len()))
	x.ChangeNode(id, func(n document.Node) {
		n.(document.TextNode).SetText(text.CopyRange(0, offset))
	})
	x.InsertNodeAfter(id, tail)

	remapComposer(ctx, x, "split", func(p document.DocumentPosition) document.DocumentPosition {
		if o, ok := p.TextOffset(); ok && p.NodeID == id && o >= offset {
			return document.At(newID, document.TextPosition(o-offset))
		}
		return p
	})
	caret := document.Collapsed(document.At(newID, document.TextPosition(0)))
	x.SetSelection(&caret, "split")
}

// copyMetadata copies metadata from src to dst, skipping the given keys.
func copyMetadata(dst, src document.Node, skip ...string) {
next:
	for _, k := range src.MetadataKeys() {
		for _, s := range skip {
			if k == s {
				continue next
			}
		}
		dst.SetMetadata(k, src.Metadata(k))
	}
}

func splitParagraph(ctx *EditContext, x *CommandExecutor, req SplitParagraphRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(*document.ParagraphNode); !ok {
		x.Fizzle("split target is not a paragraph", zap.String("node", req.NodeID))
		return
	}
	splitTextNode(ctx, x, req.NodeID, req.SplitOffset, req.NewNodeID,
		func(old document.TextNode, newID string, tail attributed.Text) document.Node {
			p := document.NewParagraph(newID, tail)
			copyMetadata(p, old)
			// Ending a header starts a plain paragraph.
			if tail.IsEmpty() && document.HeaderLevel(document.BlockTypeOf(old)) > 0 {
				p.SetMetadata(document.MetaBlockType, attributed.Attribution(document.Paragraph))
			}
			return p
		})
}

func splitListItem(ctx *EditContext, x *CommandExecutor, req SplitListItemRequest) {
	item, ok := ctx.Document.NodeByID(req.NodeID).(*document.ListItemNode)
	if !ok {
		x.Fizzle("split target is not a list item", zap.String("node", req.NodeID))
		return
	}
	splitTextNode(ctx, x, req.NodeID, req.SplitOffset, req.NewNodeID,
		func(old document.TextNode, newID string, tail attributed.Text) document.Node {
			n := document.NewListItem(newID, item.Type, item.Indent, tail)
			copyMetadata(n, old)
			return n
		})
}

func splitTask(ctx *EditContext, x *CommandExecutor, req SplitTaskRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(*document.TaskNode); !ok {
		x.Fizzle("split target is not a task", zap.String("node", req.NodeID))
		return
	}
	splitTextNode(ctx, x, req.NodeID, req.SplitOffset, req.NewNodeID,
		func(old document.TextNode, newID string, tail attributed.Text) document.Node {
			n := document.NewTask(newID, false, tail)
			copyMetadata(n, old)
			return n
		})
}

// insertNewline breaks the block at the caret. Empty list items and tasks
// turn into paragraphs instead, code blocks take a literal line break and a
// caret on a block node gets a new paragraph beside it.
func insertNewline(ctx *EditContext, x *CommandExecutor) {
	if ctx.Composer.selection == nil {
		x.Fizzle("no selection")
		return
	}
	x.BeginIntention(IntentionNewline)
	defer x.EndIntention(IntentionNewline)

	deleteSelectionIfExpanded(ctx, x)
	caret := ctx.Composer.selection.Extent
	n := ctx.Document.NodeByID(caret.NodeID)
	if n == nil {
		x.Fizzle("caret references a missing node", zap.String("node", caret.NodeID))
		return
	}
	off, _ := caret.TextOffset()

	switch n := n.(type) {
	case *document.ParagraphNode:
		if document.BlockTypeOf(n) == attributed.Attribution(document.CodeBlock) {
			insertText(ctx, x, caret, attributed.Plain("\n"))
			return
		}
		splitParagraph(ctx, x, SplitParagraphRequest{NodeID: n.ID(), SplitOffset: off})
	case *document.ListItemNode:
		if n.Text().IsEmpty() {
			convertListItemToParagraph(ctx, x, n.ID())
			return
		}
		splitListItem(ctx, x, SplitListItemRequest{NodeID: n.ID(), SplitOffset: off})
	case *document.TaskNode:
		if n.Text().IsEmpty() {
			convertTaskToParagraph(ctx, x, n.ID())
			return
		}
		splitTask(ctx, x, SplitTaskRequest{NodeID: n.ID(), SplitOffset: off})
	default:
		p := document.NewParagraph(document.NewNodeID(), attributed.Text{})
		if caret.Position == document.Upstream {
			x.InsertNodeBefore(n.ID(), p)
			return
		}
		x.InsertNodeAfter(n.ID(), p)
		sel := document.Collapsed(document.At(p.ID(), document.TextPosition(0)))
		x.SetSelection(&sel, "newline")
	}
}
