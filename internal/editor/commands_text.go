package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// textNodeAt returns the text node and offset addressed by pos.
func textNodeAt(ctx *EditContext, pos document.DocumentPosition) (document.TextNode, int, bool) {
	tn, ok := ctx.Document.NodeByID(pos.NodeID).(document.TextNode)
	if !ok {
		return nil, 0, false
	}
	off, ok := pos.TextOffset()
	if !ok || off < 0 || off > tn.Text().Len() {
		return nil, 0, false
	}
	return tn, off, true
}

// remapComposer rewrites the selection and composing region through fn.
func remapComposer(ctx *EditContext, x *CommandExecutor, reason string, fn func(document.DocumentPosition) document.DocumentPosition) {
	c := ctx.Composer
	if c.selection != nil {
		sel := document.DocumentSelection{Base: fn(c.selection.Base), Extent: fn(c.selection.Extent)}
		if sel != *c.selection {
			x.SetSelection(&sel, reason)
		}
	}
	if c.composing != nil {
		r := document.DocumentRange{Start: fn(c.composing.Start), End: fn(c.composing.End)}
		if r != *c.composing {
			x.SetComposingRegion(&r)
		}
	}
}

func insertText(ctx *EditContext, x *CommandExecutor, pos document.DocumentPosition, text attributed.Text) {
	if text.IsEmpty() {
		return
	}
	_, off, ok := textNodeAt(ctx, pos)
	if !ok {
		x.Fizzle("insertion point is not a text position", zap.Stringer("position", pos))
		return
	}
	x.ChangeNode(pos.NodeID, func(n document.Node) {
		tn := n.(document.TextNode)
		tn.SetText(tn.Text().InsertText(text, off))
	})
	n := text.Len()
	remapComposer(ctx, x, "content-change", func(p document.DocumentPosition) document.DocumentPosition {
		if o, ok := p.TextOffset(); ok && p.NodeID == pos.NodeID && o >= off {
			return document.At(p.NodeID, document.TextPosition(o+n))
		}
		return p
	})
}

func insertPlainText(ctx *EditContext, x *CommandExecutor, req InsertTextRequest) {
	pos := req.Position
	if pos.NodeID == "" {
		sel := ctx.Composer.selection
		if sel == nil {
			x.Fizzle("no caret to insert at")
			return
		}
		pos = sel.Extent
	}
	attrs := req.Attributions
	if req.ApplyPreferences {
		attrs = append(ctx.Composer.Preferences(), attrs...)
	}
	text := attributed.Plain(req.Text)
	for _, a := range attrs {
		next, err := text.AddAttribution(a, attributed.NewRange(0, text.Len()))
		if err != nil {
			x.Fizzle("cannot apply attribution to inserted text", zap.Error(err))
			return
		}
		text = next
	}
	insertText(ctx, x, pos, text)
}

// deletePlan describes the effect of deleting a document range, computed
// before any mutation.
type deletePlan struct {
	start, end   document.DocumentPosition
	startNode    document.Node
	endNode      document.Node
	middle       []string
	removeStart  bool
	removeEnd    bool
	mergeEnd     bool
	startOffset  int
	endOffset    int
	caret        document.DocumentPosition
	replaceStart bool
}

func planDelete(doc *document.Document, r document.DocumentRange) deletePlan {
	p := deletePlan{
		start:     r.Start,
		end:       r.End,
		startNode: doc.NodeByID(r.Start.NodeID),
		endNode:   doc.NodeByID(r.End.NodeID),
	}
	p.startOffset, _ = r.Start.TextOffset()
	p.endOffset, _ = r.End.TextOffset()
	_, startIsText := p.startNode.(document.TextNode)
	_, endIsText := p.endNode.(document.TextNode)

	if p.startNode.ID() == p.endNode.ID() {
		if startIsText {
			p.caret = document.At(p.startNode.ID(), document.TextPosition(p.startOffset))
			return p
		}
		// A fully selected block becomes an empty paragraph with its id.
		p.replaceStart = true
		p.caret = document.At(p.startNode.ID(), document.TextPosition(0))
		return p
	}

	nodes := doc.NodesInside(r.Start, r.End)
	for _, n := range nodes[1 : len(nodes)-1] {
		p.middle = append(p.middle, n.ID())
	}
	p.removeStart = !startIsText && r.Start.Position == document.Upstream
	p.removeEnd = !endIsText && r.End.Position == document.Downstream
	p.mergeEnd = startIsText && endIsText

	switch {
	case startIsText:
		p.caret = document.At(p.startNode.ID(), document.TextPosition(p.startOffset))
	case !p.removeStart:
		p.caret = document.At(p.startNode.ID(), document.Downstream)
	case !p.removeEnd:
		p.caret = document.At(p.endNode.ID(), p.endNode.BeginningPosition())
	default:
		p.removeStart = false
		p.replaceStart = true
		p.caret = document.At(p.startNode.ID(), document.TextPosition(0))
	}
	return p
}

// mapPosition returns where a pre-deletion position ends up.
func (p deletePlan) mapPosition(doc *document.Document, pos document.DocumentPosition) document.DocumentPosition {
	if !doc.Contains(pos.NodeID) {
		return pos
	}
	if doc.ComparePositions(pos, p.start) <= 0 {
		if p.replaceStart && pos.NodeID == p.startNode.ID() {
			return p.caret
		}
		return pos
	}
	if doc.ComparePositions(pos, p.end) <= 0 {
		return p.caret
	}
	if pos.NodeID != p.endNode.ID() {
		return pos
	}
	off, isText := pos.TextOffset()
	if !isText {
		return pos
	}
	if p.mergeEnd || p.startNode.ID() == p.endNode.ID() {
		return document.At(p.startNode.ID(), document.TextPosition(p.startOffset+off-p.endOffset))
	}
	return document.At(pos.NodeID, document.TextPosition(off-p.endOffset))
}

// deleteRange deletes the content between the ends of r and returns the
// caret position after the deletion. It fizzles if r references missing
// positions.
func deleteRange(ctx *EditContext, x *CommandExecutor, a, b document.DocumentPosition) (document.DocumentPosition, bool) {
	doc := ctx.Document
	if !doc.PositionExists(a) || !doc.PositionExists(b) {
		x.Fizzle("delete range references missing content", zap.Stringer("from", a), zap.Stringer("to", b))
		return document.DocumentPosition{}, false
	}
	r := doc.NormalizeRange(a, b)
	if r.IsCollapsed() {
		return r.Start, true
	}
	p := planDelete(doc, r)

	var sel *document.DocumentSelection
	if s := ctx.Composer.selection; s != nil {
		sel = &document.DocumentSelection{Base: p.mapPosition(doc, s.Base), Extent: p.mapPosition(doc, s.Extent)}
	}
	var comp *document.DocumentRange
	if c := ctx.Composer.composing; c != nil {
		comp = &document.DocumentRange{Start: p.mapPosition(doc, c.Start), End: p.mapPosition(doc, c.End)}
	}

	startID, endID := p.startNode.ID(), p.endNode.ID()
	if startID == endID {
		if p.replaceStart {
			x.ReplaceNode(startID, document.NewParagraph(startID, attributed.Text{}))
		} else {
			x.ChangeNode(startID, func(n document.Node) {
				tn := n.(document.TextNode)
				tn.SetText(tn.Text().Delete(p.startOffset, p.endOffset))
			})
		}
	} else {
		var tail attributed.Text
		if tn, ok := p.endNode.(document.TextNode); ok {
			tail = tn.Text().CopyRange(p.endOffset, tn.Text().Len())
		}
		for _, id := range p.middle {
			x.DeleteNode(id)
		}
		switch {
		case p.replaceStart:
			x.ReplaceNode(startID, document.NewParagraph(startID, attributed.Text{}))
		case p.removeStart:
			x.DeleteNode(startID)
		default:
			if _, ok := p.startNode.(document.TextNode); ok {
				x.ChangeNode(startID, func(n document.Node) {
					tn := n.(document.TextNode)
					head := tn.Text().CopyRange(0, p.startOffset)
					if p.mergeEnd {
						head = head.Append(tail)
					}
					tn.SetText(head)
				})
			}
		}
		switch {
		case p.mergeEnd, p.removeEnd:
			x.DeleteNode(endID)
		default:
			if _, ok := p.endNode.(document.TextNode); ok {
				x.ChangeNode(endID, func(n document.Node) {
					n.(document.TextNode).SetText(tail)
				})
			}
		}
	}

	if sel != nil {
		x.SetSelection(sel, "content-change")
	}
	if comp != nil {
		x.SetComposingRegion(comp)
	}
	return p.caret, true
}

func deleteSelectionIfExpanded(ctx *EditContext, x *CommandExecutor) bool {
	sel := ctx.Composer.selection
	if sel == nil || sel.IsCollapsed() {
		return false
	}
	caret, ok := deleteRange(ctx, x, sel.Base, sel.Extent)
	if ok {
		c := document.Collapsed(caret)
		x.SetSelection(&c, "delete")
	}
	return true
}

func deleteUpstreamCharacter(ctx *EditContext, x *CommandExecutor) {
	sel := ctx.Composer.selection
	if sel == nil {
		x.Fizzle("no selection")
		return
	}
	if deleteSelectionIfExpanded(ctx, x) {
		return
	}
	caret := sel.Extent
	n := ctx.Document.NodeByID(caret.NodeID)
	if n == nil {
		x.Fizzle("caret references a missing node", zap.String("node", caret.NodeID))
		return
	}
	if tn, ok := n.(document.TextNode); ok {
		off, _ := caret.TextOffset()
		if off == 0 {
			deleteAtNodeStart(ctx, x, n)
			return
		}
		from := previousGraphemeBoundary(tn.Text().String(), off)
		deleteRange(ctx, x, document.At(n.ID(), document.TextPosition(from)), caret)
		return
	}
	if caret.Position == document.Upstream {
		deleteAtNodeStart(ctx, x, n)
		return
	}
	deleteRange(ctx, x, document.At(n.ID(), document.Upstream), caret)
}

// deleteAtNodeStart handles a backspace before the first character of n.
// The previous node is merged into when both are text, deleted when it is
// empty text or cannot hold the caret, and otherwise only receives the caret.
func deleteAtNodeStart(ctx *EditContext, x *CommandExecutor, n document.Node) {
	prev := ctx.Document.NodeBefore(n.ID())
	if prev == nil {
		return
	}
	prevText, prevIsText := prev.(document.TextNode)
	_, curIsText := n.(document.TextNode)
	switch {
	case prevIsText && curIsText:
		combineNodes(ctx, x, prev.ID(), n.ID())
	case prevIsText && prevText.Text().IsEmpty(), !prev.IsSelectable():
		x.DeleteNode(prev.ID())
		repairComposer(ctx, x, nil)
	default:
		c := document.Collapsed(document.At(prev.ID(), prev.EndPosition()))
		x.SetSelection(&c, "delete")
	}
}

func deleteDownstreamCharacter(ctx *EditContext, x *CommandExecutor) {
	sel := ctx.Composer.selection
	if sel == nil {
		x.Fizzle("no selection")
		return
	}
	if deleteSelectionIfExpanded(ctx, x) {
		return
	}
	caret := sel.Extent
	n := ctx.Document.NodeByID(caret.NodeID)
	if n == nil {
		x.Fizzle("caret references a missing node", zap.String("node", caret.NodeID))
		return
	}
	if tn, ok := n.(document.TextNode); ok {
		off, _ := caret.TextOffset()
		if off == tn.Text().Len() {
			deleteAtNodeEnd(ctx, x, n)
			return
		}
		to := nextGraphemeBoundary(tn.Text().String(), off)
		deleteRange(ctx, x, caret, document.At(n.ID(), document.TextPosition(to)))
		return
	}
	if caret.Position == document.Downstream {
		deleteAtNodeEnd(ctx, x, n)
		return
	}
	deleteRange(ctx, x, caret, document.At(n.ID(), document.Downstream))
}

// deleteAtNodeEnd mirrors deleteAtNodeStart for the node after n.
func deleteAtNodeEnd(ctx *EditContext, x *CommandExecutor, n document.Node) {
	next := ctx.Document.NodeAfter(n.ID())
	if next == nil {
		return
	}
	nextText, nextIsText := next.(document.TextNode)
	_, curIsText := n.(document.TextNode)
	switch {
	case nextIsText && curIsText:
		combineNodes(ctx, x, n.ID(), next.ID())
	case nextIsText && nextText.Text().IsEmpty(), !next.IsSelectable():
		x.DeleteNode(next.ID())
		repairComposer(ctx, x, nil)
	default:
		c := document.Collapsed(document.At(next.ID(), next.BeginningPosition()))
		x.SetSelection(&c, "delete")
	}
}

// combineNodes appends the text of second to first, removes second and puts
// the caret at the join.
func combineNodes(ctx *EditContext, x *CommandExecutor, firstID, secondID string) {
	first, ok1 := ctx.Document.NodeByID(firstID).(document.TextNode)
	second, ok2 := ctx.Document.NodeByID(secondID).(document.TextNode)
	if !ok1 || !ok2 || firstID == secondID {
		x.Fizzle("combine requires two distinct text nodes", zap.String("first", firstID), zap.String("second", secondID))
		return
	}
	join := first.Text().Len()
	tail := second.Text()

	x.ChangeNode(firstID, func(n document.Node) {
		tn := n.(document.TextNode)
		tn.SetText(tn.Text().Append(tail))
	})
	x.DeleteNode(secondID)
	remapComposer(ctx, x, "combine", func(p document.DocumentPosition) document.DocumentPosition {
		if off, ok := p.TextOffset(); ok && p.NodeID == secondID {
			return document.At(firstID, document.TextPosition(join+off))
		}
		return p
	})
}
