package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

func changeBlockType(ctx *EditContext, x *CommandExecutor, req ChangeBlockTypeRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(*document.ParagraphNode); !ok {
		x.Fizzle("block type applies to paragraphs only", zap.String("node", req.NodeID))
		return
	}
	bt := req.BlockType
	if bt == nil {
		bt = document.Paragraph
	}
	x.ChangeNode(req.NodeID, func(n document.Node) {
		n.SetMetadata(document.MetaBlockType, bt)
	})
}

func changeAlignment(ctx *EditContext, x *CommandExecutor, req ChangeAlignmentRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(document.TextNode); !ok {
		x.Fizzle("alignment applies to text nodes only", zap.String("node", req.NodeID))
		return
	}
	switch req.Alignment {
	case document.AlignLeft, document.AlignCenter, document.AlignRight, document.AlignJustify:
	default:
		x.Fizzle("unknown alignment", zap.String("alignment", string(req.Alignment)))
		return
	}
	x.ChangeNode(req.NodeID, func(n document.Node) {
		if req.Alignment == document.AlignLeft {
			n.SetMetadata(document.MetaTextAlign, nil)
			return
		}
		n.SetMetadata(document.MetaTextAlign, req.Alignment)
	})
}

// swapNode replaces the node with a new kind under the same id.
func swapNode(ctx *EditContext, x *CommandExecutor, old document.Node, n document.Node) {
	x.ReplaceNode(old.ID(), n)
	repairComposer(ctx, x, nil)
}

func convertParagraphToListItem(ctx *EditContext, x *CommandExecutor, req ConvertParagraphToListItemRequest) {
	p, ok := ctx.Document.NodeByID(req.NodeID).(*document.ParagraphNode)
	if !ok {
		x.Fizzle("node is not a paragraph", zap.String("node", req.NodeID))
		return
	}
	item := document.NewListItem(p.ID(), req.Type, 0, p.Text())
	copyMetadata(item, p, document.MetaBlockType)
	swapNode(ctx, x, p, item)
}

func convertListItemToParagraph(ctx *EditContext, x *CommandExecutor, id string) {
	item, ok := ctx.Document.NodeByID(id).(*document.ListItemNode)
	if !ok {
		x.Fizzle("node is not a list item", zap.String("node", id))
		return
	}
	p := document.NewParagraph(item.ID(), item.Text())
	copyMetadata(p, item)
	swapNode(ctx, x, item, p)
}

func changeListItemType(ctx *EditContext, x *CommandExecutor, req ChangeListItemTypeRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(*document.ListItemNode); !ok {
		x.Fizzle("node is not a list item", zap.String("node", req.NodeID))
		return
	}
	x.ChangeNode(req.NodeID, func(n document.Node) {
		item := n.(*document.ListItemNode)
		if item.Type != req.Type {
			item.Type = req.Type
			item.Start = 0
		}
	})
}

// indentListItem nests an item one level deeper. The previous node must be a
// list item at the same or a deeper level.
func indentListItem(ctx *EditContext, x *CommandExecutor, id string) {
	doc := ctx.Document
	item, ok := doc.NodeByID(id).(*document.ListItemNode)
	if !ok {
		x.Fizzle("node is not a list item", zap.String("node", id))
		return
	}
	if item.Indent >= ctx.MaxListIndent {
		x.Fizzle("list item already at maximum indent", zap.String("node", id), zap.Int("indent", item.Indent))
		return
	}
	prev, ok := doc.NodeBefore(id).(*document.ListItemNode)
	if !ok || prev.Indent < item.Indent {
		x.Fizzle("list item has no parent to nest under", zap.String("node", id))
		return
	}
	x.ChangeNode(id, func(n document.Node) {
		n.(*document.ListItemNode).Indent++
	})
}

func unindentListItem(ctx *EditContext, x *CommandExecutor, id string) {
	item, ok := ctx.Document.NodeByID(id).(*document.ListItemNode)
	if !ok {
		x.Fizzle("node is not a list item", zap.String("node", id))
		return
	}
	if item.Indent == 0 {
		convertListItemToParagraph(ctx, x, id)
		return
	}
	x.ChangeNode(id, func(n document.Node) {
		n.(*document.ListItemNode).Indent--
	})
}

func convertParagraphToTask(ctx *EditContext, x *CommandExecutor, req ConvertParagraphToTaskRequest) {
	p, ok := ctx.Document.NodeByID(req.NodeID).(*document.ParagraphNode)
	if !ok {
		x.Fizzle("node is not a paragraph", zap.String("node", req.NodeID))
		return
	}
	task := document.NewTask(p.ID(), req.Complete, p.Text())
	copyMetadata(task, p, document.MetaBlockType)
	swapNode(ctx, x, p, task)
}

func convertTaskToParagraph(ctx *EditContext, x *CommandExecutor, id string) {
	task, ok := ctx.Document.NodeByID(id).(*document.TaskNode)
	if !ok {
		x.Fizzle("node is not a task", zap.String("node", id))
		return
	}
	p := document.NewParagraph(task.ID(), task.Text())
	copyMetadata(p, task)
	swapNode(ctx, x, task, p)
}

func changeTaskCompletion(ctx *EditContext, x *CommandExecutor, req ChangeTaskCompletionRequest) {
	if _, ok := ctx.Document.NodeByID(req.NodeID).(*document.TaskNode); !ok {
		x.Fizzle("node is not a task", zap.String("node", req.NodeID))
		return
	}
	x.ChangeNode(req.NodeID, func(n document.Node) {
		n.(*document.TaskNode).Complete = req.Complete
	})
}

// textSegment is the part of one text node covered by a document range.
type textSegment struct {
	id    string
	text  attributed.Text
	rng   attributed.Range
	after attributed.Text
}

// textSegments returns the non-empty text segments covered by r, or false if
// r does not resolve.
func textSegments(doc *document.Document, r document.DocumentRange) ([]textSegment, bool) {
	if !doc.PositionExists(r.Start) || !doc.PositionExists(r.End) {
		return nil, false
	}
	r = doc.NormalizeRange(r.Start, r.End)
	var segs []textSegment
	for _, n := range doc.NodesInside(r.Start, r.End) {
		tn, ok := n.(document.TextNode)
		if !ok {
			continue
		}
		start, end := 0, tn.Text().Len()
		if n.ID() == r.Start.NodeID {
			start, _ = r.Start.TextOffset()
		}
		if n.ID() == r.End.NodeID {
			end, _ = r.End.TextOffset()
		}
		if start < end {
			segs = append(segs, textSegment{id: n.ID(), text: tn.Text(), rng: attributed.NewRange(start, end)})
		}
	}
	return segs, true
}

// commitSegments writes each segment's new text back to its node.
func commitSegments(x *CommandExecutor, segs []textSegment) {
	for _, s := range segs {
		after := s.after
		x.ChangeNode(s.id, func(n document.Node) {
			n.(document.TextNode).SetText(after)
		})
	}
}

func addTextAttributions(ctx *EditContext, x *CommandExecutor, req AddTextAttributionsRequest) {
	segs, ok := textSegments(ctx.Document, req.Range)
	if !ok {
		x.Fizzle("range references missing content", zap.Stringer("range", req.Range))
		return
	}
	for i := range segs {
		t := segs[i].text
		for _, a := range req.Attributions {
			var err error
			if t, err = t.AddAttribution(a, segs[i].rng); err != nil {
				x.Fizzle("cannot add attribution", zap.String("node", segs[i].id), zap.Error(err))
				return
			}
		}
		segs[i].after = t
	}
	commitSegments(x, segs)
}

func removeTextAttributions(ctx *EditContext, x *CommandExecutor, req RemoveTextAttributionsRequest) {
	segs, ok := textSegments(ctx.Document, req.Range)
	if !ok {
		x.Fizzle("range references missing content", zap.Stringer("range", req.Range))
		return
	}
	for i := range segs {
		t := segs[i].text
		for _, a := range req.Attributions {
			t = t.RemoveAttribution(a, segs[i].rng)
		}
		segs[i].after = t
	}
	commitSegments(x, segs)
}

// toggleTextAttributions removes each attribution when it already covers the
// whole range and adds it otherwise. On a collapsed range it toggles the
// composer's typing preferences instead.
func toggleTextAttributions(ctx *EditContext, x *CommandExecutor, req ToggleTextAttributionsRequest) {
	segs, ok := textSegments(ctx.Document, req.Range)
	if !ok {
		x.Fizzle("range references missing content", zap.Stringer("range", req.Range))
		return
	}
	if ctx.Document.ComparePositions(req.Range.Start, req.Range.End) == 0 {
		prefs := ctx.Composer.Preferences()
		for _, a := range req.Attributions {
			prefs = togglePreference(prefs, a)
		}
		ctx.Composer.SetPreferences(prefs)
		return
	}
	for i := range segs {
		segs[i].after = segs[i].text
	}
	if len(segs) == 0 {
		return
	}
	for _, a := range req.Attributions {
		present := true
		for _, s := range segs {
			if !s.text.HasAttributionThroughout(a, s.rng) {
				present = false
				break
			}
		}
		for i := range segs {
			if present {
				segs[i].after = segs[i].after.RemoveAttribution(a, segs[i].rng)
				continue
			}
			next, err := segs[i].after.AddAttribution(a, segs[i].rng)
			if err != nil {
				x.Fizzle("cannot add attribution", zap.String("node", segs[i].id), zap.Error(err))
				return
			}
			segs[i].after = next
		}
	}
	commitSegments(x, segs)
}

func togglePreference(prefs attributed.Set, a attributed.Attribution) attributed.Set {
	if !prefs.Contains(a) {
		return append(prefs, a)
	}
	out := prefs[:0:0]
	for _, p := range prefs {
		if p != a {
			out = append(out, p)
		}
	}
	return out
}
