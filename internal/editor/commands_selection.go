package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
)

func changeSelection(ctx *EditContext, x *CommandExecutor, req ChangeSelectionRequest) {
	if s := req.Selection; s != nil {
		if !ctx.Document.PositionExists(s.Base) || !ctx.Document.PositionExists(s.Extent) {
			x.Fizzle("selection references missing content", zap.Stringer("selection", s))
			return
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = "user"
	}
	x.SetSelection(req.Selection, reason)
}

func changeComposingRegion(ctx *EditContext, x *CommandExecutor, req ChangeComposingRegionRequest) {
	if r := req.Region; r != nil {
		if !ctx.Document.PositionExists(r.Start) || !ctx.Document.PositionExists(r.End) {
			x.Fizzle("composing region references missing content", zap.Stringer("region", r))
			return
		}
	}
	x.SetComposingRegion(req.Region)
}

// repairComposer drops composer state that no longer resolves after a
// structural edit. A selection with a dangling end collapses to fallback, or
// is cleared when fallback is nil.
func repairComposer(ctx *EditContext, x *CommandExecutor, fallback *document.DocumentPosition) {
	doc := ctx.Document
	c := ctx.Composer
	if s := c.selection; s != nil && (!doc.PositionExists(s.Base) || !doc.PositionExists(s.Extent)) {
		if fallback != nil && doc.PositionExists(*fallback) {
			sel := document.Collapsed(*fallback)
			x.SetSelection(&sel, "content-change")
		} else {
			x.SetSelection(nil, "content-change")
		}
	}
	if r := c.composing; r != nil && (!doc.PositionExists(r.Start) || !doc.PositionExists(r.End)) {
		x.SetComposingRegion(nil)
	}
}

// caretFallback returns where the caret goes when the node id disappears: the
// end of the previous selectable node, else the start of the next one.
func caretFallback(doc *document.Document, id string) *document.DocumentPosition {
	for n := doc.NodeBefore(id); n != nil; n = doc.NodeBefore(n.ID()) {
		if n.IsSelectable() {
			p := document.At(n.ID(), n.EndPosition())
			return &p
		}
	}
	for n := doc.NodeAfter(id); n != nil; n = doc.NodeAfter(n.ID()) {
		if n.IsSelectable() {
			p := document.At(n.ID(), n.BeginningPosition())
			return &p
		}
	}
	return nil
}
