package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/engine/document"
)

func checkNewNode(ctx *EditContext, x *CommandExecutor, n document.Node) bool {
	if n == nil {
		x.Fizzle("no node given")
		return false
	}
	if ctx.Document.Contains(n.ID()) {
		x.Fizzle("node id already in document", zap.String("node", n.ID()))
		return false
	}
	return true
}

func insertNodeAtIndex(ctx *EditContext, x *CommandExecutor, req InsertNodeAtIndexRequest) {
	if !checkNewNode(ctx, x, req.Node) {
		return
	}
	if !x.InsertNodeAt(req.Index, req.Node.Copy()) {
		x.Fizzle("index out of range", zap.Int("index", req.Index))
	}
}

func insertNodeBeside(ctx *EditContext, x *CommandExecutor, existingID string, n document.Node, after bool) {
	if !checkNewNode(ctx, x, n) {
		return
	}
	if !ctx.Document.Contains(existingID) {
		x.Fizzle("node not found", zap.String("node", existingID))
		return
	}
	if after {
		x.InsertNodeAfter(existingID, n.Copy())
	} else {
		x.InsertNodeBefore(existingID, n.Copy())
	}
}

func replaceNode(ctx *EditContext, x *CommandExecutor, req ReplaceNodeRequest) {
	doc := ctx.Document
	if req.Node == nil || !doc.Contains(req.ExistingNodeID) {
		x.Fizzle("node not found", zap.String("node", req.ExistingNodeID))
		return
	}
	if req.Node.ID() != req.ExistingNodeID && doc.Contains(req.Node.ID()) {
		x.Fizzle("node id already in document", zap.String("node", req.Node.ID()))
		return
	}
	var fallback *document.DocumentPosition
	if req.Node.IsSelectable() {
		p := document.At(req.Node.ID(), req.Node.BeginningPosition())
		fallback = &p
	} else {
		fallback = caretFallback(doc, req.ExistingNodeID)
	}
	x.ReplaceNode(req.ExistingNodeID, req.Node.Copy())
	repairComposer(ctx, x, fallback)
}

func deleteNode(ctx *EditContext, x *CommandExecutor, id string) {
	doc := ctx.Document
	if !doc.Contains(id) {
		x.Fizzle("node not found", zap.String("node", id))
		return
	}
	fallback := caretFallback(doc, id)
	x.DeleteNode(id)
	repairComposer(ctx, x, fallback)
}

func moveNode(ctx *EditContext, x *CommandExecutor, req MoveNodeRequest) {
	doc := ctx.Document
	if !doc.Contains(req.NodeID) {
		x.Fizzle("node not found", zap.String("node", req.NodeID))
		return
	}
	if req.NewIndex < 0 || req.NewIndex >= doc.Len() {
		x.Fizzle("index out of range", zap.Int("index", req.NewIndex))
		return
	}
	x.MoveNode(req.NodeID, req.NewIndex)
}
