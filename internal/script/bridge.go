package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

var inlineAttributions = map[string]attributed.Attribution{
	"bold":          attributed.Bold,
	"italics":       attributed.Italics,
	"underline":     attributed.Underline,
	"strikethrough": attributed.Strikethrough,
	"code":          attributed.Code,
}

var alignments = map[string]document.TextAlign{
	"left":    document.AlignLeft,
	"center":  document.AlignCenter,
	"right":   document.AlignRight,
	"justify": document.AlignJustify,
}

// bridge exposes the document and editor of the running reaction to Lua.
// It is only bound while react executes.
type bridge struct {
	ctx *editor.EditContext
	ed  *editor.Editor
}

func (b *bridge) docFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"text":       b.text,
		"block_type": b.blockType,
		"kind":       b.kind,
		"ids":        b.ids,
	}
}

func (b *bridge) editorFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"insert_text":    b.insertText,
		"delete_text":    b.deleteText,
		"set_block_type": b.setBlockType,
		"set_alignment":  b.setAlignment,
		"toggle":         b.toggle,
	}
}

func (b *bridge) document(L *lua.LState) *document.Document {
	if b.ctx == nil {
		L.RaiseError("document is only available inside react")
	}
	return b.ctx.Document
}

func (b *bridge) editor(L *lua.LState) *editor.Editor {
	if b.ed == nil {
		L.RaiseError("editor is only available inside react")
	}
	return b.ed
}

func (b *bridge) node(L *lua.LState) document.Node {
	return b.document(L).NodeByID(L.CheckString(1))
}

func (b *bridge) text(L *lua.LState) int {
	tn, ok := b.node(L).(document.TextNode)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(tn.Text().String()))
	return 1
}

func (b *bridge) blockType(L *lua.LState) int {
	n := b.node(L)
	if n == nil {
		L.Push(lua.LNil)
		return 1
	}
	named, ok := document.BlockTypeOf(n).(attributed.NamedAttribution)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(named.Name))
	return 1
}

func (b *bridge) kind(L *lua.LState) int {
	var k string
	switch b.node(L).(type) {
	case *document.ParagraphNode:
		k = "paragraph"
	case *document.ListItemNode:
		k = "list_item"
	case *document.TaskNode:
		k = "task"
	case *document.ImageNode:
		k = "image"
	case *document.HorizontalRuleNode:
		k = "horizontal_rule"
	default:
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(k))
	return 1
}

func (b *bridge) ids(L *lua.LState) int {
	t := L.NewTable()
	for _, n := range b.document(L).Nodes() {
		t.Append(lua.LString(n.ID()))
	}
	L.Push(t)
	return 1
}

func (b *bridge) insertText(L *lua.LState) int {
	id, offset, text := L.CheckString(1), L.CheckInt(2), L.CheckString(3)
	b.editor(L).Execute(editor.InsertTextRequest{
		Position: document.At(id, document.TextPosition(offset)),
		Text:     text,
	})
	return 0
}

func (b *bridge) textRange(L *lua.LState) document.DocumentRange {
	id, start, end := L.CheckString(1), L.CheckInt(2), L.CheckInt(3)
	return document.DocumentRange{
		Start: document.At(id, document.TextPosition(start)),
		End:   document.At(id, document.TextPosition(end)),
	}
}

func (b *bridge) deleteText(L *lua.LState) int {
	r := b.textRange(L)
	b.editor(L).Execute(editor.DeleteContentRequest{Range: r})
	return 0
}

func (b *bridge) setBlockType(L *lua.LState) int {
	id, name := L.CheckString(1), L.CheckString(2)
	bt, ok := document.BlockTypeByName(name)
	if !ok {
		L.ArgError(2, "unknown block type "+name)
		return 0
	}
	b.editor(L).Execute(editor.ChangeBlockTypeRequest{NodeID: id, BlockType: bt})
	return 0
}

func (b *bridge) setAlignment(L *lua.LState) int {
	id, name := L.CheckString(1), L.CheckString(2)
	a, ok := alignments[name]
	if !ok {
		L.ArgError(2, "unknown alignment "+name)
		return 0
	}
	b.editor(L).Execute(editor.ChangeAlignmentRequest{NodeID: id, Alignment: a})
	return 0
}

func (b *bridge) toggle(L *lua.LState) int {
	r := b.textRange(L)
	name := L.CheckString(4)
	a, ok := inlineAttributions[name]
	if !ok {
		L.ArgError(4, "unknown attribution "+name)
		return 0
	}
	b.editor(L).Execute(editor.ToggleTextAttributionsRequest{Range: r, Attributions: []attributed.Attribution{a}})
	return 0
}

// eventTable converts events to a Lua array of {topic=..., node=...}.
func eventTable(L *lua.LState, events []editor.Event) *lua.LTable {
	t := L.CreateTable(len(events), 0)
	for _, ev := range events {
		e := L.CreateTable(0, 2)
		e.RawSetString("topic", lua.LString(string(ev.Topic())))
		if ne, ok := ev.(editor.NodeEvent); ok {
			e.RawSetString("node", lua.LString(ne.ChangedNodeID()))
		}
		t.Append(e)
	}
	return t
}
