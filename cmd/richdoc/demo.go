package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine"
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// UndoDemoCmd types a short document with markdown shortcuts, undoes every
// step and finally redoes them all at once, printing the Markdown after each
// step.
type UndoDemoCmd struct {
	Text string `help:"Paragraph text to type" default:"Hello rich text"`
}

func (c *UndoDemoCmd) Run(g *Globals) error {
	cfg := *g.Config
	cfg.Editor.MarkdownShortcuts = true
	e, err := engine.New(nil, g.engineOptions(engine.WithConfig(&cfg))...)
	if err != nil {
		return err
	}
	defer e.Close(context.Background())

	id := e.Document().First().ID()
	start := document.Collapsed(document.At(id, document.TextPosition(0)))
	first := strings.Fields(c.Text)
	boldEnd := 0
	if len(first) > 0 {
		boldEnd = len([]rune(first[0]))
	}

	steps := []struct {
		name     string
		requests []editor.Request
	}{
		{"place caret", []editor.Request{editor.ChangeSelectionRequest{Selection: &start}}},
		{"type header shortcut", []editor.Request{editor.InsertTextRequest{Text: "## ", ApplyPreferences: true}}},
		{"type text", []editor.Request{editor.InsertTextRequest{Text: c.Text, ApplyPreferences: true}}},
		{"bold first word", []editor.Request{editor.ToggleTextAttributionsRequest{
			Range: document.DocumentRange{
				Start: document.At(id, document.TextPosition(0)),
				End:   document.At(id, document.TextPosition(boldEnd)),
			},
			Attributions: []attributed.Attribution{attributed.Bold},
		}}},
		{"new paragraph", []editor.Request{editor.InsertNewlineRequest{}}},
		{"type list shortcut", []editor.Request{editor.InsertTextRequest{Text: "* ", ApplyPreferences: true}}},
		{"type item", []editor.Request{editor.InsertTextRequest{Text: "first item", ApplyPreferences: true}}},
	}

	for _, s := range steps {
		if _, err := e.Execute(s.requests...); err != nil {
			return err
		}
		c.show(g, "do", s.name, e.Markdown())
	}
	typed := e.Checkpoint()

	for {
		name, ok := e.Editor().NextUndo()
		if !ok {
			break
		}
		if _, err := e.Undo(); err != nil {
			return err
		}
		c.show(g, "undo", name, e.Markdown())
	}

	n := e.Editor().RedoCount()
	if _, err := e.RedoToCheckpoint(typed); err != nil {
		return err
	}
	c.show(g, "redo", fmt.Sprintf("%d transactions", n), e.Markdown())
	return nil
}

func (c *UndoDemoCmd) show(g *Globals, verb, name, md string) {
	fmt.Fprintf(g.Out, "%-5s %-22s %q\n", verb, name, md)
}
