package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine"
	"github.com/dshills/richdoc/internal/engine/document"
	"github.com/dshills/richdoc/internal/ime"
)

// IMEReplayCmd applies a recorded delta log to a document.
type IMEReplayCmd struct {
	Doc      string `arg:"" help:"Markdown document to start from" type:"existingfile"`
	Deltas   string `arg:"" help:"Recorded session, one JSON message per line" type:"existingfile"`
	Platform string `help:"Platform the session was recorded on" default:""`
	Strict   bool   `help:"Stop at the first message that fails to apply"`
}

// replayConn records the editing states sent to the platform.
type replayConn struct {
	sent []ime.EditingValue
}

func (c *replayConn) SetEditingState(v ime.EditingValue) error {
	c.sent = append(c.sent, v)
	return nil
}

func (c *replayConn) Close() error { return nil }

func (c *IMEReplayCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.Deltas)
	if err != nil {
		return err
	}
	entries, err := ime.DecodeLog(data)
	if err != nil {
		return err
	}

	cfg := *g.Config
	if c.Platform != "" {
		if _, err := ime.ParsePlatform(c.Platform); err != nil {
			return err
		}
		cfg.IME.Platform = c.Platform
	}
	e, err := engine.Open(c.Doc, g.engineOptions(engine.WithConfig(&cfg))...)
	if err != nil {
		return err
	}
	defer e.Close(context.Background())

	// A focused editor starts with the caret at the end of the document.
	if last := e.Document().Last(); last != nil {
		sel := document.Collapsed(document.At(last.ID(), last.EndPosition()))
		if _, err := e.Execute(editor.ChangeSelectionRequest{Selection: &sel, Reason: "replay"}); err != nil {
			return err
		}
	}
	conn := &replayConn{}
	if err := e.AttachIME(conn); err != nil {
		return err
	}

	var failed []error
	for i, entry := range entries {
		if entry.Action != "" {
			err = e.PerformAction(entry.Action)
		} else {
			err = e.ApplyDeltas(entry.Deltas)
		}
		if err == nil {
			continue
		}
		err = fmt.Errorf("message %d: %w", i+1, err)
		if c.Strict {
			return err
		}
		g.Logger.Warn("replay message failed", zap.Int("message", i+1), zap.Error(err))
		failed = append(failed, err)
	}

	state, err := ime.EncodeEditingState(e.Translator().PlatformValue())
	if err != nil {
		return err
	}
	fmt.Fprintln(g.Out, e.Markdown())
	fmt.Fprintf(g.Out, "\n%s\n", state)
	g.Logger.Info("replay finished",
		zap.Int("messages", len(entries)),
		zap.Int("states_sent", len(conn.sent)),
		zap.Int("failed", len(failed)))
	return errors.Join(failed...)
}
