package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/richdoc/internal/config"
	"github.com/dshills/richdoc/internal/engine"
)

// FmtCmd re-serializes a Markdown file.
type FmtCmd struct {
	File   string `arg:"" help:"Markdown file" type:"existingfile"`
	Syntax string `help:"Markdown dialect (super_editor or normal)"`
	Write  bool   `short:"w" help:"Write the result back to the file instead of stdout"`
}

func (c *FmtCmd) Run(g *Globals) error {
	out, err := format(g, g.Config, c.File, c.Syntax)
	if err != nil {
		return err
	}
	if c.Write {
		return os.WriteFile(c.File, []byte(out+"\n"), 0o644)
	}
	_, err = fmt.Fprintln(g.Out, out)
	return err
}

func format(g *Globals, base *config.Config, path, syntax string) (string, error) {
	cfg := *base
	if syntax != "" {
		cfg.Markdown.Syntax = syntax
	}
	// Formatting never edits, so background checks would be wasted.
	cfg.Spelling.Enabled = false
	cfg.Scripts = config.Scripts{}

	e, err := engine.Open(path, g.engineOptions(engine.WithConfig(&cfg))...)
	if err != nil {
		return "", err
	}
	defer e.Close(context.Background())
	return e.Markdown(), nil
}

// WatchCmd re-formats a file every time it is saved. Changes to the
// configuration file are picked up without a restart.
type WatchCmd struct {
	File     string        `arg:"" help:"Markdown file" type:"existingfile"`
	Syntax   string        `help:"Markdown dialect (super_editor or normal)"`
	Debounce time.Duration `help:"Quiet period before re-formatting" default:"100ms"`
}

func (c *WatchCmd) Run(g *Globals) error {
	var (
		mu  sync.Mutex
		cfg = g.Config
	)
	render := func() {
		mu.Lock()
		defer mu.Unlock()
		out, err := format(g, cfg, c.File, c.Syntax)
		if err != nil {
			g.Logger.Warn("format failed", zap.String("file", c.File), zap.Error(err))
			return
		}
		fmt.Fprintf(g.Out, "%s\n%s\n", time.Now().Format(time.TimeOnly), out)
	}
	reload := func(next *config.Config, err error) {
		if err != nil {
			g.Logger.Warn("config reload failed, keeping previous", zap.String("path", g.ConfigPath), zap.Error(err))
			return
		}
		mu.Lock()
		cfg = next
		mu.Unlock()
		g.Logger.Info("config reloaded", zap.String("path", g.ConfigPath))
		render()
	}

	render()
	g.Logger.Info("watching", zap.String("file", c.File), zap.String("config", g.ConfigPath))
	eg, ctx := errgroup.WithContext(g.Ctx)
	eg.Go(func() error { return config.WatchFile(ctx, c.File, c.Debounce, render) })
	eg.Go(func() error { return config.Watch(ctx, g.ConfigPath, reload) })
	return eg.Wait()
}
