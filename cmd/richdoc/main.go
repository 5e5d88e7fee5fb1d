// Command richdoc formats Markdown documents and replays recorded editing
// sessions against the rich-text editing core.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/config"
	"github.com/dshills/richdoc/internal/engine"
	"github.com/dshills/richdoc/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI defines the command-line interface.
type CLI struct {
	Config   string `name:"config" short:"c" help:"Path to configuration file" type:"path" default:"richdoc.toml"`
	LogLevel string `name:"log-level" help:"Override the configured log level"`

	Fmt       FmtCmd       `cmd:"" help:"Parse a Markdown file and print it re-serialized"`
	Watch     WatchCmd     `cmd:"" help:"Re-format a Markdown file whenever it changes"`
	IMEReplay IMEReplayCmd `cmd:"" name:"ime-replay" help:"Replay a recorded IME session against a document"`
	UndoDemo  UndoDemoCmd  `cmd:"" name:"undo-demo" help:"Apply a series of edits, then undo them one by one"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// Globals is shared by every command.
type Globals struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Out        io.Writer
	Ctx        context.Context
}

// engineOptions returns the options every command builds engines with.
func (g *Globals) engineOptions(extra ...engine.Option) []engine.Option {
	return append([]engine.Option{engine.WithConfig(g.Config), engine.WithLogger(g.Logger)}, extra...)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.Out, "richdoc %s (%s, %s)\n", version, commit, date)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("richdoc"),
		kong.Description("Rich-text document tools"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	logger, err := logging.NewWithWriter(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	g := &Globals{Config: cfg, ConfigPath: cli.Config, Logger: logger, Out: stdout, Ctx: ctx}
	if err := kctx.Run(g); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
