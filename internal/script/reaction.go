package script

import (
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/editor"
)

// Reaction runs a Lua script's react function after every editor
// transaction pass.
type Reaction struct {
	name   string
	state  *State
	bridge *bridge
	logger *zap.Logger
	errors int
}

// Option configures a Reaction.
type Option func(*reactionConfig)

type reactionConfig struct {
	name    string
	logger  *zap.Logger
	timeout time.Duration
}

// WithName names the script in log output.
func WithName(name string) Option {
	return func(c *reactionConfig) { c.name = name }
}

// WithLogger sets the logger for script errors and print.
func WithLogger(logger *zap.Logger) Option {
	return func(c *reactionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithScriptTimeout bounds each react call.
func WithScriptTimeout(d time.Duration) Option {
	return func(c *reactionConfig) { c.timeout = d }
}

// NewReaction loads src, which must define a global react(events)
// function.
func NewReaction(src string, opts ...Option) (*Reaction, error) {
	cfg := reactionConfig{name: "script", logger: zap.NewNop(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With(zap.String("script", cfg.name))
	r := &Reaction{
		name:   cfg.name,
		state:  NewState(WithTimeout(cfg.timeout), WithStateLogger(logger)),
		bridge: &bridge{},
		logger: logger,
	}
	r.state.Register("doc", r.bridge.docFuncs())
	r.state.Register("editor", r.bridge.editorFuncs())

	if err := r.state.DoString(src); err != nil {
		r.state.Close()
		return nil, fmt.Errorf("load %s: %w", cfg.name, err)
	}
	if _, ok := r.state.L.GetGlobal("react").(*lua.LFunction); !ok {
		r.state.Close()
		return nil, fmt.Errorf("load %s: %w", cfg.name, ErrNoReactFunction)
	}
	return r, nil
}

// LoadFile reads a reaction script from disk.
func LoadFile(path string, opts ...Option) (*Reaction, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return NewReaction(string(src), append([]Option{WithName(path)}, opts...)...)
}

// React implements editor.Reaction. Script errors are logged and do not
// abort the transaction.
func (r *Reaction) React(ctx *editor.EditContext, ed *editor.Editor, events []editor.Event) {
	r.bridge.ctx, r.bridge.ed = ctx, ed
	defer func() { r.bridge.ctx, r.bridge.ed = nil, nil }()

	if _, err := r.state.Call("react", eventTable(r.state.L, events)); err != nil {
		r.errors++
		r.logger.Warn("script reaction failed", zap.Error(err))
	}
}

// Errors returns how many react calls have failed.
func (r *Reaction) Errors() int { return r.errors }

// Close releases the interpreter.
func (r *Reaction) Close() error { return r.state.Close() }
