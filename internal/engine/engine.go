package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/config"
	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
	"github.com/dshills/richdoc/internal/engine/history"
	"github.com/dshills/richdoc/internal/ime"
	"github.com/dshills/richdoc/internal/markdown"
	"github.com/dshills/richdoc/internal/script"
	"github.com/dshills/richdoc/internal/spelling"
)

type namedScript struct {
	name, src string
}

// Engine ties an editor to the components configured around it: the
// Markdown codec, the IME translator, spell checking and scripted
// reactions.
//
// All operations are safe for concurrent use. Edits are serialized by a
// single mutex; the editor itself is never touched concurrently.
type Engine struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *zap.Logger

	ed         *editor.Editor
	codec      *markdown.Codec
	translator *ime.Translator
	spelling   *spelling.Reaction
	scripts    []*script.Reaction

	checker       spelling.Checker
	extra         []editor.Reaction
	inlineScripts []namedScript
	newID         func() string

	closed bool
}

// New creates an engine editing doc. A nil doc starts with one empty
// paragraph.
func New(doc *document.Document, opts ...Option) (*Engine, error) {
	e, err := configure(opts)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = document.New(document.NewParagraph(e.nodeID(), attributed.Plain("")))
	}
	if err := e.start(doc); err != nil {
		return nil, err
	}
	return e, nil
}

// nodeID returns a fresh id from the configured generator.
func (e *Engine) nodeID() string {
	if e.newID != nil {
		return e.newID()
	}
	return document.NewNodeID()
}

// NewFromMarkdown creates an engine editing the parsed Markdown src.
func NewFromMarkdown(src string, opts ...Option) (*Engine, error) {
	e, err := configure(opts)
	if err != nil {
		return nil, err
	}
	if err := e.start(e.codec.Parse(src)); err != nil {
		return nil, err
	}
	return e, nil
}

// Open reads a Markdown file and creates an engine editing it.
func Open(path string, opts ...Option) (*Engine, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return NewFromMarkdown(string(src), opts...)
}

func configure(opts []Option) (*Engine, error) {
	e := &Engine{
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	syntax, err := markdown.ParseSyntax(e.cfg.Markdown.Syntax)
	if err != nil {
		return nil, err
	}
	codecOpts := []markdown.Option{
		markdown.WithSyntax(syntax),
		markdown.WithLogger(e.logger.Named("markdown")),
	}
	if e.newID != nil {
		codecOpts = append(codecOpts, markdown.WithNodeIDs(e.newID))
	}
	e.codec = markdown.New(codecOpts...)
	return e, nil
}

func (e *Engine) start(doc *document.Document) error {
	platform, err := ime.ParsePlatform(e.cfg.IME.Platform)
	if err != nil {
		return err
	}

	reactions := append([]editor.Reaction(nil), e.extra...)
	if err := e.loadScripts(); err != nil {
		e.closeScripts()
		return err
	}
	for _, s := range e.scripts {
		reactions = append(reactions, s)
	}
	if err := e.startSpelling(); err != nil {
		e.closeScripts()
		return err
	}
	if e.spelling != nil {
		reactions = append(reactions, e.spelling)
	}

	edOpts := []editor.Option{
		editor.WithLogger(e.logger.Named("editor")),
		editor.WithMaxUndoEntries(e.cfg.Editor.MaxUndoEntries),
		editor.WithMaxReactionPasses(e.cfg.Editor.MaxReactionPasses),
		editor.WithMaxListIndent(e.cfg.Editor.MaxListIndent),
		editor.WithReactions(reactions...),
	}
	if e.cfg.Editor.MarkdownShortcuts {
		edOpts = append(edOpts, editor.WithMarkdownShortcuts())
	}
	e.ed = editor.New(doc, edOpts...)
	e.translator = ime.NewTranslator(e.ed,
		ime.WithPlatform(platform),
		ime.WithPrefix(e.cfg.IME.Prefix),
		ime.WithLogger(e.logger),
	)

	if e.spelling != nil {
		// Check what was loaded before any edits arrive.
		e.spelling.Observe(doc, initialEvents(doc))
	}

	e.logger.Debug("engine created",
		zap.Int("nodes", doc.Len()),
		zap.Stringer("syntax", e.codec.Syntax()),
		zap.String("platform", string(platform)),
		zap.Bool("spelling", e.spelling != nil),
		zap.Int("scripts", len(e.scripts)))
	return nil
}

func (e *Engine) loadScripts() error {
	logger := e.logger.Named("script")
	for _, path := range e.cfg.Scripts.Reactions {
		r, err := script.LoadFile(path, script.WithLogger(logger))
		if err != nil {
			return err
		}
		e.scripts = append(e.scripts, r)
	}
	for _, s := range e.inlineScripts {
		r, err := script.NewReaction(s.src, script.WithName(s.name), script.WithLogger(logger))
		if err != nil {
			return err
		}
		e.scripts = append(e.scripts, r)
	}
	return nil
}

func (e *Engine) closeScripts() {
	for _, s := range e.scripts {
		_ = s.Close()
	}
	e.scripts = nil
}

func (e *Engine) startSpelling() error {
	checker := e.checker
	if checker == nil {
		if !e.cfg.Spelling.Enabled {
			return nil
		}
		dict, err := loadDictionary(e.cfg.Spelling)
		if err != nil {
			return err
		}
		checker = dict
	}
	e.spelling = spelling.NewReaction(checker,
		spelling.WithWorkers(e.cfg.Spelling.Workers),
		spelling.WithLogger(e.logger.Named("spelling")),
	)
	return e.spelling.Start()
}

func loadDictionary(cfg config.Spelling) (*spelling.DictionaryChecker, error) {
	dict := spelling.NewDictionaryChecker(cfg.Words...)
	if cfg.Dictionary == "" {
		return dict, nil
	}
	f, err := os.Open(cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("spelling dictionary: %w", err)
	}
	defer f.Close()
	loaded, err := spelling.LoadDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("spelling dictionary %s: %w", cfg.Dictionary, err)
	}
	for _, w := range cfg.Words {
		loaded.Add(w)
	}
	return loaded, nil
}

func initialEvents(doc *document.Document) []editor.Event {
	events := make([]editor.Event, 0, doc.Len())
	for _, n := range doc.Nodes() {
		events = append(events, editor.NodeInsertedEvent{NodeID: n.ID()})
	}
	return events
}

// Editor returns the underlying editor. Callers that use it directly must
// not do so concurrently with engine methods.
func (e *Engine) Editor() *editor.Editor { return e.ed }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config { return e.cfg }

// Document returns the live document.
func (e *Engine) Document() *document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ed.Document()
}

// Execute runs requests as one transaction and returns its events.
func (e *Engine) Execute(requests ...editor.Request) ([]editor.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.ed.Execute(requests...), nil
}

// Undo reverts the last transaction.
func (e *Engine) Undo() ([]editor.Event, error) {
	return e.replay(e.ed.Undo)
}

// Redo reapplies the last undone transaction.
func (e *Engine) Redo() ([]editor.Event, error) {
	return e.replay(e.ed.Redo)
}

// Checkpoint marks the current undo position.
func (e *Engine) Checkpoint() history.Checkpoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ed.Checkpoint()
}

// UndoToCheckpoint undoes every transaction recorded after cp.
func (e *Engine) UndoToCheckpoint(cp history.Checkpoint) ([]editor.Event, error) {
	return e.replay(func() ([]editor.Event, error) { return e.ed.UndoToCheckpoint(cp) })
}

// RedoToCheckpoint redoes undone transactions until the history is back at cp.
func (e *Engine) RedoToCheckpoint(cp history.Checkpoint) ([]editor.Event, error) {
	return e.replay(func() ([]editor.Event, error) { return e.ed.RedoToCheckpoint(cp) })
}

func (e *Engine) replay(step func() ([]editor.Event, error)) ([]editor.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	events, err := step()
	if err != nil {
		return nil, err
	}
	if e.spelling != nil {
		e.spelling.Observe(e.ed.Document(), events)
	}
	return events, nil
}

// CanUndo reports whether Undo has anything to revert.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ed.CanUndo()
}

// CanRedo reports whether Redo has anything to reapply.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ed.CanRedo()
}

// Markdown serializes the document with the configured syntax.
func (e *Engine) Markdown() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.codec.Serialize(e.ed.Document())
}

// Codec returns the Markdown codec.
func (e *Engine) Codec() *markdown.Codec { return e.codec }

// AttachIME connects a platform input session.
func (e *Engine) AttachIME(conn ime.Connection) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.translator.Attach(conn)
}

// DetachIME closes the platform input session.
func (e *Engine) DetachIME() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translator.Disconnect()
}

// ApplyDeltas applies a batch of platform deltas.
func (e *Engine) ApplyDeltas(deltas []ime.Delta) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.translator.ApplyDeltas(deltas)
}

// PerformAction forwards a platform IME action such as "newline".
func (e *Engine) PerformAction(action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.translator.OnPerformAction(action)
}

// Translator returns the IME translator.
func (e *Engine) Translator() *ime.Translator { return e.translator }

// SpellingReady receives a value when spelling results are waiting for
// ApplySpelling. It is nil when spelling is disabled.
func (e *Engine) SpellingReady() <-chan struct{} {
	if e.spelling == nil {
		return nil
	}
	return e.spelling.Ready()
}

// ApplySpelling installs finished spelling results and returns the ids of
// the nodes whose mistakes changed.
func (e *Engine) ApplySpelling() ([]string, error) {
	if e.spelling == nil {
		return nil, ErrSpellingDisabled
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spelling.Apply(), nil
}

// Mistakes returns the installed spelling mistakes for a node.
func (e *Engine) Mistakes(nodeID string) []spelling.Mistake {
	if e.spelling == nil {
		return nil
	}
	return e.spelling.Mistakes(nodeID)
}

// Spelling returns the spelling reaction, or nil when disabled.
func (e *Engine) Spelling() *spelling.Reaction { return e.spelling }

// Close stops spell checking, releases scripts and closes any IME
// session.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true

	var errs []error
	if e.translator.Attached() {
		errs = append(errs, e.translator.Disconnect())
	}
	if e.spelling != nil {
		errs = append(errs, e.spelling.Stop(ctx))
	}
	for _, s := range e.scripts {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
