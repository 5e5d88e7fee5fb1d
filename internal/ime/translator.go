package ime

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/attributed"
	"github.com/dshills/richdoc/internal/engine/document"
)

// Connection is the platform side of an IME session.
type Connection interface {
	// SetEditingState replaces what the platform believes the text,
	// selection and composing region are.
	SetEditingState(EditingValue) error
	Close() error
}

// Option configures a Translator.
type Option func(*Translator)

// WithPlatform sets the host platform. The default is Android.
func WithPlatform(p Platform) Option {
	return func(t *Translator) { t.platform = p }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(t *Translator) { t.prefix = prefix }
}

// Translator turns platform text editing deltas into editor requests and
// keeps the platform's editing value in step with the document.
//
// The platform edits a flat serialization of the whole document. The
// translator tracks what the platform currently believes and only sends a new
// editing state when the document's serialization, selection or composing
// region differ from it.
type Translator struct {
	ed       *editor.Editor
	platform Platform
	prefix   string
	logger   *zap.Logger

	conn          Connection
	ser           *Serialization
	platformValue EditingValue
	applying      bool
	removeHook    func()

	// pendingNewline is set while a platform that reports Enter as an
	// action has sent its "\n" delta but not yet the action.
	pendingNewline bool
}

// NewTranslator creates a detached translator for ed.
func NewTranslator(ed *editor.Editor, opts ...Option) *Translator {
	t := &Translator{
		ed:       ed,
		platform: Android,
		prefix:   DefaultPrefix,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("ime").With(zap.String("platform", string(t.platform)))
	return t
}

// Attached reports whether a connection is attached.
func (t *Translator) Attached() bool { return t.conn != nil }

// Platform returns the host platform.
func (t *Translator) Platform() Platform { return t.platform }

// Serialization returns the current flat view of the document.
func (t *Translator) Serialization() *Serialization { return t.ser }

// PlatformValue returns what the platform is believed to hold.
func (t *Translator) PlatformValue() EditingValue { return t.platformValue }

// Attach connects the translator to a platform session and sends the
// initial editing state.
func (t *Translator) Attach(conn Connection) error {
	if t.conn != nil {
		if err := t.Disconnect(); err != nil {
			return err
		}
	}
	t.conn = conn
	t.ser = Serialize(t.ed.Document(), t.prefix)
	t.platformValue = EmptyValue
	t.removeHook = t.ed.AddChangeListener(t.onChange)
	return t.Sync()
}

// Disconnect closes the session and clears the composing region.
func (t *Translator) Disconnect() error {
	if t.conn == nil {
		return ErrNotAttached
	}
	t.removeHook()
	t.removeHook = nil
	conn := t.conn
	t.conn = nil
	t.ser = nil
	t.platformValue = EmptyValue
	t.pendingNewline = false
	if t.ed.Composer().ComposingRegion() != nil {
		t.ed.Execute(editor.ClearComposingRegionRequest{})
	}
	return conn.Close()
}

// Sync sends the document's editing value to the platform if the platform
// believes something else.
func (t *Translator) Sync() error {
	if t.conn == nil {
		return ErrNotAttached
	}
	c := t.ed.Composer()
	desired := t.ser.Value(c.Selection(), c.ComposingRegion())
	if desired == t.platformValue {
		return nil
	}
	t.logger.Debug("sending editing state", zap.Stringer("value", desired))
	if err := t.conn.SetEditingState(desired); err != nil {
		return err
	}
	t.platformValue = desired
	return nil
}

// onChange keeps the serialization current after every transaction, undo or
// redo, and resyncs the platform for changes it did not cause.
func (t *Translator) onChange(events []editor.Event) {
	if err := t.ser.Apply(events); err != nil {
		t.logger.Warn("rebuilding ime serialization", zap.Error(err))
		t.ser = Serialize(t.ed.Document(), t.prefix)
	}
	if t.applying {
		return
	}
	if err := t.Sync(); err != nil {
		t.logger.Error("sync failed", zap.Error(err))
	}
}

// ApplyDeltas applies a batch of platform deltas in order, then sends the
// resulting editing state if it differs from what the platform expects.
func (t *Translator) ApplyDeltas(deltas []Delta) error {
	if t.conn == nil {
		return ErrNotAttached
	}
	t.applying = true
	if t.pendingNewline {
		t.logger.Debug("newline action never arrived; inserting newline")
		t.pendingNewline = false
		t.ed.Execute(editor.InsertNewlineRequest{})
	}
	var errs []error
	for _, d := range deltas {
		if err := t.applyDelta(d); err != nil {
			errs = append(errs, err)
		}
	}
	t.applying = false
	if t.pendingNewline {
		// The platform already shows the newline; the action completes it.
		return errors.Join(errs...)
	}
	errs = append(errs, t.Sync())
	return errors.Join(errs...)
}

func (t *Translator) applyDelta(d Delta) error {
	t.logger.Debug("applying delta", zap.Stringer("delta", d))
	if d.OldText != t.platformValue.Text {
		t.logger.Warn("delta does not apply to the platform value",
			zap.String("old_text", d.OldText), zap.String("platform_text", t.platformValue.Text))
	}
	t.platformValue = d.Apply()

	if d.OldText != t.ser.Text() && d.Kind != NonTextUpdate {
		// The document moved on since the platform last synced; the next
		// Sync overwrites the platform's edit.
		t.logger.Warn("dropping delta against stale text", zap.Stringer("delta", d))
		return nil
	}

	switch d.Kind {
	case Insertion:
		if d.Text == "\n" && !t.platform.NewlineViaDelta() {
			t.pendingNewline = true
			return nil
		}
		t.insert(d.Range.Start, d.Text)
	case Deletion:
		t.delete(d.Range)
	case Replacement:
		t.delete(d.Range)
		t.insert(d.Range.Start, d.Text)
	}
	t.applySelection(d)
	return nil
}

func (t *Translator) insert(flat int, text string) {
	pos, ok := t.ser.DocumentPosition(max(flat, t.ser.PrefixLen()))
	if !ok {
		t.logger.Warn("insertion outside the document", zap.Int("offset", flat))
		return
	}
	var reqs []editor.Request
	if edge, isEdge := pos.Position.(document.EdgePosition); isEdge {
		// Typing beside a block node starts a new paragraph next to it.
		p := document.NewParagraph(document.NewNodeID(), attributed.Plain(""))
		if edge == document.Upstream {
			reqs = append(reqs, editor.InsertNodeBeforeRequest{ExistingNodeID: pos.NodeID, Node: p})
		} else {
			reqs = append(reqs, editor.InsertNodeAfterRequest{ExistingNodeID: pos.NodeID, Node: p})
		}
		pos = document.At(p.ID(), document.TextPosition(0))
	}
	reqs = append(reqs, changeCaret(pos, "ime"))
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			reqs = append(reqs, editor.InsertNewlineRequest{})
		}
		if line != "" {
			reqs = append(reqs, editor.InsertTextRequest{Text: line, ApplyPreferences: true})
		}
	}
	t.ed.Execute(reqs...)
}

func (t *Translator) delete(r TextRange) {
	prefix := t.ser.PrefixLen()
	if r.End <= prefix {
		// Backspace into the prefix: the caret was at the start of the
		// first node.
		if pos, ok := t.ser.DocumentPosition(prefix); ok {
			t.ed.Execute(changeCaret(pos, "ime"), editor.DeleteUpstreamCharacterRequest{})
		}
		return
	}
	start := max(r.Start, prefix)
	if r.End-start == 1 && t.ser.text[start] == separator {
		if pos, ok := t.ser.DocumentPosition(r.End); ok {
			t.ed.Execute(changeCaret(pos, "ime"), editor.DeleteUpstreamCharacterRequest{})
		}
		return
	}
	dr, ok := t.ser.DocumentRange(TextRange{Start: start, End: r.End})
	if !ok {
		t.logger.Warn("deletion outside the document", zap.Stringer("range", r))
		return
	}
	t.ed.Execute(editor.DeleteContentRequest{Range: *dr})
}

func (t *Translator) applySelection(d Delta) {
	if t.ser.Text() != t.platformValue.Text {
		// The edit did not reproduce the platform's text, so its offsets do
		// not address the document. Sync sends the editor's state instead.
		return
	}
	var reqs []editor.Request
	if sel, ok := t.ser.DocumentSelection(d.Selection); ok {
		reqs = append(reqs, editor.ChangeSelectionRequest{Selection: sel, Reason: "ime"})
	} else {
		t.logger.Warn("platform selection outside the document", zap.Stringer("selection", d.Selection))
	}
	region, ok := t.ser.DocumentRange(d.Composing)
	if !ok || region == nil || region.IsCollapsed() {
		reqs = append(reqs, editor.ClearComposingRegionRequest{})
	} else {
		reqs = append(reqs, editor.ChangeComposingRegionRequest{Region: region})
	}
	t.ed.Execute(reqs...)
}

// OnPerformAction handles an IME action such as "newline" or "done".
func (t *Translator) OnPerformAction(action string) error {
	if t.conn == nil {
		return ErrNotAttached
	}
	switch action {
	case "newline":
		if t.platform.NewlineViaDelta() {
			t.logger.Debug("ignoring newline action; newline arrives as a delta")
			return nil
		}
		t.pendingNewline = false
		t.applying = true
		t.ed.Execute(editor.InsertNewlineRequest{})
		t.applying = false
		return t.Sync()
	default:
		t.logger.Debug("ignoring ime action", zap.String("action", action))
		return nil
	}
}

func changeCaret(pos document.DocumentPosition, reason string) editor.Request {
	sel := document.Collapsed(pos)
	return editor.ChangeSelectionRequest{Selection: &sel, Reason: reason}
}
