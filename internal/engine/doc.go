// Package engine assembles a complete editing session for one document.
//
// An Engine owns an editor and wires the components around it from a
// config.Config: the Markdown codec, the IME translator, optional
// background spell checking and Lua reaction scripts.
//
//	e, err := engine.Open("notes.md", engine.WithConfig(cfg), engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer e.Close(ctx)
//
//	e.Execute(editor.InsertTextRequest{Text: "hello"})
//	fmt.Println(e.Markdown())
//
// # Spelling
//
// Spell checks run on worker goroutines. Results are installed only when
// the caller asks for them, so the owner of the engine decides when the
// document's spelling state changes:
//
//	for range e.SpellingReady() {
//	    updated, _ := e.ApplySpelling()
//	    redraw(updated)
//	}
//
// The editor does not run reactions for undo and redo. The engine passes
// those events to the spell checker itself so nodes restored by undo are
// checked again.
//
// # Thread Safety
//
// Engine methods are safe for concurrent use. They serialize access to the
// editor with a mutex.
package engine
