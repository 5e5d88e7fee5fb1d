// Package editor implements the edit pipeline of the document editor:
// requests are resolved to commands, commands mutate the document and
// composer through a CommandExecutor that logs events, and reactions observe
// those events and may issue further requests.
//
// # Transactions
//
// Every top-level Execute call is one transaction:
//
//	ed := editor.New(doc, editor.WithLogger(logger), editor.WithMarkdownShortcuts())
//	ed.Execute(
//	    editor.InsertTextRequest{Position: pos, Text: "Hello"},
//	    editor.InsertNewlineRequest{},
//	)
//
// Requests run in order. When the last one finishes, reactions run over the
// transaction's events, again over the events they produced, and so on until
// a pass produces nothing. Then subscribers receive the events and selection
// and composing listeners are told about changes, at most once each. A
// transaction that changed document content becomes one undo entry.
//
// Calls to Execute from inside a command or reaction join the running
// transaction.
//
// # Fizzles
//
// A command whose target is missing or of the wrong kind does not fail the
// transaction. It logs a warning and changes nothing; the remaining requests
// still run.
//
// # Events
//
// Events carry topics so that consumers can subscribe with patterns:
//
//	unsubscribe := ed.Subscribe("document.node.*", func(ev editor.Event) {
//	    fmt.Println(ev)
//	})
//	defer unsubscribe()
//
// Every NodeChangeEvent holds deep snapshots of the node before and after the
// change, which is what Undo replays.
//
// # Thread Safety
//
// An Editor must be used from a single goroutine.
package editor
