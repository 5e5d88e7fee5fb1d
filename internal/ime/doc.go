// Package ime connects a platform input method to the editor.
//
// Platform IMEs edit a single flat string. The package presents the whole
// document to them as one: a short prefix followed by every node's text,
// with nodes separated by "\n" and non-text nodes shown as "~". The
// prefix gives a backspace at the very start of the document something to
// delete, so the editor still sees the keystroke.
//
// # Deltas
//
// The platform reports edits as deltas against the value it last received:
// insertions, deletions, replacements and non-text updates that only move
// the selection or composing region. The Translator maps each delta to
// editor requests:
//
//	tr := ime.NewTranslator(ed, ime.WithPlatform(ime.IOS))
//	if err := tr.Attach(conn); err != nil {
//	    return err
//	}
//	deltas, err := ime.DecodeDeltas(msg)
//	if err != nil {
//	    return err
//	}
//	return tr.ApplyDeltas(deltas)
//
// Deleting a separator or the prefix becomes an upstream character
// deletion so that nodes merge the same way they do for a hardware
// backspace.
//
// # Newlines
//
// Android and web report Enter as an inserted "\n". The other platforms
// also send that delta but follow it with a "newline" action; the delta is
// ignored there and the action inserts the newline.
//
// # Synchronization
//
// The translator keeps the serialization current from editor events and
// remembers what the platform believes. It sends a new editing state only
// when the two differ, which avoids resetting the platform's composing
// state while the user types.
//
// Offsets inside the package are code points. DecodeDeltas and
// EncodeEditingState convert from and to the UTF-16 offsets platforms use.
package ime
