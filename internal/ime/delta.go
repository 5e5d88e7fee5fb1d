package ime

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DeltaKind classifies a text editing delta.
type DeltaKind uint8

const (
	// Insertion inserts Text at Range.Start.
	Insertion DeltaKind = iota
	// Deletion removes Range.
	Deletion
	// Replacement replaces Range with Text.
	Replacement
	// NonTextUpdate changes only the selection or composing region.
	NonTextUpdate
)

func (k DeltaKind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	case Replacement:
		return "replacement"
	case NonTextUpdate:
		return "non-text-update"
	}
	return fmt.Sprintf("DeltaKind(%d)", k)
}

// Delta is one change reported by the platform IME. All offsets are code
// points. Range refers to OldText; Selection and Composing refer to the text
// after the delta.
type Delta struct {
	Kind      DeltaKind
	OldText   string
	Text      string
	Range     TextRange
	Selection TextSelection
	Composing TextRange
}

func (d Delta) String() string {
	switch d.Kind {
	case Insertion:
		return fmt.Sprintf("insert %q at %d", d.Text, d.Range.Start)
	case Deletion:
		return fmt.Sprintf("delete %v", d.Range)
	case Replacement:
		return fmt.Sprintf("replace %v with %q", d.Range, d.Text)
	}
	return fmt.Sprintf("update sel=%v composing=%v", d.Selection, d.Composing)
}

// NewDelta classifies the platform's replacement of [start, end) of oldText
// by text. A start and end of -1 denote a non-text update.
//
// Composing keyboards report each keystroke as a replacement of the whole
// composing word. When the old word is a prefix of the new one the delta is
// an insertion of the added characters, and when the new word is a prefix of
// the old one it is a deletion of the removed characters.
func NewDelta(oldText string, start, end int, text string, sel TextSelection, composing TextRange) (Delta, error) {
	d := Delta{OldText: oldText, Text: text, Range: TextRange{Start: start, End: end}, Selection: sel, Composing: composing}
	if start == -1 && end == -1 {
		d.Kind = NonTextUpdate
		d.Text = ""
		return d, nil
	}
	n := utf8.RuneCountInString(oldText)
	if start < 0 || end < start || end > n {
		return Delta{}, fmt.Errorf("range [%d, %d) outside text of length %d: %w", start, end, n, ErrMalformedDelta)
	}
	replaced := string([]rune(oldText)[start:end])
	switch {
	case start == end && text == "":
		d.Kind = NonTextUpdate
	case start == end:
		d.Kind = Insertion
	case text == "":
		d.Kind = Deletion
	case replaced != "" && strings.HasPrefix(text, replaced) && text != replaced:
		d.Kind = Insertion
		d.Text = strings.TrimPrefix(text, replaced)
		d.Range = TextRange{Start: end, End: end}
	case strings.HasPrefix(replaced, text) && text != replaced:
		d.Kind = Deletion
		d.Text = ""
		d.Range = TextRange{Start: start + utf8.RuneCountInString(text), End: end}
	case text == replaced:
		d.Kind = NonTextUpdate
		d.Text = ""
	default:
		d.Kind = Replacement
	}
	return d, nil
}

// Apply returns the value the platform holds after the delta.
func (d Delta) Apply() EditingValue {
	text := d.OldText
	if d.Kind != NonTextUpdate {
		runes := []rune(d.OldText)
		var sb strings.Builder
		sb.WriteString(string(runes[:d.Range.Start]))
		sb.WriteString(d.Text)
		sb.WriteString(string(runes[d.Range.End:]))
		text = sb.String()
	}
	return EditingValue{Text: text, Selection: d.Selection, Composing: d.Composing}
}
