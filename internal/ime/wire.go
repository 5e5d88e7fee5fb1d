package ime

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Platform messages carry offsets in UTF-16 code units. The functions here
// convert them to and from code points at the boundary.

// DecodeDeltas parses a platform delta batch. It accepts either an object
// with a "deltas" array or the method-channel argument list, whose second
// element holds that object.
func DecodeDeltas(data []byte) ([]Delta, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode deltas: invalid json: %w", ErrMalformedDelta)
	}
	root := gjson.ParseBytes(data)
	list := root.Get("deltas")
	if !list.Exists() {
		list = root.Get("1.deltas")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("decode deltas: no deltas array: %w", ErrMalformedDelta)
	}
	var (
		deltas []Delta
		err    error
	)
	list.ForEach(func(_, v gjson.Result) bool {
		var d Delta
		d, err = decodeDelta(v)
		if err != nil {
			err = fmt.Errorf("decode delta %d: %w", len(deltas), err)
			return false
		}
		deltas = append(deltas, d)
		return true
	})
	return deltas, err
}

func decodeDelta(v gjson.Result) (Delta, error) {
	for _, key := range []string{"oldText", "deltaText", "deltaStart", "deltaEnd"} {
		if !v.Get(key).Exists() {
			return Delta{}, fmt.Errorf("missing %q: %w", key, ErrMalformedDelta)
		}
	}
	oldText := v.Get("oldText").String()
	text := v.Get("deltaText").String()
	start := utf16ToRune(oldText, int(v.Get("deltaStart").Int()))
	end := utf16ToRune(oldText, int(v.Get("deltaEnd").Int()))

	newText := oldText
	if start >= 0 && end >= start {
		runes := []rune(oldText)
		if end <= len(runes) {
			newText = string(runes[:start]) + text + string(runes[end:])
		}
	}
	sel := TextSelection{
		Base:   utf16ToRune(newText, intOr(v.Get("selectionBase"), -1)),
		Extent: utf16ToRune(newText, intOr(v.Get("selectionExtent"), -1)),
	}
	composing := TextRange{
		Start: utf16ToRune(newText, intOr(v.Get("composingBase"), -1)),
		End:   utf16ToRune(newText, intOr(v.Get("composingExtent"), -1)),
	}
	return NewDelta(oldText, start, end, text, sel, composing)
}

func intOr(v gjson.Result, def int) int {
	if !v.Exists() {
		return def
	}
	return int(v.Int())
}

// EncodeEditingState renders value as the platform's editing state message.
func EncodeEditingState(v EditingValue) ([]byte, error) {
	out := []byte(`{}`)
	fields := []struct {
		path  string
		value any
	}{
		{"text", v.Text},
		{"selectionBase", runeToUTF16(v.Text, v.Selection.Base)},
		{"selectionExtent", runeToUTF16(v.Text, v.Selection.Extent)},
		{"selectionAffinity", "TextAffinity.downstream"},
		{"selectionIsDirectional", false},
		{"composingBase", runeToUTF16(v.Text, v.Composing.Start)},
		{"composingExtent", runeToUTF16(v.Text, v.Composing.End)},
	}
	var err error
	for _, f := range fields {
		if out, err = sjson.SetBytes(out, f.path, f.value); err != nil {
			return nil, fmt.Errorf("encode editing state: %w", err)
		}
	}
	return out, nil
}

// Entry is one recorded platform message: a delta batch or an action.
type Entry struct {
	Deltas []Delta
	Action string
}

// DecodeLog parses a recorded IME session: one JSON message per line, each
// either a delta batch or an object {"action": "..."}. Blank lines are
// skipped.
func DecodeLog(data []byte) ([]Entry, error) {
	var (
		entries []Entry
		err     error
		line    int
	)
	gjson.ForEachLine(string(data), func(msg gjson.Result) bool {
		line++
		if msg.Raw == "" {
			return true
		}
		if action := msg.Get("action"); action.Exists() {
			entries = append(entries, Entry{Action: action.String()})
			return true
		}
		var deltas []Delta
		deltas, err = DecodeDeltas([]byte(msg.Raw))
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
			return false
		}
		entries = append(entries, Entry{Deltas: deltas})
		return true
	})
	return entries, err
}
