package ime

import "fmt"

// TextSelection is a selection in the flat IME value, in code points.
// Base and Extent are -1 when there is no selection.
type TextSelection struct {
	Base   int
	Extent int
}

// NoSelection is the selection of a value without a caret.
var NoSelection = TextSelection{Base: -1, Extent: -1}

// Caret returns a collapsed selection at offset.
func Caret(offset int) TextSelection {
	return TextSelection{Base: offset, Extent: offset}
}

// IsValid reports whether the selection addresses the text.
func (s TextSelection) IsValid() bool { return s.Base >= 0 && s.Extent >= 0 }

// IsCollapsed reports whether the selection is a caret.
func (s TextSelection) IsCollapsed() bool { return s.Base == s.Extent }

func (s TextSelection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("caret(%d)", s.Base)
	}
	return fmt.Sprintf("(%d -> %d)", s.Base, s.Extent)
}

// TextRange is a half-open range [Start, End) of code points. Both ends are
// -1 for an empty composing region.
type TextRange struct {
	Start int
	End   int
}

// NoRange is the composing region of a value that is not composing.
var NoRange = TextRange{Start: -1, End: -1}

// IsValid reports whether the range addresses the text.
func (r TextRange) IsValid() bool { return r.Start >= 0 && r.End >= r.Start }

// IsCollapsed reports whether the range is empty.
func (r TextRange) IsCollapsed() bool { return r.Start == r.End }

func (r TextRange) String() string {
	if !r.IsValid() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// EditingValue is the flat text state shared with the platform IME.
type EditingValue struct {
	Text      string
	Selection TextSelection
	Composing TextRange
}

// EmptyValue is what a freshly attached platform believes.
var EmptyValue = EditingValue{Selection: NoSelection, Composing: NoRange}

func (v EditingValue) String() string {
	return fmt.Sprintf("%q sel=%v composing=%v", v.Text, v.Selection, v.Composing)
}
