package ime

// Platforms report offsets in UTF-16 code units while the document counts
// code points. These helpers convert between the two within one string.

// runeToUTF16 converts a code point offset in s to a UTF-16 offset.
// Negative offsets are passed through so that -1 keeps meaning "none".
func runeToUTF16(s string, runeOff int) int {
	if runeOff <= 0 {
		return runeOff
	}
	runeCount := 0
	utf16Off := 0
	for _, r := range s {
		if runeCount >= runeOff {
			break
		}
		if r >= 0x10000 {
			utf16Off += 2
		} else {
			utf16Off++
		}
		runeCount++
	}
	return utf16Off
}

// utf16ToRune converts a UTF-16 offset in s to a code point offset. An offset
// that falls between the halves of a surrogate pair rounds up to the next
// code point. Negative offsets are passed through.
func utf16ToRune(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return utf16Off
	}
	utf16Count := 0
	runeOff := 0
	for _, r := range s {
		if utf16Count >= utf16Off {
			break
		}
		if r >= 0x10000 {
			utf16Count += 2
		} else {
			utf16Count++
		}
		runeOff++
	}
	if utf16Count < utf16Off {
		// Past the end: keep the overshoot so bounds checks still fail.
		runeOff += utf16Off - utf16Count
	}
	return runeOff
}
