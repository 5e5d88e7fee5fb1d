package editor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeBoundaries returns the code point offsets at which grapheme
// clusters of s start, plus the total length.
func graphemeBoundaries(s string) []int {
	bounds := []int{0}
	off := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		off += utf8.RuneCountInString(cluster)
		bounds = append(bounds, off)
	}
	return bounds
}

// previousGraphemeBoundary returns the start of the grapheme cluster that
// ends at or contains offset-1.
func previousGraphemeBoundary(s string, offset int) int {
	prev := 0
	for _, b := range graphemeBoundaries(s) {
		if b >= offset {
			break
		}
		prev = b
	}
	return prev
}

// nextGraphemeBoundary returns the end of the grapheme cluster starting at or
// containing offset.
func nextGraphemeBoundary(s string, offset int) int {
	bounds := graphemeBoundaries(s)
	for _, b := range bounds {
		if b > offset {
			return b
		}
	}
	return bounds[len(bounds)-1]
}
