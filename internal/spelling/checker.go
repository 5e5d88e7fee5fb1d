package spelling

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/richdoc/internal/engine/attributed"
)

// MaxSuggestions caps the suggestions returned per mistake.
const MaxSuggestions = 5

// Mistake is a misspelled word within a node's text.
type Mistake struct {
	Word string
	// Range is in code points.
	Range       attributed.Range
	Suggestions []string
}

// Checker finds misspellings in plain text. Implementations must be safe
// for concurrent use.
type Checker interface {
	Check(ctx context.Context, text string) ([]Mistake, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, text string) ([]Mistake, error)

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context, text string) ([]Mistake, error) {
	return f(ctx, text)
}

// DictionaryChecker accepts the words of a fixed, case-insensitive word
// list.
type DictionaryChecker struct {
	words map[string]struct{}
}

// NewDictionaryChecker creates a checker that knows words.
func NewDictionaryChecker(words ...string) *DictionaryChecker {
	d := &DictionaryChecker{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.Add(w)
	}
	return d
}

// LoadDictionary reads one word per line. Blank lines and lines starting
// with "#" are skipped.
func LoadDictionary(r io.Reader) (*DictionaryChecker, error) {
	d := NewDictionaryChecker()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return d, nil
}

// Add adds a word. It must not be called concurrently with Check.
func (d *DictionaryChecker) Add(word string) {
	if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
		d.words[w] = struct{}{}
	}
}

// Len returns the number of known words.
func (d *DictionaryChecker) Len() int { return len(d.words) }

// Contains reports whether word is known.
func (d *DictionaryChecker) Contains(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

// Check implements Checker. Words are found with Unicode word
// segmentation; segments without a letter, such as numbers, are skipped.
func (d *DictionaryChecker) Check(ctx context.Context, text string) ([]Mistake, error) {
	var mistakes []Mistake
	offset := 0
	state := -1
	for text != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		n := utf8.RuneCountInString(word)
		if hasLetter(word) && !d.Contains(word) {
			mistakes = append(mistakes, Mistake{
				Word:        word,
				Range:       attributed.NewRange(offset, offset+n),
				Suggestions: d.suggest(strings.ToLower(word)),
			})
		}
		offset += n
	}
	return mistakes, nil
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// suggest returns known words one edit away from word.
func (d *DictionaryChecker) suggest(word string) []string {
	target := []rune(word)
	var out []string
	for w := range d.words {
		if oneEdit(target, []rune(w)) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// oneEdit reports whether a and b differ by exactly one insertion,
// deletion, substitution or adjacent transposition.
func oneEdit(a, b []rune) bool {
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}
	i := 0
	for i < la && i < lb && a[i] == b[i] {
		i++
	}
	switch {
	case la == lb:
		if i == la {
			return false
		}
		if slices.Equal(a[i+1:], b[i+1:]) {
			return true
		}
		return i+1 < la && a[i] == b[i+1] && a[i+1] == b[i] && slices.Equal(a[i+2:], b[i+2:])
	case la > lb:
		return slices.Equal(a[i+1:], b[i:])
	default:
		return slices.Equal(a[i:], b[i+1:])
	}
}
