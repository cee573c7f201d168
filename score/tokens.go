package score

import (
	"strings"
	"unicode"
)

// continuationPunct is the set of leading characters that mark a token
// as the tail of a word rather than the start of a new one.
const continuationPunct = "'’,-."

// TokenMerger reconstructs whole-word segments from sub-word token
// segments. Upstream tokenizers emit word fragments where only the first
// fragment carries the word-initial uppercase marker, so a token whose
// first character is lowercase (or continuation punctuation) belongs to
// the word currently being assembled.
type TokenMerger struct{}

// NewTokenMerger creates a token merger
func NewTokenMerger() *TokenMerger {
	return &TokenMerger{}
}

// Merge assembles tokens into words, preserving temporal order. A
// continuation token extends the current word's text and end time; a
// non-continuation token flushes the buffer and starts a new word. A
// leading continuation with no open buffer starts a new word, since
// there is nothing to merge it into.
func (tm *TokenMerger) Merge(tokens []Token) []Word {
	words := make([]Word, 0, len(tokens))

	var buffer Word
	open := false

	for _, token := range tokens {
		text := strings.TrimSpace(token.Text)
		if text == "" {
			continue
		}

		if open && isContinuation(text) {
			buffer.Text += text
			buffer.End = token.End
			continue
		}

		if open {
			words = append(words, buffer)
		}
		buffer = Word{Text: text, Start: token.Start, End: token.End}
		open = true
	}

	if open {
		words = append(words, buffer)
	}

	return words
}

func isContinuation(text string) bool {
	r := []rune(text)[0]
	return unicode.IsLower(r) || strings.ContainsRune(continuationPunct, r)
}
