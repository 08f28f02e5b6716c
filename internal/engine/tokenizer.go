package engine

import (
	"strings"
	"unicode/utf8"
)

// DefaultSentenceEndings are the terminator characters used when the caller
// configures none.
var DefaultSentenceEndings = []byte{'.', '!', '?'}

// Tokenizer splits flattened plain text into an ordered sequence of sentence
// spans using a configurable terminator set.
//
// One sentence is the longest run of non-terminator characters, followed by
// at most one terminator and any trailing whitespace. A trailing fragment
// without a terminator becomes a final sentence; text with no terminators at
// all is a single sentence. Empty or whitespace-only input yields no
// sentences. Detected text is verbatim: no whitespace normalization.
type Tokenizer struct {
	terminators map[rune]bool
}

// NewTokenizer creates a tokenizer for the given terminator characters,
// interpreted as UTF-8 so multi-byte terminators like 。 work. An empty set
// falls back to DefaultSentenceEndings.
func NewTokenizer(endings []byte) *Tokenizer {
	if len(endings) == 0 {
		endings = DefaultSentenceEndings
	}
	t := &Tokenizer{terminators: make(map[rune]bool, len(endings))}
	for _, r := range string(endings) {
		t.terminators[r] = true
	}
	return t
}

// IsTerminator reports whether r ends a sentence.
func (t *Tokenizer) IsTerminator(r rune) bool {
	return t.terminators[r]
}

// Scan produces the ordered sentence sequence covering text with no gaps and
// no overlaps. Adjacent terminators each end a degenerate sentence. Offsets
// stay byte-based; iteration is rune-based so a multi-byte terminator never
// splits mid-character.
func (t *Tokenizer) Scan(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []Sentence
	start := 0
	i := 0
	for i < len(text) {
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			i += size
			if t.terminators[r] {
				break
			}
		}
		for i < len(text) && isWhitespace(text[i]) {
			i++
		}
		seg := text[start:i]
		sentences = append(sentences, Sentence{
			ID:    Identity(start, i, seg, false),
			Text:  seg,
			Start: start,
			End:   i,
		})
		start = i
	}
	return sentences
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
