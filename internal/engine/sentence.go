// Package engine implements incremental sentence detection and focus-mode
// highlight synchronization for an editable text region.
//
// The engine owns three structures per instance: the sentence collection,
// the rendered-region map, and the active sentence reference. All three are
// mutated only inside a single mutex scope per update cycle, so observers
// never see a half-updated state.
package engine

import "strings"

// Sentence is a contiguous, non-overlapping span of the document's flattened
// plain text, delimited by terminator characters.
//
// Start and End are half-open byte offsets into the flattened text. Text is
// the exact substring text[Start:End], whitespace included. Sentences tile
// the document: End of sentence i equals Start of sentence i+1, and the
// concatenation of all Text fields reconstructs the full plain text.
type Sentence struct {
	ID        uint32
	Text      string
	Start     int
	End       int
	IsHeading bool
}

// WordCount returns the number of whitespace-separated words in the sentence.
func (s Sentence) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Collection is an ordered set of sentences with id lookup.
// It is rebuilt wholesale on every scan and replaced atomically; stored
// sentences are never partially mutated.
type Collection struct {
	ordered []Sentence
	byID    map[uint32]int
}

// NewCollection builds a collection from an ordered sentence slice.
func NewCollection(sentences []Sentence) Collection {
	byID := make(map[uint32]int, len(sentences))
	for i, s := range sentences {
		byID[s.ID] = i
	}
	return Collection{ordered: sentences, byID: byID}
}

// Len returns the number of sentences.
func (c Collection) Len() int {
	return len(c.ordered)
}

// At returns the sentence at index i.
func (c Collection) At(i int) Sentence {
	return c.ordered[i]
}

// IndexOf returns the index for a sentence id, or -1 when unknown.
func (c Collection) IndexOf(id uint32) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// sameIDs reports whether sentences carries exactly the collection's ids in
// order.
func (c Collection) sameIDs(sentences []Sentence) bool {
	if len(sentences) != len(c.ordered) {
		return false
	}
	for i, s := range sentences {
		if c.ordered[i].ID != s.ID {
			return false
		}
	}
	return true
}

// Sentences returns a copy of the ordered sentences.
func (c Collection) Sentences() []Sentence {
	out := make([]Sentence, len(c.ordered))
	copy(out, c.ordered)
	return out
}
