package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphemeCount(t *testing.T) {
	assert.Equal(t, 0, GraphemeCount(""))
	assert.Equal(t, 5, GraphemeCount("hello"))
	assert.Equal(t, 3, GraphemeCount("a😀b"))
	// Combining acute accent forms one cluster with the base letter.
	assert.Equal(t, 4, GraphemeCount("café"))
}

func TestGraphemeToByteOffset(t *testing.T) {
	s := "a😀b"

	assert.Equal(t, 0, GraphemeToByteOffset(s, 0))
	assert.Equal(t, 1, GraphemeToByteOffset(s, 1))
	assert.Equal(t, 5, GraphemeToByteOffset(s, 2))
	assert.Equal(t, 6, GraphemeToByteOffset(s, 3))

	// Out of range clamps.
	assert.Equal(t, 0, GraphemeToByteOffset(s, -1))
	assert.Equal(t, 6, GraphemeToByteOffset(s, 99))
}

func TestByteToGraphemeOffset(t *testing.T) {
	s := "a😀b"

	assert.Equal(t, 0, ByteToGraphemeOffset(s, 0))
	assert.Equal(t, 1, ByteToGraphemeOffset(s, 1))
	// Offsets inside the emoji resolve to the emoji's index.
	assert.Equal(t, 1, ByteToGraphemeOffset(s, 2))
	assert.Equal(t, 1, ByteToGraphemeOffset(s, 4))
	assert.Equal(t, 2, ByteToGraphemeOffset(s, 5))
	assert.Equal(t, 3, ByteToGraphemeOffset(s, 6))
	assert.Equal(t, 3, ByteToGraphemeOffset(s, 99))
}

func TestGraphemeOffsetRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "a😀b", "日本語", "café bar"} {
		count := GraphemeCount(s)
		for i := 0; i <= count; i++ {
			b := GraphemeToByteOffset(s, i)
			assert.Equal(t, i, ByteToGraphemeOffset(s, b), "string %q index %d", s, i)
		}
	}
}

func TestSliceByGraphemes(t *testing.T) {
	s := "a😀bcd"

	assert.Equal(t, "a😀", SliceByGraphemes(s, 0, 2))
	assert.Equal(t, "😀b", SliceByGraphemes(s, 1, 3))
	assert.Equal(t, "", SliceByGraphemes(s, 3, 3))
	assert.Equal(t, "", SliceByGraphemes(s, 4, 2))
	// End past the string clamps.
	assert.Equal(t, "bcd", SliceByGraphemes(s, 2, 99))
	assert.Equal(t, "", SliceByGraphemes(s, 99, 100))
}

func TestStringDisplayWidth(t *testing.T) {
	assert.Equal(t, 0, StringDisplayWidth(""))
	assert.Equal(t, 5, StringDisplayWidth("hello"))
	assert.Equal(t, 2, StringDisplayWidth("😀"))
	assert.Equal(t, 6, StringDisplayWidth("日本語"))
}

func TestTruncateToDisplayWidth(t *testing.T) {
	assert.Equal(t, "hel", TruncateToDisplayWidth("hello", 3))
	assert.Equal(t, "hello", TruncateToDisplayWidth("hello", 10))
	assert.Equal(t, "", TruncateToDisplayWidth("hello", 0))

	// A wide cluster never splits: one cell of room fits no emoji.
	assert.Equal(t, "a", TruncateToDisplayWidth("a😀b", 2))
	assert.Equal(t, "a😀", TruncateToDisplayWidth("a😀b", 3))
}

func TestGraphemeIterator(t *testing.T) {
	iter := NewGraphemeIterator("a😀b")

	var clusters []string
	var positions []int
	var indices []int
	for iter.Next() {
		clusters = append(clusters, iter.Cluster())
		positions = append(positions, iter.BytePos())
		indices = append(indices, iter.Index())
	}

	assert.Equal(t, []string{"a", "😀", "b"}, clusters)
	assert.Equal(t, []int{0, 1, 5}, positions)
	assert.Equal(t, []int{0, 1, 2}, indices)
	assert.False(t, iter.Next())
}

func TestGraphemeIterator_Empty(t *testing.T) {
	iter := NewGraphemeIterator("")
	require.False(t, iter.Next())
	assert.Equal(t, "", iter.Cluster())
}

func TestGraphemeType(t *testing.T) {
	assert.Equal(t, graphemeWhitespace, graphemeType(" "))
	assert.Equal(t, graphemeWhitespace, graphemeType("\t"))
	assert.Equal(t, graphemeWord, graphemeType("a"))
	assert.Equal(t, graphemeWord, graphemeType("_"))
	assert.Equal(t, graphemeWord, graphemeType("é"))
	assert.Equal(t, graphemePunctuation, graphemeType("."))
	assert.Equal(t, graphemePunctuation, graphemeType("😀"))
	assert.Equal(t, graphemeWhitespace, graphemeType(""))
}