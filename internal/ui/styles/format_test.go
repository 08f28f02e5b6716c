package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel...", TruncateString("hello world", 6))
	assert.Equal(t, "..", TruncateString("hello", 2))
	assert.Equal(t, "", TruncateString("hello", 0))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 words", FormatCount(0, "word"))
	assert.Equal(t, "1 word", FormatCount(1, "word"))
	assert.Equal(t, "42 sentences", FormatCount(42, "sentence"))
}
