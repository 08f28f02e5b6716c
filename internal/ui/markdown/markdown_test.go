package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidStyles(t *testing.T) {
	for _, style := range []string{"", "dark", "light"} {
		r, err := New(60, style)
		require.NoError(t, err, "style %q", style)
		assert.Equal(t, 60, r.Width())
		assert.Equal(t, style, r.Style())
	}
}

func TestNew_RejectsUnknownStyle(t *testing.T) {
	_, err := New(60, "sepia")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sepia")
}

func TestRender_Headings(t *testing.T) {
	r, err := New(60, "dark")
	require.NoError(t, err)

	out, err := r.Render("## Focus mode\n\nDims inactive sentences.")

	require.NoError(t, err)
	assert.Contains(t, out, "Focus mode")
	assert.Contains(t, out, "Dims inactive sentences.")
}

func TestRender_CodeSpans(t *testing.T) {
	r, err := New(40, "dark")
	require.NoError(t, err)

	out, err := r.Render("Press `ctrl+f` to toggle.")

	require.NoError(t, err)
	assert.Contains(t, out, "ctrl+f")
}
