package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestIdentity_Deterministic(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		start := rapid.IntRange(0, 1<<20).Draw(r, "start")
		end := rapid.IntRange(start, start+500).Draw(r, "end")
		text := rapid.String().Draw(r, "text")
		heading := rapid.Bool().Draw(r, "heading")

		require.Equal(r,
			Identity(start, end, text, heading),
			Identity(start, end, text, heading))
	})
}

func TestIdentity_PositionSensitive(t *testing.T) {
	base := Identity(0, 12, "Hello world.", false)

	require.NotEqual(t, base, Identity(1, 13, "Hello world.", false))
	require.NotEqual(t, base, Identity(0, 13, "Hello world.", false))
	require.NotEqual(t, base, Identity(0, 12, "Hello world!", false))
	require.NotEqual(t, base, Identity(0, 12, "Hello world.", true))
}

func TestIdentity_PrefixBounded(t *testing.T) {
	// Text beyond the hashed prefix does not influence the id when spans
	// are equal.
	long := "this prefix is exactly twenty bytes and then diverges"
	other := long[:identityPrefixLen] + "completely different tail"

	require.Equal(t,
		Identity(0, len(long), long, false),
		Identity(0, len(long), other, false))
}
