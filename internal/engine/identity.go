package engine

// identityPrefixLen bounds how much sentence text feeds the hash.
const identityPrefixLen = 20

// Identity derives a stable id for a sentence from its position, a prefix of
// its text, and the heading flag. Two scans of unchanged content at unchanged
// offsets yield the same id; any edit that shifts offsets changes the ids of
// all following sentences. Identity is positional, not content-tracking.
//
// FNV-1a over 32 bits. Collisions are tolerated: ids are only used for
// diffing within one document, never for correctness-critical addressing.
func Identity(start, end int, text string, isHeading bool) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	h := uint32(offset32)
	mix := func(b byte) {
		h ^= uint32(b)
		h *= prime32
	}

	for _, v := range [2]int{start, end} {
		mix(byte(v))
		mix(byte(v >> 8))
		mix(byte(v >> 16))
		mix(byte(v >> 24))
	}

	n := len(text)
	if n > identityPrefixLen {
		n = identityPrefixLen
	}
	for i := 0; i < n; i++ {
		mix(text[i])
	}

	if isHeading {
		mix(1)
	} else {
		mix(0)
	}
	return h
}
