package engine

import "errors"

// ErrInvalidSurface is returned by New when the surface is missing or not
// editable. It is the only fatal construction-time failure.
var ErrInvalidSurface = errors.New("engine: surface missing or not editable")

// Surface is the editable text region the engine manages. Implementations
// flatten their internal representation (lines, node trees, styled cells)
// into a single plain-text view addressed by byte offsets.
//
// Engine calls arrive from timer goroutines as well as the caller's own
// goroutine, so implementations must serialize access to their state.
type Surface interface {
	// Text returns the flattened plain-text content.
	Text() string

	// RawLen returns the length of the underlying buffer including any
	// markup or decoration. Together with len(Text()) it forms the cheap
	// content fingerprint used to decide between full rebuild and
	// incremental update.
	RawLen() int

	// Editable reports whether the region accepts input.
	Editable() bool

	// CaretOffset returns the caret position as a byte offset into the
	// flattened text, measuring all text preceding the caret.
	CaretOffset() int

	// SetCaretOffset positions the caret at the given flat offset, walking
	// the surface's lines in document order and clamping to end of content.
	// SetCaretOffset(CaretOffset()) must be a user-observable no-op.
	SetCaretOffset(offset int)
}

// RegionRenderer is the opaque renderable-region capability. Any rendering
// surface (terminal, native UI, web) can implement it.
type RegionRenderer interface {
	// CreateRegions discards all existing regions and creates one region
	// per sentence, in order. Used by full rebuilds.
	CreateRegions(sentences []Sentence)

	// MarkActive applies the active marker to the region for id.
	MarkActive(id uint32)

	// UnmarkActive removes the active marker from the region for id.
	UnmarkActive(id uint32)

	// DestroyRegions removes all regions, returning the surface to its
	// unmanaged presentation.
	DestroyRegions()

	// Validate reports whether the rendered regions still match the given
	// sentence count. A false result forces a full rebuild (self-healing
	// against external mutation of the rendered state).
	Validate(count int) bool
}

// FocusStyler is an optional RegionRenderer capability for surfaces that can
// restyle dimming without a rebuild. Toggling focus mode is style-only and
// must not trigger a re-scan.
type FocusStyler interface {
	SetFocusDim(enabled bool)
}

// ViewportSyncer is an optional capability that scrolls the caret into the
// vertical center of the viewport. Best-effort: errors are swallowed by the
// engine, never propagated.
type ViewportSyncer interface {
	ScrollCaretIntoView(smooth bool) error
}
