package editor

import (
	"errors"
	"strings"

	"github.com/dtannen/scrivo/internal/engine"
)

// The editor is the engine's managed surface. Everything in this file may be
// called from engine timer goroutines, never assume the bubbletea loop.
var _ engine.Surface = (*Model)(nil)
var _ engine.RegionRenderer = (*Model)(nil)
var _ engine.FocusStyler = (*Model)(nil)
var _ engine.ViewportSyncer = (*Model)(nil)

var errViewportNotSized = errors.New("editor: viewport not sized")

// Text returns the buffer flattened to a single string with newline
// separators. Sentence spans index into exactly this string.
func (m *Model) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.lines, "\n")
}

// RawLen returns the flattened length plus the per-line storage overhead.
// Paired with len(Text()) it shifts whenever the line structure changes,
// which is what the engine's fingerprint needs.
func (m *Model) RawLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, line := range m.lines {
		total += len(line) + 1
	}
	return total
}

// Editable reports whether the surface accepts input.
func (m *Model) Editable() bool {
	return true
}

// CaretOffset returns the caret position as a byte offset into the flattened
// text: all bytes on preceding lines (with one newline each) plus the bytes
// before the caret on its own line.
func (m *Model) CaretOffset() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := 0
	for i := 0; i < m.cursorRow; i++ {
		offset += len(m.lines[i]) + 1
	}
	return offset + GraphemeToByteOffset(m.lines[m.cursorRow], m.cursorCol)
}

// SetCaretOffset positions the caret at the given flat byte offset, walking
// lines in document order and clamping to end of content. Setting the
// current offset is a no-op.
func (m *Model) SetCaretOffset(offset int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	for row, line := range m.lines {
		if offset <= len(line) {
			m.cursorRow = row
			m.cursorCol = ByteToGraphemeOffset(line, offset)
			m.preferredCol = m.cursorCol
			m.ensureCursorVisibleLocked()
			return
		}
		offset -= len(line) + 1
	}

	// Past the end: clamp to the last position.
	m.cursorRow = len(m.lines) - 1
	m.cursorCol = GraphemeCount(m.lines[m.cursorRow])
	m.preferredCol = m.cursorCol
	m.ensureCursorVisibleLocked()
}

// CreateRegions replaces the rendered sentence regions. Marker state resets;
// the engine re-marks the active sentence afterwards.
func (m *Model) CreateRegions(sentences []engine.Sentence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = append([]engine.Sentence(nil), sentences...)
	m.hasActive = false
	m.activeID = 0
}

// MarkActive sets the active marker on the region for id.
func (m *Model) MarkActive(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = id
	m.hasActive = true
}

// UnmarkActive clears the active marker if it is on id.
func (m *Model) UnmarkActive(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasActive && m.activeID == id {
		m.hasActive = false
		m.activeID = 0
	}
}

// DestroyRegions drops all regions, returning the surface to unstyled
// rendering.
func (m *Model) DestroyRegions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = nil
	m.hasActive = false
	m.activeID = 0
}

// Validate reports whether the rendered regions still match the expected
// sentence count.
func (m *Model) Validate(count int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regions) == count
}

// SetFocusDim enables or disables dimming of inactive sentences.
func (m *Model) SetFocusDim(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusDim = enabled
}

// FocusDim reports whether inactive sentences are dimmed.
func (m *Model) FocusDim() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusDim
}

// ScrollCaretIntoView centers the caret row in the viewport. The smooth flag
// is accepted for interface compatibility; terminal scrolling repaints in a
// single frame either way.
func (m *Model) ScrollCaretIntoView(smooth bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.height <= 0 {
		return errViewportNotSized
	}

	target := m.cursorRow - m.height/2
	maxOffset := len(m.lines) - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if target > maxOffset {
		target = maxOffset
	}
	if target < 0 {
		target = 0
	}
	m.scrollOffset = target
	return nil
}

// Regions returns a copy of the current sentence regions.
func (m *Model) Regions() []engine.Sentence {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]engine.Sentence, len(m.regions))
	copy(out, m.regions)
	return out
}

// ActiveRegion returns the id of the marked region, if any.
func (m *Model) ActiveRegion() (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID, m.hasActive
}
