package editor

import (
	"regexp"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtannen/scrivo/internal/engine"
)

// mouseEscapePattern matches SGR mouse tracking sequences that weren't parsed by bubbletea.
// These look like "[<65;87;15M" or "<65;87;15M" (CSI < Pb ; Px ; Py M/m format).
var mouseEscapePattern = regexp.MustCompile(`^\[?<\d+;\d+;\d+[Mm]$`)

// isMouseEscapeSequence checks if runes represent an unparsed SGR mouse tracking sequence.
func isMouseEscapeSequence(runes []rune) bool {
	if len(runes) < 6 {
		return false
	}
	return mouseEscapePattern.MatchString(string(runes))
}

// Effect classifies what a key press did to the buffer, so the caller can
// route it to the right engine signal.
type Effect int

const (
	// EffectNone: key not handled or nothing moved.
	EffectNone Effect = iota
	// EffectContent: buffer content changed.
	EffectContent
	// EffectNavigation: caret moved without a content change.
	EffectNavigation
)

// Model holds the editor state. Unlike a typical bubbletea component it is
// used by pointer: the engine keeps a reference to it as its surface and
// calls in from timer goroutines, so all state is guarded by a mutex.
type Model struct {
	mu sync.Mutex

	// Content state
	lines     []string // Lines of text
	cursorRow int      // Current line (0-indexed)
	cursorCol int      // Current column as grapheme index (0-indexed, not byte offset)

	preferredCol int  // Preferred column for vertical movement
	dirty        bool // Unsaved changes

	// Display state
	width       int
	height      int
	focused     bool
	placeholder string

	// Scrolling
	scrollOffset int // First visible line

	// Region state, owned by the engine
	regions   []engine.Sentence
	activeID  uint32
	hasActive bool
	focusDim  bool
}

// New creates an empty editor.
func New(placeholder string) *Model {
	return &Model{
		lines:       []string{""},
		placeholder: placeholder,
	}
}

// SetSize sets the visible area in terminal cells.
func (m *Model) SetSize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width = width
	m.height = height
	m.ensureCursorVisibleLocked()
}

// Focus gives the editor keyboard focus.
func (m *Model) Focus() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = true
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = false
}

// Focused reports whether the editor has keyboard focus.
func (m *Model) Focused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// SetContent replaces the whole buffer and clears the dirty flag. The caret
// clamps to the new content.
func (m *Model) SetContent(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = strings.Split(text, "\n")
	if len(m.lines) == 0 {
		m.lines = []string{""}
	}
	if m.cursorRow >= len(m.lines) {
		m.cursorRow = len(m.lines) - 1
	}
	m.clampCursorColLocked()
	m.dirty = false
	m.ensureCursorVisibleLocked()
}

// Content returns the buffer as a single string.
func (m *Model) Content() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.lines, "\n")
}

// Dirty reports whether the buffer has unsaved changes.
func (m *Model) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// MarkSaved clears the dirty flag after a successful write to disk.
func (m *Model) MarkSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = false
}

// CursorPosition returns the caret's line and grapheme column (0-indexed).
func (m *Model) CursorPosition() (row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorRow, m.cursorCol
}

// LineCount returns the number of lines in the buffer.
func (m *Model) LineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// WordCount returns the number of whitespace-separated words in the buffer.
func (m *Model) WordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, line := range m.lines {
		count += len(strings.Fields(line))
	}
	return count
}

// IsEmpty reports whether the buffer holds no text at all.
func (m *Model) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isEmptyLocked()
}

func (m *Model) isEmptyLocked() bool {
	return len(m.lines) == 1 && m.lines[0] == ""
}

// HandleKey processes a key press and reports what it did to the buffer.
// Chrome-level keys (save, quit, help) are the caller's job; anything not
// recognized here returns EffectNone.
func (m *Model) HandleKey(msg tea.KeyMsg) Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.focused {
		return EffectNone
	}

	effect := m.dispatchKeyLocked(msg)
	if effect != EffectNone {
		m.ensureCursorVisibleLocked()
	}
	return effect
}

func (m *Model) dispatchKeyLocked(msg tea.KeyMsg) Effect {
	switch msg.Type {
	case tea.KeyRunes:
		if isMouseEscapeSequence(msg.Runes) {
			return EffectNone
		}
		if msg.Alt {
			switch string(msg.Runes) {
			case "b":
				return m.moveWordBackLocked()
			case "f":
				return m.moveWordForwardLocked()
			}
			return EffectNone
		}
		m.insertTextLocked(string(msg.Runes))
		return EffectContent
	case tea.KeySpace:
		m.insertTextLocked(" ")
		return EffectContent
	case tea.KeyTab:
		m.insertTextLocked("\t")
		return EffectContent
	case tea.KeyEnter:
		m.insertNewlineLocked()
		return EffectContent
	case tea.KeyBackspace:
		return m.backspaceLocked()
	case tea.KeyDelete:
		return m.deleteForwardLocked()
	case tea.KeyLeft:
		return m.moveLeftLocked()
	case tea.KeyRight:
		return m.moveRightLocked()
	case tea.KeyUp:
		return m.moveVerticalLocked(-1)
	case tea.KeyDown:
		return m.moveVerticalLocked(1)
	case tea.KeyHome, tea.KeyCtrlA:
		return m.moveLineStartLocked()
	case tea.KeyEnd:
		// ctrl+e is taken by terminator cycling at the app layer.
		return m.moveLineEndLocked()
	case tea.KeyPgUp:
		return m.moveVerticalLocked(-m.pageSizeLocked())
	case tea.KeyPgDown:
		return m.moveVerticalLocked(m.pageSizeLocked())
	case tea.KeyCtrlK:
		return m.killToLineEndLocked()
	}
	return EffectNone
}

// ============================================================================
// Insert operations
// ============================================================================

func (m *Model) insertTextLocked(text string) {
	line := m.lines[m.cursorRow]
	byteOff := GraphemeToByteOffset(line, m.cursorCol)
	m.lines[m.cursorRow] = line[:byteOff] + text + line[byteOff:]
	m.cursorCol += GraphemeCount(text)
	m.preferredCol = m.cursorCol
	m.dirty = true
}

func (m *Model) insertNewlineLocked() {
	line := m.lines[m.cursorRow]
	byteOff := GraphemeToByteOffset(line, m.cursorCol)
	before, after := line[:byteOff], line[byteOff:]

	m.lines[m.cursorRow] = before
	rest := make([]string, 0, len(m.lines)+1)
	rest = append(rest, m.lines[:m.cursorRow+1]...)
	rest = append(rest, after)
	rest = append(rest, m.lines[m.cursorRow+1:]...)
	m.lines = rest

	m.cursorRow++
	m.cursorCol = 0
	m.preferredCol = 0
	m.dirty = true
}

// ============================================================================
// Delete operations
// ============================================================================

func (m *Model) backspaceLocked() Effect {
	if m.cursorCol > 0 {
		line := m.lines[m.cursorRow]
		startByte := GraphemeToByteOffset(line, m.cursorCol-1)
		endByte := GraphemeToByteOffset(line, m.cursorCol)
		m.lines[m.cursorRow] = line[:startByte] + line[endByte:]
		m.cursorCol--
		m.preferredCol = m.cursorCol
		m.dirty = true
		return EffectContent
	}

	// Join with previous line
	if m.cursorRow == 0 {
		return EffectNone
	}
	prev := m.lines[m.cursorRow-1]
	m.cursorCol = GraphemeCount(prev)
	m.lines[m.cursorRow-1] = prev + m.lines[m.cursorRow]
	m.lines = append(m.lines[:m.cursorRow], m.lines[m.cursorRow+1:]...)
	m.cursorRow--
	m.preferredCol = m.cursorCol
	m.dirty = true
	return EffectContent
}

func (m *Model) deleteForwardLocked() Effect {
	line := m.lines[m.cursorRow]
	if m.cursorCol < GraphemeCount(line) {
		startByte := GraphemeToByteOffset(line, m.cursorCol)
		endByte := GraphemeToByteOffset(line, m.cursorCol+1)
		m.lines[m.cursorRow] = line[:startByte] + line[endByte:]
		m.dirty = true
		return EffectContent
	}

	// Join with next line
	if m.cursorRow >= len(m.lines)-1 {
		return EffectNone
	}
	m.lines[m.cursorRow] = line + m.lines[m.cursorRow+1]
	m.lines = append(m.lines[:m.cursorRow+1], m.lines[m.cursorRow+2:]...)
	m.dirty = true
	return EffectContent
}

func (m *Model) killToLineEndLocked() Effect {
	line := m.lines[m.cursorRow]
	if m.cursorCol >= GraphemeCount(line) {
		return m.deleteForwardLocked()
	}
	byteOff := GraphemeToByteOffset(line, m.cursorCol)
	m.lines[m.cursorRow] = line[:byteOff]
	m.dirty = true
	return EffectContent
}

// ============================================================================
// Motion operations
// ============================================================================

func (m *Model) moveLeftLocked() Effect {
	if m.cursorCol > 0 {
		m.cursorCol--
	} else if m.cursorRow > 0 {
		m.cursorRow--
		m.cursorCol = GraphemeCount(m.lines[m.cursorRow])
	} else {
		return EffectNone
	}
	m.preferredCol = m.cursorCol
	return EffectNavigation
}

func (m *Model) moveRightLocked() Effect {
	if m.cursorCol < GraphemeCount(m.lines[m.cursorRow]) {
		m.cursorCol++
	} else if m.cursorRow < len(m.lines)-1 {
		m.cursorRow++
		m.cursorCol = 0
	} else {
		return EffectNone
	}
	m.preferredCol = m.cursorCol
	return EffectNavigation
}

func (m *Model) moveVerticalLocked(delta int) Effect {
	target := m.cursorRow + delta
	if target < 0 {
		target = 0
	}
	if target > len(m.lines)-1 {
		target = len(m.lines) - 1
	}
	if target == m.cursorRow {
		return EffectNone
	}
	m.cursorRow = target
	m.cursorCol = min(m.preferredCol, GraphemeCount(m.lines[m.cursorRow]))
	return EffectNavigation
}

func (m *Model) moveLineStartLocked() Effect {
	if m.cursorCol == 0 {
		return EffectNone
	}
	m.cursorCol = 0
	m.preferredCol = 0
	return EffectNavigation
}

func (m *Model) moveLineEndLocked() Effect {
	end := GraphemeCount(m.lines[m.cursorRow])
	if m.cursorCol == end {
		return EffectNone
	}
	m.cursorCol = end
	m.preferredCol = end
	return EffectNavigation
}

// moveWordForwardLocked advances to the start of the next word.
func (m *Model) moveWordForwardLocked() Effect {
	line := m.lines[m.cursorRow]
	count := GraphemeCount(line)

	if m.cursorCol >= count {
		if m.cursorRow >= len(m.lines)-1 {
			return EffectNone
		}
		m.cursorRow++
		m.cursorCol = 0
		m.preferredCol = 0
		return EffectNavigation
	}

	col := m.cursorCol
	// Skip the rest of the current word, then any whitespace.
	for col < count && graphemeType(SliceByGraphemes(line, col, col+1)) != graphemeWhitespace {
		col++
	}
	for col < count && graphemeType(SliceByGraphemes(line, col, col+1)) == graphemeWhitespace {
		col++
	}
	m.cursorCol = col
	m.preferredCol = col
	return EffectNavigation
}

// moveWordBackLocked retreats to the start of the previous word.
func (m *Model) moveWordBackLocked() Effect {
	if m.cursorCol == 0 {
		if m.cursorRow == 0 {
			return EffectNone
		}
		m.cursorRow--
		m.cursorCol = GraphemeCount(m.lines[m.cursorRow])
		m.preferredCol = m.cursorCol
		return EffectNavigation
	}

	line := m.lines[m.cursorRow]
	col := m.cursorCol
	for col > 0 && graphemeType(SliceByGraphemes(line, col-1, col)) == graphemeWhitespace {
		col--
	}
	for col > 0 && graphemeType(SliceByGraphemes(line, col-1, col)) != graphemeWhitespace {
		col--
	}
	m.cursorCol = col
	m.preferredCol = col
	return EffectNavigation
}

// ============================================================================
// Internal helpers
// ============================================================================

func (m *Model) pageSizeLocked() int {
	if m.height > 1 {
		return m.height - 1
	}
	return 1
}

func (m *Model) clampCursorColLocked() {
	count := GraphemeCount(m.lines[m.cursorRow])
	if m.cursorCol > count {
		m.cursorCol = count
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
}

// ensureCursorVisibleLocked adjusts scrollOffset so the caret row is on
// screen.
func (m *Model) ensureCursorVisibleLocked() {
	if m.height <= 0 {
		return
	}
	if m.cursorRow < m.scrollOffset {
		m.scrollOffset = m.cursorRow
	}
	if m.cursorRow >= m.scrollOffset+m.height {
		m.scrollOffset = m.cursorRow - m.height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}
