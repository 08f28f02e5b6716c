package editor

import (
	"sort"
	"strings"

	"github.com/dtannen/scrivo/internal/ui/styles"
)

// styleKind classifies a grapheme's rendering by the region it falls in.
type styleKind int

const (
	kindPlain styleKind = iota
	kindActive
	kindDimmed
	kindHeading
)

// View renders the visible window of the buffer with sentence styling and
// the caret. Implements the tea.Model View contract for the parent.
func (m *Model) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isEmptyLocked() {
		return m.renderEmptyLocked()
	}

	// Byte offset of each line start in the flattened text.
	starts := make([]int, len(m.lines))
	offset := 0
	for i, line := range m.lines {
		starts[i] = offset
		offset += len(line) + 1
	}

	top := m.scrollOffset
	if top > len(m.lines)-1 {
		top = len(m.lines) - 1
	}
	bottom := len(m.lines)
	if m.height > 0 && top+m.height < bottom {
		bottom = top + m.height
	}

	rendered := make([]string, 0, bottom-top)
	for row := top; row < bottom; row++ {
		rendered = append(rendered, m.renderLineLocked(row, starts[row]))
	}
	return strings.Join(rendered, "\n")
}

// renderEmptyLocked shows the placeholder with the caret on top.
func (m *Model) renderEmptyLocked() string {
	caret := " "
	if m.focused {
		caret = styles.CaretStyle.Render(" ")
	}
	if m.placeholder == "" {
		return caret
	}
	hint := m.placeholder
	if m.width > 0 {
		hint = TruncateToDisplayWidth(hint, m.width-1)
	}
	return caret + styles.PlaceholderStyle.Render(hint)
}

// renderLineLocked renders one logical line: graphemes grouped into runs of
// the same style, the caret cell reverse-styled on top.
func (m *Model) renderLineLocked(row, lineStart int) string {
	line := m.lines[row]
	cursorHere := m.focused && row == m.cursorRow

	var out strings.Builder
	var run strings.Builder
	runKind := kindPlain
	cells := 0

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(m.styleRun(run.String(), runKind))
		run.Reset()
	}

	iter := NewGraphemeIterator(line)
	for iter.Next() {
		if m.width > 0 && cells >= m.width {
			break
		}
		cluster := iter.Cluster()
		kind := m.kindForOffsetLocked(lineStart + iter.BytePos())

		if cursorHere && iter.Index() == m.cursorCol {
			flush()
			out.WriteString(styles.CaretStyle.Render(cluster))
			cells += StringDisplayWidth(cluster)
			runKind = kind
			continue
		}

		if kind != runKind {
			flush()
			runKind = kind
		}
		run.WriteString(cluster)
		cells += StringDisplayWidth(cluster)
	}
	flush()

	// Caret sitting past the last grapheme renders on a phantom cell.
	if cursorHere && m.cursorCol >= GraphemeCount(line) {
		out.WriteString(styles.CaretStyle.Render(" "))
	} else if line == "" {
		out.WriteString(" ")
	}

	return out.String()
}

// styleRun applies the style for kind to a run of text.
func (m *Model) styleRun(text string, kind styleKind) string {
	switch kind {
	case kindActive:
		return styles.SentenceActiveStyle.Render(text)
	case kindDimmed:
		return styles.SentenceDimmedStyle.Render(text)
	case kindHeading:
		return styles.SentenceHeadingStyle.Render(text)
	default:
		return text
	}
}

// kindForOffsetLocked resolves the flattened byte offset to a style via the
// sentence regions. Regions are ordered by Start, so binary search applies.
func (m *Model) kindForOffsetLocked(offset int) styleKind {
	if len(m.regions) == 0 {
		return kindPlain
	}

	i := sort.Search(len(m.regions), func(i int) bool {
		return m.regions[i].End > offset
	})
	if i >= len(m.regions) || offset < m.regions[i].Start {
		return kindPlain
	}

	region := m.regions[i]
	if m.hasActive && region.ID == m.activeID {
		return kindActive
	}
	if region.IsHeading {
		return kindHeading
	}
	if m.focusDim {
		return kindDimmed
	}
	return kindPlain
}

// HandleClick moves the caret to the cell at local display coordinates
// (x, y measured from the editor's top-left). Returns EffectNavigation when
// the caret moved.
func (m *Model) HandleClick(x, y int) Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.scrollOffset + y
	if row < 0 || row >= len(m.lines) {
		return EffectNone
	}

	// Walk the line's graphemes until the clicked display column.
	line := m.lines[row]
	col := GraphemeCount(line)
	cells := 0
	iter := NewGraphemeIterator(line)
	for iter.Next() {
		w := StringDisplayWidth(iter.Cluster())
		if cells+w > x {
			col = iter.Index()
			break
		}
		cells += w
	}

	if row == m.cursorRow && col == m.cursorCol {
		return EffectNone
	}
	m.cursorRow = row
	m.cursorCol = col
	m.preferredCol = col
	return EffectNavigation
}
