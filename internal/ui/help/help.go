// Package help contains the help overlay component.
package help

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtannen/scrivo/internal/cachemanager"
	"github.com/dtannen/scrivo/internal/keys"
	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/ui/markdown"
	"github.com/dtannen/scrivo/internal/ui/overlay"
	"github.com/dtannen/scrivo/internal/ui/styles"
)

// guideMarkdown is the writing guide shown below the keybinding table.
const guideMarkdown = `## Focus mode

Focus mode dims every sentence except the one under the caret. The active
sentence follows the caret as you type or navigate, so the current thought
stays bright while the rest of the draft recedes.

## Sentence detection

Sentences end at ` + "`.`" + `, ` + "`!`" + ` or ` + "`?`" + ` followed by
whitespace. Press ctrl+e to cycle the terminator set, including a preset
with CJK terminators.
`

// guideTTL bounds how long a rendered guide stays cached per size.
const guideTTL = 30 * time.Minute

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// guideInput carries the render parameters for the cached guide.
type guideInput struct {
	width int
	style string
}

// Model holds the help view state.
type Model struct {
	keys   keys.KeyMap
	width  int
	height int
	style  string

	guide *cachemanager.ReadThroughCache[string, string, guideInput]
}

// New creates a help view. markdownStyle selects the glamour style set for
// the guide text ("dark", "light", or "" for auto).
func New(markdownStyle string) Model {
	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"help-guide", guideTTL, guideTTL,
	)
	return Model{
		keys:  keys.DefaultKeyMap(),
		style: markdownStyle,
		guide: cachemanager.NewReadThroughCache(cache, renderGuide, false),
	}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

// renderContent builds the help box content.
func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var fileCol strings.Builder
	fileCol.WriteString(sectionStyle.Render("File"))
	fileCol.WriteString("\n")
	fileCol.WriteString(renderBinding(m.keys.Save))
	fileCol.WriteString(renderBinding(m.keys.Reload))

	var writingCol strings.Builder
	writingCol.WriteString(sectionStyle.Render("Writing"))
	writingCol.WriteString("\n")
	writingCol.WriteString(renderBinding(m.keys.ToggleFocus))
	writingCol.WriteString(renderBinding(m.keys.ForceRescan))
	writingCol.WriteString(renderBinding(m.keys.CycleEndings))

	var generalCol strings.Builder
	generalCol.WriteString(sectionStyle.Render("General"))
	generalCol.WriteString("\n")
	generalCol.WriteString(renderBinding(m.keys.ToggleStatus))
	generalCol.WriteString(renderBinding(m.keys.Help))
	generalCol.WriteString(renderBinding(m.keys.Escape))
	generalCol.WriteString(renderBinding(m.keys.Quit))

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(fileCol.String()),
		columnStyle.Render(writingCol.String()),
		generalCol.String(),
	)

	content := titleStyle.Render("Scrivo") + "\n" +
		contentStyle.Render(columns) + "\n" +
		contentStyle.Render(m.renderGuideSection()) +
		contentStyle.Render(footerStyle.Render("esc to close"))

	return boxStyle.Render(content)
}

// renderGuideSection renders the markdown guide at the current width.
// Rendered output is cached per width and style since glamour is not cheap.
func (m Model) renderGuideSection() string {
	width := m.guideWidth()
	out, err := m.guide.Get(
		context.Background(),
		guideKey(width, m.style),
		guideInput{width: width, style: m.style},
		guideTTL,
	)
	if err != nil {
		log.Debug(log.CatUI, "guide render failed, falling back to raw text", "error", err)
		return guideMarkdown
	}
	return out
}

// guideWidth bounds the guide's word wrap to the overlay's usable width.
func (m Model) guideWidth() int {
	width := m.width - 12
	if width > 64 {
		width = 64
	}
	if width < 20 {
		width = 20
	}
	return width
}

func guideKey(width int, style string) string {
	if style == "" {
		style = "auto"
	}
	return style + ":" + strconv.Itoa(width)
}

func renderGuide(_ context.Context, in guideInput) (string, error) {
	r, err := markdown.New(in.width, in.style)
	if err != nil {
		return "", err
	}
	return r.Render(guideMarkdown)
}

// renderBinding formats a keybinding row from its help text.
func renderBinding(b key.Binding) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}
