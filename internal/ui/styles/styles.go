// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Counts, secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Empty-document hint

	// Sentence rendering
	SentenceActiveColor  = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"} // Sentence under the caret
	SentenceDimmedColor  = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#6272A4"} // Everything else in focus mode
	SentenceHeadingColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#BD93F9"} // Heading sentences

	// Caret
	CaretColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused borders

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Status bar colors
	StatusBarBgColor     = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#2D2D2D"}
	StatusBarFgColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#BBBBBB"}
	StatusBarAccentColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Overlay colors
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

// Styles derived from the colors above. Rebuilt by rebuildStyles after a
// theme is applied.
var (
	SentenceActiveStyle  = lipgloss.NewStyle().Foreground(SentenceActiveColor)
	SentenceDimmedStyle  = lipgloss.NewStyle().Foreground(SentenceDimmedColor).Faint(true)
	SentenceHeadingStyle = lipgloss.NewStyle().Foreground(SentenceHeadingColor).Bold(true)

	CaretStyle = lipgloss.NewStyle().Foreground(CaretColor).Reverse(true)

	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextPlaceholderColor).Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(StatusBarFgColor).
			Background(StatusBarBgColor)

	StatusBarAccentStyle = lipgloss.NewStyle().
				Foreground(StatusBarAccentColor).
				Background(StatusBarBgColor).
				Bold(true)

	OverlayTitleStyle = lipgloss.NewStyle().
				Foreground(OverlayTitleColor).
				Bold(true)

	OverlayBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(OverlayBorderColor).
				Padding(1, 2)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)

// rebuildStyles recreates every derived Style from the current color
// variables. Called after ApplyTheme mutates the colors.
func rebuildStyles() {
	SentenceActiveStyle = lipgloss.NewStyle().Foreground(SentenceActiveColor)
	SentenceDimmedStyle = lipgloss.NewStyle().Foreground(SentenceDimmedColor).Faint(true)
	SentenceHeadingStyle = lipgloss.NewStyle().Foreground(SentenceHeadingColor).Bold(true)
	CaretStyle = lipgloss.NewStyle().Foreground(CaretColor).Reverse(true)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextPlaceholderColor).Italic(true)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(StatusBarFgColor).
		Background(StatusBarBgColor)
	StatusBarAccentStyle = lipgloss.NewStyle().
		Foreground(StatusBarAccentColor).
		Background(StatusBarBgColor).
		Bold(true)
	OverlayTitleStyle = lipgloss.NewStyle().
		Foreground(OverlayTitleColor).
		Bold(true)
	OverlayBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBorderColor).
		Padding(1, 2)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)

	for _, fn := range styleRebuilders {
		fn()
	}
}
