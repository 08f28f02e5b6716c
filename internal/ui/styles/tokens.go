// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Sentence rendering
	TokenSentenceActive  ColorToken = "sentence.active"
	TokenSentenceDimmed  ColorToken = "sentence.dimmed"
	TokenSentenceHeading ColorToken = "sentence.heading"

	// Caret
	TokenCaret ColorToken = "caret"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Status bar
	TokenStatusBarBg     ColorToken = "statusbar.bg"
	TokenStatusBarFg     ColorToken = "statusbar.fg"
	TokenStatusBarAccent ColorToken = "statusbar.accent"

	// Overlays
	TokenOverlayTitle  ColorToken = "overlay.title"
	TokenOverlayBorder ColorToken = "overlay.border"

	// Toast notifications
	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
	TokenToastWarn    ColorToken = "toast.warn"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		// Text hierarchy
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextPlaceholder,

		// Sentence rendering
		TokenSentenceActive,
		TokenSentenceDimmed,
		TokenSentenceHeading,

		// Caret
		TokenCaret,

		// Borders
		TokenBorderDefault,
		TokenBorderFocus,

		// Status indicators
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		// Status bar
		TokenStatusBarBg,
		TokenStatusBarFg,
		TokenStatusBarAccent,

		// Overlays
		TokenOverlayTitle,
		TokenOverlayBorder,

		// Toast notifications
		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastWarn,
	}
}
