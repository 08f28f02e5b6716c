// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import editor, but editor can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a theme configuration.
// Order of application:
// 1. Force light/dark mode if requested
// 2. Apply individual color overrides
// 3. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	switch cfg.Mode {
	case "":
		// Terminal detection
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		return fmt.Errorf("invalid theme mode: %s", cfg.Mode)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		applyColor(token, value)
	}

	rebuildStyles()

	return nil
}

// applyColor sets a single color variable from its token.
func applyColor(token ColorToken, hex string) {
	color := lipgloss.AdaptiveColor{Light: hex, Dark: hex}

	switch token {
	case TokenTextPrimary:
		TextPrimaryColor = color
	case TokenTextSecondary:
		TextSecondaryColor = color
	case TokenTextMuted:
		TextMutedColor = color
	case TokenTextPlaceholder:
		TextPlaceholderColor = color
	case TokenSentenceActive:
		SentenceActiveColor = color
	case TokenSentenceDimmed:
		SentenceDimmedColor = color
	case TokenSentenceHeading:
		SentenceHeadingColor = color
	case TokenCaret:
		CaretColor = color
	case TokenBorderDefault:
		BorderDefaultColor = color
	case TokenBorderFocus:
		BorderFocusColor = color
	case TokenStatusSuccess:
		StatusSuccessColor = color
	case TokenStatusWarning:
		StatusWarningColor = color
	case TokenStatusError:
		StatusErrorColor = color
	case TokenStatusBarBg:
		StatusBarBgColor = color
	case TokenStatusBarFg:
		StatusBarFgColor = color
	case TokenStatusBarAccent:
		StatusBarAccentColor = color
	case TokenOverlayTitle:
		OverlayTitleColor = color
	case TokenOverlayBorder:
		OverlayBorderColor = color
	case TokenToastSuccess:
		ToastBorderSuccessColor = color
	case TokenToastError:
		ToastBorderErrorColor = color
	case TokenToastInfo:
		ToastBorderInfoColor = color
	case TokenToastWarn:
		ToastBorderWarnColor = color
	}
}

// isValidToken reports whether token is a known color token.
func isValidToken(token ColorToken) bool {
	for _, t := range AllTokens() {
		if t == token {
			return true
		}
	}
	return false
}

// isValidHexColor reports whether s is a #RGB or #RRGGBB hex color.
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
