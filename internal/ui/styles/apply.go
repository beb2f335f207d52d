package styles

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import maskinput, but maskinput can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Focus       string
	Placeholder string
	Invalid     string
	Selection   string
}

// ApplyTheme overrides field colors and rebuilds every style. Empty strings
// keep the current color. Nothing is changed when any color is invalid.
func ApplyTheme(cfg ThemeConfig) error {
	overrides := []struct {
		name  string
		value string
		dst   *lipgloss.AdaptiveColor
	}{
		{"focus", cfg.Focus, &FieldFocusColor},
		{"placeholder", cfg.Placeholder, &FieldPlaceholderColor},
		{"invalid", cfg.Invalid, &FieldInvalidColor},
		{"selection", cfg.Selection, &FieldSelectionColor},
	}
	for _, o := range overrides {
		if o.value != "" && !isValidHexColor(o.value) {
			return fmt.Errorf("invalid hex color for %s: %s", o.name, o.value)
		}
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.dst = lipgloss.AdaptiveColor{Light: o.value, Dark: o.value}
		}
	}

	rebuildStyles()
	return nil
}

// isValidHexColor reports whether s is #RGB or #RRGGBB.
func isValidHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}
