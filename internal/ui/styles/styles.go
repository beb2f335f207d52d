// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"} // Field values, main text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Labels
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, log lines

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Committed values
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Validation errors

	// Field colors, themeable through config
	FieldFocusColor       = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"} // Focused border, cursor
	FieldPlaceholderColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#5C5C5C"} // Blank slots
	FieldInvalidColor     = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF5F87"} // Rejected input flash
	FieldSelectionColor   = lipgloss.AdaptiveColor{Light: "#CCD0DA", Dark: "#3C3C5C"} // Selection background
	FieldLiteralColor     = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#8C8C8C"} // Mask literals
)

var (
	// Field rendering
	ValueStyle       lipgloss.Style
	PlaceholderStyle lipgloss.Style
	LiteralStyle     lipgloss.Style
	SelectionStyle   lipgloss.Style
	CursorStyle      lipgloss.Style
	InvalidStyle     lipgloss.Style

	// Labels
	LabelStyle        lipgloss.Style
	LabelFocusedStyle lipgloss.Style

	// Status
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style

	// Status bar
	StatusBarStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates every Style from the current colors.
func rebuildStyles() {
	ValueStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(FieldPlaceholderColor)
	LiteralStyle = lipgloss.NewStyle().Foreground(FieldLiteralColor)
	SelectionStyle = lipgloss.NewStyle().Background(FieldSelectionColor)
	CursorStyle = lipgloss.NewStyle().Reverse(true)
	InvalidStyle = lipgloss.NewStyle().Foreground(FieldInvalidColor).Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	LabelFocusedStyle = lipgloss.NewStyle().Foreground(FieldFocusColor).Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	for _, fn := range styleRebuilders {
		fn()
	}
}
