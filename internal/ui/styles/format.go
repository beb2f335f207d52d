package styles

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
// ANSI sequences and wide characters are measured correctly.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return truncate.String(s, uint(maxWidth)) //nolint:gosec // maxWidth is positive
	}
	return truncate.StringWithTail(s, uint(maxWidth), "...") //nolint:gosec // maxWidth is positive
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
