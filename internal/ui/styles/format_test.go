package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "Phone", 10, "Phone"},
		{"exact", "Phone", 5, "Phone"},
		{"ellipsis", "Telephone number", 10, "Telepho..."},
		{"tiny width", "Telephone", 2, "Te"},
		{"zero width", "Telephone", 0, ""},
		{"wide characters", "年年年年", 5, "年..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.width)
			require.Equal(t, tt.expected, got)
			require.LessOrEqual(t, ansi.StringWidth(got), max(tt.width, 0))
		})
	}
}

func TestTruncateString_KeepsStyling(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("Amount due")
	got := TruncateString(styled, 7)
	require.Equal(t, "Amou...", ansi.Strip(got))
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "ab  ", PadRight("ab", 4))
	require.Equal(t, "世a ", PadRight("世a", 4))
	require.Equal(t, "abcdef", PadRight("abcdef", 4))
}
