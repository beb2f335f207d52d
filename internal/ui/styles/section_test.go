package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func renderPlain(p Panel, rows ...string) []string {
	return strings.Split(ansi.Strip(p.Render(rows)), "\n")
}

func TestPanel_Render(t *testing.T) {
	tests := []struct {
		name   string
		panel  Panel
		rows   []string
		top    string
		bottom string
	}{
		{
			name:   "title only",
			panel:  Panel{Title: "maskedit", Width: 20},
			rows:   []string{" Phone"},
			top:    "╭─ maskedit ───────╮",
			bottom: "╰──────────────────╯",
		},
		{
			name:   "title and hint",
			panel:  Panel{Title: "maskedit", Hint: "de-DE", Width: 24},
			rows:   []string{" Phone"},
			top:    "╭─ maskedit (de-DE) ───╮",
			bottom: "╰──────────────────────╯",
		},
		{
			name:   "no title",
			panel:  Panel{Width: 10},
			rows:   []string{"x"},
			top:    "╭────────╮",
			bottom: "╰────────╯",
		},
		{
			name:   "footer",
			panel:  Panel{Title: "Logs", Footer: "3 lines", Width: 20},
			rows:   []string{"a"},
			top:    "╭─ Logs ───────────╮",
			bottom: "╰──────── 3 lines ─╯",
		},
		{
			name:   "footer too wide is dropped",
			panel:  Panel{Footer: "a very long footer", Width: 12},
			rows:   []string{"a"},
			top:    "╭──────────╮",
			bottom: "╰──────────╯",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := renderPlain(tt.panel, tt.rows...)
			require.Len(t, lines, len(tt.rows)+2)
			require.Equal(t, tt.top, lines[0])
			require.Equal(t, tt.bottom, lines[len(lines)-1])
			for _, line := range lines {
				require.Equal(t, tt.panel.Width, ansi.StringWidth(line), "line %q", line)
			}
		})
	}
}

func TestPanel_RowsArePaddedAndTruncated(t *testing.T) {
	lines := renderPlain(Panel{Width: 12}, "short", strings.Repeat("x", 30), "")

	require.Equal(t, "│short     │", lines[1])
	require.Equal(t, "│xxxxxxxxx…│", lines[2])
	require.Equal(t, "│          │", lines[3])
}

func TestPanel_WideCharacters(t *testing.T) {
	lines := renderPlain(Panel{Title: "日本", Width: 16}, "ｘ１２")
	for _, line := range lines {
		require.Equal(t, 16, ansi.StringWidth(line), "line %q", line)
	}
	require.Contains(t, lines[0], "日本")
}

func TestPanel_LongTitleIsTruncated(t *testing.T) {
	lines := renderPlain(Panel{Title: strings.Repeat("T", 40), Hint: "hint", Width: 20})
	require.Equal(t, 20, ansi.StringWidth(lines[0]))
	require.Contains(t, lines[0], "…")
}

func TestPanel_InnerWidth(t *testing.T) {
	require.Equal(t, 18, Panel{Width: 20}.InnerWidth())
	require.Equal(t, 1, Panel{Width: 0}.InnerWidth())
}

func TestPanel_FocusChangesBorderColor(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	accent := lipgloss.Color("#FF0000")
	blurred := Panel{Title: "maskedit", Width: 20, Accent: accent}.Render([]string{"row"})
	focused := Panel{Title: "maskedit", Width: 20, Accent: accent, Focused: true}.Render([]string{"row"})

	require.NotEqual(t, blurred, focused)
	require.Equal(t, ansi.Strip(blurred), ansi.Strip(focused))
	require.Contains(t, focused, "255;0;0")
}
