package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rounded border glyphs.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel is a rounded box of fixed width. Title and Hint sit in the top
// border, ╭─ Title (hint) ───╮, and Footer sits right-aligned in the bottom
// border. Rows are padded to the inner width or truncated with an ellipsis.
type Panel struct {
	Title   string
	Hint    string
	Footer  string
	Width   int
	Focused bool
	// Accent colors the border and title while focused. Nil means
	// FieldFocusColor.
	Accent lipgloss.TerminalColor
}

// InnerWidth returns the columns available to rows.
func (p Panel) InnerWidth() int {
	return max(p.Width-2, 1)
}

// Render draws the panel around rows.
func (p Panel) Render(rows []string) string {
	var color lipgloss.TerminalColor = BorderDefaultColor
	if p.Focused {
		color = p.Accent
		if color == nil {
			color = FieldFocusColor
		}
	}
	border := lipgloss.NewStyle().Foreground(color)
	inner := p.InnerWidth()

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, p.topBorder(border, inner))
	for _, row := range rows {
		if ansi.StringWidth(row) > inner {
			row = ansi.Truncate(row, inner, "…")
		}
		lines = append(lines, border.Render(borderVertical)+PadRight(row, inner)+border.Render(borderVertical))
	}
	lines = append(lines, p.bottomBorder(border, inner))
	return strings.Join(lines, "\n")
}

func (p Panel) topBorder(border lipgloss.Style, inner int) string {
	if p.Title == "" {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(border.GetForeground()).Render(p.Title)
	label := title
	if p.Hint != "" {
		label += " " + lipgloss.NewStyle().Foreground(TextMutedColor).Render("("+p.Hint+")")
	}
	// "─ " before the label and " " after it.
	if room := inner - 3; ansi.StringWidth(label) > room {
		label = ansi.Truncate(label, max(room, 0), "…")
	}
	fill := max(inner-ansi.StringWidth(label)-3, 0)
	return border.Render(borderTopLeft+borderHorizontal+" ") + label +
		border.Render(" "+strings.Repeat(borderHorizontal, fill)+borderTopRight)
}

func (p Panel) bottomBorder(border lipgloss.Style, inner int) string {
	footer := p.Footer
	if footer == "" || ansi.StringWidth(footer)+3 > inner {
		return border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight)
	}
	fill := inner - ansi.StringWidth(footer) - 3
	return border.Render(borderBottomLeft+strings.Repeat(borderHorizontal, fill)+" ") +
		MutedStyle.Render(footer) +
		border.Render(" "+borderHorizontal+borderBottomRight)
}
