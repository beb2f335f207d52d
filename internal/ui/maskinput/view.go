package maskinput

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/ui/styles"
)

// View renders the label followed by the field. The field text is wrapped in
// a bubblezone mark so clicks can be mapped back to display columns; the host
// must pass its final view through zone.Scan.
func (m Model) View() string {
	var sb strings.Builder
	if label := m.renderLabel(); label != "" {
		sb.WriteString(label)
		sb.WriteString(" ")
	}
	sb.WriteString(zone.Mark(m.id, m.renderField()))
	if m.focused && m.ed.Overwrite() {
		sb.WriteString(styles.MutedStyle.Render(" ovr"))
	}
	return sb.String()
}

// FieldView renders the field alone, without label or zone mark.
func (m Model) FieldView() string {
	return m.renderField()
}

func (m Model) renderLabel() string {
	if m.label == "" && m.labelWidth == 0 {
		return ""
	}
	label := m.label
	if m.labelWidth > 0 {
		label = styles.PadRight(styles.TruncateString(label, m.labelWidth), m.labelWidth)
	}
	switch {
	case m.invalid:
		return styles.InvalidStyle.Render(label)
	case m.focused:
		return styles.LabelFocusedStyle.Render(label)
	default:
		return styles.LabelStyle.Render(label)
	}
}

func (m Model) renderField() string {
	var sb strings.Builder
	for _, sp := range m.ed.Render() {
		st := spanStyle(sp)
		if sp.Selected {
			st = st.Inherit(styles.SelectionStyle)
		}
		if m.focused && sp.Cursor {
			st = st.Inherit(styles.CursorStyle)
		}
		sb.WriteString(st.Render(sp.Text))
	}
	if m.focused && m.ed.Cursor() == m.ed.Len() {
		sb.WriteString(styles.CursorStyle.Render(" "))
	}
	return sb.String()
}

func spanStyle(sp editor.Span) lipgloss.Style {
	switch {
	case sp.Placeholder:
		return styles.PlaceholderStyle
	case sp.Literal:
		return styles.LiteralStyle
	default:
		return styles.ValueStyle
	}
}
