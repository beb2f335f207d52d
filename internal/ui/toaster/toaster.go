// Package toaster shows short-lived status messages on a single line below
// the form: commit results, save outcomes, rejected input.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/maskedit/internal/ui/styles"
)

// Style determines the icon and color of the message.
type Style int

const (
	// StyleSuccess shows ✓ in the success color.
	StyleSuccess Style = iota
	// StyleError shows ✗ in the error color.
	StyleError
	// StyleInfo shows a muted message without an icon.
	StyleInfo
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	width   int
	seq     int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message, replacing any current one.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the message.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether a message is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the current message.
func (m Model) Message() string {
	return m.message
}

// SetWidth truncates later renders to width cells. Zero disables truncation.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// Update hides the message when its own dismiss timer fires. Timers from
// replaced messages are ignored.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// View renders the status line.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	var (
		style   lipgloss.Style
		content string
	)
	switch m.style {
	case StyleError:
		style = styles.ErrorStyle
		content = "✗ " + m.message
	case StyleInfo:
		style = styles.MutedStyle
		content = m.message
	default:
		style = styles.SuccessStyle
		content = "✓ " + m.message
	}
	if m.width > 0 {
		content = styles.TruncateString(content, m.width)
	}
	return style.Render(content)
}

// DismissMsg signals that a message's display time is over.
type DismissMsg struct {
	seq int
}

// ScheduleDismiss returns a command that dismisses the current message after d.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
