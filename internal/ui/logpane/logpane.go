// Package logpane provides a docked log viewer that shows recent log entries
// below the form without leaving the TUI.
package logpane

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/ui/styles"
)

const (
	defaultMaxEntries = 500
	defaultHeight     = 8 // Including borders
	minHeight         = 3
)

// Model is the log pane state. Entries are kept regardless of visibility so
// that opening the pane shows recent history.
type Model struct {
	visible    bool
	minLevel   log.Level
	entries    []string
	maxEntries int
	width      int
	height     int
	viewport   viewport.Model
}

// Option configures a Model.
type Option func(*Model)

// WithMaxEntries caps the number of entries kept.
func WithMaxEntries(n int) Option {
	return func(m *Model) { m.maxEntries = n }
}

// WithHeight sets the pane height in lines, borders included.
func WithHeight(h int) Option {
	return func(m *Model) { m.height = h }
}

// New creates a hidden log pane.
func New(opts ...Option) Model {
	m := Model{
		minLevel:   log.LevelDebug,
		maxEntries: defaultMaxEntries,
		height:     defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.height = max(m.height, minHeight)
	return m
}

// Visible returns whether the pane is shown.
func (m Model) Visible() bool { return m.visible }

// Level returns the minimum level shown.
func (m Model) Level() log.Level { return m.minLevel }

// Height returns the rendered height, or 0 while hidden.
func (m Model) Height() int {
	if !m.visible {
		return 0
	}
	return m.height
}

// Toggle shows or hides the pane.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	m.refresh(true)
	return m
}

// SetWidth updates the pane width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	m.refresh(true)
	return m
}

// Append adds an entry, dropping the oldest past the cap. The view follows
// new entries unless the user scrolled up.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	if entry == "" {
		return m
	}
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.maxEntries; over > 0 {
		m.entries = append([]string(nil), m.entries[over:]...)
	}
	m.refresh(m.viewport.AtBottom())
	return m
}

// Clear drops every entry.
func (m Model) Clear() Model {
	m.entries = nil
	m.refresh(true)
	return m
}

// CycleLevel raises the minimum level shown, wrapping from ERROR to DEBUG.
func (m Model) CycleLevel() Model {
	if m.minLevel >= log.LevelError {
		m.minLevel = log.LevelDebug
	} else {
		m.minLevel++
	}
	m.refresh(true)
	return m
}

// Entries returns the entries matching the current level filter.
func (m Model) Entries() []string {
	var filtered []string
	for _, entry := range m.entries {
		if m.matchesLevel(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Update scrolls the pane with the page keys and the mouse wheel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup":
			m.viewport.ScrollUp(m.viewport.Height)
		case "pgdown":
			m.viewport.ScrollDown(m.viewport.Height)
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the pane, or "" while hidden.
func (m Model) View() string {
	if !m.visible || m.width == 0 {
		return ""
	}
	rows := strings.Split(m.viewport.View(), "\n")
	panel := styles.Panel{Title: "Logs", Hint: m.filterHint(), Width: m.width}
	if n := len(m.Entries()); n > 0 {
		panel.Footer = fmt.Sprintf("%d lines", n)
	}
	return panel.Render(rows)
}

func (m *Model) refresh(follow bool) {
	if m.width == 0 {
		return
	}
	contentWidth := max(m.width-2, 1)
	contentHeight := max(m.height-2, 1)
	if m.viewport.Width != contentWidth || m.viewport.Height != contentHeight {
		m.viewport = viewport.New(contentWidth, contentHeight)
	}
	m.viewport.SetContent(m.buildContent(contentWidth))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) buildContent(width int) string {
	filtered := m.Entries()
	if len(filtered) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No logs to display")
	}
	lines := make([]string, 0, len(filtered))
	for _, entry := range filtered {
		lines = append(lines, colorizeEntry(entry, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) filterHint() string {
	return m.minLevel.String() + "+ · f2"
}

// entryLevel reads the level tag written by the log package.
func entryLevel(entry string) (log.Level, bool) {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError, true
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn, true
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo, true
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug, true
	}
	return 0, false
}

// matchesLevel shows entries at or above the minimum level. Entries without
// a level tag are always shown.
func (m Model) matchesLevel(entry string) bool {
	level, ok := entryLevel(entry)
	return !ok || level >= m.minLevel
}

func colorizeEntry(entry string, maxWidth int) string {
	level, ok := entryLevel(entry)
	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth, "…")
	}

	var style lipgloss.Style
	switch {
	case !ok:
		style = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	case level == log.LevelError:
		style = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	case level == log.LevelWarn:
		style = lipgloss.NewStyle().Foreground(styles.FieldInvalidColor)
	case level == log.LevelInfo:
		style = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	}
	return style.Render(entry)
}
