package toaster

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m := New().Show("Saved", StyleSuccess)

	assert.True(t, m.Visible())
	assert.Equal(t, "Saved", m.Message())
	assert.Equal(t, "✓ Saved", ansi.Strip(m.View()))
}

func TestHide(t *testing.T) {
	m := New().Show("Saved", StyleSuccess).Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().
		Show("First", StyleSuccess).
		Show("Second", StyleError)

	assert.Equal(t, "✗ Second", ansi.Strip(m.View()))
}

func TestView_EmptyWhenMessageEmpty(t *testing.T) {
	m := Model{visible: true, message: ""}

	assert.Empty(t, m.View())
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"success", StyleSuccess, "✓ Phone: (555) 123-4567"},
		{"error", StyleError, "✗ Phone: (555) 123-4567"},
		{"info", StyleInfo, "Phone: (555) 123-4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New().Show("Phone: (555) 123-4567", tt.style)
			assert.Equal(t, tt.want, ansi.Strip(m.View()))
		})
	}
}

func TestView_Truncates(t *testing.T) {
	m := New().SetWidth(12).Show("Phone: (555) 123-4567", StyleInfo)
	assert.Equal(t, "Phone: (5...", ansi.Strip(m.View()))
}

func TestUpdate_IgnoresStaleDismiss(t *testing.T) {
	m := New().Show("First", StyleInfo)
	stale := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)

	m = m.Show("Second", StyleInfo)
	m = m.Update(stale)
	assert.True(t, m.Visible(), "a replaced message's timer does not hide the new one")

	current := m.ScheduleDismiss(time.Millisecond)().(DismissMsg)
	m = m.Update(current)
	assert.False(t, m.Visible())
}

// host runs the toaster the way the demo form does.
type host struct {
	toast Model
}

func (h host) Init() tea.Cmd { return nil }

func (h host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "s" {
		h.toast = h.toast.Show("Saved", StyleSuccess)
		return h, h.toast.ScheduleDismiss(10 * time.Millisecond)
	}
	h.toast = h.toast.Update(msg)
	return h, nil
}

func (h host) View() string { return h.toast.View() }

func TestScheduleDismiss_InProgram(t *testing.T) {
	tm := teatest.NewTestModel(t, host{toast: New()}, teatest.WithInitialTermSize(40, 5))
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	time.Sleep(100 * time.Millisecond)
	tm.Quit()

	fm, ok := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(host)
	require.True(t, ok)
	assert.False(t, fm.toast.Visible(), "the dismiss timer fired")
}
