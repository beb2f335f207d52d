package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/maskedit/internal/config"
	"github.com/zjrosen/maskedit/internal/dateinput"
	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
	"github.com/zjrosen/maskedit/internal/pubsub"
	"github.com/zjrosen/maskedit/internal/ui/maskinput"
	"github.com/zjrosen/maskedit/internal/watcher"
)

// Field indexes in config.DefaultFields.
const (
	phoneIdx  = 0
	amountIdx = 1
	dateIdx   = 3
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// createTestModel builds the default form without a config file.
func createTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Config.Fields == nil {
		opts.Config = config.Defaults()
	}
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	return update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func plainView(m Model) string { return ansi.Strip(m.View()) }

// loadConfig reads path the way the CLI does.
func loadConfig(t *testing.T, path string) config.Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestNew_BuildsDefaultFields(t *testing.T) {
	m := createTestModel(t, Options{})

	require.Len(t, m.fields, len(config.DefaultFields()))
	assert.Equal(t, "en-US", m.loc.ID)
	assert.Equal(t, 0, m.focus)
	assert.True(t, m.fields[phoneIdx].input.Focused())
	assert.False(t, m.fields[amountIdx].input.Focused())

	view := plainView(m)
	assert.Contains(t, view, "maskedit")
	assert.Contains(t, view, "Phone")
	assert.Contains(t, view, "(___) ___-____")
	assert.Contains(t, view, "dd ___ yyyy")
}

func TestNew_InitialValues(t *testing.T) {
	cfg := config.Defaults()
	cfg.Fields = []config.FieldConfig{
		{Name: "Phone", Pattern: `(999) 999\-9999`, Value: "5551234567"},
		{Name: "Broken", Pattern: "99", Value: "12345"},
	}
	m := createTestModel(t, Options{Config: cfg})

	assert.Equal(t, "(555) 123-4567", m.fields[0].input.Editor().Value())
	assert.True(t, m.fields[1].input.Editor().IsEmpty(), "values that do not fit are dropped")
}

func TestNew_Errors(t *testing.T) {
	cfg := config.Defaults()
	cfg.Fields = []config.FieldConfig{{Name: "Bad", Pattern: `99\`}}
	_, err := New(Options{Config: cfg})
	require.ErrorIs(t, err, mask.ErrInvalidPattern)

	cfg = config.Defaults()
	cfg.Theme.Focus = "purple"
	_, err = New(Options{Config: cfg})
	require.Error(t, err)

	cfg = config.Defaults()
	cfg.Locale = "not a locale!"
	_, err = New(Options{Config: cfg})
	require.ErrorIs(t, err, locale.ErrUnknownLocale)
}

func TestUpdate_FocusCycles(t *testing.T) {
	m := createTestModel(t, Options{})
	last := len(m.fields) - 1

	m = update(m, keyMsg(tea.KeyTab))
	assert.Equal(t, 1, m.focus)
	assert.False(t, m.fields[0].input.Focused())
	assert.True(t, m.fields[1].input.Focused())

	m = update(m, keyMsg(tea.KeyShiftTab), keyMsg(tea.KeyShiftTab))
	assert.Equal(t, last, m.focus, "focus wraps backwards")

	m = update(m, keyMsg(tea.KeyDown))
	assert.Equal(t, 0, m.focus, "focus wraps forwards")
}

func TestUpdate_TypeAndCommit(t *testing.T) {
	m := createTestModel(t, Options{})

	m = typeText(m, "5551234567")
	assert.Equal(t, "(555) 123-4567", m.fields[phoneIdx].input.Editor().Value())
	assert.True(t, m.fields[amountIdx].input.Editor().IsEmpty(), "keys go to the focused field only")

	m = update(m, keyMsg(tea.KeyEnter))
	v, ok := m.fields[phoneIdx].input.Committed()
	require.True(t, ok)
	assert.Equal(t, "(555) 123-4567", v.Text)
	assert.Contains(t, plainView(m), "✓ Phone: (555) 123-4567")
}

func TestUpdate_CommitReportsValidatorErrors(t *testing.T) {
	m := createTestModel(t, Options{})
	m = update(m, keyMsg(tea.KeyTab), keyMsg(tea.KeyTab), keyMsg(tea.KeyTab))
	require.Equal(t, dateIdx, m.focus)

	m = typeText(m, "31 Feb 2024")
	assert.Equal(t, "31 Feb 2024", m.fields[dateIdx].input.Editor().Value())

	m = update(m, keyMsg(tea.KeyEnter))
	require.ErrorIs(t, m.fields[dateIdx].input.Err(), dateinput.ErrInvalidDate)
	view := plainView(m)
	assert.Contains(t, view, "✗ Date: invalid date")
}

func TestUpdate_SaveWritesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	m := createTestModel(t, Options{Config: loadConfig(t, path), ConfigPath: path})
	m = typeText(m, "5551234567")
	m = update(m, keyMsg(tea.KeyCtrlS))

	assert.Contains(t, plainView(m), "Saved 7 fields")
	saved := loadConfig(t, path)
	require.Len(t, saved.Fields, 7)
	assert.Equal(t, "(555) 123-4567", saved.Fields[phoneIdx].Value)
	assert.Equal(t, "en-US", saved.Locale, "other keys are preserved")
}

func TestUpdate_SaveStopsAtInvalidField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	m := createTestModel(t, Options{Config: loadConfig(t, path), ConfigPath: path})
	m = update(m, keyMsg(tea.KeyTab), keyMsg(tea.KeyTab), keyMsg(tea.KeyTab))
	m = typeText(m, "31 Feb 2024")
	m = update(m, keyMsg(tea.KeyShiftTab), keyMsg(tea.KeyShiftTab), keyMsg(tea.KeyShiftTab))
	require.Equal(t, phoneIdx, m.focus)
	m = update(m, keyMsg(tea.KeyCtrlS))

	assert.Equal(t, dateIdx, m.focus, "the failing field takes focus")
	assert.Contains(t, plainView(m), "✗ Date:")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdate_SaveWithoutConfigFile(t *testing.T) {
	m := createTestModel(t, Options{})
	m = typeText(m, "5551234567")
	m = update(m, keyMsg(tea.KeyCtrlS))

	assert.Equal(t, "(555) 123-4567", m.cfg.Fields[phoneIdx].Value)
	assert.Contains(t, plainView(m), "Values kept in memory")
}

func TestUpdate_NextLocaleKeepsValues(t *testing.T) {
	m := createTestModel(t, Options{})
	m = typeText(m, "5551234567")
	require.NoError(t, m.fields[amountIdx].input.Editor().Apply(editor.SetValue{Raw: "1234.5"}).Err)

	ids := locale.Supported()
	m = update(m, keyMsg(tea.KeyCtrlO))
	assert.Equal(t, ids[1], m.loc.ID)
	m = update(m, keyMsg(tea.KeyCtrlO))
	require.Equal(t, "de-DE", m.loc.ID)
	assert.Contains(t, plainView(m), "Locale de-DE")

	assert.Equal(t, "(555) 123-4567", m.fields[phoneIdx].input.Editor().Value())
	v, err := m.fields[amountIdx].input.Editor().Commit()
	require.NoError(t, err)
	assert.Contains(t, v.Text, "1.234,50")
	assert.True(t, m.fields[phoneIdx].input.Focused(), "focus survives the rebuild")
}

func TestUpdate_NextLocaleSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	m := createTestModel(t, Options{Config: loadConfig(t, path), ConfigPath: path})
	m = update(m, keyMsg(tea.KeyCtrlO))

	assert.Equal(t, locale.Supported()[1], loadConfig(t, path).Locale)
}

func TestUpdate_RejectedKeysReachStatusLine(t *testing.T) {
	m := createTestModel(t, Options{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = next.(Model)
	require.True(t, m.fields[phoneIdx].input.Invalid())

	m = update(m, pubsub.Event[maskinput.Event]{
		Type:    pubsub.RejectedEvent,
		Payload: maskinput.Event{Label: "Phone", Command: "insert.char", Err: editor.ErrInvalidChar},
	})
	assert.Contains(t, plainView(m), "Phone: "+editor.ErrInvalidChar.Error())
}

func TestUpdate_LogPane(t *testing.T) {
	m := createTestModel(t, Options{})
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = update(m, log.LogEvent{Type: pubsub.LoggedEvent, Payload: "2026-01-02T10:00:00 [INFO] [ui] hello pane\n"})
	assert.NotContains(t, plainView(m), "hello pane", "the pane starts hidden")

	m = update(m, keyMsg(tea.KeyCtrlL))
	assert.Contains(t, plainView(m), "hello pane")

	m = update(m, keyMsg(tea.KeyF2), keyMsg(tea.KeyF2))
	assert.Equal(t, log.LevelWarn, m.logs.Level())
	assert.NotContains(t, plainView(m), "hello pane")
}

func TestUpdate_HelpToggle(t *testing.T) {
	m := createTestModel(t, Options{})
	short := plainView(m)
	assert.NotContains(t, short, "select to start")

	m = update(m, keyMsg(tea.KeyF1))
	assert.Contains(t, plainView(m), "select to start")
}

func TestUpdate_QuitKey(t *testing.T) {
	m := createTestModel(t, Options{})
	_, cmd := m.Update(keyMsg(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// collect runs cmd and any batched commands, skipping timers.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

func TestUpdate_ClickFocusesField(t *testing.T) {
	m := createTestModel(t, Options{})
	id := m.fields[amountIdx].input.ID()

	var z *zone.ZoneInfo
	for retries := 0; retries < 50; retries++ {
		_ = m.View()
		if z = zone.Get(id); z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero(), "zone was not registered")

	next, cmd := m.Update(tea.MouseMsg{
		X:      z.StartX + 1,
		Y:      z.StartY,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(Model)
	m = update(m, collect(cmd)...)

	assert.Equal(t, amountIdx, m.focus)
	assert.True(t, m.fields[amountIdx].input.Focused())
	assert.False(t, m.fields[phoneIdx].input.Focused())
}

func TestUpdate_ReloadsChangedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	var next config.Config
	var loadErr error
	m := createTestModel(t, Options{
		Config:     loadConfig(t, path),
		ConfigPath: path,
		Reload:     func() (config.Config, error) { return next, loadErr },
	})
	m = typeText(m, "5551234567")
	changed := watcher.Event{Type: watcher.FileChanged, Path: path}

	next = m.cfg
	next.Locale = "de-DE"
	m = update(m, pubsub.Event[watcher.Event]{Type: pubsub.FileEvent, Payload: changed})
	assert.Equal(t, "de-DE", m.loc.ID)
	assert.Equal(t, "(555) 123-4567", m.fields[phoneIdx].input.Editor().Value())
	assert.Contains(t, plainView(m), "Config reloaded")

	next.Fields = append(next.Fields, config.FieldConfig{Name: "Bad", Pattern: `99\`})
	m = update(m, pubsub.Event[watcher.Event]{Type: pubsub.FileEvent, Payload: changed})
	assert.Len(t, m.fields, 7, "invalid configs are ignored")
	assert.Contains(t, plainView(m), "Config not reloaded")

	loadErr = errors.New("unreadable")
	m = update(m, pubsub.Event[watcher.Event]{Type: pubsub.FileEvent, Payload: changed})
	assert.Contains(t, plainView(m), "unreadable")
}

func TestProgram_TypeCommitAndQuit(t *testing.T) {
	m := createTestModel(t, Options{})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))
	tm.Type("5551234567")
	tm.Send(keyMsg(tea.KeyEnter))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Phone: (555) 123-4567"))
	}, teatest.WithDuration(2*time.Second))
	tm.Send(keyMsg(tea.KeyEsc))

	fm, ok := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(Model)
	require.True(t, ok)
	v, ok := fm.fields[phoneIdx].input.Committed()
	require.True(t, ok)
	assert.Equal(t, "(555) 123-4567", v.Text)
	assert.True(t, strings.HasPrefix(ansi.Strip(fm.View()), "╭"))
}
