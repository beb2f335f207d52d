// Package app contains the demo form: a column of masked fields built from
// the config, with a status line, key help and a live log pane.
package app

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/maskedit/internal/config"
	"github.com/zjrosen/maskedit/internal/keys"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/pubsub"
	"github.com/zjrosen/maskedit/internal/ui/logpane"
	"github.com/zjrosen/maskedit/internal/ui/maskinput"
	"github.com/zjrosen/maskedit/internal/ui/styles"
	"github.com/zjrosen/maskedit/internal/ui/toaster"
	"github.com/zjrosen/maskedit/internal/watcher"
)

const (
	statusDuration = 3 * time.Second
	defaultWidth   = 64
	maxWidth       = 96
)

// Options configures the demo form.
type Options struct {
	Config config.Config
	// ConfigPath is where ctrl+s and ctrl+o save. Empty keeps changes in
	// memory.
	ConfigPath string
	// Reload re-reads the config file. When set along with ConfigPath, the
	// file is watched and edits made elsewhere are applied live.
	Reload func() (config.Config, error)
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	reload     func() (config.Config, error)
	loc        locale.Locale

	fields []field
	focus  int

	width    int
	height   int
	showHelp bool
	help     help.Model
	status   toaster.Model
	logs     logpane.Model

	ctx           context.Context
	cancel        context.CancelFunc
	events        *pubsub.Broker[maskinput.Event]
	fieldListener *pubsub.ContinuousListener[maskinput.Event]
	logListener   *log.LogListener
	watcher       *watcher.Watcher
	watchListener *pubsub.ContinuousListener[watcher.Event]
}

// New builds the form. Call Close when the program exits.
func New(opts Options) (Model, error) {
	if zone.DefaultManager == nil {
		zone.NewGlobal()
	}
	if err := styles.ApplyTheme(styles.ThemeConfig(opts.Config.Theme)); err != nil {
		return Model{}, fmt.Errorf("theme: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := pubsub.NewBroker[maskinput.Event]()
	m := Model{
		configPath:    opts.ConfigPath,
		reload:        opts.Reload,
		help:          help.New(),
		status:        toaster.New(),
		logs:          logpane.New(),
		ctx:           ctx,
		cancel:        cancel,
		events:        events,
		fieldListener: pubsub.NewContinuousListener(ctx, events, pubsub.RejectedEvent),
		logListener:   log.NewListener(ctx),
	}

	if err := m.rebuild(opts.Config); err != nil {
		cancel()
		events.Close()
		return Model{}, err
	}
	if len(m.fields) > 0 {
		m.fields[0].input = m.fields[0].input.Focus()
	}

	if m.reload != nil && m.configPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(m.configPath))
		if err == nil {
			if err = w.Start(); err == nil {
				m.watcher = w
				m.watchListener = pubsub.NewContinuousListener(ctx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		if err != nil {
			// The form works without live reload.
			log.Warn(log.CatConfig, "Config watching disabled", "path", m.configPath, "error", err)
		}
	}

	log.Info(log.CatUI, "Form ready", "fields", len(m.fields), "locale", m.loc.ID)
	return m, nil
}

// rebuild resolves cfg's locale and recompiles every field, carrying values
// across by field name. On error the model is left unchanged.
func (m *Model) rebuild(cfg config.Config) error {
	resolver := locale.NewResolver(cfg.ResolverOptions()...)
	loc, err := resolver.Resolve(m.ctx, cfg.LocaleID())
	if err != nil {
		return fmt.Errorf("locale %q: %w", cfg.LocaleID(), err)
	}

	old := make(map[string]field, len(m.fields))
	for _, f := range m.fields {
		old[f.cfg.Name] = f
	}
	focused := ""
	if m.focus < len(m.fields) {
		focused = m.fields[m.focus].cfg.Name
	}

	env := newFieldEnv(cfg, loc, m.events)
	fields := make([]field, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		f, err := newField(fc, env)
		if err != nil {
			return err
		}
		if prev, ok := old[fc.Name]; ok {
			if c, ok := prev.carry(); ok {
				f.restore(c)
			}
		}
		fields = append(fields, f)
	}

	// Focus stays on the same field, or the same row if it was removed.
	focus := min(m.focus, max(len(fields)-1, 0))
	for i, f := range fields {
		if f.cfg.Name == focused {
			focus = i
		}
	}
	if len(m.fields) > 0 && len(fields) > 0 {
		fields[focus].input = fields[focus].input.Focus()
	}

	m.cfg = cfg
	m.loc = loc
	m.fields = fields
	m.focus = focus
	log.Debug(log.CatUI, "Form rebuilt", "locale", loc.ID, "matched", loc.Matched, "fields", len(fields))
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fieldListener.Listen()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.watchListener != nil {
		cmds = append(cmds, m.watchListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := m.formWidth()
		m.logs = m.logs.SetWidth(w)
		m.status = m.status.SetWidth(w)
		m.help.Width = w
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if tea.MouseEvent(msg).IsWheel() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		return m.broadcast(msg)

	case maskinput.FocusRequestMsg:
		for i, f := range m.fields {
			if f.input.ID() == msg.ID {
				m = m.focusField(i)
				break
			}
		}
		return m, nil

	case log.LogEvent:
		m.logs = m.logs.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case pubsub.Event[maskinput.Event]:
		return m.handleFieldEvent(msg)

	case pubsub.Event[watcher.Event]:
		return m.handleFileEvent(msg)

	case toaster.DismissMsg:
		m.status = m.status.Update(msg)
		return m, nil
	}

	// Field-internal messages such as the rejected-input flash.
	return m.broadcast(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := keys.Form
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, k.ToggleLog):
		m.logs = m.logs.Toggle()
		return m, nil
	case key.Matches(msg, k.LogLevel):
		m.logs = m.logs.CycleLevel()
		return m, nil
	case key.Matches(msg, k.NextField):
		return m.focusField(m.focus + 1), nil
	case key.Matches(msg, k.PrevField):
		return m.focusField(m.focus - 1), nil
	case key.Matches(msg, k.Commit):
		return m.commitFocused()
	case key.Matches(msg, k.Save):
		return m.save()
	case key.Matches(msg, k.NextLocale):
		return m.nextLocale()
	}

	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	if len(m.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

// broadcast forwards msg to every field; each one filters for its own zone
// or id.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.fields {
		var cmd tea.Cmd
		m.fields[i].input, cmd = m.fields[i].input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// focusField moves focus to index i, wrapping around.
func (m Model) focusField(i int) Model {
	n := len(m.fields)
	if n == 0 {
		return m
	}
	i = ((i % n) + n) % n
	m.fields[m.focus].input = m.fields[m.focus].input.Blur()
	m.focus = i
	m.fields[i].input = m.fields[i].input.Focus()
	return m
}

func (m Model) showStatus(message string, style toaster.Style) (Model, tea.Cmd) {
	m.status = m.status.Show(message, style)
	return m, m.status.ScheduleDismiss(statusDuration)
}

func (m Model) commitFocused() (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}
	f := &m.fields[m.focus]
	f.input = f.input.Commit()
	if err := f.input.Err(); err != nil {
		return m.showStatus(fmt.Sprintf("%s: %v", f.cfg.Name, err), toaster.StyleError)
	}
	v, _ := f.input.Committed()
	if v.IsEmpty() {
		return m.showStatus(f.cfg.Name+": empty", toaster.StyleInfo)
	}
	return m.showStatus(fmt.Sprintf("%s: %s", f.cfg.Name, v.Text), toaster.StyleSuccess)
}

// save commits every field and stores the committed texts as the fields'
// initial values. The first field that fails to commit takes focus and
// nothing is saved.
func (m Model) save() (tea.Model, tea.Cmd) {
	fields := make([]config.FieldConfig, len(m.fields))
	for i := range m.fields {
		f := &m.fields[i]
		f.input = f.input.Commit()
		if err := f.input.Err(); err != nil {
			m = m.focusField(i)
			return m.showStatus(fmt.Sprintf("%s: %v", f.cfg.Name, err), toaster.StyleError)
		}
		v, _ := f.input.Committed()
		fields[i] = f.cfg
		fields[i].Value = v.Text
	}

	for i := range m.fields {
		m.fields[i].cfg = fields[i]
	}
	m.cfg.Fields = fields

	if m.configPath == "" {
		return m.showStatus("Values kept in memory (no config file)", toaster.StyleInfo)
	}
	if err := config.SaveFields(m.configPath, fields); err != nil {
		return m.showStatus(fmt.Sprintf("Save failed: %v", err), toaster.StyleError)
	}
	log.Info(log.CatConfig, "Saved field values", "path", m.configPath, "fields", len(fields))
	return m.showStatus(fmt.Sprintf("Saved %d fields to %s", len(fields), m.configPath), toaster.StyleSuccess)
}

// nextLocale switches to the next supported locale, keeping field values.
func (m Model) nextLocale() (tea.Model, tea.Cmd) {
	ids := locale.Supported()
	next := ids[0]
	for i, id := range ids {
		if strings.EqualFold(id, m.cfg.LocaleID()) {
			next = ids[(i+1)%len(ids)]
			break
		}
	}

	cfg := m.cfg
	cfg.Locale = next
	if err := m.rebuild(cfg); err != nil {
		return m.showStatus(err.Error(), toaster.StyleError)
	}
	if m.configPath != "" {
		if err := config.SaveLocale(m.configPath, next); err != nil {
			return m.showStatus(fmt.Sprintf("Locale %s (not saved: %v)", next, err), toaster.StyleError)
		}
	}
	log.Info(log.CatLocale, "Switched locale", "locale", next)
	return m.showStatus("Locale "+next, toaster.StyleInfo)
}

// handleFieldEvent reports rejected keystrokes on the status line. Commits
// report synchronously from the key handler.
func (m Model) handleFieldEvent(ev pubsub.Event[maskinput.Event]) (tea.Model, tea.Cmd) {
	listen := m.fieldListener.Listen()
	if ev.Type != pubsub.RejectedEvent || ev.Payload.Command == "commit" || ev.Payload.Err == nil {
		return m, listen
	}
	m, dismiss := m.showStatus(fmt.Sprintf("%s: %v", ev.Payload.Label, ev.Payload.Err), toaster.StyleInfo)
	return m, tea.Batch(listen, dismiss)
}

// handleFileEvent reloads the config after it changed on disk. Our own saves
// come back here too; an unchanged config is a no-op.
func (m Model) handleFileEvent(ev pubsub.Event[watcher.Event]) (tea.Model, tea.Cmd) {
	var listen tea.Cmd
	if m.watchListener != nil {
		listen = m.watchListener.Listen()
	}
	if m.reload == nil || ev.Payload.Type != watcher.FileChanged {
		return m, listen
	}

	cfg, err := m.reload()
	if err == nil {
		err = cfg.Validate(m.ctx)
	}
	if err != nil {
		log.Warn(log.CatConfig, "Ignoring invalid config change", "path", ev.Payload.Path, "error", err)
		m, dismiss := m.showStatus(fmt.Sprintf("Config not reloaded: %v", err), toaster.StyleError)
		return m, tea.Batch(listen, dismiss)
	}
	if reflect.DeepEqual(cfg, m.cfg) {
		return m, listen
	}

	if err := styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)); err != nil {
		log.Warn(log.CatConfig, "Ignoring theme change", "error", err)
	}
	if err := m.rebuild(cfg); err != nil {
		m, dismiss := m.showStatus(fmt.Sprintf("Config not reloaded: %v", err), toaster.StyleError)
		return m, tea.Batch(listen, dismiss)
	}
	log.Info(log.CatConfig, "Reloaded config", "path", ev.Payload.Path, "locale", m.loc.ID)
	m, dismiss := m.showStatus("Config reloaded", toaster.StyleInfo)
	return m, tea.Batch(listen, dismiss)
}

func (m Model) formWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return min(m.width, maxWidth)
}

// View implements tea.Model.
func (m Model) View() string {
	rows := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		rows = append(rows, " "+f.input.View()+m.fieldSuffix(f))
	}
	if len(rows) == 0 {
		rows = append(rows, styles.MutedStyle.Render(" No fields configured"))
	}

	var sb strings.Builder
	panel := styles.Panel{Title: "maskedit", Hint: m.loc.ID, Width: m.formWidth(), Focused: true}
	if len(m.fields) > 0 {
		panel.Footer = fmt.Sprintf("%d/%d", m.focus+1, len(m.fields))
	}
	sb.WriteString(panel.Render(rows))
	sb.WriteString("\n")
	sb.WriteString(m.status.View())
	sb.WriteString("\n")
	sb.WriteString(m.helpView())
	if logs := m.logs.View(); logs != "" {
		sb.WriteString("\n")
		sb.WriteString(logs)
	}
	return zone.Scan(sb.String())
}

func (m Model) fieldSuffix(f field) string {
	if f.input.Err() != nil {
		return styles.ErrorStyle.Render(" ✗")
	}
	if v, ok := f.input.Committed(); ok && !v.IsEmpty() {
		return styles.SuccessStyle.Render(" ✓")
	}
	return ""
}

func (m Model) helpView() string {
	if m.showHelp {
		groups := append(keys.Field.FullHelp(), keys.Form.FullHelp()...)
		return m.help.FullHelpView(groups)
	}
	return m.help.ShortHelpView(append(keys.Form.ShortHelp(), keys.Field.ShortHelp()...))
}

// Close releases the listeners and the config watcher.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.events != nil {
		m.events.Close()
	}
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}
