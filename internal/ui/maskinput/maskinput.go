// Package maskinput hosts one masked field as a Bubble Tea component.
//
// The component owns an editor.Editor, translates key and mouse events into
// edit commands and renders the editor's spans with the shared styles. Focus,
// the rejected-input flash and the last commit result are host-side state;
// the editor never sees them.
package maskinput

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/keys"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/pubsub"
)

// flashDuration is how long a rejected keystroke highlights the field.
const flashDuration = 300 * time.Millisecond

// Event is published for every change, commit and rejection of a field.
type Event struct {
	ID    string
	Label string
	// Value is the raw buffer after a change, or the committed text.
	Value string
	// Command is the id of the rejected command, if any.
	Command string
	Err     error
}

// FocusRequestMsg asks the host to focus the field that was clicked.
type FocusRequestMsg struct {
	ID string
}

type clearInvalidMsg struct {
	id  string
	seq int
}

// Validator checks a committed value beyond what the mask enforces, e.g. that
// a date exists.
type Validator func(editor.FormattedValue) error

// Option configures a Model.
type Option func(*Model)

// WithLabel sets the label rendered before the field.
func WithLabel(label string) Option {
	return func(m *Model) { m.label = label }
}

// WithLabelWidth pads or truncates the label to width cells.
func WithLabelWidth(width int) Option {
	return func(m *Model) { m.labelWidth = width }
}

// WithKeyMap replaces the default field keymap.
func WithKeyMap(km keys.FieldKeyMap) Option {
	return func(m *Model) { m.keymap = km }
}

// WithValidator runs fn after a successful mask commit.
func WithValidator(fn Validator) Option {
	return func(m *Model) { m.validate = fn }
}

// WithPublisher publishes field events to p.
func WithPublisher(p pubsub.Publisher[Event]) Option {
	return func(m *Model) { m.events = p }
}

// Model is the field component state.
type Model struct {
	id         string
	label      string
	labelWidth int
	ed         *editor.Editor
	keymap     keys.FieldKeyMap
	validate   Validator
	events     pubsub.Publisher[Event]

	focused bool
	invalid bool
	seq     int

	committed editor.FormattedValue
	done      bool
	err       error
}

// New creates a field component around ed.
func New(ed *editor.Editor, opts ...Option) Model {
	m := Model{
		id:     "maskinput:" + uuid.NewString(),
		ed:     ed,
		keymap: keys.Field,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns the field's unique zone id.
func (m Model) ID() string { return m.id }

// Label returns the field label.
func (m Model) Label() string { return m.label }

// Editor returns the underlying editor.
func (m Model) Editor() *editor.Editor { return m.ed }

// Focused reports whether the field receives key events.
func (m Model) Focused() bool { return m.focused }

// Focus gives the field keyboard focus.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Invalid reports whether the last keystroke was rejected and the flash is
// still showing.
func (m Model) Invalid() bool { return m.invalid }

// Committed returns the last committed value, if the last commit succeeded
// and nothing changed since.
func (m Model) Committed() (editor.FormattedValue, bool) { return m.committed, m.done }

// Err returns the error of the last commit, cleared by the next change.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key and mouse messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case clearInvalidMsg:
		if msg.id == m.id && msg.seq == m.seq {
			m.invalid = false
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keymap
	move := func(dir editor.Direction, extend bool) []editor.Command {
		return []editor.Command{editor.MoveCursor{Dir: dir, Extend: extend}}
	}

	var cmds []editor.Command
	switch {
	case key.Matches(msg, k.Left):
		cmds = move(editor.Left, false)
	case key.Matches(msg, k.Right):
		cmds = move(editor.Right, false)
	case key.Matches(msg, k.WordLeft):
		cmds = move(editor.WordLeft, false)
	case key.Matches(msg, k.WordRight):
		cmds = move(editor.WordRight, false)
	case key.Matches(msg, k.Home):
		cmds = move(editor.Home, false)
	case key.Matches(msg, k.End):
		cmds = move(editor.End, false)
	case key.Matches(msg, k.NextFillable):
		cmds = move(editor.NextFillable, false)
	case key.Matches(msg, k.PrevFillable):
		cmds = move(editor.PrevFillable, false)
	case key.Matches(msg, k.SelectLeft):
		cmds = move(editor.Left, true)
	case key.Matches(msg, k.SelectRight):
		cmds = move(editor.Right, true)
	case key.Matches(msg, k.SelectWordLeft):
		cmds = move(editor.WordLeft, true)
	case key.Matches(msg, k.SelectWordRight):
		cmds = move(editor.WordRight, true)
	case key.Matches(msg, k.SelectHome):
		cmds = move(editor.Home, true)
	case key.Matches(msg, k.SelectEnd):
		cmds = move(editor.End, true)
	case key.Matches(msg, k.SelectAll):
		cmds = []editor.Command{editor.SelectAll{}}
	case key.Matches(msg, k.Backspace):
		cmds = []editor.Command{editor.Backspace{}}
	case key.Matches(msg, k.Delete):
		cmds = []editor.Command{editor.DeleteForward{}}
	case key.Matches(msg, k.Clear):
		cmds = []editor.Command{editor.Clear{}}
	case key.Matches(msg, k.Overwrite):
		cmds = []editor.Command{editor.ToggleOverwrite{}}
	case msg.Type == tea.KeySpace:
		cmds = []editor.Command{editor.InsertChar{Cluster: " "}}
	case msg.Type == tea.KeyRunes && !msg.Alt:
		// Pasted text arrives as one message; each cluster is typed in turn.
		for _, c := range grapheme.Split(string(msg.Runes)) {
			cmds = append(cmds, editor.InsertChar{Cluster: c})
		}
	default:
		return m, nil
	}
	return m.apply(cmds...)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	z := zone.Get(m.id)
	if z == nil || !z.InBounds(msg) {
		return m, nil
	}
	col, _ := z.Pos(msg)
	m, cmd := m.apply(editor.ClickColumn{Column: col, Extend: msg.Shift})
	if m.focused {
		return m, cmd
	}
	id := m.id
	return m, tea.Batch(cmd, func() tea.Msg { return FocusRequestMsg{ID: id} })
}

// Apply runs commands against the editor in order, stopping at the first
// rejection. Rejections flash the field; changes reset the commit state.
func (m Model) Apply(cmds ...editor.Command) (Model, tea.Cmd) {
	return m.apply(cmds...)
}

func (m Model) apply(cmds ...editor.Command) (Model, tea.Cmd) {
	var (
		changed bool
		flash   tea.Cmd
	)
	for _, c := range cmds {
		out := m.ed.Apply(c)
		if out.Err != nil {
			log.Debug(log.CatUI, "command rejected", "field", m.label, "command", c.ID(), "error", out.Err)
			m.publish(pubsub.RejectedEvent, Event{Command: c.ID(), Value: m.ed.Value(), Err: out.Err})
			m.seq++
			m.invalid = true
			id, seq := m.id, m.seq
			flash = tea.Tick(flashDuration, func(time.Time) tea.Msg {
				return clearInvalidMsg{id: id, seq: seq}
			})
			break
		}
		changed = changed || out.Changed
	}
	if changed {
		m.done = false
		m.committed = editor.FormattedValue{}
		m.err = nil
		m.publish(pubsub.ChangedEvent, Event{Value: m.ed.Value()})
	}
	return m, flash
}

// Commit validates the field and records the result. A failed commit leaves
// the buffer untouched.
func (m Model) Commit() Model {
	v, err := m.ed.Commit()
	if err == nil && m.validate != nil && !v.IsEmpty() {
		err = m.validate(v)
	}
	if err != nil {
		m.err = err
		m.done = false
		m.committed = editor.FormattedValue{}
		m.publish(pubsub.RejectedEvent, Event{Command: "commit", Value: m.ed.Value(), Err: err})
		return m
	}
	m.err = nil
	m.done = true
	m.committed = v
	log.Info(log.CatUI, "field committed", "field", m.label, "text", v.Text, "canonical", v.Canonical)
	m.publish(pubsub.CommittedEvent, Event{Value: v.Text})
	return m
}

func (m Model) publish(t pubsub.EventType, ev Event) {
	if m.events == nil {
		return
	}
	ev.ID = m.id
	ev.Label = m.label
	m.events.Publish(t, ev)
}
