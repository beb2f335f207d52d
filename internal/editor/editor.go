// Package editor holds the mutable state of one masked field and the edit
// engine that applies commands to it.
//
// An Editor owns one grapheme buffer bound to one compiled layout. Commands
// are all-or-nothing: a rejected command leaves buffer, cursor and selection
// exactly as they were and reports why in its Outcome.
//
// An Editor is not safe for concurrent use; separate editors are independent.
package editor

import (
	"fmt"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
)

// Outcome reports the result of one command.
type Outcome struct {
	// Changed is set when the buffer content differs from before the command.
	Changed bool
	// Err is nil for accepted commands.
	Err error
}

// OK reports whether the command was accepted.
func (o Outcome) OK() bool { return o.Err == nil }

// Editor is the runtime state of one masked field.
type Editor struct {
	layout *mask.Layout
	sym    locale.NumberSymbols
	buf    *grapheme.Buffer

	cursor    int
	anchor    int
	selecting bool
	overwrite bool
	changed   bool

	// wide is set when some fillable section renders wider than one column,
	// so rendered and buffer columns differ.
	wide bool
}

// Option configures a new Editor.
type Option func(*Editor) error

// WithValue places an initial value, parsed with the layout's symbols.
func WithValue(raw string) Option {
	return func(e *Editor) error {
		if raw == "" {
			return nil
		}
		return e.Apply(SetValue{Raw: raw}).Err
	}
}

// WithOverwrite starts the editor in overwrite mode.
func WithOverwrite(on bool) Option {
	return func(e *Editor) error {
		e.overwrite = on
		return nil
	}
}

// New creates an editor for layout with a blank buffer and the cursor on the
// first fillable position.
func New(layout *mask.Layout, opts ...Option) (*Editor, error) {
	e := &Editor{
		layout: layout,
		sym:    layout.Symbols(),
		buf:    layout.NewBuffer(),
	}
	for _, s := range layout.Sections() {
		if s.Fillable() && s.DisplayWidth > 1 {
			e.wide = true
		}
	}
	e.cursor = e.home()
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	// Initial content is not a change the host needs to react to.
	e.changed = false
	return e, nil
}

// Layout returns the layout the editor is bound to.
func (e *Editor) Layout() *mask.Layout { return e.layout }

// Symbols returns the number symbols in effect.
func (e *Editor) Symbols() locale.NumberSymbols { return e.sym }

// Len returns the buffer length.
func (e *Editor) Len() int { return e.buf.Len() }

// Cursor returns the cursor's buffer index in [0, Len()].
func (e *Editor) Cursor() int { return e.cursor }

// Selection returns the selected range. ok is false when nothing is
// selected or the selection is empty.
func (e *Editor) Selection() (grapheme.Range, bool) {
	if !e.selecting {
		return grapheme.Range{Start: e.cursor, End: e.cursor}, false
	}
	r := grapheme.Range{Start: min(e.anchor, e.cursor), End: max(e.anchor, e.cursor)}
	return r, !r.Empty()
}

// Anchor returns the selection anchor and whether a selection is active.
func (e *Editor) Anchor() (int, bool) { return e.anchor, e.selecting }

// Overwrite reports whether typed characters replace rather than shift.
func (e *Editor) Overwrite() bool { return e.overwrite }

// Changed reports whether any command altered the buffer since the last
// call, and clears the flag.
func (e *Editor) Changed() bool {
	c := e.changed
	e.changed = false
	return c
}

// Value returns the raw buffer text, blanks and literals included.
func (e *Editor) Value() string { return e.buf.String() }

// At returns the buffer cluster at pos.
func (e *Editor) At(pos int) string { return e.buf.At(pos) }

// CompactValue returns the filled fillable positions concatenated, without
// literals or blanks.
func (e *Editor) CompactValue() string {
	var out []string
	for p := 0; p < e.buf.Len(); p++ {
		if c := e.buf.At(p); e.layout.Fillable(p) && c != mask.Blank {
			out = append(out, c)
		}
	}
	return grapheme.Join(out)
}

// IsEmpty reports whether every fillable position is blank.
func (e *Editor) IsEmpty() bool {
	for p := 0; p < e.buf.Len(); p++ {
		if e.layout.Fillable(p) && e.buf.At(p) != mask.Blank {
			return false
		}
	}
	return true
}

// DisplayColumn returns the buffer display column of pos.
func (e *Editor) DisplayColumn(pos int) int { return e.buf.DisplayColumn(pos) }

// Apply runs cmd. Rejected commands restore the prior state.
func (e *Editor) Apply(cmd Command) Outcome {
	saved := e.cursorState()
	tx := newTxn(e.buf)

	if err := cmd.apply(e, tx); err != nil {
		e.restore(saved)
		log.Debug(log.CatEdit, "command rejected", "command", cmd.ID(), "cursor", saved.cursor, "error", err)
		return Outcome{Err: err}
	}

	changed, err := tx.commit()
	if err != nil {
		// A write would have merged with a neighbouring cluster.
		e.restore(saved)
		log.Debug(log.CatEdit, "command rejected", "command", cmd.ID(), "error", err)
		return Outcome{Err: fmt.Errorf("%w: %w", ErrInvalidChar, err)}
	}
	if changed {
		e.changed = true
	}
	return Outcome{Changed: changed}
}

type cursorState struct {
	cursor    int
	anchor    int
	selecting bool
	overwrite bool
}

func (e *Editor) cursorState() cursorState {
	return cursorState{
		cursor:    e.cursor,
		anchor:    e.anchor,
		selecting: e.selecting,
		overwrite: e.overwrite,
	}
}

func (e *Editor) restore(s cursorState) {
	e.cursor = s.cursor
	e.anchor = s.anchor
	e.selecting = s.selecting
	e.overwrite = s.overwrite
}

func (e *Editor) home() int {
	if p := e.layout.FirstFillable(); p >= 0 {
		return p
	}
	return 0
}

func (e *Editor) clearSelection() {
	e.selecting = false
	e.anchor = e.cursor
}

func (e *Editor) clamp(i int) int {
	return max(0, min(i, e.buf.Len()))
}

// txn buffers writes so a command can be validated as a whole before any
// of it reaches the grapheme buffer.
type txn struct {
	buf    *grapheme.Buffer
	writes map[int]string
}

func newTxn(buf *grapheme.Buffer) *txn {
	return &txn{buf: buf, writes: make(map[int]string)}
}

func (t *txn) get(pos int) string {
	if c, ok := t.writes[pos]; ok {
		return c
	}
	return t.buf.At(pos)
}

func (t *txn) set(pos int, cluster string) {
	t.writes[pos] = cluster
}

// commit writes the smallest range covering every effective change.
func (t *txn) commit() (bool, error) {
	lo, hi := -1, -1
	for pos, c := range t.writes {
		if t.buf.At(pos) == c {
			continue
		}
		if lo < 0 || pos < lo {
			lo = pos
		}
		if pos > hi {
			hi = pos
		}
	}
	if lo < 0 {
		return false, nil
	}
	clusters := make([]string, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		clusters = append(clusters, t.get(p))
	}
	if err := t.buf.ReplaceRange(grapheme.Range{Start: lo, End: hi + 1}, clusters); err != nil {
		return false, err
	}
	return true, nil
}
