package editor

import (
	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
)

// Command is one logical edit decoded by the host from key or mouse input.
type Command interface {
	// ID names the command for logging, e.g. "insert.char".
	ID() string
	apply(e *Editor, tx *txn) error
}

// InsertChar types one grapheme cluster at the cursor.
type InsertChar struct {
	Cluster string
}

func (InsertChar) ID() string { return "insert.char" }

func (c InsertChar) apply(e *Editor, tx *txn) error { return e.insert(tx, c.Cluster) }

// DeleteForward deletes the position at the cursor.
type DeleteForward struct{}

func (DeleteForward) ID() string { return "delete.forward" }

func (DeleteForward) apply(e *Editor, tx *txn) error { return e.deleteForward(tx) }

// Backspace deletes the position before the cursor.
type Backspace struct{}

func (Backspace) ID() string { return "delete.backward" }

func (Backspace) apply(e *Editor, tx *txn) error { return e.backspace(tx) }

// DeleteSelection blanks every fillable position in the selection.
type DeleteSelection struct{}

func (DeleteSelection) ID() string { return "delete.selection" }

func (DeleteSelection) apply(e *Editor, tx *txn) error {
	e.deleteSelection(tx)
	return nil
}

// Direction is a cursor movement.
type Direction int

const (
	Left         Direction = iota // one grapheme
	Right                         // one grapheme
	WordLeft                      // start of this or the previous sub-field
	WordRight                     // start of the next sub-field
	Home                          // first fillable position
	End                           // end of the buffer
	FieldStart                    // first slot of the current sub-field
	FieldEnd                      // just past the last slot of the current sub-field
	NextFillable                  // next fillable position, staying put if none
	PrevFillable                  // previous fillable position, staying put if none
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case WordLeft:
		return "word-left"
	case WordRight:
		return "word-right"
	case Home:
		return "home"
	case End:
		return "end"
	case FieldStart:
		return "field-start"
	case FieldEnd:
		return "field-end"
	case NextFillable:
		return "next-fillable"
	case PrevFillable:
		return "prev-fillable"
	default:
		return "unknown"
	}
}

// MoveCursor moves the cursor, optionally extending the selection.
type MoveCursor struct {
	Dir    Direction
	Extend bool
}

func (m MoveCursor) ID() string { return "move." + m.Dir.String() }

func (m MoveCursor) apply(e *Editor, _ *txn) error {
	e.moveTo(e.target(m.Dir), m.Extend)
	return nil
}

// SetCursor places the cursor at a buffer index and clears the selection.
type SetCursor struct {
	Index int
}

func (SetCursor) ID() string { return "cursor.set" }

func (c SetCursor) apply(e *Editor, _ *txn) error {
	e.moveTo(e.clamp(c.Index), false)
	return nil
}

// SetSelection selects [Anchor, Cursor) in either order.
type SetSelection struct {
	Anchor int
	Cursor int
}

func (SetSelection) ID() string { return "selection.set" }

func (s SetSelection) apply(e *Editor, _ *txn) error {
	e.anchor = e.clamp(s.Anchor)
	e.cursor = e.clamp(s.Cursor)
	e.selecting = true
	return nil
}

// SelectAll selects the whole buffer.
type SelectAll struct{}

func (SelectAll) ID() string { return "selection.all" }

func (SelectAll) apply(e *Editor, _ *txn) error {
	e.anchor = 0
	e.cursor = e.buf.Len()
	e.selecting = true
	return nil
}

// ClickColumn places the cursor at a rendered display column, as a mouse
// click would. A column inside a wide glyph resolves to its leading edge.
type ClickColumn struct {
	Column int
	Extend bool
}

func (ClickColumn) ID() string { return "cursor.click" }

func (c ClickColumn) apply(e *Editor, _ *txn) error {
	pos := e.IndexAtColumn(c.Column)
	if pos < e.buf.Len() && !e.layout.Fillable(pos) {
		if next := e.layout.NextFillable(pos); next >= 0 {
			pos = next
		} else {
			pos = e.buf.Len()
		}
	}
	e.moveTo(pos, c.Extend)
	return nil
}

// Clear blanks every fillable position and returns the cursor home.
type Clear struct{}

func (Clear) ID() string { return "value.clear" }

func (Clear) apply(e *Editor, tx *txn) error {
	e.blankAll(tx)
	e.cursor = e.home()
	e.clearSelection()
	return nil
}

// ToggleOverwrite switches between shifting and replacing on insert.
type ToggleOverwrite struct{}

func (ToggleOverwrite) ID() string { return "mode.overwrite" }

func (ToggleOverwrite) apply(e *Editor, _ *txn) error {
	e.overwrite = !e.overwrite
	return nil
}

// SetValue replaces the content with a parsed raw value. Symbols selects
// how the raw value spells its decimal point, grouping and signs; the zero
// value means the layout's own symbols.
type SetValue struct {
	Raw     string
	Symbols locale.NumberSymbols
}

func (SetValue) ID() string { return "value.set" }

func (s SetValue) apply(e *Editor, tx *txn) error {
	sym := s.Symbols
	if sym.Decimal == "" {
		sym = e.sym
	}
	return e.setValue(tx, s.Raw, sym)
}

// Restore replaces the buffer with a value previously read from Value.
// Literal positions must match the layout and every other position must be
// blank or acceptable to its section.
type Restore struct {
	Value string
}

func (Restore) ID() string { return "value.restore" }

func (r Restore) apply(e *Editor, tx *txn) error { return e.restoreValue(tx, r.Value) }

// IndexAtColumn maps a rendered display column to a buffer index.
func (e *Editor) IndexAtColumn(col int) int {
	if !e.wide {
		return e.buf.IndexAtColumn(col)
	}
	// Padded sections render wider than their content; walk rendered widths.
	if col < 0 {
		return 0
	}
	x := 0
	for p := 0; p < e.buf.Len(); p++ {
		w := e.renderWidth(p)
		if col < x+w {
			return p
		}
		x += w
	}
	return e.buf.Len()
}

// RenderColumn returns the rendered display column at which pos starts.
func (e *Editor) RenderColumn(pos int) int {
	if !e.wide {
		return e.buf.DisplayColumn(pos)
	}
	x := 0
	for p := 0; p < min(pos, e.buf.Len()); p++ {
		x += e.renderWidth(p)
	}
	return x
}

func (e *Editor) renderWidth(pos int) int {
	w := grapheme.Width(e.buf.At(pos))
	if sec, ok := e.layout.SectionAt(pos); ok && sec.Fillable() {
		w = max(w, sec.DisplayWidth)
	}
	return w
}
