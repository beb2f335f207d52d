package editor

import (
	"strings"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/mask"
)

// Span is one rendered section.
type Span struct {
	// Text is padded to the section's display width.
	Text string
	// Placeholder is set for a blank fillable section.
	Placeholder bool
	// Literal is set for sections the user cannot type into.
	Literal bool
	Section int
	// Start is the buffer index of the section's first position.
	Start    int
	Selected bool
	// Cursor is set when the cursor rests on Start.
	Cursor bool
}

// Render returns one span per section, in order. Blank fillable sections
// show the placeholder, digits are shown in the locale's digit set, and a
// grouping separator stays blank until a digit precedes it.
func (e *Editor) Render() []Span {
	sel, selecting := e.Selection()
	secs := e.layout.Sections()
	spans := make([]Span, 0, len(secs))
	for _, sec := range secs {
		sp := Span{
			Section:  sec.Index,
			Start:    sec.Range.Start,
			Literal:  !sec.Fillable(),
			Cursor:   e.cursor == sec.Range.Start,
			Selected: selecting && sel.Start < sec.Range.End && sec.Range.Start < sel.End,
		}
		switch {
		case sec.Fillable():
			c := e.buf.At(sec.Range.Start)
			if c == mask.Blank {
				sp.Text = sec.Placeholder
				sp.Placeholder = true
			} else {
				sp.Text = e.glyph(sec, c)
			}
			sp.Text = pad(sp.Text, sec.DisplayWidth)
		case sec.Class == mask.GroupSeparator && !e.groupVisible(sec.Range.Start):
			sp.Text = strings.Repeat(" ", max(1, grapheme.StringWidth(sec.Literal)))
		default:
			sp.Text = grapheme.Join(e.buf.Slice(sec.Range))
		}
		spans = append(spans, sp)
	}
	return spans
}

// View renders the field as plain text.
func (e *Editor) View() string {
	var sb strings.Builder
	for _, sp := range e.Render() {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// CursorColumn returns the rendered display column of the cursor.
func (e *Editor) CursorColumn() int { return e.RenderColumn(e.cursor) }

func (e *Editor) glyph(sec mask.Section, c string) string {
	if sec.Class.Digit() {
		if d, ok := e.sym.DigitValue(c); ok {
			return e.sym.DigitGlyph(d)
		}
	}
	return c
}

// groupVisible reports whether a digit precedes the grouping separator at
// pos within its integer run.
func (e *Editor) groupVisible(pos int) bool {
	f, ok := e.layout.SubFieldAt(pos)
	if !ok {
		return true
	}
	for _, p := range f.IntDigits {
		if p >= pos {
			break
		}
		if e.buf.At(p) != mask.Blank {
			return true
		}
	}
	return false
}

func pad(s string, width int) string {
	if w := grapheme.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
