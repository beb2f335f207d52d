package mask

import (
	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
)

// Layout is a compiled pattern: ordered, contiguous sections covering the
// buffer exactly once. A Layout is immutable and safe to share between
// editors.
type Layout struct {
	pattern   string
	display   string
	symbols   locale.NumberSymbols
	sections  []Section
	subFields []SubField
	owner     []int    // buffer position -> section index
	initial   []string // blank buffer content
}

// Pattern returns the source pattern.
func (l *Layout) Pattern() string { return l.pattern }

// Display returns the display mask, if any.
func (l *Layout) Display() string { return l.display }

// Symbols returns the number symbols the layout was compiled with.
func (l *Layout) Symbols() locale.NumberSymbols { return l.symbols }

// Len returns the number of buffer positions.
func (l *Layout) Len() int { return len(l.owner) }

// TotalWidth returns the sum of section display widths.
func (l *Layout) TotalWidth() int {
	w := 0
	for _, s := range l.sections {
		w += s.DisplayWidth
	}
	return w
}

// Sections returns a copy of the sections in order.
func (l *Layout) Sections() []Section {
	out := make([]Section, len(l.sections))
	copy(out, l.sections)
	return out
}

// NumSections returns the number of sections.
func (l *Layout) NumSections() int { return len(l.sections) }

// Section returns section i.
func (l *Layout) Section(i int) Section { return l.sections[i] }

// SubFields returns a copy of the sub-fields in order.
func (l *Layout) SubFields() []SubField {
	out := make([]SubField, len(l.subFields))
	copy(out, l.subFields)
	return out
}

// SubField returns sub-field i.
func (l *Layout) SubField(i int) SubField { return l.subFields[i] }

// NumSubFields returns the number of sub-fields.
func (l *Layout) NumSubFields() int { return len(l.subFields) }

// SectionAt returns the section owning buffer position pos.
func (l *Layout) SectionAt(pos int) (Section, bool) {
	if pos < 0 || pos >= len(l.owner) {
		return Section{}, false
	}
	return l.sections[l.owner[pos]], true
}

// SubFieldAt returns the sub-field containing buffer position pos.
func (l *Layout) SubFieldAt(pos int) (SubField, bool) {
	sec, ok := l.SectionAt(pos)
	if !ok || sec.SubField < 0 {
		return SubField{}, false
	}
	return l.subFields[sec.SubField], true
}

// Fillable reports whether buffer position pos accepts input.
func (l *Layout) Fillable(pos int) bool {
	sec, ok := l.SectionAt(pos)
	return ok && sec.Fillable()
}

// Blank returns the content of an empty buffer: literals in place, blanks
// everywhere else.
func (l *Layout) Blank() []string {
	out := make([]string, len(l.initial))
	copy(out, l.initial)
	return out
}

// NewBuffer returns a blank buffer for the layout.
func (l *Layout) NewBuffer() *grapheme.Buffer {
	b, err := grapheme.New(l.initial)
	if err != nil {
		// Compile already built this exact buffer.
		panic(err)
	}
	return b
}

// NextFillable returns the first fillable position at or after pos, or -1.
func (l *Layout) NextFillable(pos int) int {
	for p := max(pos, 0); p < len(l.owner); p++ {
		if l.Fillable(p) {
			return p
		}
	}
	return -1
}

// PrevFillable returns the last fillable position at or before pos, or -1.
func (l *Layout) PrevFillable(pos int) int {
	for p := min(pos, len(l.owner)-1); p >= 0; p-- {
		if l.Fillable(p) {
			return p
		}
	}
	return -1
}

// FirstFillable returns the first fillable position, or -1.
func (l *Layout) FirstFillable() int { return l.NextFillable(0) }

// LastFillable returns the last fillable position, or -1.
func (l *Layout) LastFillable() int { return l.PrevFillable(len(l.owner) - 1) }
