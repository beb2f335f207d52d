package editor

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
)

// FormattedValue is the committed value of a field.
type FormattedValue struct {
	// Text is the value in the field's locale: locale digits, grouping only
	// between digits, the decimal separator only when a fraction exists,
	// literals included.
	Text string
	// Canonical spells numeric sub-fields with ASCII digits, '.' for the
	// decimal point, a leading '-' and no grouping, so strconv can parse a
	// single-number mask directly. Literals are kept between sub-fields.
	Canonical string
	// Parts holds the canonical value of each sub-field, in order.
	Parts []string
	// Negative is set when a numeric sub-field carries the negative sign.
	Negative bool
}

// IsEmpty reports whether the committed field was blank.
func (v FormattedValue) IsEmpty() bool { return v.Text == "" && len(v.Parts) == 0 }

// Commit validates the field and returns its formatted value. An all-blank
// field commits as the empty value. Otherwise every required section must
// be filled; the first blank one in buffer order is reported as Incomplete.
// A sign with no digits is a ValueMismatch.
func (e *Editor) Commit() (FormattedValue, error) {
	if e.IsEmpty() {
		return FormattedValue{}, nil
	}

	var (
		out         FormattedValue
		text, canon strings.Builder
		failed      *ValidationError
	)
	e.walk(
		func(sec mask.Section) {
			text.WriteString(sec.Literal)
			canon.WriteString(sec.Literal)
		},
		func(f mask.SubField) bool {
			var p part
			if f.Kind == mask.NumericField {
				p, failed = e.formatNumber(f)
			} else {
				p, failed = e.formatText(f)
			}
			if failed != nil {
				return false
			}
			text.WriteString(p.text)
			canon.WriteString(p.canonical)
			out.Parts = append(out.Parts, p.canonical)
			out.Negative = out.Negative || p.negative
			return true
		},
	)
	if failed != nil {
		log.Debug(log.CatEdit, "commit rejected", "kind", failed.Kind, "section", failed.Section)
		return FormattedValue{}, failed
	}
	out.Text = text.String()
	out.Canonical = canon.String()
	return out, nil
}

type part struct {
	text      string
	canonical string
	negative  bool
}

// walk visits loose literal sections and sub-fields in buffer order. The
// sub-field visitor returns false to stop.
func (e *Editor) walk(literal func(mask.Section), field func(mask.SubField) bool) {
	n := e.layout.NumSections()
	for si := 0; si < n; {
		sec := e.layout.Section(si)
		if sec.SubField < 0 {
			literal(sec)
			si++
			continue
		}
		f := e.layout.SubField(sec.SubField)
		if !field(f) {
			return
		}
		for si < n && e.layout.Section(si).SubField == f.Index {
			si++
		}
	}
}

func (e *Editor) filled(positions []int) []string {
	var out []string
	for _, p := range positions {
		if c := e.buf.At(p); c != mask.Blank {
			out = append(out, c)
		}
	}
	return out
}

func (e *Editor) incomplete(pos int) *ValidationError {
	sec, _ := e.layout.SectionAt(pos)
	return &ValidationError{Kind: Incomplete, Section: sec.Index, Detail: "required " + sec.Class.String() + " is empty"}
}

func (e *Editor) formatNumber(f mask.SubField) (part, *ValidationError) {
	signed := f.Sign >= 0 && e.buf.At(f.Sign) != mask.Blank
	negative := signed && e.buf.At(f.Sign) == e.sym.Negative

	// Required digits are checked where they sit, in buffer order.
	for _, p := range append(append([]int{}, f.IntDigits...), f.FracDigits...) {
		if sec, _ := e.layout.SectionAt(p); sec.Class == mask.DigitRequired && e.buf.At(p) == mask.Blank {
			return part{}, e.incomplete(p)
		}
	}

	ints := e.filled(f.IntDigits)
	frac := e.filled(f.FracDigits)
	if len(ints) == 0 && len(frac) == 0 {
		if signed {
			sec, _ := e.layout.SectionAt(f.Sign)
			return part{}, mismatch(sec.Index, "sign without digits")
		}
		return part{}, nil
	}

	// Grouping goes only between digits: a separator is kept when a filled
	// integer digit sits on each side of it.
	var digits strings.Builder
	seen := 0
	for p := f.Range.Start; p < f.Range.End; p++ {
		switch {
		case indexOf(f.IntDigits, p) >= 0:
			if c := e.buf.At(p); c != mask.Blank {
				digits.WriteString(c)
				seen++
			}
		case indexOf(f.Groups, p) >= 0:
			if seen > 0 && seen < len(ints) {
				digits.WriteString(e.sym.Grouping)
			}
		}
	}

	intText := digits.String()
	var text strings.Builder
	trailingSign := f.Sign >= 0 && len(f.IntDigits) > 0 && f.Sign > f.IntDigits[len(f.IntDigits)-1]
	sign := ""
	if f.Sign >= 0 {
		if negative {
			sign = e.sym.Negative
		} else if sec, _ := e.layout.SectionAt(f.Sign); sec.Symbol == "+" {
			sign = e.sym.Positive
		}
	}
	if !trailingSign {
		text.WriteString(sign)
	}
	text.WriteString(e.sym.Localize(intText))
	if len(frac) > 0 {
		text.WriteString(e.sym.Decimal)
		text.WriteString(e.sym.Localize(strings.Join(frac, "")))
	}
	if trailingSign {
		text.WriteString(sign)
	}

	canon := strings.Join(ints, "")
	if canon == "" {
		canon = "0"
	}
	if len(frac) > 0 {
		canon += "." + strings.Join(frac, "")
	}
	if negative {
		canon = "-" + canon
	}
	return part{text: text.String(), canonical: canon, negative: negative}, nil
}

// formatText reads the slots in buffer order. Blank optional slots are left
// out; a blank required slot is Incomplete.
func (e *Editor) formatText(f mask.SubField) (part, *ValidationError) {
	var sb strings.Builder
	for _, p := range f.IntDigits {
		c := e.buf.At(p)
		if c == mask.Blank {
			if sec, _ := e.layout.SectionAt(p); sec.Required {
				return part{}, e.incomplete(p)
			}
			continue
		}
		sb.WriteString(c)
	}
	return part{text: sb.String(), canonical: sb.String()}, nil
}

// setValue implements SetValue: blank everything, then decompose raw into
// the layout's sub-fields in order. Literals in raw are optional; anything
// left over is a mismatch.
func (e *Editor) setValue(tx *txn, raw string, sym locale.NumberSymbols) error {
	e.blankAll(tx)
	e.cursor = e.home()
	e.clearSelection()
	if raw == "" {
		return nil
	}

	in := grapheme.Split(norm.NFC.String(raw))
	r := 0
	var err error
	e.walk(
		func(sec mask.Section) {
			lit := grapheme.Split(sec.Literal)
			if hasPrefix(in[r:], lit) {
				r += len(lit)
			}
		},
		func(f mask.SubField) bool {
			if f.Kind == mask.NumericField {
				r, err = e.parseNumber(tx, f, in, r, sym)
			} else {
				r, err = e.parseText(tx, f, in, r, sym)
			}
			return err == nil
		},
	)
	if err != nil {
		return err
	}
	if r < len(in) {
		return mismatch(-1, "unexpected %q", grapheme.Join(in[r:]))
	}
	return nil
}

func (e *Editor) restoreValue(tx *txn, value string) error {
	in := grapheme.Split(norm.NFC.String(value))
	if len(in) != e.buf.Len() {
		return mismatch(-1, "%d characters, field holds %d", len(in), e.buf.Len())
	}
	for p, c := range in {
		sec, _ := e.layout.SectionAt(p)
		if !sec.Fillable() {
			if c != e.buf.At(p) {
				return mismatch(sec.Index, "literal %q replaced by %q", e.buf.At(p), c)
			}
			continue
		}
		if c == mask.Blank {
			tx.set(p, mask.Blank)
			continue
		}
		v, ok := sec.Accept(c, e.sym)
		if !ok {
			return mismatch(sec.Index, "%q does not fit %s", c, sec.Class)
		}
		tx.set(p, v)
	}
	e.cursor = e.home()
	e.clearSelection()
	return nil
}

func hasPrefix(in, lit []string) bool {
	if len(lit) == 0 || len(in) < len(lit) {
		return false
	}
	for i := range lit {
		if in[i] != lit[i] {
			return false
		}
	}
	return true
}

// scanDigits reads digits from in[r:], skipping grouping separators between
// digits when grouped is set.
func scanDigits(in []string, r int, sym locale.NumberSymbols, grouped bool) ([]string, int) {
	var out []string
	for r < len(in) {
		if d, ok := sym.DigitValue(in[r]); ok {
			out = append(out, string(rune('0'+d)))
			r++
			continue
		}
		if grouped && len(out) > 0 && in[r] == sym.Grouping && r+1 < len(in) {
			if _, ok := sym.DigitValue(in[r+1]); ok {
				r++
				continue
			}
		}
		break
	}
	return out, r
}

func (e *Editor) parseNumber(tx *txn, f mask.SubField, in []string, r int, sym locale.NumberSymbols) (int, error) {
	secIndex := func(pos int) int {
		sec, _ := e.layout.SectionAt(pos)
		return sec.Index
	}
	first := secIndex(f.Range.Start)

	negative, signed := false, false
	if r < len(in) {
		if neg, ok := sym.IsSign(in[r]); ok {
			negative, signed = neg, true
			r++
		}
	}

	start := r
	ints, next := scanDigits(in, r, sym, len(f.Groups) > 0)
	switch {
	case len(ints) <= len(f.IntDigits):
		r = next
	case len(trimZeros(ints)) <= len(f.IntDigits):
		ints = trimZeros(ints)
		r = next
	case f.Decimal < 0 && len(f.Groups) == 0:
		// Ungrouped runs split across consecutive sub-fields.
		ints = ints[:len(f.IntDigits)]
		r = start + len(f.IntDigits)
	default:
		return r, mismatch(first, "%d integer digits, room for %d", len(ints), len(f.IntDigits))
	}

	var frac []string
	if f.Decimal >= 0 && r < len(in) && in[r] == sym.Decimal {
		r++
		frac, r = scanDigits(in, r, sym, false)
		for len(frac) > len(f.FracDigits) && frac[len(frac)-1] == "0" {
			frac = frac[:len(frac)-1]
		}
		if len(frac) > len(f.FracDigits) {
			return r, mismatch(secIndex(f.Decimal), "%d fraction digits, room for %d", len(frac), len(f.FracDigits))
		}
	}

	if !signed && f.Sign >= 0 && r < len(in) {
		if neg, ok := sym.IsSign(in[r]); ok {
			negative, signed = neg, true
			r++
		}
	}
	if negative && f.Sign < 0 {
		return r, mismatch(first, "negative value without a sign position")
	}
	if len(ints) == 0 && len(frac) == 0 {
		if signed {
			return r, mismatch(first, "sign without digits")
		}
		return r, nil
	}

	offset := len(f.IntDigits) - len(ints)
	for k, p := range f.IntDigits {
		if k >= offset {
			tx.set(p, ints[k-offset])
		} else if sec, _ := e.layout.SectionAt(p); sec.Class == mask.DigitRequired {
			tx.set(p, "0")
		}
	}
	for k, p := range f.FracDigits {
		if k < len(frac) {
			tx.set(p, frac[k])
		} else if sec, _ := e.layout.SectionAt(p); sec.Class == mask.DigitRequired {
			tx.set(p, "0")
		}
	}
	if f.Sign >= 0 {
		e.setSign(tx, f, negative, false)
	}
	return r, nil
}

func trimZeros(digits []string) []string {
	for len(digits) > 1 && digits[0] == "0" {
		digits = digits[1:]
	}
	return digits
}

func (e *Editor) parseText(tx *txn, f mask.SubField, in []string, r int, sym locale.NumberSymbols) (int, error) {
	slots := f.IntDigits
	var vals []string
	for _, p := range slots {
		if r >= len(in) {
			break
		}
		sec, _ := e.layout.SectionAt(p)
		v, ok := sec.Accept(in[r], sym)
		if !ok {
			break
		}
		vals = append(vals, v)
		r++
	}

	if f.Kind == mask.TextField {
		for k, v := range vals {
			tx.set(slots[k], v)
		}
		return r, nil
	}

	if len(vals) == 0 {
		return r, nil
	}
	offset := len(slots) - len(vals)
	for k, p := range slots {
		if k >= offset {
			tx.set(p, vals[k-offset])
		} else if sec, _ := e.layout.SectionAt(p); sec.Pads() {
			tx.set(p, "0")
		}
	}
	return r, nil
}
