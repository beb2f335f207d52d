package mask

import (
	"strings"
	"unicode"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
)

// Blank is the buffer content of an empty fillable position. Renderers show
// the section's placeholder instead.
const Blank = " "

// Section is one compiled slot of a pattern.
type Section struct {
	Index int
	Class Class
	// Symbol is the pattern character the section came from.
	Symbol string
	// Range is the buffer range the section occupies. Every class but
	// Currency occupies exactly one position.
	Range grapheme.Range
	// DisplayWidth is the number of columns the section renders in.
	DisplayWidth int
	// Literal is the fixed content of non-fillable sections.
	Literal string
	// Placeholder is rendered for an empty fillable section.
	Placeholder string
	// Required fillable sections must be non-blank at commit. SetValue
	// zero-pads required AlphaDigit sections.
	Required bool
	// SubField is the index of the sub-field the section belongs to, or -1.
	SubField int
}

// Fillable reports whether user input may change the section.
func (s Section) Fillable() bool {
	return s.Class.Fillable()
}

// Pads reports whether SetValue fills a blank slot with '0'.
func (s Section) Pads() bool {
	return s.Class == AlphaDigit && s.Required
}

// Accept validates cluster for the section and returns the value to store.
// Digits are stored as ASCII whatever glyphs the locale uses; signs are
// stored as the locale sign.
func (s Section) Accept(cluster string, sym locale.NumberSymbols) (string, bool) {
	if !grapheme.IsSingle(cluster) || cluster == Blank {
		return "", false
	}
	switch s.Class {
	case DigitOptional, DigitRequired:
		d, ok := sym.DigitValue(cluster)
		if !ok {
			return "", false
		}
		return string(rune('0' + d)), true
	case SignMarker:
		neg, ok := sym.IsSign(cluster)
		if !ok {
			return "", false
		}
		if neg {
			return sym.Negative, true
		}
		return sym.Positive, true
	case AlphaDigit:
		return acceptRadix(cluster, radixOf(s.Symbol))
	case AlphaLetter:
		if s.Symbol == "l" {
			if grapheme.IsLetter(cluster) {
				return cluster, true
			}
			return "", false
		}
		if grapheme.IsAlnum(cluster) {
			return cluster, true
		}
		return "", false
	case FreeText:
		r := grapheme.FirstRune(cluster)
		if unicode.IsControl(r) {
			return "", false
		}
		return cluster, true
	case DecimalPoint, GroupSeparator, LiteralChar, Separator, Currency:
		return "", false
	}
	return "", false
}

func radixOf(symbol string) int {
	switch strings.ToLower(symbol) {
	case "h":
		return 16
	case "o":
		return 8
	default:
		return 10
	}
}

func acceptRadix(cluster string, radix int) (string, bool) {
	if len(cluster) != 1 {
		return "", false
	}
	c := cluster[0]
	switch {
	case c >= '0' && c <= '9':
		if int(c-'0') < radix {
			return cluster, true
		}
	case radix == 16 && c >= 'a' && c <= 'f':
		return cluster, true
	case radix == 16 && c >= 'A' && c <= 'F':
		return cluster, true
	}
	return "", false
}

// SubField is a run of adjacent sections of compatible class, treated as one
// unit for word-wise movement and for shifting on insert/delete.
type SubField struct {
	Index int
	Kind  SubFieldKind
	// Range spans the first to the last section of the sub-field.
	Range grapheme.Range
	// Sign is the buffer index of the sign slot, or -1.
	Sign int
	// Decimal is the buffer index of the decimal point, or -1.
	Decimal int
	// IntDigits and FracDigits are the digit positions before and after the
	// decimal point, in buffer order. For non-numeric sub-fields every
	// fillable position is in IntDigits.
	IntDigits  []int
	FracDigits []int
	// Groups are the positions of grouping separators.
	Groups []int
}

// Run returns the digit run containing pos: the integer or fraction
// positions. ok is false when pos is not one of them.
func (f SubField) Run(pos int) (run []int, ok bool) {
	if indexOf(f.IntDigits, pos) >= 0 {
		return f.IntDigits, true
	}
	if indexOf(f.FracDigits, pos) >= 0 {
		return f.FracDigits, true
	}
	return nil, false
}

// Slots returns every fillable position of the sub-field in buffer order.
func (f SubField) Slots() []int {
	out := make([]int, 0, len(f.IntDigits)+len(f.FracDigits)+1)
	for i := f.Range.Start; i < f.Range.End; i++ {
		if i == f.Sign || indexOf(f.IntDigits, i) >= 0 || indexOf(f.FracDigits, i) >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
