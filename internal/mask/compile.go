package mask

import (
	"fmt"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
)

// DefaultPlaceholder is rendered for empty fillable sections unless a
// display mask or WithPlaceholder says otherwise.
const DefaultPlaceholder = "_"

// Option configures compilation.
type Option func(*options)

type options struct {
	placeholder string
	display     string
}

// WithPlaceholder sets the placeholder glyph for every fillable section.
func WithPlaceholder(glyph string) Option {
	return func(o *options) {
		o.placeholder = glyph
	}
}

// WithDisplay sets per-position placeholders from a display mask, e.g.
// "mm/dd/yyyy" over "99/99/9999". The display mask must have one character
// per buffer position; characters over literal positions are ignored.
func WithDisplay(display string) Option {
	return func(o *options) {
		o.display = display
	}
}

// Compile parses pattern into a Layout using sym for the decimal point,
// grouping separator and currency sections.
//
// Every pattern character becomes one section. A backslash makes the next
// character a Separator literal. Compilation fails with ErrInvalidPattern
// for an empty pattern, a second sign marker or decimal point, or a trailing
// backslash.
func Compile(pattern string, sym locale.NumberSymbols, opts ...Option) (*Layout, error) {
	o := options{placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(&o)
	}

	layout, err := compile(pattern, sym, o)
	if err != nil {
		log.Debug(log.CatMask, "pattern rejected", "pattern", pattern, "error", err)
		return nil, err
	}
	log.Debug(log.CatMask, "pattern compiled",
		"pattern", pattern,
		"sections", len(layout.sections),
		"positions", layout.Len(),
		"subfields", len(layout.subFields))
	return layout, nil
}

func compile(pattern string, sym locale.NumberSymbols, o options) (*Layout, error) {
	if pattern == "" {
		return nil, patternError(pattern, -1, "empty pattern")
	}
	if err := sym.Validate(); err != nil {
		return nil, &Error{Pattern: pattern, Pos: -1, Reason: "unusable number symbols", Err: err}
	}
	if !grapheme.IsSingle(o.placeholder) {
		return nil, patternError(pattern, -1, fmt.Sprintf("placeholder %q is not one character", o.placeholder))
	}

	clusters := grapheme.Split(pattern)
	l := &Layout{
		pattern: pattern,
		display: o.display,
		symbols: sym,
	}

	pos := 0
	signs, decimals := 0, 0
	for i := 0; i < len(clusters); i++ {
		c := clusters[i]
		sec := Section{Index: len(l.sections), Symbol: c, SubField: -1}

		if c == `\` {
			if i+1 >= len(clusters) {
				return nil, patternError(pattern, i, "trailing escape")
			}
			i++
			sec.Symbol = clusters[i]
			sec.Class = Separator
			sec.Literal = clusters[i]
		} else {
			sec.Class, sec.Required = classify(c)
			switch sec.Class {
			case SignMarker:
				if signs++; signs > 1 {
					return nil, patternError(pattern, i, "more than one sign marker")
				}
			case DecimalPoint:
				if decimals++; decimals > 1 {
					return nil, patternError(pattern, i, "more than one decimal point")
				}
				sec.Literal = sym.Decimal
			case GroupSeparator:
				sec.Literal = sym.Grouping
			case Currency:
				sec.Literal = sym.Currency
			case LiteralChar, Separator:
				sec.Literal = c
			}
		}

		n := 1
		if sec.Class == Currency {
			n = grapheme.Count(sec.Literal)
		}
		sec.Range = grapheme.Range{Start: pos, End: pos + n}
		pos += n
		l.sections = append(l.sections, sec)
	}

	if err := l.finish(o); err != nil {
		return nil, err
	}
	return l, nil
}

func classify(c string) (Class, bool) {
	switch c {
	case "0":
		return DigitRequired, true
	case "9", "#":
		return DigitOptional, false
	case "-", "+":
		return SignMarker, false
	case ".":
		return DecimalPoint, false
	case ",":
		return GroupSeparator, false
	case "H", "O", "D":
		return AlphaDigit, true
	case "h", "o", "d":
		return AlphaDigit, false
	case "l", "a":
		return AlphaLetter, true
	case "c":
		return FreeText, true
	case "_":
		return FreeText, false
	case " ", ";", ":", "/":
		return Separator, false
	case "¤":
		return Currency, false
	default:
		return LiteralChar, false
	}
}

// finish fills in per-position tables, placeholders, widths and sub-fields.
func (l *Layout) finish(o options) error {
	n := l.sections[len(l.sections)-1].Range.End
	l.owner = make([]int, n)
	l.initial = make([]string, 0, n)
	for _, sec := range l.sections {
		for p := sec.Range.Start; p < sec.Range.End; p++ {
			l.owner[p] = sec.Index
		}
		if sec.Fillable() {
			l.initial = append(l.initial, Blank)
		} else {
			l.initial = append(l.initial, grapheme.Split(sec.Literal)...)
		}
	}

	var display []string
	if o.display != "" {
		display = grapheme.Split(o.display)
		if len(display) != n {
			return patternError(l.pattern, -1,
				fmt.Sprintf("display mask has %d characters, pattern needs %d", len(display), n))
		}
	}

	for i := range l.sections {
		sec := &l.sections[i]
		if !sec.Fillable() {
			sec.DisplayWidth = grapheme.StringWidth(sec.Literal)
			continue
		}
		sec.Placeholder = o.placeholder
		if display != nil {
			sec.Placeholder = display[sec.Range.Start]
		}
		sec.DisplayWidth = max(1, grapheme.Width(sec.Placeholder))
	}

	// Validates that literal content stands alone next to blanks.
	if _, err := grapheme.New(l.initial); err != nil {
		return &Error{Pattern: l.pattern, Pos: -1, Reason: "literal merges with a neighbouring character", Err: err}
	}

	l.buildSubFields()
	return nil
}

func familyOf(sec Section) (SubFieldKind, bool) {
	switch sec.Class {
	case DigitOptional, DigitRequired, SignMarker, DecimalPoint, GroupSeparator:
		return NumericField, true
	case AlphaDigit:
		switch radixOf(sec.Symbol) {
		case 16:
			return HexField, true
		case 8:
			return OctalField, true
		default:
			return DecimalField, true
		}
	case AlphaLetter, FreeText:
		return TextField, true
	case LiteralChar, Separator, Currency:
		return 0, false
	}
	return 0, false
}

func (l *Layout) buildSubFields() {
	var cur *SubField
	var members []int
	flush := func() {
		if cur == nil {
			return
		}
		if len(cur.IntDigits)+len(cur.FracDigits) > 0 || cur.Sign >= 0 {
			cur.Index = len(l.subFields)
			for _, si := range members {
				l.sections[si].SubField = cur.Index
			}
			l.subFields = append(l.subFields, *cur)
		}
		cur = nil
		members = nil
	}

	for i, sec := range l.sections {
		kind, ok := familyOf(sec)
		if !ok {
			flush()
			continue
		}
		if cur != nil && cur.Kind != kind {
			flush()
		}
		if cur == nil {
			cur = &SubField{Kind: kind, Range: sec.Range, Sign: -1, Decimal: -1}
		}
		cur.Range.End = sec.Range.End
		members = append(members, i)

		p := sec.Range.Start
		switch sec.Class {
		case SignMarker:
			cur.Sign = p
		case DecimalPoint:
			cur.Decimal = p
		case GroupSeparator:
			cur.Groups = append(cur.Groups, p)
		case DigitOptional, DigitRequired, AlphaDigit, AlphaLetter, FreeText:
			if cur.Decimal >= 0 {
				cur.FracDigits = append(cur.FracDigits, p)
			} else {
				cur.IntDigits = append(cur.IntDigits, p)
			}
		}
	}
	flush()
}
