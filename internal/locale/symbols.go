// Package locale resolves locale ids to the number symbols and calendar
// names a mask needs. Results are immutable snapshots; the resolver keeps a
// process-wide cache keyed by canonical locale id.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/maskedit/internal/grapheme"
)

var (
	// ErrUnknownLocale is returned for locale ids that do not parse as BCP 47.
	ErrUnknownLocale = errors.New("unknown locale")
	// ErrInvalidSymbols is returned when a symbol set (usually after
	// overrides) cannot drive a mask.
	ErrInvalidSymbols = errors.New("invalid number symbols")
)

var asciiDigits = [10]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// NumberSymbols is a snapshot of locale number punctuation.
type NumberSymbols struct {
	Decimal  string // decimal separator, one grapheme
	Grouping string // grouping separator, one grapheme
	Negative string // negative sign, one grapheme
	Positive string // positive sign, one grapheme
	Currency string // currency symbol, one or more graphemes
	ISO      string // ISO 4217 code for Currency
	// Digits holds the locale's digit glyphs 0-9; empty entries mean ASCII.
	// ASCII digits are always accepted on input in addition to these.
	Digits [10]string
}

// Default returns the en-US symbol set.
func Default() NumberSymbols {
	return NumberSymbols{
		Decimal:  ".",
		Grouping: ",",
		Negative: "-",
		Positive: "+",
		Currency: "$",
		ISO:      "USD",
		Digits:   asciiDigits,
	}
}

// Validate checks that the symbols can be placed in a grapheme buffer.
func (s NumberSymbols) Validate() error {
	single := []struct {
		name, value string
	}{
		{"decimal", s.Decimal},
		{"grouping", s.Grouping},
		{"negative", s.Negative},
		{"positive", s.Positive},
	}
	for _, f := range single {
		if !grapheme.IsSingle(f.value) {
			return fmt.Errorf("%s separator %q must be one character: %w", f.name, f.value, ErrInvalidSymbols)
		}
	}
	if s.Decimal == s.Grouping {
		return fmt.Errorf("decimal and grouping separators are both %q: %w", s.Decimal, ErrInvalidSymbols)
	}
	if s.Negative == s.Positive {
		return fmt.Errorf("negative and positive signs are both %q: %w", s.Negative, ErrInvalidSymbols)
	}
	if s.Currency == "" {
		return fmt.Errorf("empty currency symbol: %w", ErrInvalidSymbols)
	}
	for d, g := range s.Digits {
		if g != "" && !grapheme.IsSingle(g) {
			return fmt.Errorf("digit %d glyph %q must be one character: %w", d, g, ErrInvalidSymbols)
		}
	}
	return nil
}

// DigitValue returns the value of a digit cluster, accepting ASCII digits and
// the locale's own digit glyphs.
func (s NumberSymbols) DigitValue(cluster string) (int, bool) {
	if len(cluster) == 1 && cluster[0] >= '0' && cluster[0] <= '9' {
		return int(cluster[0] - '0'), true
	}
	for d, g := range s.Digits {
		if g != "" && g == cluster {
			return d, true
		}
	}
	return 0, false
}

// DigitGlyph returns the locale glyph for digit d.
func (s NumberSymbols) DigitGlyph(d int) string {
	if d < 0 || d > 9 {
		return ""
	}
	if g := s.Digits[d]; g != "" {
		return g
	}
	return asciiDigits[d]
}

// Localize replaces ASCII digits in s with the locale's digit glyphs.
func (s NumberSymbols) Localize(text string) string {
	if s.Digits == asciiDigits {
		return text
	}
	var sb strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			sb.WriteString(s.DigitGlyph(int(r - '0')))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// IsSign reports whether cluster is a sign the locale recognises. ASCII '-'
// and '+' are always recognised. negative reports which sign it is.
func (s NumberSymbols) IsSign(cluster string) (negative, ok bool) {
	switch cluster {
	case s.Negative, "-":
		return true, true
	case s.Positive, "+":
		return false, true
	}
	return false, false
}

// Overrides replaces individual symbols. Empty fields keep the resolved value.
type Overrides struct {
	Decimal  string
	Grouping string
	Negative string
	Positive string
	Currency string
}

// Apply returns s with the non-empty override fields applied.
func (o Overrides) Apply(s NumberSymbols) NumberSymbols {
	if o.Decimal != "" {
		s.Decimal = o.Decimal
	}
	if o.Grouping != "" {
		s.Grouping = o.Grouping
	}
	if o.Negative != "" {
		s.Negative = o.Negative
	}
	if o.Positive != "" {
		s.Positive = o.Positive
	}
	if o.Currency != "" {
		s.Currency = o.Currency
	}
	return s
}
