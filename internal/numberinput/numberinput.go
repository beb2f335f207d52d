// Package numberinput wraps an editor whose mask holds a single number,
// converting between the field and Go numeric types.
package numberinput

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/mask"
)

var (
	// ErrNotNumeric is returned by New for masks that are not one number.
	ErrNotNumeric = errors.New("mask is not a single number")
	// ErrEmpty is returned when reading a blank field.
	ErrEmpty = errors.New("field is empty")
	// ErrNotInteger is returned by Int when the field holds a fraction.
	ErrNotInteger = errors.New("value has a fractional part")
)

// Field is a numeric masked field.
type Field struct {
	ed    *editor.Editor
	field mask.SubField
}

// New compiles pattern with sym and wraps a blank editor for it. The
// pattern may carry literals and a currency section but exactly one numeric
// sub-field and no other fillable sections.
func New(pattern string, sym locale.NumberSymbols, opts ...mask.Option) (*Field, error) {
	l, err := mask.Compile(pattern, sym, opts...)
	if err != nil {
		return nil, err
	}
	if l.NumSubFields() != 1 || l.SubField(0).Kind != mask.NumericField {
		return nil, fmt.Errorf("%q: %w", pattern, ErrNotNumeric)
	}
	f := l.SubField(0)
	if len(f.IntDigits)+len(f.FracDigits) == 0 {
		return nil, fmt.Errorf("%q has no digits: %w", pattern, ErrNotNumeric)
	}
	ed, err := editor.New(l)
	if err != nil {
		return nil, err
	}
	return &Field{ed: ed, field: f}, nil
}

// Editor returns the underlying editor.
func (f *Field) Editor() *editor.Editor { return f.ed }

// Signed reports whether the mask has a sign position.
func (f *Field) Signed() bool { return f.field.Sign >= 0 }

// Scale returns the number of fraction digits.
func (f *Field) Scale() int { return len(f.field.FracDigits) }

// SetFloat places v, rounded to the mask's fraction digits.
func (f *Field) SetFloat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%v: %w", v, editor.ErrValueMismatch)
	}
	return f.set(strconv.FormatFloat(v, 'f', f.Scale(), 64))
}

// SetInt places v.
func (f *Field) SetInt(v int64) error {
	return f.set(strconv.FormatInt(v, 10))
}

func (f *Field) set(raw string) error {
	// strconv output is always POSIX, whatever the field's locale.
	return f.ed.Apply(editor.SetValue{Raw: raw, Symbols: locale.Default()}).Err
}

// Float commits the field and parses its value.
func (f *Field) Float() (float64, error) {
	s, err := f.canonical()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// Int commits the field and parses its value. A non-zero fraction fails
// with ErrNotInteger.
func (f *Field) Int() (int64, error) {
	s, err := f.canonical()
	if err != nil {
		return 0, err
	}
	whole, frac, _ := strings.Cut(s, ".")
	if strings.Trim(frac, "0") != "" {
		return 0, fmt.Errorf("%s: %w", s, ErrNotInteger)
	}
	return strconv.ParseInt(whole, 10, 64)
}

func (f *Field) canonical() (string, error) {
	v, err := f.ed.Commit()
	if err != nil {
		return "", err
	}
	if v.IsEmpty() || len(v.Parts) == 0 || v.Parts[0] == "" {
		return "", ErrEmpty
	}
	return v.Parts[0], nil
}
