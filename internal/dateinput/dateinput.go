// Package dateinput builds masked fields from Go time layouts.
//
// A layout such as "Mon, 02 Jan 2006 15:04" becomes a mask whose digit
// tokens are required digit sections and whose month, weekday and day-period
// names are free text slots as wide as the locale's longest name. Every
// other layout character is a literal.
package dateinput

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
)

var (
	// ErrEmpty is returned by Time for a blank field.
	ErrEmpty = errors.New("field is empty")
	// ErrInvalidDate is returned by Time when the field holds a date that
	// does not exist or a name the locale does not know.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnrepresentable is returned by SetTime when the time does not fit
	// the layout, e.g. a five-digit year.
	ErrUnrepresentable = errors.New("time does not fit the layout")
)

// Option configures a Field.
type Option func(*options)

type options struct {
	loc      *time.Location
	maskOpts []mask.Option
}

// WithLocation sets the location of times read from a layout without a zone
// offset. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}

// WithMaskOptions passes compile options through, e.g. a custom display.
func WithMaskOptions(opts ...mask.Option) Option {
	return func(o *options) {
		o.maskOpts = append(o.maskOpts, opts...)
	}
}

// Field is a date/time masked field.
type Field struct {
	layout string
	loc    locale.Locale
	where  *time.Location
	plan   plan
	ed     *editor.Editor
}

// New builds a field for a Go time layout using loc's calendar names and
// number symbols.
func New(layout string, loc locale.Locale, opts ...Option) (*Field, error) {
	o := options{loc: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}

	p, err := compileLayout(layout, loc.Calendar)
	if err != nil {
		return nil, err
	}
	maskOpts := append([]mask.Option{mask.WithDisplay(p.display)}, o.maskOpts...)
	l, err := mask.Compile(p.pattern, loc.Symbols, maskOpts...)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", layout, err)
	}
	ed, err := editor.New(l)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatMask, "date layout compiled", "layout", layout, "pattern", p.pattern, "locale", loc.ID)
	return &Field{layout: layout, loc: loc, where: o.loc, plan: p, ed: ed}, nil
}

// Layout returns the Go time layout the field was built from.
func (f *Field) Layout() string { return f.layout }

// Pattern returns the generated mask pattern.
func (f *Field) Pattern() string { return f.plan.pattern }

// Editor returns the underlying editor.
func (f *Field) Editor() *editor.Editor { return f.ed }

// SetTime fills the field with t.
func (f *Field) SetTime(t time.Time) error {
	cal := f.loc.Calendar
	var sb strings.Builder
	for _, el := range f.plan.elements {
		var text string
		switch el.kind {
		case literal:
			text = el.text
		case year:
			if t.Year() < 0 || t.Year() > 9999 {
				return fmt.Errorf("year %d: %w", t.Year(), ErrUnrepresentable)
			}
			text = fmt.Sprintf("%04d", t.Year())
		case month:
			text = fmt.Sprintf("%02d", int(t.Month()))
		case day:
			text = fmt.Sprintf("%02d", t.Day())
		case hour24:
			text = fmt.Sprintf("%02d", t.Hour())
		case hour12:
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			text = fmt.Sprintf("%02d", h)
		case minute:
			text = fmt.Sprintf("%02d", t.Minute())
		case second:
			text = fmt.Sprintf("%02d", t.Second())
		case monthName, monthAbbr:
			text = padName(cal.MonthName(t.Month(), el.kind == monthAbbr), el.width)
		case weekdayName, weekdayAbbr:
			text = padName(cal.WeekdayName(t.Weekday(), el.kind == weekdayAbbr), el.width)
		case period:
			name := cal.AM
			if t.Hour() >= 12 {
				name = cal.PM
			}
			text = padName(name, el.width)
		case zone, zoneColon:
			_, offset := t.Zone()
			sign := mask.Blank
			if offset < 0 {
				sign = f.loc.Symbols.Negative
				offset = -offset
			}
			if offset/3600 > 99 {
				return fmt.Errorf("zone offset %ds: %w", offset, ErrUnrepresentable)
			}
			sep := ""
			if el.kind == zoneColon {
				sep = ":"
			}
			text = fmt.Sprintf("%s%02d%s%02d", sign, offset/3600, sep, offset%3600/60)
		}
		sb.WriteString(text)
	}
	return f.ed.Apply(editor.Restore{Value: sb.String()}).Err
}

func padName(name string, width int) string {
	if n := grapheme.Count(name); n < width {
		return name + strings.Repeat(mask.Blank, width-n)
	}
	return name
}

// Time commits the field and returns its time. Tokens missing from the
// layout default the way time.Parse defaults them: year 0, January, day 1,
// midnight.
func (f *Field) Time() (time.Time, error) {
	if f.ed.IsEmpty() {
		return time.Time{}, ErrEmpty
	}
	if _, err := f.ed.Commit(); err != nil {
		return time.Time{}, err
	}

	cal := f.loc.Calendar
	var (
		y, d          = 0, 1
		mon           = time.January
		h, mi, s      int
		h12, pm, hasP bool
		where         = f.where
	)
	for _, el := range f.plan.elements {
		text := f.read(el)
		var err error
		switch el.kind {
		case literal:
		case weekdayName, weekdayAbbr:
			// Checked for spelling only; time.Parse ignores the weekday too.
			if _, ok := cal.ParseWeekday(text); !ok {
				err = fmt.Errorf("weekday %q", strings.TrimSpace(text))
			}
		case year:
			y, err = f.number(text)
		case month:
			var m int
			m, err = f.number(text)
			mon = time.Month(m)
		case day:
			d, err = f.number(text)
		case hour24:
			h, err = f.number(text)
		case hour12:
			h, err = f.number(text)
			h12 = true
			if err == nil && (h < 1 || h > 12) {
				err = fmt.Errorf("hour %d", h)
			}
		case minute:
			mi, err = f.number(text)
		case second:
			s, err = f.number(text)
		case monthName, monthAbbr:
			var ok bool
			if mon, ok = cal.ParseMonth(text); !ok {
				err = fmt.Errorf("month %q", strings.TrimSpace(text))
			}
		case period:
			var ok bool
			if pm, ok = cal.ParsePeriod(text); !ok {
				err = fmt.Errorf("day period %q", strings.TrimSpace(text))
			}
			hasP = true
		case zone, zoneColon:
			where, err = f.zone(text)
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
	}

	if h12 {
		h %= 12
		if hasP && pm {
			h += 12
		}
	}
	if mon < time.January || mon > time.December {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, mon)
	}
	if h > 23 || mi > 59 || s > 59 {
		return time.Time{}, fmt.Errorf("%w: time %02d:%02d:%02d", ErrInvalidDate, h, mi, s)
	}
	t := time.Date(y, mon, d, h, mi, s, 0, where)
	if d < 1 || t.Day() != d || t.Month() != mon {
		return time.Time{}, fmt.Errorf("%w: %s has no day %d", ErrInvalidDate, mon, d)
	}
	return t, nil
}

func (f *Field) read(el element) string {
	var sb strings.Builder
	for p := el.start; p < el.start+el.width; p++ {
		sb.WriteString(f.ed.At(p))
	}
	return sb.String()
}

// number parses digits stored in the buffer, which are always ASCII.
func (f *Field) number(text string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(text))
}

func (f *Field) zone(text string) (*time.Location, error) {
	clusters := grapheme.Split(text)
	negative := clusters[0] == f.loc.Symbols.Negative
	digits := strings.ReplaceAll(grapheme.Join(clusters[1:]), ":", "")
	if len(digits) != 4 {
		return nil, fmt.Errorf("zone %q", text)
	}
	hh, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, err
	}
	mm, err := strconv.Atoi(digits[2:])
	if err != nil {
		return nil, err
	}
	if mm > 59 {
		return nil, fmt.Errorf("zone minutes %d", mm)
	}
	offset := hh*3600 + mm*60
	if negative {
		offset = -offset
	}
	return time.FixedZone("", offset), nil
}
