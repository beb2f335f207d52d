package dateinput

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
)

// ErrLayout is returned for Go time layouts the field cannot express.
var ErrLayout = errors.New("unsupported time layout")

type elementKind int

const (
	literal elementKind = iota
	year
	month
	day
	hour24
	hour12
	minute
	second
	monthName
	monthAbbr
	weekdayName
	weekdayAbbr
	period
	zone
	zoneColon
)

// tokens is ordered so that longer layout tokens win.
var tokens = []struct {
	text string
	kind elementKind
}{
	{"January", monthName},
	{"Monday", weekdayName},
	{"-07:00", zoneColon},
	{"-0700", zone},
	{"2006", year},
	{"Jan", monthAbbr},
	{"Mon", weekdayAbbr},
	{"PM", period},
	{"01", month},
	{"02", day},
	{"15", hour24},
	{"03", hour12},
	{"04", minute},
	{"05", second},
}

var digitHints = map[elementKind]string{
	year:   "yyyy",
	month:  "MM",
	day:    "dd",
	hour24: "HH",
	hour12: "hh",
	minute: "mm",
	second: "ss",
}

// element is one layout token placed in the buffer.
type element struct {
	kind  elementKind
	start int
	width int
	text  string // literal text
}

// plan is a Go time layout translated into a mask pattern and the display
// hints shown while the field is blank.
type plan struct {
	pattern  string
	display  string
	elements []element
}

func compileLayout(layout string, cal locale.Calendar) (plan, error) {
	if layout == "" {
		return plan{}, fmt.Errorf("empty layout: %w", ErrLayout)
	}

	var (
		p       plan
		pattern strings.Builder
		display strings.Builder
		pos     int
	)
	emit := func(kind elementKind, pat, hint string, width int, text string) {
		pattern.WriteString(pat)
		display.WriteString(hint)
		p.elements = append(p.elements, element{kind: kind, start: pos, width: width, text: text})
		pos += width
	}
	var err error
	names := func(kind elementKind, width int) {
		if width == 0 {
			err = fmt.Errorf("%q: locale has no names for a name token: %w", layout, ErrLayout)
			return
		}
		emit(kind, strings.Repeat("_", width), strings.Repeat("_", width), width, "")
	}

	rest := layout
outer:
	for rest != "" {
		for _, tok := range tokens {
			if !strings.HasPrefix(rest, tok.text) {
				continue
			}
			rest = rest[len(tok.text):]
			switch tok.kind {
			case monthName:
				names(monthName, cal.MaxMonthLen(false))
			case monthAbbr:
				names(monthAbbr, cal.MaxMonthLen(true))
			case weekdayName:
				names(weekdayName, cal.MaxWeekdayLen(false))
			case weekdayAbbr:
				names(weekdayAbbr, cal.MaxWeekdayLen(true))
			case period:
				names(period, cal.MaxPeriodLen())
			case zone:
				emit(zone, "-0000", "±hhmm", 5, "")
			case zoneColon:
				emit(zoneColon, "-00:00", "±hh:mm", 6, "")
			default:
				hint := digitHints[tok.kind]
				emit(tok.kind, strings.Repeat("0", len(hint)), hint, len(hint), "")
			}
			continue outer
		}

		c := grapheme.Split(rest)[0]
		rest = rest[len(c):]
		if r := grapheme.FirstRune(c); r >= '0' && r <= '9' {
			return plan{}, fmt.Errorf("%q: layout digit %q is not a supported token: %w", layout, c, ErrLayout)
		}
		emit(literal, `\`+c, c, 1, c)
	}

	if err != nil {
		return plan{}, err
	}
	p.pattern = pattern.String()
	p.display = display.String()
	return p, nil
}
