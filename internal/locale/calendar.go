package locale

import (
	"strings"
	"time"

	"github.com/zjrosen/maskedit/internal/grapheme"
)

// Calendar holds localized month and weekday names plus day-period markers.
type Calendar struct {
	Months        [12]string
	ShortMonths   [12]string
	Weekdays      [7]string // indexed by time.Weekday, Sunday first
	ShortWeekdays [7]string
	AM            string
	PM            string
}

// MonthName returns the full or abbreviated name of m.
func (c Calendar) MonthName(m time.Month, short bool) string {
	if m < time.January || m > time.December {
		return ""
	}
	if short {
		return c.ShortMonths[m-1]
	}
	return c.Months[m-1]
}

// WeekdayName returns the full or abbreviated name of d.
func (c Calendar) WeekdayName(d time.Weekday, short bool) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	if short {
		return c.ShortWeekdays[d]
	}
	return c.Weekdays[d]
}

// ParseMonth matches s against the full and abbreviated month names,
// ignoring case and surrounding blanks.
func (c Calendar) ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := range 12 {
		if strings.EqualFold(s, c.Months[i]) || strings.EqualFold(s, c.ShortMonths[i]) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// ParseWeekday matches s against the full and abbreviated weekday names.
func (c Calendar) ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := range 7 {
		if strings.EqualFold(s, c.Weekdays[i]) || strings.EqualFold(s, c.ShortWeekdays[i]) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// ParsePeriod reports whether s names the PM period. ok is false when s is
// neither marker.
func (c Calendar) ParsePeriod(s string) (pm, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, c.AM):
		return false, true
	case strings.EqualFold(s, c.PM):
		return true, true
	}
	return false, false
}

// MaxMonthLen returns the longest month name, in graphemes.
func (c Calendar) MaxMonthLen(short bool) int {
	names := c.Months[:]
	if short {
		names = c.ShortMonths[:]
	}
	return maxLen(names)
}

// MaxWeekdayLen returns the longest weekday name, in graphemes.
func (c Calendar) MaxWeekdayLen(short bool) int {
	names := c.Weekdays[:]
	if short {
		names = c.ShortWeekdays[:]
	}
	return maxLen(names)
}

// MaxPeriodLen returns the longer of the AM/PM markers, in graphemes.
func (c Calendar) MaxPeriodLen() int {
	return maxLen([]string{c.AM, c.PM})
}

func maxLen(names []string) int {
	n := 0
	for _, name := range names {
		n = max(n, grapheme.Count(name))
	}
	return n
}

var englishCalendar = Calendar{
	Months:        [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	ShortMonths:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	Weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	ShortWeekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	AM:            "AM",
	PM:            "PM",
}

var germanCalendar = Calendar{
	Months:        [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	ShortMonths:   [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	Weekdays:      [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	ShortWeekdays: [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	AM:            "AM",
	PM:            "PM",
}

var frenchCalendar = Calendar{
	Months:        [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	ShortMonths:   [12]string{"janv", "févr", "mars", "avr", "mai", "juin", "juil", "août", "sept", "oct", "nov", "déc"},
	Weekdays:      [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	ShortWeekdays: [7]string{"dim", "lun", "mar", "mer", "jeu", "ven", "sam"},
	AM:            "AM",
	PM:            "PM",
}

var spanishCalendar = Calendar{
	Months:        [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	ShortMonths:   [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	Weekdays:      [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	ShortWeekdays: [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	AM:            "a. m.",
	PM:            "p. m.",
}

var italianCalendar = Calendar{
	Months:        [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	ShortMonths:   [12]string{"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	Weekdays:      [7]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
	ShortWeekdays: [7]string{"dom", "lun", "mar", "mer", "gio", "ven", "sab"},
	AM:            "AM",
	PM:            "PM",
}

var portugueseCalendar = Calendar{
	Months:        [12]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	ShortMonths:   [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	Weekdays:      [7]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"},
	ShortWeekdays: [7]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"},
	AM:            "AM",
	PM:            "PM",
}

var japaneseCalendar = Calendar{
	Months:        [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	ShortMonths:   [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	Weekdays:      [7]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"},
	ShortWeekdays: [7]string{"日", "月", "火", "水", "木", "金", "土"},
	AM:            "午前",
	PM:            "午後",
}
