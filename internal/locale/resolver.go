package locale

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/zjrosen/maskedit/internal/cachemanager"
	"github.com/zjrosen/maskedit/internal/log"
)

// DefaultID is the locale used when a well-formed id matches nothing.
const DefaultID = "en-US"

// DefaultTTL bounds how long a resolved locale stays cached.
const DefaultTTL = cachemanager.DefaultExpiration

// Locale is an immutable snapshot of everything a mask needs from a locale.
type Locale struct {
	// ID is the canonical form of the requested id.
	ID string
	// Matched is the table entry the id resolved to.
	Matched    string
	Confidence language.Confidence
	Symbols    NumberSymbols
	Calendar   Calendar
}

type tableEntry struct {
	tag      language.Tag
	symbols  NumberSymbols
	calendar Calendar
}

func entry(id, decimal, grouping, currencySym, iso string, cal Calendar) tableEntry {
	return tableEntry{
		tag: language.MustParse(id),
		symbols: NumberSymbols{
			Decimal:  decimal,
			Grouping: grouping,
			Negative: "-",
			Positive: "+",
			Currency: currencySym,
			ISO:      iso,
			Digits:   asciiDigits,
		},
		calendar: cal,
	}
}

// table is ordered; the first entry is the fallback.
var table = func() []tableEntry {
	arabic := entry("ar-EG", "٫", "٬", "ج.م.", "EGP", englishCalendar)
	arabic.symbols.Digits = [10]string{"٠", "١", "٢", "٣", "٤", "٥", "٦", "٧", "٨", "٩"}
	return []tableEntry{
		entry("en-US", ".", ",", "$", "USD", englishCalendar),
		entry("en-GB", ".", ",", "£", "GBP", englishCalendar),
		entry("de-DE", ",", ".", "€", "EUR", germanCalendar),
		entry("de-CH", ".", "\u2019", "CHF", "CHF", germanCalendar),
		entry("fr-FR", ",", "\u202f", "€", "EUR", frenchCalendar),
		entry("es-ES", ",", ".", "€", "EUR", spanishCalendar),
		entry("it-IT", ",", ".", "€", "EUR", italianCalendar),
		entry("pt-BR", ",", ".", "R$", "BRL", portugueseCalendar),
		entry("ja-JP", ".", ",", "¥", "JPY", japaneseCalendar),
		arabic,
	}
}()

// Supported returns the ids of the built-in symbol table.
func Supported() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.tag.String()
	}
	return out
}

// Resolver maps locale ids to Locale snapshots.
// It is safe for concurrent use.
type Resolver struct {
	matcher   language.Matcher
	overrides map[string]Overrides
	cache     *cachemanager.ReadThroughCache[string, Locale]
}

// Option configures a Resolver.
type Option func(*resolverOptions)

type resolverOptions struct {
	overrides map[string]Overrides
	ttl       time.Duration
}

// WithOverrides replaces symbols per locale id. Keys are matched after
// canonicalisation, so "de_de" and "de-DE" address the same locale.
func WithOverrides(overrides map[string]Overrides) Option {
	return func(o *resolverOptions) {
		o.overrides = overrides
	}
}

// WithTTL sets how long resolved locales stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(o *resolverOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// NewResolver creates a resolver over the built-in table.
func NewResolver(opts ...Option) *Resolver {
	o := resolverOptions{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	tags := make([]language.Tag, len(table))
	for i, e := range table {
		tags[i] = e.tag
	}

	r := &Resolver{
		matcher:   language.NewMatcher(tags),
		overrides: make(map[string]Overrides, len(o.overrides)),
	}
	for id, ov := range o.overrides {
		if key, err := canonical(id); err == nil {
			r.overrides[key] = ov
		} else {
			log.Warn(log.CatLocale, "ignoring overrides for unparseable locale", "locale", id)
		}
	}
	r.cache = cachemanager.NewReadThroughCache(
		cachemanager.NewInMemoryCacheManager[string, Locale]("locale", o.ttl, cachemanager.DefaultCleanupInterval),
		r.load,
		o.ttl,
		true,
	)
	return r
}

// Resolve returns the Locale for id. Ids that fail to parse return
// ErrUnknownLocale; well-formed ids with no close match fall back to
// DefaultID symbols, with the currency taken from the id's region.
func (r *Resolver) Resolve(ctx context.Context, id string) (Locale, error) {
	key, err := canonical(id)
	if err != nil {
		return Locale{}, err
	}
	return r.cache.Get(ctx, key)
}

// Symbols is Resolve narrowed to the number symbols.
func (r *Resolver) Symbols(ctx context.Context, id string) (NumberSymbols, error) {
	loc, err := r.Resolve(ctx, id)
	if err != nil {
		return NumberSymbols{}, err
	}
	return loc.Symbols, nil
}

// Invalidate drops every cached locale.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.cache.Invalidate(ctx)
}

func canonical(id string) (string, error) {
	if id == "" {
		return DefaultID, nil
	}
	tag, err := language.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%q: %w", id, ErrUnknownLocale)
	}
	return tag.String(), nil
}

func (r *Resolver) load(_ context.Context, key string) (Locale, error) {
	tag := language.Make(key)
	_, idx, conf := r.matcher.Match(tag)

	e := table[0]
	if conf != language.No && idx >= 0 && idx < len(table) {
		e = table[idx]
	}

	loc := Locale{
		ID:         key,
		Matched:    e.tag.String(),
		Confidence: conf,
		Symbols:    e.symbols,
		Calendar:   e.calendar,
	}

	// A region whose currency differs from the matched entry's (en-AU
	// matching en-GB) shows the ISO code rather than a wrong symbol.
	if unit, uconf := currency.FromTag(tag); uconf >= language.High {
		if iso := unit.String(); iso != "" && iso != loc.Symbols.ISO {
			loc.Symbols.Currency = iso
			loc.Symbols.ISO = iso
		}
	}

	if ov, ok := r.overrides[key]; ok {
		loc.Symbols = ov.Apply(loc.Symbols)
	} else if ov, ok := r.overrides[loc.Matched]; ok {
		loc.Symbols = ov.Apply(loc.Symbols)
	}

	if err := loc.Symbols.Validate(); err != nil {
		log.ErrorErr(log.CatLocale, "resolved symbols are unusable", err, "locale", key)
		return Locale{}, fmt.Errorf("locale %s: %w", key, err)
	}

	log.Debug(log.CatLocale, "resolved locale",
		"locale", key,
		"matched", loc.Matched,
		"confidence", conf,
		"decimal", loc.Symbols.Decimal,
		"grouping", loc.Symbols.Grouping,
		"currency", loc.Symbols.Currency)
	return loc, nil
}

var defaultResolver = sync.OnceValue(func() *Resolver {
	return NewResolver()
})

// Resolve resolves id with the process-wide resolver.
func Resolve(ctx context.Context, id string) (Locale, error) {
	return defaultResolver().Resolve(ctx, id)
}
