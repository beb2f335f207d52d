// Package config provides configuration types and defaults for maskedit.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/zjrosen/maskedit/internal/dateinput"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
	"github.com/zjrosen/maskedit/internal/numberinput"
)

// Field kinds.
const (
	KindMask   = "mask"
	KindNumber = "number"
	KindDate   = "date"
)

// DefaultPath is where a default config is written when none is found.
const DefaultPath = ".maskedit/config.yaml"

// FieldConfig defines a single field of the demo form.
type FieldConfig struct {
	Name    string `mapstructure:"name"`
	Kind    string `mapstructure:"kind"`    // "mask" (default), "number" or "date"
	Pattern string `mapstructure:"pattern"` // mask pattern, or a Go time layout for kind=date
	Display string `mapstructure:"display"` // optional per-position placeholders
	Value   string `mapstructure:"value"`   // optional initial value, parsed with the locale symbols
}

// EffectiveKind returns Kind, defaulting to KindMask.
func (f FieldConfig) EffectiveKind() string {
	if f.Kind == "" {
		return KindMask
	}
	return f.Kind
}

// SymbolOverrides replaces individual number symbols for one locale.
type SymbolOverrides struct {
	Decimal  string `mapstructure:"decimal"`
	Grouping string `mapstructure:"grouping"`
	Negative string `mapstructure:"negative"`
	Positive string `mapstructure:"positive"`
	Currency string `mapstructure:"currency"`
}

// EditorConfig holds editing behaviour shared by every field.
type EditorConfig struct {
	Placeholder string `mapstructure:"placeholder"` // glyph shown in blank slots
	Overwrite   bool   `mapstructure:"overwrite"`   // start fields in overwrite mode
}

// ThemeConfig holds field colors as hex strings. Empty values keep the
// built-in adaptive colors.
type ThemeConfig struct {
	Focus       string `mapstructure:"focus"`
	Placeholder string `mapstructure:"placeholder"`
	Invalid     string `mapstructure:"invalid"`
	Selection   string `mapstructure:"selection"`
}

// CacheConfig controls the locale cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config holds all configuration options for maskedit.
type Config struct {
	Locale  string                     `mapstructure:"locale"`
	Symbols map[string]SymbolOverrides `mapstructure:"symbols"`
	Editor  EditorConfig               `mapstructure:"editor"`
	Fields  []FieldConfig              `mapstructure:"fields"`
	Theme   ThemeConfig                `mapstructure:"theme"`
	Cache   CacheConfig                `mapstructure:"cache"`
}

// ResolverOptions returns the locale resolver options the config describes.
func (c Config) ResolverOptions() []locale.Option {
	opts := []locale.Option{locale.WithTTL(c.Cache.TTL)}
	if len(c.Symbols) > 0 {
		overrides := make(map[string]locale.Overrides, len(c.Symbols))
		for id, o := range c.Symbols {
			overrides[id] = locale.Overrides(o)
		}
		opts = append(opts, locale.WithOverrides(overrides))
	}
	return opts
}

// LocaleID returns the configured locale id, defaulting to locale.DefaultID.
func (c Config) LocaleID() string {
	if c.Locale == "" {
		return locale.DefaultID
	}
	return c.Locale
}

// MaskOptions returns the compile options shared by every field.
func (c Config) MaskOptions() []mask.Option {
	if c.Editor.Placeholder == "" {
		return nil
	}
	return []mask.Option{mask.WithPlaceholder(c.Editor.Placeholder)}
}

// DefaultFields returns the fields of the default demo form.
func DefaultFields() []FieldConfig {
	return []FieldConfig{
		{Name: "Phone", Kind: KindMask, Pattern: `(999) 999\-9999`},
		{Name: "Amount", Kind: KindNumber, Pattern: "¤-#,##0.00"},
		{Name: "Quantity", Kind: KindNumber, Pattern: "##,##0"},
		{Name: "Date", Kind: KindDate, Pattern: "02 Jan 2006"},
		{Name: "Time", Kind: KindDate, Pattern: "03:04 PM"},
		{Name: "Color", Kind: KindMask, Pattern: `\#HHHHHH`},
		{Name: "Code", Kind: KindMask, Pattern: `ll\-cc__`},
	}
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateTheme checks that every configured color is a #RRGGBB hex string.
func ValidateTheme(theme ThemeConfig) error {
	colors := []struct{ key, value string }{
		{"focus", theme.Focus},
		{"placeholder", theme.Placeholder},
		{"invalid", theme.Invalid},
		{"selection", theme.Selection},
	}
	for _, c := range colors {
		if c.value != "" && !hexColor.MatchString(c.value) {
			return fmt.Errorf("theme.%s: invalid hex color %q", c.key, c.value)
		}
	}
	return nil
}

// ValidateSymbols checks each override set against the symbols it modifies.
func ValidateSymbols(ctx context.Context, symbols map[string]SymbolOverrides) error {
	for id, o := range symbols {
		base, err := locale.Resolve(ctx, id)
		if err != nil {
			return fmt.Errorf("symbols %q: %w", id, err)
		}
		if err := locale.Overrides(o).Apply(base.Symbols).Validate(); err != nil {
			return fmt.Errorf("symbols %q: %w", id, err)
		}
	}
	return nil
}

// ValidateFields checks that every field has a name, a known kind and a
// pattern that compiles against loc.
func ValidateFields(fields []FieldConfig, loc locale.Locale, opts ...mask.Option) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: duplicate name", f.Name)
		}
		seen[f.Name] = true
		if f.Pattern == "" {
			return fmt.Errorf("field %q: pattern is required", f.Name)
		}

		fieldOpts := opts
		if f.Display != "" {
			fieldOpts = append(append([]mask.Option{}, opts...), mask.WithDisplay(f.Display))
		}

		var err error
		switch f.EffectiveKind() {
		case KindMask:
			_, err = mask.Compile(f.Pattern, loc.Symbols, fieldOpts...)
		case KindNumber:
			_, err = numberinput.New(f.Pattern, loc.Symbols, fieldOpts...)
		case KindDate:
			_, err = dateinput.New(f.Pattern, loc, dateinput.WithMaskOptions(fieldOpts...))
		default:
			err = fmt.Errorf("unknown kind %q (want %s, %s or %s)", f.Kind, KindMask, KindNumber, KindDate)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Validate checks the whole configuration. Patterns are compiled against the
// configured locale with its overrides applied.
func (c Config) Validate(ctx context.Context) error {
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := ValidateSymbols(ctx, c.Symbols); err != nil {
		return err
	}
	loc, err := locale.NewResolver(c.ResolverOptions()...).Resolve(ctx, c.LocaleID())
	if err != nil {
		return fmt.Errorf("locale %q: %w", c.LocaleID(), err)
	}
	return ValidateFields(c.Fields, loc, c.MaskOptions()...)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Locale: locale.DefaultID,
		Editor: EditorConfig{
			Placeholder: "_",
		},
		Fields: DefaultFields(),
		Cache: CacheConfig{
			TTL: locale.DefaultTTL,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# maskedit configuration

# Locale used for number symbols and month/weekday names (BCP 47 id)
locale: en-US

# Per-locale symbol overrides
# symbols:
#   de-CH:
#     grouping: "'"
#   en-US:
#     currency: "US$"

# Editing behaviour
editor:
  placeholder: "_"   # Glyph shown in blank slots
  overwrite: false   # Start fields in overwrite mode (toggle with insert)

# Demo form fields
# kind: mask (default), number or date
# For kind=date the pattern is a Go time layout (2006 01 02 15 04 05 Jan Mon PM -0700)
fields:
  - name: Phone
    kind: mask
    pattern: '(999) 999\-9999'
  - name: Amount
    kind: number
    pattern: "¤-#,##0.00"
  - name: Quantity
    kind: number
    pattern: "##,##0"
  - name: Date
    kind: date
    pattern: "02 Jan 2006"
  - name: Time
    kind: date
    pattern: "03:04 PM"
  - name: Color
    kind: mask
    pattern: '\#HHHHHH'
  - name: Code
    kind: mask
    pattern: 'll\-cc__'
#  - name: Birthday
#    kind: mask
#    pattern: "99/99/9999"
#    display: "mm/dd/yyyy"
#    value: "12/31/1999"

# Field colors (hex). Leave empty for the adaptive defaults.
# theme:
#   focus: "#7D56F4"
#   placeholder: "#696969"
#   invalid: "#FF5F87"
#   selection: "#3C3C5C"

# Locale cache
cache:
  ttl: 30m
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
