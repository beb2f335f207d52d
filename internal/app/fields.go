package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/maskedit/internal/config"
	"github.com/zjrosen/maskedit/internal/dateinput"
	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/mask"
	"github.com/zjrosen/maskedit/internal/numberinput"
	"github.com/zjrosen/maskedit/internal/pubsub"
	"github.com/zjrosen/maskedit/internal/ui/maskinput"
)

const maxLabelWidth = 16

// field is one row of the form.
type field struct {
	cfg   config.FieldConfig
	input maskinput.Model
	date  *dateinput.Field // set for kind=date
}

// fieldEnv is what every field of one form build shares.
type fieldEnv struct {
	loc        locale.Locale
	maskOpts   []mask.Option
	overwrite  bool
	labelWidth int
	events     pubsub.Publisher[maskinput.Event]
}

func newFieldEnv(cfg config.Config, loc locale.Locale, events pubsub.Publisher[maskinput.Event]) fieldEnv {
	width := 0
	for _, f := range cfg.Fields {
		width = max(width, ansi.StringWidth(f.Name))
	}
	return fieldEnv{
		loc:        loc,
		maskOpts:   cfg.MaskOptions(),
		overwrite:  cfg.Editor.Overwrite,
		labelWidth: min(width, maxLabelWidth),
		events:     events,
	}
}

// newField compiles fc against the environment's locale. An initial value
// that does not fit is logged and left out; the field still builds.
func newField(fc config.FieldConfig, env fieldEnv) (field, error) {
	opts := env.maskOpts
	if fc.Display != "" {
		opts = append(append([]mask.Option{}, opts...), mask.WithDisplay(fc.Display))
	}

	var (
		ed       *editor.Editor
		date     *dateinput.Field
		validate maskinput.Validator
	)
	switch fc.EffectiveKind() {
	case config.KindMask:
		l, err := mask.Compile(fc.Pattern, env.loc.Symbols, opts...)
		if err != nil {
			return field{}, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		if ed, err = editor.New(l); err != nil {
			return field{}, fmt.Errorf("field %q: %w", fc.Name, err)
		}
	case config.KindNumber:
		n, err := numberinput.New(fc.Pattern, env.loc.Symbols, opts...)
		if err != nil {
			return field{}, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		ed = n.Editor()
	case config.KindDate:
		d, err := dateinput.New(fc.Pattern, env.loc, dateinput.WithMaskOptions(opts...))
		if err != nil {
			return field{}, fmt.Errorf("field %q: %w", fc.Name, err)
		}
		date, ed = d, d.Editor()
		validate = func(editor.FormattedValue) error {
			_, err := d.Time()
			return err
		}
	default:
		return field{}, fmt.Errorf("field %q: unknown kind %q", fc.Name, fc.Kind)
	}

	if env.overwrite {
		ed.Apply(editor.ToggleOverwrite{})
	}
	if fc.Value != "" {
		if out := ed.Apply(editor.SetValue{Raw: fc.Value}); out.Err != nil {
			log.Warn(log.CatConfig, "Ignoring initial value", "field", fc.Name, "value", fc.Value, "error", out.Err)
		}
	}

	input := maskinput.New(ed,
		maskinput.WithLabel(fc.Name),
		maskinput.WithLabelWidth(env.labelWidth),
		maskinput.WithValidator(validate),
		maskinput.WithPublisher(env.events),
	)
	return field{cfg: fc, input: input, date: date}, nil
}

// carried is a field value in a form that survives recompiling the field
// for another locale.
type carried struct {
	raw       string // buffer content, reused when the layout is unchanged
	canonical string // locale-independent value, parsed with POSIX symbols
	when      time.Time
	hasTime   bool
}

func (f field) carry() (carried, bool) {
	ed := f.input.Editor()
	if ed.IsEmpty() {
		return carried{}, false
	}
	c := carried{raw: ed.Value()}
	if f.date != nil {
		if t, err := f.date.Time(); err == nil {
			c.when, c.hasTime = t, true
		}
		return c, true
	}
	if v, err := ed.Commit(); err == nil {
		c.canonical = v.Canonical
		if f.cfg.EffectiveKind() == config.KindNumber && len(v.Parts) > 0 {
			c.canonical = v.Parts[0]
		}
	}
	return c, true
}

// restore places a carried value. Values that fail to parse fall back to the
// raw buffer, which only fits when the layout did not change.
func (f field) restore(c carried) {
	ed := f.input.Editor()
	var err error
	switch {
	case c.hasTime:
		err = f.date.SetTime(c.when)
	case c.canonical != "":
		err = ed.Apply(editor.SetValue{Raw: c.canonical, Symbols: locale.Default()}).Err
	default:
		err = fmt.Errorf("no parsed value")
	}
	if err == nil {
		return
	}
	if rerr := ed.Apply(editor.Restore{Value: c.raw}).Err; rerr != nil {
		log.Debug(log.CatUI, "Dropped value on rebuild", "field", f.cfg.Name, "error", err, "restore", rerr)
	}
}
