package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/maskedit/internal/dateinput"
	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/mask"
)

var (
	formatDate    bool
	formatJSON    bool
	formatSymbols string
)

var formatCmd = &cobra.Command{
	Use:   "format PATTERN VALUE",
	Short: "Fit a value into a pattern and print the committed result",
	Long: `Parse VALUE into PATTERN the way pasting into a field does, commit it, and
print the formatted text. Numbers in VALUE use '.' for the decimal point and
may carry grouping and a sign; use --symbols=locale to parse them with the
locale's own symbols instead.

With --date, PATTERN is a Go time layout and VALUE an RFC 3339 time.

Examples:
  maskedit format '(999) 999\-9999' 5551234567
  maskedit format '¤-#,##0.00' -- -1234.5 --locale de-DE
  maskedit format --date 'Mon 02 Jan 2006' 2024-02-29T00:00:00Z --locale fr-FR
  maskedit format '99/99/9999' 12311999 --json | jq .canonical`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := resolveLocale(cmd)
		if err != nil {
			return err
		}
		var v editor.FormattedValue
		if formatDate {
			v, err = formatTime(args[0], args[1], loc)
		} else {
			v, err = formatValue(args[0], args[1], loc)
		}
		if err != nil {
			return err
		}
		return writeValue(cmd.OutOrStdout(), v)
	},
}

func init() {
	formatCmd.Flags().BoolVar(&formatDate, "date", false, "treat PATTERN as a Go time layout and VALUE as RFC 3339")
	formatCmd.Flags().BoolVar(&formatJSON, "json", false, "print text, canonical form and parts as JSON")
	formatCmd.Flags().StringVar(&formatSymbols, "symbols", "posix", "symbols VALUE is written with: posix or locale")
	rootCmd.AddCommand(formatCmd)
}

func formatValue(pattern, raw string, loc locale.Locale) (editor.FormattedValue, error) {
	l, err := mask.Compile(pattern, loc.Symbols, cfg.MaskOptions()...)
	if err != nil {
		return editor.FormattedValue{}, err
	}
	ed, err := editor.New(l)
	if err != nil {
		return editor.FormattedValue{}, err
	}

	var sym locale.NumberSymbols
	switch formatSymbols {
	case "posix":
		sym = locale.Default()
	case "locale":
		sym = loc.Symbols
	default:
		return editor.FormattedValue{}, fmt.Errorf("--symbols: want posix or locale, got %q", formatSymbols)
	}
	if out := ed.Apply(editor.SetValue{Raw: raw, Symbols: sym}); out.Err != nil {
		return editor.FormattedValue{}, fmt.Errorf("value %q: %w", raw, out.Err)
	}
	return ed.Commit()
}

func formatTime(layout, raw string, loc locale.Locale) (editor.FormattedValue, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return editor.FormattedValue{}, err
	}
	f, err := dateinput.New(layout, loc, dateinput.WithMaskOptions(cfg.MaskOptions()...), dateinput.WithLocation(t.Location()))
	if err != nil {
		return editor.FormattedValue{}, err
	}
	if err := f.SetTime(t); err != nil {
		return editor.FormattedValue{}, err
	}
	return f.Editor().Commit()
}

type valueJSON struct {
	Text      string   `json:"text"`
	Canonical string   `json:"canonical"`
	Parts     []string `json:"parts"`
	Negative  bool     `json:"negative"`
}

func writeValue(w io.Writer, v editor.FormattedValue) error {
	if !formatJSON {
		_, err := fmt.Fprintln(w, v.Text)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(valueJSON{Text: v.Text, Canonical: v.Canonical, Parts: v.Parts, Negative: v.Negative})
}
