package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/mask"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect PATTERN",
	Short: "Show how a pattern compiles",
	Long: `Compile PATTERN against the configured locale and print its sections and
sub-fields: the class of every pattern character, the buffer positions and
display columns it occupies, and how sections group for word movement.

Examples:
  maskedit inspect '(999) 999\-9999'
  maskedit inspect '¤-#,##0.00' --locale de-DE`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := resolveLocale(cmd)
		if err != nil {
			return err
		}
		l, err := mask.Compile(args[0], loc.Symbols, cfg.MaskOptions()...)
		if err != nil {
			return err
		}
		return writeLayout(cmd.OutOrStdout(), l, loc)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// resolveLocale resolves the configured locale, --locale included, with the
// config's symbol overrides.
func resolveLocale(cmd *cobra.Command) (locale.Locale, error) {
	resolver := locale.NewResolver(cfg.ResolverOptions()...)
	loc, err := resolver.Resolve(cmd.Context(), cfg.LocaleID())
	if err != nil {
		return locale.Locale{}, fmt.Errorf("locale %q: %w", cfg.LocaleID(), err)
	}
	return loc, nil
}

func writeLayout(w io.Writer, l *mask.Layout, loc locale.Locale) error {
	header := lipgloss.NewStyle().Bold(true)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pattern  %s\n", l.Pattern())
	fmt.Fprintf(&sb, "Locale   %s (matched %s)\n", loc.ID, loc.Matched)
	fmt.Fprintf(&sb, "Length   %d positions, %d columns\n\n", l.Len(), l.TotalWidth())

	sections := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		}).
		Headers("#", "char", "class", "range", "width", "content", "req", "sub")
	for _, sec := range l.Sections() {
		content := sec.Literal
		if sec.Fillable() {
			content = sec.Placeholder
		}
		sub := "-"
		if sec.SubField >= 0 {
			sub = strconv.Itoa(sec.SubField)
		}
		sections.Row(
			strconv.Itoa(sec.Index),
			strconv.Quote(sec.Symbol),
			sec.Class.String(),
			fmt.Sprintf("%d-%d", sec.Range.Start, sec.Range.End),
			strconv.Itoa(sec.DisplayWidth),
			strconv.Quote(content),
			yesNo(sec.Required),
			sub,
		)
	}
	sb.WriteString(sections.String())
	sb.WriteString("\n")

	if l.NumSubFields() > 0 {
		subFields := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return lipgloss.NewStyle()
			}).
			Headers("sub", "kind", "range", "sign", "decimal", "int", "frac", "groups")
		for _, f := range l.SubFields() {
			subFields.Row(
				strconv.Itoa(f.Index),
				f.Kind.String(),
				fmt.Sprintf("%d-%d", f.Range.Start, f.Range.End),
				position(f.Sign),
				position(f.Decimal),
				strconv.Itoa(len(f.IntDigits)),
				strconv.Itoa(len(f.FracDigits)),
				strconv.Itoa(len(f.Groups)),
			)
		}
		sb.WriteString("\n")
		sb.WriteString(subFields.String())
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func position(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}
