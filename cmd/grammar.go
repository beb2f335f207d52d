package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/maskedit/internal/ui/markdown"
)

// grammarDoc is the pattern reference printed by `maskedit grammar`.
const grammarDoc = "# Pattern grammar\n\n" +
	"Every pattern character becomes one section of the field. Adjacent " +
	"sections of compatible classes form a sub-field, the unit of word " +
	"movement and of digit shifting.\n\n" +
	"| char | class | accepts |\n" +
	"|---|---|---|\n" +
	"| `0` | DigitRequired | one digit, must be filled at commit |\n" +
	"| `9` `#` | DigitOptional | one digit or blank |\n" +
	"| `-` `+` | SignMarker | a sign, typed anywhere in the number |\n" +
	"| `.` | DecimalPoint | nothing; renders the locale decimal separator |\n" +
	"| `,` | GroupSeparator | nothing; renders the locale grouping separator between digits |\n" +
	"| `H` `h` | AlphaDigit | one hex digit |\n" +
	"| `O` `o` | AlphaDigit | one octal digit |\n" +
	"| `D` `d` | AlphaDigit | one decimal digit |\n" +
	"| `l` | AlphaLetter | one letter |\n" +
	"| `a` | AlphaLetter | one letter or digit |\n" +
	"| `c` | FreeText | any character, required |\n" +
	"| `_` | FreeText | any character or blank |\n" +
	"| space `;` `:` `/` | Separator | nothing; typing it jumps past it |\n" +
	"| `¤` | Currency | nothing; renders the locale currency symbol |\n" +
	"| `\\x` | Separator | nothing; renders `x` literally |\n" +
	"| anything else | LiteralChar | nothing; rendered as written |\n\n" +
	"Uppercase `H` `O` `D` are required but pad with `0` at commit instead of " +
	"failing. A pattern may hold at most one `.` and one sign per number; a " +
	"trailing lone `\\` is invalid.\n\n" +
	"## Examples\n\n" +
	"| pattern | field |\n" +
	"|---|---|\n" +
	"| `(999) 999\\-9999` | US phone number, digits optional |\n" +
	"| `000\\-0000` | seven digits, all required |\n" +
	"| `¤-#,##0.00` | signed amount with currency and grouping |\n" +
	"| `99/99/9999` | date, pair with a display mask such as `mm/dd/yyyy` |\n" +
	"| `\\#HHHHHH` | hex color |\n" +
	"| `ll\\-cc__` | two letters, two required and two optional characters |\n"

var grammarStyle string

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print the pattern grammar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		width, _ := cmd.Flags().GetInt("width")
		r, err := markdown.New(width, grammarRenderStyle(grammarStyle))
		if err != nil {
			return err
		}
		out, err := r.Render(grammarDoc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	grammarCmd.Flags().Int("width", 80, "word wrap width")
	grammarCmd.Flags().StringVar(&grammarStyle, "style", "auto", "auto, dark, light or plain")
	rootCmd.AddCommand(grammarCmd)
}

// grammarRenderStyle maps the --style flag to a renderer style. auto picks
// plain output when stdout has no colors.
func grammarRenderStyle(style string) string {
	switch style {
	case "plain":
		return markdown.StylePlain
	case "auto":
		if lipgloss.ColorProfile() == termenv.Ascii {
			return markdown.StylePlain
		}
		if lipgloss.HasDarkBackground() {
			return markdown.StyleDark
		}
		return markdown.StyleLight
	default:
		return style
	}
}
