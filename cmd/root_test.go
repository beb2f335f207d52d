package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/maskedit/internal/config"
	"github.com/zjrosen/maskedit/internal/editor"
	"github.com/zjrosen/maskedit/internal/mask"
	"github.com/zjrosen/maskedit/internal/ui/markdown"
)

// executeCmd runs the CLI against a fresh default config file and returns
// stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	return executeWithConfig(t, path, args...)
}

func executeWithConfig(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	cfg = config.Config{}
	formatDate, formatJSON, formatSymbols = false, false, "posix"
	grammarStyle = "auto"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", path, "--locale", "en-US"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFormat_Mask(t *testing.T) {
	out, err := executeCmd(t, "format", `(999) 999\-9999`, "5551234567")
	require.NoError(t, err)
	require.Equal(t, "(555) 123-4567\n", out)
}

func TestFormat_JSON(t *testing.T) {
	out, err := executeCmd(t, "format", "--json", `000\-0000`, "1234567")
	require.NoError(t, err)

	var v valueJSON
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, "123-4567", v.Text)
	require.Len(t, v.Parts, 2)
	require.False(t, v.Negative)
}

func TestFormat_LocaleNumber(t *testing.T) {
	out, err := executeCmd(t, "format", "--json", "--locale", "de-DE", "--", "¤-#,##0.00", "-1234.5")
	require.NoError(t, err)

	var v valueJSON
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Contains(t, v.Text, "1.234,50")
	require.True(t, v.Negative)
	require.Equal(t, "-1234.50", v.Parts[0])
}

func TestFormat_Date(t *testing.T) {
	out, err := executeCmd(t, "format", "--date", "02 Jan 2006", "2024-02-29T10:30:00Z")
	require.NoError(t, err)
	require.Equal(t, "29 Feb 2024\n", out)
}

func TestFormat_Errors(t *testing.T) {
	_, err := executeCmd(t, "format", "99", "12345")
	require.ErrorIs(t, err, editor.ErrValueMismatch)

	_, err = executeCmd(t, "format", "ll", "a")
	require.ErrorIs(t, err, editor.ErrIncomplete)

	_, err = executeCmd(t, "format", "--symbols", "klingon", "99", "12")
	require.ErrorContains(t, err, "--symbols")

	_, err = executeCmd(t, "format", "--date", "02 Jan 2006", "yesterday")
	require.Error(t, err)

	_, err = executeCmd(t, "format", "99")
	require.Error(t, err, "two arguments are required")
}

func TestInspect(t *testing.T) {
	out, err := executeCmd(t, "inspect", `(999) 999\-9999`)
	require.NoError(t, err)

	require.Contains(t, out, `Pattern  (999) 999\-9999`)
	require.Contains(t, out, "Locale   en-US")
	require.Contains(t, out, "Length   14 positions, 14 columns")
	for _, want := range []string{"LiteralChar", "DigitOptional", "Separator", "numeric"} {
		require.Contains(t, out, want)
	}
}

func TestInspect_InvalidPattern(t *testing.T) {
	_, err := executeCmd(t, "inspect", `99\`)
	require.ErrorIs(t, err, mask.ErrInvalidPattern)
}

func TestGrammar(t *testing.T) {
	out, err := executeCmd(t, "grammar", "--style", "plain", "--width", "100")
	require.NoError(t, err)
	require.Contains(t, out, "Pattern grammar")
	require.Contains(t, out, "DigitRequired")
	require.Contains(t, out, "hex color")
}

func TestGrammarDoc_CoversEveryClass(t *testing.T) {
	for c := mask.DigitOptional; c <= mask.Currency; c++ {
		require.Contains(t, grammarDoc, "| "+c.String()+" |", "class %s is not documented", c)
	}
}

func TestGrammarRenderStyle(t *testing.T) {
	require.Equal(t, markdown.StylePlain, grammarRenderStyle("plain"))
	require.Equal(t, markdown.StyleLight, grammarRenderStyle("light"))
	require.Equal(t, "dracula", grammarRenderStyle("dracula"))
}

func TestReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	_, err := executeWithConfig(t, path, "inspect", "99")
	require.NoError(t, err)
	require.Len(t, cfg.Fields, len(config.DefaultFields()))

	fields := append(config.DefaultFields(), config.FieldConfig{Name: "Zip", Pattern: "00000"})
	require.NoError(t, config.SaveFields(path, fields))

	next, err := reloadConfig()
	require.NoError(t, err)
	require.Len(t, next.Fields, len(fields))
	require.Equal(t, "Zip", next.Fields[len(fields)-1].Name)
	require.NoError(t, next.Validate(t.Context()))
}
