package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err)
	require.Equal(t, 80, r.Width())
	require.Equal(t, StyleDark, r.Style())
}

func TestNew_UnknownStyle(t *testing.T) {
	_, err := New(80, "no-such-style.json")
	require.Error(t, err)
}

func TestRender_Table(t *testing.T) {
	r, err := New(80, StylePlain)
	require.NoError(t, err)

	out, err := r.Render("| char | class |\n|---|---|\n| `0` | DigitRequired |\n| `9` | DigitOptional |\n")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "DigitRequired")
	require.Contains(t, plain, "DigitOptional")
	require.NotContains(t, plain, "|---|")
}

func TestRender_HeadingAndList(t *testing.T) {
	r, err := New(60, StylePlain)
	require.NoError(t, err)

	out, err := r.Render("# Pattern grammar\n\n- Item 1\n- Item 2\n")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Pattern grammar")
	require.Contains(t, plain, "Item 1")
	require.Contains(t, plain, "Item 2")
}

func TestRender_TrimsTrailingBlankLines(t *testing.T) {
	r, err := New(80, StylePlain)
	require.NoError(t, err)

	out, err := r.Render("Just plain text")
	require.NoError(t, err)
	require.Contains(t, out, "Just plain text")
	require.NotContains(t, out, "\n\n\n")
	require.Equal(t, byte('\n'), out[len(out)-1])
}
