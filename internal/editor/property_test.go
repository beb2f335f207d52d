package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/maskedit/internal/grapheme"
	"github.com/zjrosen/maskedit/internal/locale"
	"github.com/zjrosen/maskedit/internal/mask"
)

var propertyPatterns = []string{
	phone,
	"-#,##0.00",
	"###0.00-",
	"¤#,##0.00",
	"99/99/9999",
	"HHhh",
	`ll\-cc__`,
	"+0.0#",
}

var typedClusters = []string{
	"0", "1", "5", "9", "a", "Z", "f", "x",
	"-", "+", ".", ",", "/", "(", ")", " ", "$",
	"é", "世", "\u0301",
}

var directions = []Direction{
	Left, Right, WordLeft, WordRight, Home, End,
	FieldStart, FieldEnd, NextFillable, PrevFillable,
}

func drawCommand(t *rapid.T, n int) Command {
	switch rapid.IntRange(0, 11).Draw(t, "kind") {
	case 0, 1, 2, 3:
		return InsertChar{Cluster: rapid.SampledFrom(typedClusters).Draw(t, "cluster")}
	case 4:
		return Backspace{}
	case 5:
		return DeleteForward{}
	case 6:
		return MoveCursor{
			Dir:    rapid.SampledFrom(directions).Draw(t, "dir"),
			Extend: rapid.Bool().Draw(t, "extend"),
		}
	case 7:
		return SetCursor{Index: rapid.IntRange(-1, n+1).Draw(t, "index")}
	case 8:
		return SetSelection{
			Anchor: rapid.IntRange(0, n).Draw(t, "anchor"),
			Cursor: rapid.IntRange(0, n).Draw(t, "cursor"),
		}
	case 9:
		return DeleteSelection{}
	case 10:
		return ToggleOverwrite{}
	default:
		return ClickColumn{Column: rapid.IntRange(0, 2*n).Draw(t, "column")}
	}
}

type snapshot struct {
	value  string
	cursor int
	sel    grapheme.Range
	active bool
}

func snap(e *Editor) snapshot {
	sel, active := e.Selection()
	return snapshot{value: e.Value(), cursor: e.Cursor(), sel: sel, active: active}
}

func TestProperty_EditInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pattern := rapid.SampledFrom(propertyPatterns).Draw(t, "pattern")
		l, err := mask.Compile(pattern, locale.Default())
		require.NoError(t, err)
		e, err := New(l)
		require.NoError(t, err)

		blank := l.Blank()
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := snap(e)
			cmd := drawCommand(t, l.Len())
			out := e.Apply(cmd)

			if out.Err != nil {
				require.False(t, out.Changed)
				require.Equal(t, before, snap(e), "rejected %s changed state", cmd.ID())
			}
			if !out.Changed {
				require.Equal(t, before.value, e.Value(), "%s reported no change", cmd.ID())
			}

			require.Equal(t, l.Len(), e.Len())
			require.GreaterOrEqual(t, e.Cursor(), 0)
			require.LessOrEqual(t, e.Cursor(), e.Len())
			for p := 0; p < l.Len(); p++ {
				if !l.Fillable(p) {
					require.Equal(t, blank[p], e.At(p), "literal at %d after %s", p, cmd.ID())
				} else {
					require.True(t, grapheme.IsSingle(e.At(p)))
				}
			}
		}

		// Every failed commit is a validation error naming a section.
		if _, err := e.Commit(); err != nil {
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.GreaterOrEqual(t, verr.Section, 0)
		}
	})
}

func TestProperty_DeleteSelectionIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pattern := rapid.SampledFrom(propertyPatterns).Draw(t, "pattern")
		l, err := mask.Compile(pattern, locale.Default())
		require.NoError(t, err)
		e, err := New(l)
		require.NoError(t, err)

		for i, steps := 0, rapid.IntRange(0, 20).Draw(t, "steps"); i < steps; i++ {
			e.Apply(drawCommand(t, l.Len()))
		}

		sel := SetSelection{
			Anchor: rapid.IntRange(0, l.Len()).Draw(t, "anchor"),
			Cursor: rapid.IntRange(0, l.Len()).Draw(t, "cursor"),
		}
		require.NoError(t, e.Apply(sel).Err)
		require.NoError(t, e.Apply(DeleteSelection{}).Err)
		after := e.Value()

		require.NoError(t, e.Apply(sel).Err)
		out := e.Apply(DeleteSelection{})
		require.NoError(t, out.Err)
		require.False(t, out.Changed)
		require.Equal(t, after, e.Value())
		require.Equal(t, min(sel.Anchor, sel.Cursor), e.Cursor())
	})
}

func TestProperty_ColumnsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pattern := rapid.SampledFrom(propertyPatterns).Draw(t, "pattern")
		l, err := mask.Compile(pattern, locale.Default())
		require.NoError(t, err)
		e, err := New(l)
		require.NoError(t, err)

		for i, steps := 0, rapid.IntRange(0, 30).Draw(t, "steps"); i < steps; i++ {
			e.Apply(drawCommand(t, l.Len()))
		}

		for p := 0; p < e.Len(); p++ {
			col := e.RenderColumn(p)
			require.Less(t, col, e.RenderColumn(p+1))
			require.Equal(t, p, e.IndexAtColumn(col))
		}
		require.Equal(t, e.Len(), e.IndexAtColumn(e.RenderColumn(e.Len())))
	})
}

func TestProperty_SetValueCommitRoundTrip(t *testing.T) {
	l, err := mask.Compile("-#,##0.00", locale.Default())
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-9999, 9999).Draw(t, "int")
		frac := rapid.IntRange(0, 99).Draw(t, "frac")
		raw := fmt.Sprintf("%d.%02d", n, frac)

		e, err := New(l, WithValue(raw))
		require.NoError(t, err)
		v, err := e.Commit()
		require.NoError(t, err)

		require.Equal(t, raw, v.Canonical)
		require.Equal(t, n < 0, v.Negative)

		// Committed text parses back to the same value.
		again, err := New(l, WithValue(v.Text))
		require.NoError(t, err)
		require.Equal(t, e.Value(), again.Value())
	})
}

func TestProperty_IntegerDigitsStayRightAligned(t *testing.T) {
	l, err := mask.Compile("#,##0", locale.Default())
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		e, err := New(l)
		require.NoError(t, err)

		for i, steps := 0, rapid.IntRange(1, 30).Draw(t, "steps"); i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "kind") {
			case 0, 1:
				e.Apply(InsertChar{Cluster: rapid.SampledFrom([]string{"0", "1", "7", "9"}).Draw(t, "digit")})
			case 2:
				e.Apply(Backspace{})
			default:
				e.Apply(MoveCursor{Dir: rapid.SampledFrom(directions).Draw(t, "dir")})
			}
		}

		run := l.SubField(0).IntDigits
		seenDigit := false
		for _, p := range run {
			if e.At(p) != mask.Blank {
				seenDigit = true
			} else {
				require.False(t, seenDigit, "blank at %d after a digit in %q", p, e.Value())
			}
		}

		// The committed text is what the field shows.
		v, err := e.Commit()
		require.NoError(t, err)
		require.Equal(t, strings.TrimLeft(strings.ReplaceAll(e.View(), "_", " "), " "), v.Text)
	})
}
