package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := format(ts, LevelWarn, CatEdit, "rejected", "command", "insert", "reason", "invalid char")
	require.Equal(t, "2025-12-06T10:45:00 [WARN] [edit] rejected command=insert reason=invalid char\n", got)

	got = format(ts, LevelDebug, CatMask, "odd", "orphan")
	require.Equal(t, "2025-12-06T10:45:00 [DEBUG] [mask] odd orphan=<missing>\n", got)
}

func TestLogWritesAndFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	SetMinLevel(LevelInfo)
	Debug(CatEdit, "hidden")
	Info(CatLocale, "resolved", "locale", "de-DE")
	ErrorErr(CatConfig, "load failed", errors.New("boom"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[INFO] [locale] resolved locale=de-DE")
	require.Contains(t, out, "[ERROR] [config] load failed error=boom")

	SetEnabled(false)
	Error(CatUI, "dropped")
	require.NotContains(t, buf.String(), "dropped")
}

func TestLogDisabledByDefault(t *testing.T) {
	Reset()
	require.NotPanics(t, func() { Info(CatUI, "nobody listening") })
	require.Nil(t, NewListener(context.Background()))
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(Reset)

	Info(CatMask, "compiled", "pattern", "##0.00")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[mask] compiled pattern=##0.00")
}

func TestListenerReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatUI, "focused", "field", "amount")

	msg := listener.Listen()()
	event, ok := msg.(LogEvent)
	require.True(t, ok)
	require.Contains(t, event.Payload, "focused field=amount")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelDebug, ParseLevel("whatever"))
}
