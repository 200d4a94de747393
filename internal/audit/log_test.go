package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	return NewLogger(filepath.Join(t.TempDir(), "audit.log"))
}

func TestWriteAndRead(t *testing.T) {
	l := newTestLogger(t)

	require.NoError(t, l.Write(Event{Type: "submission", Outcome: "ok", Message: "first"}))
	require.NoError(t, l.Write(Event{Type: "download", Outcome: "error", Message: "second"}))
	require.NoError(t, l.Write(Event{Type: "submission", Outcome: "warning", Message: "third"}))

	all, err := l.Read(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "third", all[2].Message)
	assert.False(t, all[0].At.IsZero())

	subs, err := l.Read(Filter{Type: "submission"})
	require.NoError(t, err)
	require.Len(t, subs, 2)

	errs, err := l.Read(Filter{Outcome: "error"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "second", errs[0].Message)
}

func TestReadLimitKeepsNewest(t *testing.T) {
	l := newTestLogger(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Write(Event{
			Type:    "submission",
			Outcome: "ok",
			Message: string(rune('a' + i)),
			At:      time.Now().UTC(),
		}))
	}

	out, err := l.Read(Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "d", out[0].Message)
	assert.Equal(t, "e", out[1].Message)
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	l := newTestLogger(t)
	out, err := l.Read(Filter{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReadSkipsTornLines(t *testing.T) {
	l := newTestLogger(t)
	require.NoError(t, l.Write(Event{Type: "submission", Outcome: "ok"}))

	f, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"at":"2026-01-01T00:00:0`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := l.Read(Filter{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestClear(t *testing.T) {
	l := newTestLogger(t)
	require.NoError(t, l.Write(Event{Type: "submission", Outcome: "ok"}))
	require.NoError(t, l.Clear())

	out, err := l.Read(Filter{})
	require.NoError(t, err)
	assert.Empty(t, out)

	// Clearing a log that never existed is fine too.
	fresh := newTestLogger(t)
	require.NoError(t, fresh.Clear())
}
