package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec(t *testing.T) {
	cases := map[string]string{
		"hourly":     "@every 1h",
		"twicedaily": "@every 12h",
		"daily":      "@every 24h",
		"weekly":     "@every 168h",
		"disabled":   "",
		"":           "",
	}
	for freq, want := range cases {
		got, err := Spec(freq)
		require.NoError(t, err, "frequency %q", freq)
		assert.Equal(t, want, got, "frequency %q", freq)
	}

	_, err := Spec("fortnightly")
	require.Error(t, err)
}

func TestNewDisabledIsNil(t *testing.T) {
	s, err := New("disabled", func() {})
	require.NoError(t, err)
	require.Nil(t, s)

	// nil scheduler is safe to drive.
	require.NoError(t, s.Start())
	s.Stop()
}

func TestNewUnknownFrequency(t *testing.T) {
	_, err := New("sometimes", func() {})
	require.Error(t, err)
}
