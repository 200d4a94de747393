package signing

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := New("secret")
	expiry, sig := s.Sign(42, time.Hour)
	require.NoError(t, s.Verify(42, expiry, sig))
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := New("secret")
	expiry, sig := s.Sign(42, time.Hour)

	// Different id.
	assert.ErrorIs(t, s.Verify(43, expiry, sig), ErrBadSignature)

	// Stretched expiry invalidates the signature before the clock is even
	// consulted.
	assert.ErrorIs(t, s.Verify(42, expiry+3600, sig), ErrBadSignature)

	// Mangled signature.
	assert.ErrorIs(t, s.Verify(42, expiry, sig[:len(sig)-2]+"zz"), ErrBadSignature)

	// Different secret.
	other := New("other-secret")
	assert.ErrorIs(t, other.Verify(42, expiry, sig), ErrBadSignature)
}

func TestVerifyExpiry(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	now := start
	s := NewAt("secret", func() time.Time { return now })

	expiry, sig := s.Sign(7, time.Hour)

	now = start.Add(59 * time.Minute)
	require.NoError(t, s.Verify(7, expiry, sig))

	now = start.Add(61 * time.Minute)
	assert.ErrorIs(t, s.Verify(7, expiry, sig), ErrExpired)
}

func TestSignDefaultTTL(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewAt("secret", fixedClock(at))

	expiry, _ := s.Sign(1, 0)
	assert.Equal(t, at.Add(DefaultTTL).Unix(), expiry)
}

func TestURLCarriesValidParameters(t *testing.T) {
	s := NewAt("secret", fixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)))

	raw := s.URL("/download", 42, time.Hour)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/download", u.Path)

	q := u.Query()
	id, err := strconv.ParseInt(q.Get("applicant_id"), 10, 64)
	require.NoError(t, err)
	expiry, err := strconv.ParseInt(q.Get("expiry"), 10, 64)
	require.NoError(t, err)

	require.NoError(t, s.Verify(id, expiry, q.Get("signature")))
}
