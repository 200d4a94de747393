package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFromPayloadMissingID(t *testing.T) {
	_, err := JobFromPayload(map[string]any{"Title": "Engineer"}, "portal")
	require.ErrorIs(t, err, ErrMissingID)
}

func TestJobFromPayloadKeyPrecedence(t *testing.T) {
	j, err := JobFromPayload(map[string]any{
		"Id":            "pk-1",
		"id":            "ignored",
		"JobPostingId":  "ignored-too",
		"Title":         "  Senior   Engineer ",
		"City":          "Austin",
		"State":         "TX",
		"location":      map[string]any{"city": "Denver", "state": "CO"},
		"ModifiedOn":    "2026-01-02T03:04:05Z",
		"LastModifiedDate": "older",
	}, "portal")
	require.NoError(t, err)

	assert.Equal(t, "pk-1", j.ExternalID)
	assert.Equal(t, "Senior Engineer", j.Title)
	// Flat City/State win over the nested location object.
	assert.Equal(t, "Austin, TX", j.Location)
	assert.Equal(t, "2026-01-02T03:04:05Z", j.ModifiedOn)
}

func TestJobFromPayloadNestedLocationFallback(t *testing.T) {
	j, err := JobFromPayload(map[string]any{
		"id":       "pk-2",
		"location": map[string]any{"city": "Denver", "state": "CO"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Denver, CO", j.Location)
}

func TestJobFromPayloadApplyURLSynthesized(t *testing.T) {
	j, err := JobFromPayload(map[string]any{
		"Id":      "pk-3",
		"JobCode": "ENG 042",
	}, "acme")
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.crelate.com/portal/acme/job/ENG%2042", j.ApplyURL)

	// An explicit url always wins over synthesis.
	j, err = JobFromPayload(map[string]any{
		"Id":       "pk-4",
		"JobCode":  "ENG-043",
		"ApplyUrl": "https://careers.example.com/apply/43",
	}, "acme")
	require.NoError(t, err)
	assert.Equal(t, "https://careers.example.com/apply/43", j.ApplyURL)
}

func TestJobFromPayloadInfersWhenFieldsAbsent(t *testing.T) {
	j, err := JobFromPayload(map[string]any{
		"Id":          "pk-5",
		"Title":       "Senior Software Engineer (Remote)",
		"Description": "Full-time role on the platform team.",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Engineering", j.Department)
	assert.Equal(t, "Full-time", j.Type)
	assert.Equal(t, "Senior", j.Experience)
	assert.Equal(t, "Remote", j.WorkMode)
}

func TestJobFromPayloadExplicitFieldsBeatInference(t *testing.T) {
	j, err := JobFromPayload(map[string]any{
		"Id":             "pk-6",
		"Title":          "Senior Software Engineer",
		"Department":     "Platform",
		"EmploymentType": "Contract",
		"WorkplaceType":  "HYBRID",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Platform", j.Department)
	assert.Equal(t, "Contract", j.Type)
	assert.Equal(t, "Hybrid", j.WorkMode)
}

func TestParseAPITime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		nil_ bool
	}{
		{in: "2026-03-01T10:00:00Z", want: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2026-03-01T10:00:00", want: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "1767225600", want: time.Unix(1767225600, 0)},
		{in: "1767225600000", want: time.UnixMilli(1767225600000)},
		{in: "", nil_: true},
		{in: "not a date", nil_: true},
	}
	for _, tc := range cases {
		got := ParseAPITime(tc.in)
		if tc.nil_ {
			assert.Nil(t, got, "input %q", tc.in)
			continue
		}
		require.NotNil(t, got, "input %q", tc.in)
		assert.True(t, tc.want.Equal(*got), "input %q: got %v", tc.in, got)
	}
}
