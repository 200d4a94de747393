package crelate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenAuth struct {
	bearer string
	query  string
	header string
	path   string
}

func readAuth(r *http.Request) seenAuth {
	return seenAuth{
		bearer: r.Header.Get("Authorization"),
		query:  r.URL.Query().Get("api_key"),
		header: r.Header.Get("X-Api-Key"),
		path:   r.URL.Path,
	}
}

func TestDoBearerFirst(t *testing.T) {
	var got []seenAuth
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, readAuth(r))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	resp, err := c.Do(context.Background(), http.MethodGet, "/jobPostings", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	// Bearer worked, so only one request went out.
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer key-1", got[0].bearer)
	assert.Empty(t, got[0].query)
	assert.Empty(t, got[0].header)
}

func TestDoAuthFallbackOrder(t *testing.T) {
	var got []seenAuth
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, readAuth(r))
		// Only the X-Api-Key header style is accepted.
		if r.Header.Get("X-Api-Key") == "key-1" {
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	resp, err := c.Do(context.Background(), http.MethodGet, "/jobPostings", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	require.Len(t, got, 3)
	assert.Equal(t, "Bearer key-1", got[0].bearer)
	assert.Equal(t, "key-1", got[1].query)
	assert.Equal(t, "key-1", got[2].header)
}

func TestDoLowercasePathRetry(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/jobpostings" {
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	resp, err := c.Do(context.Background(), http.MethodGet, "/jobPostings", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	// Three auth attempts against the cased path, then the lowered retry.
	require.Len(t, paths, 4)
	assert.Equal(t, "/jobPostings", paths[0])
	assert.Equal(t, "/jobpostings", paths[3])
}

func TestDoNon2xxIsDataNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	resp, err := c.Do(context.Background(), http.MethodGet, "/jobpostings", nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "bad key", resp.Map()["message"])
}

func TestDecodeFallsBackToRawString(t *testing.T) {
	resp := decode(200, []byte("<html>not json</html>"))
	assert.Equal(t, "<html>not json</html>", resp.Data)
	assert.Nil(t, resp.Map())

	resp = decode(204, nil)
	assert.Nil(t, resp.Data)
}

func TestLowerPathKeepsQueryCasing(t *testing.T) {
	assert.Equal(t, "/jobpostings?Take=1&Skip=0", lowerPath("/jobPostings?Take=1&Skip=0"))
	assert.Equal(t, "/jobpostings", lowerPath("/jobPostings"))
}

func TestListJobPostingsEnvelopes(t *testing.T) {
	bodies := []string{
		`{"Results":[{"Id":"a"}],"MoreRecordsAvailable":true,"TotalRecords":10}`,
		`{"data":[{"Id":"b"}],"hasMore":false,"total":1}`,
	}
	i := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bodies[i]))
		i++
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)

	page, err := c.ListJobPostings(context.Background(), 25, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "a", page.Records[0]["Id"])
	assert.True(t, page.More)
	assert.Equal(t, 10, page.Total)

	page, err = c.ListJobPostings(context.Background(), 25, 25)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.False(t, page.More)
	assert.Equal(t, 1, page.Total)
}

func TestCreateCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Jane", fields["Name"])
		w.Write([]byte(`{"Result":"cand-7"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	id, err := c.CreateCandidate(context.Background(), map[string]string{"Name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "cand-7", id)
}

func TestCreateCandidateNoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	_, err := c.CreateCandidate(context.Background(), map[string]string{"Name": "Jane"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id in response")
}

func TestUploadResumeMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "/candidates/cand-7/attachments", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1", nil)
	require.NoError(t, c.UploadResume(context.Background(), "cand-7", "cv.pdf", []byte("pdf")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 240))
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	got := truncate(string(long), 240)
	assert.Len(t, got, 243)
	assert.Equal(t, "...", got[240:])
	assert.Equal(t, "a b", truncate("a\nb", 240))
}
