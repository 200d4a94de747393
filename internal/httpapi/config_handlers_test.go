package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crelate-engine/internal/config"
)

func configFixture(t *testing.T) (ConfigHandler, *atomic.Value) {
	t.Helper()

	var cfg config.Config
	cfg.App.Port = 38520
	cfg.Crelate.Endpoint = "https://app.crelate.com/api3"
	cfg.Crelate.APIKey = "super-secret-key"
	cfg.Download.SigningSecret = "signing-secret"
	cfg.Import.Frequency = "daily"
	cfg.Import.PageSize = 25
	cfg.Submission.Mode = "local"
	cfg.Submission.MaxResumeMB = 5
	cfg.Submission.AllowedResumeTypes = []string{"application/pdf"}
	cfg.Download.ExpiryHours = 24
	cfg.Display.PerPage = 10

	var val atomic.Value
	val.Store(cfg)

	path := filepath.Join(t.TempDir(), "config.yml")
	h := ConfigHandler{
		CfgVal:      &val,
		UserCfgPath: path,
		LoadCfg: func() (config.Config, error) {
			return config.Load(path)
		},
	}
	return h, &val
}

func TestConfigGetRedactsSecrets(t *testing.T) {
	h, _ := configFixture(t)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "super-secret-key")
	assert.NotContains(t, body, "signing-secret")

	var got config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "***", got.Crelate.APIKey)
	assert.Equal(t, "***", got.Download.SigningSecret)
}

func TestConfigPutPreservesRedactedSecrets(t *testing.T) {
	h, val := configFixture(t)

	// Round-trip what GET hands out, with one real edit.
	getRec := httptest.NewRecorder()
	h.Get(getRec, httptest.NewRequest(http.MethodGet, "/config", nil))
	var edited config.Config
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &edited))
	edited.Import.Frequency = "hourly"

	payload, err := json.Marshal(edited)
	require.NoError(t, err)

	putRec := httptest.NewRecorder()
	h.Put(putRec, httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusOK, putRec.Code, putRec.Body.String())

	// The stored config kept the real secrets and took the edit.
	saved := val.Load().(config.Config)
	assert.Equal(t, "super-secret-key", saved.Crelate.APIKey)
	assert.Equal(t, "signing-secret", saved.Download.SigningSecret)
	assert.Equal(t, "hourly", saved.Import.Frequency)

	// And the response is redacted again.
	assert.NotContains(t, putRec.Body.String(), "super-secret-key")
}

func TestConfigPutRejectsInvalid(t *testing.T) {
	h, _ := configFixture(t)

	rec := httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(`{"crelate":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	getRec := httptest.NewRecorder()
	h.Get(getRec, httptest.NewRequest(http.MethodGet, "/config", nil))
	var cur config.Config
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &cur))
	cur.Import.Frequency = "fortnightly"
	payload, _ := json.Marshal(cur)

	rec = httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var vr config.Validation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vr))
	assert.NotEmpty(t, vr.Errors)
}
