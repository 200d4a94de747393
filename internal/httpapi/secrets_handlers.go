package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"crelate-engine/internal/config"
	"crelate-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setSecretReq struct {
	Value string `json:"value"`
}

func (h SecretsHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetAPIKey(cfg, req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", "failed to store api key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) SetSigningSecret(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := secrets.SetSigningSecret(req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", "failed to store signing secret: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
