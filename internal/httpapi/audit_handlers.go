package httpapi

import (
	"net/http"
	"strconv"

	"crelate-engine/internal/audit"
)

type AuditHandler struct {
	Audit *audit.Logger
}

func (h AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	evts, err := h.Audit.Read(audit.Filter{
		Type:    q.Get("type"),
		Outcome: q.Get("outcome"),
		Limit:   limit,
	})
	if err != nil {
		WriteError(w, r, 500, "audit_error", err.Error())
		return
	}
	if evts == nil {
		evts = []audit.Event{}
	}
	writeJSON(w, evts)
}

func (h AuditHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Audit.Clear(); err != nil {
		WriteError(w, r, 500, "audit_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
