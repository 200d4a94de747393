package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"sync/atomic"
	"time"

	"crelate-engine/internal/domain"
	"crelate-engine/internal/events"
	"crelate-engine/internal/store"
)

type ImportHandler struct {
	DB           *sql.DB
	ImportStatus *atomic.Value // httpapi.ImportStatus
	Hub          *events.Hub
	RunImport    func(ctx context.Context, force bool) (domain.ImportStats, error)
}

func (h ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ImportStatus.Load().(ImportStatus)
	if st.LastRunAt == "" {
		// Process restart wipes the in-memory status; fall back to the
		// persisted summary of the last run.
		if last, err := store.LastImport(r.Context(), h.DB); err == nil && last != nil {
			st.Stats = *last
			st.LastRunAt = last.At.Format(time.RFC3339)
			if last.Errors == 0 {
				st.LastOkAt = st.LastRunAt
			}
		}
	}
	writeJSON(w, st)
}

func (h ImportHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.ImportStatus.Load().(ImportStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	force := r.URL.Query().Get("force") == "1" || r.URL.Query().Get("force") == "true"

	h.ImportStatus.Store(ImportStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
		Stats:     st.Stats,
	})

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "import_started", 1, map[string]any{"force": force}))

	go func() {
		stats, err := h.RunImport(context.Background(), force)

		now := time.Now().Format(time.RFC3339)
		next := h.ImportStatus.Load().(ImportStatus)
		next.Running = false
		next.LastRunAt = now
		next.Stats = stats
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.ImportStatus.Store(next)

		h.Hub.Publish(events.MakeEvent(reqID, "import_finished", 1, stats))
	}()

	writeJSON(w, map[string]any{"ok": true})
}

func (h ImportHandler) LastStats(w http.ResponseWriter, r *http.Request) {
	last, err := store.LastImport(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if last == nil {
		writeJSON(w, map[string]any{"ran": false})
		return
	}
	writeJSON(w, last)
}
