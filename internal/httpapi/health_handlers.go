package httpapi

import (
	"database/sql"
	"net/http"
)

type HealthHandler struct {
	DB *sql.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.DB.PingContext(r.Context()) == nil
	writeJSON(w, map[string]any{
		"ok": dbOK,
		"db": dbOK,
	})
}
