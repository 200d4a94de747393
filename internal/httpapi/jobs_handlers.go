package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"crelate-engine/internal/domain"
	"crelate-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{
		Sort:       q.Get("sort"),
		Department: q.Get("department"),
		Limit:      limit,
	})
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.JobRecord{}
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, 400, "bad_id", "invalid id")
		return
	}

	job, err := store.JobByID(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if job == nil {
		WriteError(w, r, 404, "not_found", "job not found")
		return
	}
	writeJSON(w, job)
}
