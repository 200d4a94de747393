package httpapi

import (
	"database/sql"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"crelate-engine/internal/audit"
	"crelate-engine/internal/signing"
	"crelate-engine/internal/store"
)

type DownloadHandler struct {
	DB     *sql.DB
	Signer *signing.Signer
	Audit  *audit.Logger
}

// Get serves a resume only when the signed query parameters check out.
// Every failure path is a plain 403 with no detail about which check
// failed; the audit log carries the specific reason.
func (h DownloadHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, idErr := strconv.ParseInt(q.Get("applicant_id"), 10, 64)
	expiry, expErr := strconv.ParseInt(q.Get("expiry"), 10, 64)
	sig := q.Get("signature")

	deny := func(reason string) {
		h.logDownload(r, id, "error", reason)
		WriteError(w, r, http.StatusForbidden, "forbidden", "download link is invalid or expired")
	}

	if idErr != nil || expErr != nil || sig == "" {
		deny("malformed parameters")
		return
	}
	if err := h.Signer.Verify(id, expiry, sig); err != nil {
		deny(err.Error())
		return
	}

	app, err := store.ApplicationByID(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if app == nil || app.ResumePath == "" {
		deny("no resume on file")
		return
	}

	f, err := os.Open(app.ResumePath)
	if err != nil {
		deny("resume file missing")
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		deny("resume file unreadable")
		return
	}

	h.logDownload(r, id, "ok", "")

	ct := app.ResumeMIME
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `attachment; filename="`+app.ResumeName+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.Copy(w, f)
}

func (h DownloadHandler) logDownload(r *http.Request, id int64, outcome, reason string) {
	e := audit.Event{
		At:        time.Now().UTC(),
		Type:      "download",
		Outcome:   outcome,
		Message:   reason,
		RequestID: RequestIDFrom(r.Context()),
		Fields: map[string]string{
			"applicant_id": strconv.FormatInt(id, 10),
			"ip":           clientIP(r),
		},
	}
	_ = h.Audit.Write(e)
}
