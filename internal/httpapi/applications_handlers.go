package httpapi

import (
	"database/sql"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"crelate-engine/internal/config"
	"crelate-engine/internal/domain"
	"crelate-engine/internal/events"
	"crelate-engine/internal/signing"
	"crelate-engine/internal/store"
	"crelate-engine/internal/submit"
)

type ApplicationsHandler struct {
	DB          *sql.DB
	CfgVal      *atomic.Value // config.Config
	Hub         *events.Hub
	NewPipeline func(cfg config.Config) *submit.Pipeline
	Signer      *signing.Signer
	DownloadTTL time.Duration
}

// maxFormOverhead covers the non-file form fields on top of the resume cap.
const maxFormOverhead = 1 << 20

func (h ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	p := h.NewPipeline(cfg)

	r.Body = http.MaxBytesReader(w, r.Body, p.MaxResumeBytes+maxFormOverhead)
	if err := r.ParseMultipartForm(p.MaxResumeBytes + maxFormOverhead); err != nil {
		WriteError(w, r, 400, "bad_form", "invalid multipart form: "+err.Error())
		return
	}

	jobID, _ := strconv.ParseInt(r.FormValue("job_id"), 10, 64)
	sub := submit.Submission{
		JobID:         jobID,
		ExternalJobID: strings.TrimSpace(r.FormValue("external_job_id")),
		Name:          r.FormValue("name"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		Location:      r.FormValue("location"),
		CoverLetter:   r.FormValue("cover_letter"),
		LinkedIn:      r.FormValue("linkedin"),
		Website:       r.FormValue("website"),
		HowHeard:      r.FormValue("how_heard"),
		Form:          r.FormValue("form"),
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		RequestID:     RequestIDFrom(r.Context()),
	}

	if file, hdr, err := r.FormFile("resume"); err == nil {
		defer file.Close()
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			WriteError(w, r, 400, "bad_resume", "reading resume: "+rerr.Error())
			return
		}
		sub.Resume = &submit.ResumeFile{
			Name: hdr.Filename,
			MIME: hdr.Header.Get("Content-Type"),
			Data: data,
		}
	}

	res := p.Submit(r.Context(), sub)
	if !res.Success {
		WriteJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	h.Hub.Publish(events.MakeEvent(sub.RequestID, "application_received", 1, map[string]any{
		"id":     res.ApplicationID,
		"job_id": sub.JobID,
	}))
	writeJSON(w, res)
}

func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	jobID, _ := strconv.ParseInt(q.Get("job_id"), 10, 64)
	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	apps, err := store.ListApplications(r.Context(), h.DB, store.ListApplicationsOpts{
		JobID:  jobID,
		Status: q.Get("status"),
		Limit:  limit,
	})
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if apps == nil {
		apps = []domain.ApplicationRecord{}
	}
	writeJSON(w, apps)
}

// ByPath handles /applications/{id} and the two sub-resources
// /applications/{id}/status and /applications/{id}/resume-url.
func (h ApplicationsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/applications/")
	idStr, sub, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, 400, "bad_id", "invalid id")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case sub == "status" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		h.setStatus(w, r, id)
	case sub == "resume-url" && r.Method == http.MethodGet:
		h.resumeURL(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h ApplicationsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	app, err := store.ApplicationByID(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if app == nil {
		WriteError(w, r, 404, "not_found", "application not found")
		return
	}
	writeJSON(w, app)
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h ApplicationsHandler) setStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, 400, "bad_json", "invalid json")
		return
	}
	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		WriteError(w, r, 400, "bad_status", err.Error())
		return
	}

	if err := store.SetApplicationStatus(r.Context(), h.DB, id, status); err != nil {
		WriteError(w, r, 404, "not_found", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "application_status", 1, map[string]any{
		"id": id, "status": string(status),
	}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": status})
}

// resumeURL hands the dashboard a short-lived signed link; the link itself
// carries the only credential the download endpoint accepts.
func (h ApplicationsHandler) resumeURL(w http.ResponseWriter, r *http.Request, id int64) {
	app, err := store.ApplicationByID(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if app == nil {
		WriteError(w, r, 404, "not_found", "application not found")
		return
	}
	if app.ResumePath == "" {
		WriteError(w, r, 404, "no_resume", "application has no resume on file")
		return
	}

	expiry, sig := h.Signer.Sign(id, h.DownloadTTL)
	u := url.URL{Path: "/download"}
	q := u.Query()
	q.Set("applicant_id", strconv.FormatInt(id, 10))
	q.Set("expiry", strconv.FormatInt(expiry, 10))
	q.Set("signature", sig)
	u.RawQuery = q.Encode()

	writeJSON(w, map[string]any{
		"url":    u.String(),
		"expiry": expiry,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
