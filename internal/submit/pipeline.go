// Package submit runs a captured application through validation and then
// either persists it locally or forwards it to Crelate, tracking per-step
// partial success. Step outcomes land in the audit log with PII masked.
package submit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"crelate-engine/internal/audit"
	"crelate-engine/internal/domain"
	"crelate-engine/internal/store"
)

// Forwarder is the slice of the Crelate client the pipeline needs.
type Forwarder interface {
	CreateCandidate(ctx context.Context, fields map[string]string) (string, error)
	UploadResume(ctx context.Context, candidateID, filename string, content []byte) error
	LinkRequisition(ctx context.Context, candidateID, externalJobID string) error
}

type ResumeFile struct {
	Name string
	MIME string
	Data []byte
}

type Submission struct {
	JobID         int64
	ExternalJobID string

	Name        string
	Email       string
	Phone       string
	Location    string
	CoverLetter string
	LinkedIn    string
	Website     string
	HowHeard    string

	Resume *ResumeFile

	Form      string // mapping profile name, "" for defaults
	IP        string
	UserAgent string
	RequestID string
}

// Result is what every entry point hands back: callers must look at both
// Success and Warnings. A warning (resume or job-link step failed after the
// candidate existed) does not flip Success.
type Result struct {
	Success       bool     `json:"success"`
	ApplicationID int64    `json:"applicationId,omitempty"`
	CandidateID   string   `json:"candidateId,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

type Pipeline struct {
	DB     *sql.DB
	Client Forwarder
	Audit  *audit.Logger

	Mode           string // local | forward
	ResumeDir      string
	MaxResumeBytes int64
	AllowedMIME    []string
	FormOverrides  map[string]map[string]string

	// Now is pinned by tests; nil means time.Now.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Submit validates, then runs whichever mode is configured. Validation fails
// closed: nothing is stored or sent when it rejects.
func (p *Pipeline) Submit(ctx context.Context, s Submission) Result {
	if errs := p.validate(s); len(errs) > 0 {
		res := Result{Success: false, Errors: errs}
		p.logStep(s, "validate", "error", strings.Join(errs, "; "))
		return res
	}

	if p.Mode == "forward" && p.Client != nil {
		return p.forward(ctx, s)
	}
	return p.storeLocal(ctx, s)
}

func (p *Pipeline) validate(s Submission) []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(s.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		errs = append(errs, "email is not valid")
	}
	if s.Resume != nil {
		if p.MaxResumeBytes > 0 && int64(len(s.Resume.Data)) > p.MaxResumeBytes {
			errs = append(errs, fmt.Sprintf("resume exceeds the %d byte limit", p.MaxResumeBytes))
		}
		if len(p.AllowedMIME) > 0 && !mimeAllowed(p.AllowedMIME, s.Resume.MIME) {
			errs = append(errs, fmt.Sprintf("resume type %q is not accepted", s.Resume.MIME))
		}
	}
	return errs
}

func mimeAllowed(allowed []string, mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, a := range allowed {
		if strings.ToLower(a) == mime {
			return true
		}
	}
	return false
}

// forward creates the candidate (mandatory), then attaches the resume and
// links the requisition; those two degrade to warnings because the candidate
// already exists remotely by then.
func (p *Pipeline) forward(ctx context.Context, s Submission) Result {
	mapping := DefaultMapping()
	if s.Form != "" {
		if ov, ok := p.FormOverrides[s.Form]; ok {
			mapping = WithOverrides(ov)
		}
	}
	fields, missing := ApplyMapping(mapping, s.fieldValues())
	if len(missing) > 0 {
		// required fields vanished during sanitization (e.g. junk URL-only email)
		errs := make([]string, 0, len(missing))
		for _, m := range missing {
			errs = append(errs, m+" is required")
		}
		p.logStep(s, "validate", "error", strings.Join(errs, "; "))
		return Result{Success: false, Errors: errs}
	}

	res := Result{}
	candidateID, err := p.Client.CreateCandidate(ctx, fields)
	if err != nil {
		p.logStep(s, "create_candidate", "error", err.Error())
		res.Errors = append(res.Errors, "candidate creation failed")
		return res
	}
	res.CandidateID = candidateID
	p.logStep(s, "create_candidate", "ok", "candidate "+candidateID)

	if s.Resume != nil {
		if err := p.Client.UploadResume(ctx, candidateID, s.Resume.Name, s.Resume.Data); err != nil {
			p.logStep(s, "upload_resume", "warning", err.Error())
			res.Warnings = append(res.Warnings, "resume upload failed; application was still submitted")
		} else {
			p.logStep(s, "upload_resume", "ok", s.Resume.Name)
		}
	}

	if s.ExternalJobID != "" {
		if err := p.Client.LinkRequisition(ctx, candidateID, s.ExternalJobID); err != nil {
			p.logStep(s, "link_job", "warning", err.Error())
			res.Warnings = append(res.Warnings, "job link failed; application was still submitted")
		} else {
			p.logStep(s, "link_job", "ok", "job "+s.ExternalJobID)
		}
	}

	// keep a local record of the forwarded submission too
	rec := p.record(s)
	rec.ExternalCandidateID = candidateID
	if id, err := store.InsertApplication(ctx, p.DB, rec); err != nil {
		// remote side succeeded; losing the local mirror is a warning
		p.logStep(s, "store_local", "warning", err.Error())
		res.Warnings = append(res.Warnings, "local record could not be stored")
	} else {
		res.ApplicationID = id
	}

	res.Success = true
	return res
}

// storeLocal persists everything here; the insert is the one step that
// decides success.
func (p *Pipeline) storeLocal(ctx context.Context, s Submission) Result {
	rec := p.record(s)

	if s.Resume != nil {
		path, err := p.saveResume(s.Resume)
		if err != nil {
			p.logStep(s, "store_local", "error", err.Error())
			log.Printf("[submit] resume save failed: %v", err)
			return Result{Success: false, Errors: []string{"could not store the submission"}}
		}
		rec.ResumePath = path
		rec.ResumeName = s.Resume.Name
		rec.ResumeSize = int64(len(s.Resume.Data))
		rec.ResumeMIME = s.Resume.MIME
	}

	id, err := store.InsertApplication(ctx, p.DB, rec)
	if err != nil {
		p.logStep(s, "store_local", "error", err.Error())
		log.Printf("[submit] insert failed: %v", err)
		return Result{Success: false, Errors: []string{"could not store the submission"}}
	}

	p.logStep(s, "store_local", "ok", fmt.Sprintf("application %d", id))
	return Result{Success: true, ApplicationID: id}
}

func (p *Pipeline) record(s Submission) domain.ApplicationRecord {
	return domain.ApplicationRecord{
		JobID:         s.JobID,
		ExternalJobID: s.ExternalJobID,
		Name:          strings.TrimSpace(s.Name),
		Email:         strings.ToLower(strings.TrimSpace(s.Email)),
		Phone:         strings.TrimSpace(s.Phone),
		Location:      strings.TrimSpace(s.Location),
		CoverLetter:   strings.TrimSpace(s.CoverLetter),
		LinkedIn:      strings.TrimSpace(s.LinkedIn),
		Website:       strings.TrimSpace(s.Website),
		HowHeard:      strings.TrimSpace(s.HowHeard),
		SubmittedAt:   p.now(),
		IP:            s.IP,
		UserAgent:     s.UserAgent,
		Status:        domain.StatusNew,
	}
}

func (s Submission) fieldValues() map[string]string {
	return map[string]string{
		"name":         s.Name,
		"email":        s.Email,
		"phone":        s.Phone,
		"location":     s.Location,
		"cover_letter": s.CoverLetter,
		"linkedin":     s.LinkedIn,
		"website":      s.Website,
		"how_heard":    s.HowHeard,
	}
}

// logStep writes one audit line per pipeline step with the identity fields
// masked. Raw PII never reaches the log file.
func (p *Pipeline) logStep(s Submission, step, outcome, msg string) {
	if p.Audit == nil {
		return
	}
	err := p.Audit.Write(audit.Event{
		Type:      step,
		Outcome:   outcome,
		Message:   msg,
		RequestID: s.RequestID,
		Fields: map[string]string{
			"name":   audit.MaskName(s.Name),
			"email":  audit.MaskEmail(s.Email),
			"phone":  audit.MaskPhone(s.Phone),
			"job_id": s.ExternalJobID,
			"ip":     s.IP,
		},
	})
	if err != nil {
		log.Printf("[submit] audit write failed: %v", err)
	}
}
