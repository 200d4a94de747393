package domain

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	StatusNew       ApplicationStatus = "new"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusContacted ApplicationStatus = "contacted"
	StatusRejected  ApplicationStatus = "rejected"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case StatusNew, StatusReviewed, StatusContacted, StatusRejected:
		return ApplicationStatus(s), nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// ApplicationRecord is one candidate submission. Once stored it is never
// deleted by normal flow; only Status changes.
type ApplicationRecord struct {
	ID            int64  `json:"id"`
	JobID         int64  `json:"jobId"`         // local job row, 0 if unknown
	ExternalJobID string `json:"externalJobId"` // Crelate posting id, may be ""

	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	CoverLetter string `json:"coverLetter"`
	LinkedIn    string `json:"linkedin"`
	Website     string `json:"website"`
	HowHeard    string `json:"howHeard"`

	// Resume file on disk, outside anything the HTTP server serves directly.
	// Downloads go through the signed URL gate only.
	ResumePath string `json:"-"`
	ResumeName string `json:"resumeName"`
	ResumeSize int64  `json:"resumeSize"`
	ResumeMIME string `json:"resumeMime"`

	// ExternalCandidateID is set when the submission was forwarded to Crelate.
	ExternalCandidateID string `json:"externalCandidateId"`

	SubmittedAt time.Time `json:"submittedAt"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"userAgent"`

	Status ApplicationStatus `json:"status"`
}
