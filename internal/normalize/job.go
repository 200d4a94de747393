// Package normalize turns raw Crelate payloads into the canonical JobRecord.
// All key-precedence logic lives here, at the ingress boundary; nothing
// downstream re-checks key spellings.
package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crelate-engine/internal/domain"
)

var ErrMissingID = errors.New("job payload has no external id")

// JobFromPayload normalizes one raw posting. Every output field is populated
// with at least an empty string; the only hard failure is a missing external
// id, which sinks that record but never the batch.
func JobFromPayload(p map[string]any, portalID string) (domain.JobRecord, error) {
	externalID := pick(p, "Id", "id", "JobPostingId", "jobPostingId")
	if externalID == "" {
		return domain.JobRecord{}, ErrMissingID
	}

	title := CleanText(pick(p, "Title", "title", "JobTitle", "jobTitle", "Name", "name"))
	description := strings.TrimSpace(pick(p, "Description", "description", "JobDescription", "jobDescription", "Content", "content"))

	// Flat Crelate-native City/State beat the generically-named nested
	// location object. Precedence preserved as documented.
	city := pick(p, "City", "city", "location.city", "Location.City", "address.city")
	state := pick(p, "State", "state", "location.state", "Location.State", "address.state")

	department := CleanText(pick(p, "Department", "department", "category.name"))
	if department == "" {
		department = InferDepartment(title, description)
	}

	jobType := CleanText(pick(p, "EmploymentType", "employmentType", "JobType", "jobType"))
	if jobType == "" {
		jobType = InferType(title, description)
	}

	experience := CleanText(pick(p, "ExperienceLevel", "experienceLevel", "Experience", "experience"))
	if experience == "" {
		experience = InferExperience(title, description)
	}

	workMode := NormalizeWorkMode(pick(p, "WorkplaceType", "workplaceType", "RemoteType", "remoteType"))
	if workMode == "" {
		workMode = InferWorkMode(title, description)
	}

	salary := FormatSalary(
		pick(p, "Salary", "salary", "Compensation", "compensation"),
		pick(p, "SalaryMin", "salaryMin", "MinSalary", "minSalary"),
		pick(p, "SalaryMax", "salaryMax", "MaxSalary", "maxSalary"),
	)

	applyURL := strings.TrimSpace(pick(p, "ApplyUrl", "applyUrl", "ApplicationUrl", "applicationUrl", "Url", "url"))
	if applyURL == "" {
		if code := pick(p, "JobCode", "jobCode", "Code", "code"); code != "" && portalID != "" {
			applyURL = fmt.Sprintf("https://jobs.crelate.com/portal/%s/job/%s",
				url.PathEscape(portalID), url.PathEscape(code))
		}
	}

	j := domain.JobRecord{
		ExternalID:   externalID,
		Title:        title,
		Description:  description,
		Requirements: Requirements(pick(p, "Requirements", "requirements"), description),
		Benefits:     Benefits(pick(p, "Benefits", "benefits"), description),
		Department:   department,
		Type:         jobType,
		Experience:   experience,
		WorkMode:     workMode,
		Salary:       salary,
		Location:     FormatLocation(city, state),
		ApplyURL:     applyURL,
		CreatedOn:    ParseAPITime(pick(p, "CreatedOn", "createdOn", "CreatedDate", "createdDate")),
		ModifiedOn:   pick(p, "ModifiedOn", "modifiedOn", "LastModifiedDate", "lastModifiedDate", "UpdatedOn", "updatedOn"),
	}
	return j, nil
}

// ParseAPITime accepts the timestamp formats Crelate has been seen to emit:
// RFC3339, bare date, epoch seconds/milliseconds as a string.
func ParseAPITime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		var t time.Time
		if n >= 1_000_000_000_000 {
			t = time.UnixMilli(n)
		} else {
			t = time.Unix(n, 0)
		}
		return &t
	}
	return nil
}
