package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crelate-engine/internal/domain"
)

const applicationColumns = `id, job_id, external_job_id, name, email, phone, location,
cover_letter, linkedin, website, how_heard,
resume_path, resume_name, resume_size, resume_mime,
external_candidate_id, submitted_at, ip, user_agent, status`

func InsertApplication(ctx context.Context, db *sql.DB, a domain.ApplicationRecord) (int64, error) {
	if a.Status == "" {
		a.Status = domain.StatusNew
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO applications (job_id, external_job_id, name, email, phone, location,
                          cover_letter, linkedin, website, how_heard,
                          resume_path, resume_name, resume_size, resume_mime,
                          external_candidate_id, submitted_at, ip, user_agent, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		a.JobID, a.ExternalJobID, a.Name, a.Email, a.Phone, a.Location,
		a.CoverLetter, a.LinkedIn, a.Website, a.HowHeard,
		a.ResumePath, a.ResumeName, a.ResumeSize, a.ResumeMIME,
		a.ExternalCandidateID, a.SubmittedAt.UTC().Format(time.RFC3339), a.IP, a.UserAgent, string(a.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	return res.LastInsertId()
}

func ApplicationByID(ctx context.Context, db *sql.DB, id int64) (*domain.ApplicationRecord, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+applicationColumns+`
FROM applications
WHERE id = ?;`, id)

	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type ListApplicationsOpts struct {
	JobID  int64
	Status string
	Limit  int
}

func ListApplications(ctx context.Context, db *sql.DB, opts ListApplicationsOpts) ([]domain.ApplicationRecord, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 200
	}

	where := "WHERE 1=1"
	args := []any{}
	if opts.JobID > 0 {
		where += " AND job_id = ?"
		args = append(args, opts.JobID)
	}
	if opts.Status != "" {
		where += " AND status = ?"
		args = append(args, opts.Status)
	}
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, `
SELECT `+applicationColumns+`
FROM applications
`+where+`
ORDER BY submitted_at DESC
LIMIT ?;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ApplicationRecord
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetApplicationStatus is the only mutation an application sees after insert.
func SetApplicationStatus(ctx context.Context, db *sql.DB, id int64, status domain.ApplicationStatus) error {
	res, err := db.ExecContext(ctx, `
UPDATE applications SET status = ? WHERE id = ?;`, string(status), id)
	if err != nil {
		return fmt.Errorf("set application status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("application %d not found", id)
	}
	return nil
}

func scanApplication(r rowScanner) (domain.ApplicationRecord, error) {
	var a domain.ApplicationRecord
	var submittedAt, status string
	err := r.Scan(
		&a.ID, &a.JobID, &a.ExternalJobID, &a.Name, &a.Email, &a.Phone, &a.Location,
		&a.CoverLetter, &a.LinkedIn, &a.Website, &a.HowHeard,
		&a.ResumePath, &a.ResumeName, &a.ResumeSize, &a.ResumeMIME,
		&a.ExternalCandidateID, &submittedAt, &a.IP, &a.UserAgent, &status,
	)
	if err != nil {
		return domain.ApplicationRecord{}, err
	}
	a.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
	a.Status = domain.ApplicationStatus(status)
	return a, nil
}
