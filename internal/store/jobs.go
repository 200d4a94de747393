package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crelate-engine/internal/domain"
)

const jobColumns = `id, external_id, title, description, requirements, benefits,
department, job_type, experience, work_mode, salary, location, apply_url,
created_on, modified_on, imported_at`

// JobByExternalID returns (nil, nil) when no row exists; the reconciler treats
// that as "create".
func JobByExternalID(ctx context.Context, db *sql.DB, externalID string) (*domain.JobRecord, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE external_id = ?;`, externalID)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func InsertJob(ctx context.Context, db *sql.DB, j domain.JobRecord) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO jobs (external_id, title, description, requirements, benefits,
                  department, job_type, experience, work_mode, salary, location, apply_url,
                  created_on, modified_on, imported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		j.ExternalID, j.Title, j.Description, j.Requirements, j.Benefits,
		j.Department, j.Type, j.Experience, j.WorkMode, j.Salary, j.Location, j.ApplyURL,
		formatTimePtr(j.CreatedOn), j.ModifiedOn, j.ImportedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	return res.LastInsertId()
}

// UpdateJob overwrites every content and derived column. The reconciler only
// calls this on create/update decisions, never on skip, so an unconditional
// overwrite here is the point.
func UpdateJob(ctx context.Context, db *sql.DB, j domain.JobRecord) error {
	_, err := db.ExecContext(ctx, `
UPDATE jobs SET
  title = ?, description = ?, requirements = ?, benefits = ?,
  department = ?, job_type = ?, experience = ?, work_mode = ?,
  salary = ?, location = ?, apply_url = ?,
  created_on = ?, modified_on = ?, imported_at = ?
WHERE external_id = ?;`,
		j.Title, j.Description, j.Requirements, j.Benefits,
		j.Department, j.Type, j.Experience, j.WorkMode,
		j.Salary, j.Location, j.ApplyURL,
		formatTimePtr(j.CreatedOn), j.ModifiedOn, j.ImportedAt.UTC().Format(time.RFC3339),
		j.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func JobByID(ctx context.Context, db *sql.DB, id int64) (*domain.JobRecord, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE id = ?;`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

type ListJobsOpts struct {
	Sort       string // date | title | department
	Department string
	Limit      int
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.JobRecord, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"date":       "imported_at DESC",
		"title":      "title ASC",
		"department": "department ASC, title ASC",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "imported_at DESC"
	}

	where := ""
	args := []any{}
	if opts.Department != "" {
		where = "WHERE department = ?"
		args = append(args, opts.Department)
	}
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
SELECT `+jobColumns+`
FROM jobs
%s
ORDER BY %s
LIMIT ?;`, where, sortCol), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.JobRecord, error) {
	var j domain.JobRecord
	var createdOn, importedAt string
	err := r.Scan(
		&j.ID, &j.ExternalID, &j.Title, &j.Description, &j.Requirements, &j.Benefits,
		&j.Department, &j.Type, &j.Experience, &j.WorkMode, &j.Salary, &j.Location, &j.ApplyURL,
		&createdOn, &j.ModifiedOn, &importedAt,
	)
	if err != nil {
		return domain.JobRecord{}, err
	}
	if createdOn != "" {
		if t, perr := time.Parse(time.RFC3339, createdOn); perr == nil {
			j.CreatedOn = &t
		}
	}
	j.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return j, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
