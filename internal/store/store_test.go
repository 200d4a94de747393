package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crelate-engine/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db.Pool
}

func sampleJob(externalID string) domain.JobRecord {
	created := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	return domain.JobRecord{
		ExternalID:  externalID,
		Title:       "Software Engineer",
		Description: "<p>Build things.</p>",
		Department:  "Engineering",
		Type:        "Full-time",
		WorkMode:    "Remote",
		Location:    "Austin, TX",
		ApplyURL:    "https://jobs.crelate.com/portal/acme/job/1",
		CreatedOn:   &created,
		ModifiedOn:  "2026-01-15T08:00:00Z",
		ImportedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db.Pool))
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 1, v)
}

func TestJobRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := InsertJob(ctx, db, sampleJob("ext-1"))
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := JobByExternalID(ctx, db, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Software Engineer", got.Title)
	assert.Equal(t, "2026-01-15T08:00:00Z", got.ModifiedOn)
	require.NotNil(t, got.CreatedOn)
	assert.True(t, got.CreatedOn.Equal(time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)))

	byID, err := JobByID(ctx, db, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, got.ExternalID, byID.ExternalID)
}

func TestJobByExternalIDMissing(t *testing.T) {
	got, err := JobByExternalID(context.Background(), testDB(t), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertJobDuplicateExternalID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := InsertJob(ctx, db, sampleJob("ext-1"))
	require.NoError(t, err)
	_, err = InsertJob(ctx, db, sampleJob("ext-1"))
	require.Error(t, err)
}

func TestUpdateJobOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := InsertJob(ctx, db, sampleJob("ext-1"))
	require.NoError(t, err)

	j := sampleJob("ext-1")
	j.Title = "Staff Engineer"
	j.ModifiedOn = "2026-02-01T00:00:00Z"
	require.NoError(t, UpdateJob(ctx, db, j))

	got, err := JobByExternalID(ctx, db, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, "2026-02-01T00:00:00Z", got.ModifiedOn)
}

func TestListJobsSortAndFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := sampleJob("a")
	a.Title = "Zeta Role"
	a.Department = "Sales"
	a.ImportedAt = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	b := sampleJob("b")
	b.Title = "Alpha Role"
	b.ImportedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := InsertJob(ctx, db, a)
	require.NoError(t, err)
	_, err = InsertJob(ctx, db, b)
	require.NoError(t, err)

	byDate, err := ListJobs(ctx, db, ListJobsOpts{Sort: "date"})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "a", byDate[0].ExternalID)

	byTitle, err := ListJobs(ctx, db, ListJobsOpts{Sort: "title"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Role", byTitle[0].Title)

	// Unknown sort falls back to newest first instead of erroring.
	fallback, err := ListJobs(ctx, db, ListJobsOpts{Sort: "evil; DROP TABLE jobs"})
	require.NoError(t, err)
	require.Len(t, fallback, 2)
	assert.Equal(t, "a", fallback[0].ExternalID)

	sales, err := ListJobs(ctx, db, ListJobsOpts{Department: "Sales"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "a", sales[0].ExternalID)
}

func sampleApplication() domain.ApplicationRecord {
	return domain.ApplicationRecord{
		JobID:         1,
		ExternalJobID: "ext-1",
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "555-123-4567",
		ResumePath:    "/private/resumes/abc.pdf",
		ResumeName:    "cv.pdf",
		ResumeSize:    1234,
		ResumeMIME:    "application/pdf",
		SubmittedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		IP:            "203.0.113.9",
		Status:        domain.StatusNew,
	}
}

func TestApplicationRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := InsertApplication(ctx, db, sampleApplication())
	require.NoError(t, err)

	got, err := ApplicationByID(ctx, db, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "/private/resumes/abc.pdf", got.ResumePath)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.True(t, got.SubmittedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	missing, err := ApplicationByID(ctx, db, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSetApplicationStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := InsertApplication(ctx, db, sampleApplication())
	require.NoError(t, err)

	require.NoError(t, SetApplicationStatus(ctx, db, id, domain.StatusReviewed))

	got, err := ApplicationByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewed, got.Status)

	err = SetApplicationStatus(ctx, db, id+100, domain.StatusReviewed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListApplicationsFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := sampleApplication()
	id1, err := InsertApplication(ctx, db, first)
	require.NoError(t, err)

	second := sampleApplication()
	second.JobID = 2
	second.SubmittedAt = second.SubmittedAt.Add(time.Hour)
	_, err = InsertApplication(ctx, db, second)
	require.NoError(t, err)

	require.NoError(t, SetApplicationStatus(ctx, db, id1, domain.StatusRejected))

	all, err := ListApplications(ctx, db, ListApplicationsOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, int64(2), all[0].JobID)

	byJob, err := ListApplications(ctx, db, ListApplicationsOpts{JobID: 2})
	require.NoError(t, err)
	require.Len(t, byJob, 1)

	rejected, err := ListApplications(ctx, db, ListApplicationsOpts{Status: "rejected"})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, id1, rejected[0].ID)
}

func TestLastImportRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	got, err := LastImport(ctx, db)
	require.NoError(t, err)
	assert.Nil(t, got)

	stats := domain.ImportStats{
		At:       time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC),
		Imported: 3,
		Updated:  1,
		Total:    5,
	}
	require.NoError(t, SaveLastImport(ctx, db, stats))

	got, err = LastImport(ctx, db)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Imported)
	assert.True(t, got.At.Equal(stats.At))

	// Upsert replaces rather than accumulating.
	stats.Imported = 9
	require.NoError(t, SaveLastImport(ctx, db, stats))
	got, err = LastImport(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Imported)
}
