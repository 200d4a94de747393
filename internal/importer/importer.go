// Package importer synchronizes the remote Crelate job listing into the
// local store: one paginated drain, then a create/update/skip decision per
// record keyed on the external id and the verbatim modified-on timestamp.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"crelate-engine/internal/crelate"
	"crelate-engine/internal/domain"
	"crelate-engine/internal/normalize"
	"crelate-engine/internal/store"
)

type Lister interface {
	ListJobPostings(ctx context.Context, take, skip int) (crelate.JobPostingsPage, error)
}

// SkipCap bounds the pagination cursor. A listing that claims more records
// past this point gets processed as a partial batch with the run flagged
// truncated; it does not fail the run.
const SkipCap = 10000

type Importer struct {
	DB       *sql.DB
	Client   Lister
	PortalID string
	PageSize int

	// Now is pinned by tests; nil means time.Now.
	Now func() time.Time
}

func (imp *Importer) now() time.Time {
	if imp.Now != nil {
		return imp.Now()
	}
	return time.Now().UTC()
}

// Run drains the full remote listing and reconciles every record. One bad
// record increments the error counter and the loop moves on; only a listing
// that is unreachable from the first page fails the whole run.
func (imp *Importer) Run(ctx context.Context, force bool) (domain.ImportStats, error) {
	stats := domain.ImportStats{At: imp.now()}

	take := imp.PageSize
	if take <= 0 {
		take = 25
	}

	var batch []map[string]any
	skip := 0
	for {
		page, err := imp.Client.ListJobPostings(ctx, take, skip)
		if err != nil {
			if len(batch) == 0 {
				stats.Message = "crelate unreachable: " + err.Error()
				if serr := store.SaveLastImport(ctx, imp.DB, stats); serr != nil {
					log.Printf("[import] save stats: %v", serr)
				}
				return stats, fmt.Errorf("list job postings: %w", err)
			}
			// mid-listing failure; keep what we already have
			log.Printf("[import] page at skip=%d failed: %v (processing partial batch)", skip, err)
			stats.Truncated = true
			stats.Message = fmt.Sprintf("listing stopped at skip=%d: %v", skip, err)
			break
		}

		batch = append(batch, page.Records...)
		if !page.More || len(page.Records) == 0 {
			break
		}
		skip += take
		if skip > SkipCap {
			log.Printf("[import] pagination cap hit at skip=%d; processing partial listing", skip)
			stats.Truncated = true
			stats.Message = fmt.Sprintf("pagination cap hit at skip=%d", skip)
			break
		}
	}

	stats.Total = len(batch)
	for _, rec := range batch {
		if err := imp.reconcile(ctx, rec, force, &stats); err != nil {
			stats.Errors++
			log.Printf("[import] record error: %v", err)
		}
	}
	stats.Skipped = stats.Total - stats.Imported - stats.Updated - stats.Errors

	if err := store.SaveLastImport(ctx, imp.DB, stats); err != nil {
		log.Printf("[import] save stats: %v", err)
	}
	log.Printf("[import] done imported=%d updated=%d skipped=%d errors=%d total=%d truncated=%v",
		stats.Imported, stats.Updated, stats.Skipped, stats.Errors, stats.Total, stats.Truncated)
	return stats, nil
}

func (imp *Importer) reconcile(ctx context.Context, rec map[string]any, force bool, stats *domain.ImportStats) error {
	j, err := normalize.JobFromPayload(rec, imp.PortalID)
	if err != nil {
		return err
	}
	j.ImportedAt = imp.now()

	existing, err := store.JobByExternalID(ctx, imp.DB, j.ExternalID)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", j.ExternalID, err)
	}

	if existing == nil {
		// creation timestamp comes from the remote record when it has one
		if j.CreatedOn == nil {
			t := imp.now()
			j.CreatedOn = &t
		}
		if _, err := store.InsertJob(ctx, imp.DB, j); err != nil {
			return err
		}
		stats.Imported++
		return nil
	}

	// Unchanged and no force: skip, no write of any kind.
	if existing.ModifiedOn == j.ModifiedOn && !force {
		return nil
	}

	if j.CreatedOn == nil {
		j.CreatedOn = existing.CreatedOn
	}
	if err := store.UpdateJob(ctx, imp.DB, j); err != nil {
		return err
	}
	stats.Updated++
	return nil
}
