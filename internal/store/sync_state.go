package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"crelate-engine/internal/domain"
)

const lastImportKey = "last_import"

func SaveLastImport(ctx context.Context, db *sql.DB, stats domain.ImportStats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO sync_state (k, v) VALUES (?, ?)
ON CONFLICT(k) DO UPDATE SET v = excluded.v;`, lastImportKey, string(b))
	if err != nil {
		return fmt.Errorf("save last import: %w", err)
	}
	return nil
}

// LastImport returns (nil, nil) before the first run ever completes.
func LastImport(ctx context.Context, db *sql.DB) (*domain.ImportStats, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT v FROM sync_state WHERE k = ?;`, lastImportKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats domain.ImportStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("decode last import: %w", err)
	}
	return &stats, nil
}
