package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"crelate-engine/internal/audit"
	"crelate-engine/internal/config"
	"crelate-engine/internal/domain"
	"crelate-engine/internal/events"
	"crelate-engine/internal/signing"
	"crelate-engine/internal/submit"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ImportStatus *atomic.Value // stores httpapi.ImportStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Import entrypoint (inject for testability)
	RunImport func(ctx context.Context, force bool) (domain.ImportStats, error)

	// NewPipeline builds a submission pipeline against the current config so
	// a config save takes effect without a restart.
	NewPipeline func(cfg config.Config) *submit.Pipeline

	Signer      *signing.Signer
	DownloadTTL time.Duration

	Audit *audit.Logger
}
