package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"crelate-engine/internal/audit"
	"crelate-engine/internal/config"
	"crelate-engine/internal/crelate"
	"crelate-engine/internal/domain"
	"crelate-engine/internal/events"
	"crelate-engine/internal/httpapi"
	"crelate-engine/internal/importer"
	"crelate-engine/internal/scheduler"
	"crelate-engine/internal/secrets"
	"crelate-engine/internal/signing"
	"crelate-engine/internal/submit"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("CRELATE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. A second instance would fight over the
	// sqlite file and the resume store.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("[main] lock: %v", err)
	}
	if !locked {
		log.Fatalf("[main] another engine is already running in %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("[main] config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.OverlayEnv(&cfg)
		normalized, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("[main] config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := openStore(filepath.Join(dataDir, "crelate.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hub := events.NewHub()
	auditLog := audit.NewLogger(filepath.Join(dataDir, "audit.log"))

	limiter := crelate.NewHostLimiter(4, 8)
	newClient := func(cfg config.Config) *crelate.Client {
		return crelate.New(cfg.Crelate.Endpoint, secrets.APIKey(cfg), limiter)
	}

	runImport := func(ctx context.Context, force bool) (domain.ImportStats, error) {
		cur := cfgVal.Load().(config.Config)
		imp := &importer.Importer{
			DB:       db.Pool,
			Client:   newClient(cur),
			PortalID: cur.Crelate.PortalID,
			PageSize: cur.Import.PageSize,
		}
		return imp.Run(ctx, force)
	}

	newPipeline := func(cfg config.Config) *submit.Pipeline {
		return &submit.Pipeline{
			DB:             db.Pool,
			Client:         newClient(cfg),
			Audit:          auditLog,
			Mode:           cfg.Submission.Mode,
			ResumeDir:      filepath.Join(dataDir, "resumes"),
			MaxResumeBytes: int64(cfg.Submission.MaxResumeMB) << 20,
			AllowedMIME:    cfg.Submission.AllowedResumeTypes,
			FormOverrides:  cfg.Forms,
		}
	}

	signingSecret, err := secrets.SigningSecret(cfg)
	if err != nil {
		log.Fatalf("[main] signing secret: %v", err)
	}
	signer := signing.New(signingSecret)
	downloadTTL := signing.DefaultTTL
	if cfg.Download.ExpiryHours > 0 {
		downloadTTL = time.Duration(cfg.Download.ExpiryHours) * time.Hour
	}

	var importStatus atomic.Value
	importStatus.Store(httpapi.ImportStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ImportStatus: &importStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunImport:    runImport,
		NewPipeline:  newPipeline,
		Signer:       signer,
		DownloadTTL:  downloadTTL,
		Audit:        auditLog,
	})

	sched, err := scheduler.New(cfg.Import.Frequency, func() {
		runScheduled(&importStatus, hub, runImport)
	})
	if err != nil {
		log.Fatalf("[main] scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("[main] scheduler start: %v", err)
	}
	defer sched.Stop()

	port := cfg.App.Port
	if port == 0 {
		port = 38520
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[main] engine listening on http://%s (data=%s)", addr, dataDir)

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	srv.Handler = httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("[main] %v", err)
	}
	log.Printf("[main] engine stopped")
}

// runScheduled mirrors the /import/run handler so scheduled and manual runs
// share the same running-flag guard and status bookkeeping.
func runScheduled(status *atomic.Value, hub *events.Hub, run func(ctx context.Context, force bool) (domain.ImportStats, error)) {
	st := status.Load().(httpapi.ImportStatus)
	if st.Running {
		log.Printf("[scheduler] import already running, skipping tick")
		return
	}
	status.Store(httpapi.ImportStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
		Stats:     st.Stats,
	})
	hub.Publish(events.MakeEvent("", "import_started", 1, map[string]any{"force": false}))

	stats, err := run(context.Background(), false)

	now := time.Now().Format(time.RFC3339)
	next := status.Load().(httpapi.ImportStatus)
	next.Running = false
	next.LastRunAt = now
	next.Stats = stats
	if err != nil {
		next.LastError = err.Error()
		log.Printf("[scheduler] import failed: %v", err)
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	status.Store(next)
	hub.Publish(events.MakeEvent("", "import_finished", 1, stats))
}
