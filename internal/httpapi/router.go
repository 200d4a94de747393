package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Jobs
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.GetByPath, // expects /jobs/{id}
	}))

	// Applications
	ah := ApplicationsHandler{
		DB:          d.DB,
		CfgVal:      d.CfgVal,
		Hub:         d.Hub,
		NewPipeline: d.NewPipeline,
		Signer:      d.Signer,
		DownloadTTL: d.DownloadTTL,
	}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ah.List,
		http.MethodPost: ah.Create,
	}))
	mux.HandleFunc("/applications/", ah.ByPath) // dispatches on sub-resource + method

	// Signed resume downloads
	dh := DownloadHandler{DB: d.DB, Signer: d.Signer, Audit: d.Audit}
	mux.HandleFunc("/download", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Get,
	}))

	// Import
	ih := ImportHandler{
		DB:           d.DB,
		ImportStatus: d.ImportStatus,
		Hub:          d.Hub,
		RunImport:    d.RunImport,
	}
	mux.HandleFunc("/import/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Status,
	}))
	mux.HandleFunc("/import/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Run,
	}))
	mux.HandleFunc("/import/last", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.LastStats,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/crelate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetAPIKey,
	}))
	mux.HandleFunc("/api/secrets/signing", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetSigningSecret,
	}))

	// Audit log
	auh := AuditHandler{Audit: d.Audit}
	mux.HandleFunc("/audit", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: auh.List,
	}))
	mux.HandleFunc("/audit/clear", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: auh.Clear,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
