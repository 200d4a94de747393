// config/overlay.go
package config

import (
	"os"
	"strconv"
)

// OverlayEnv applies environment overrides after the file load. Only knobs a
// deployment actually needs to move get env handles; everything else is the
// config file's business.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("CRELATE_ENDPOINT"); v != "" {
		cfg.Crelate.Endpoint = v
	}
	if v := os.Getenv("CRELATE_API_KEY"); v != "" {
		cfg.Crelate.APIKey = v
	}
	if v := os.Getenv("CRELATE_PORTAL_ID"); v != "" {
		cfg.Crelate.PortalID = v
	}
	if v := os.Getenv("CRELATE_ENGINE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
}
