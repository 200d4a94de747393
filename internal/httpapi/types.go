package httpapi

import "crelate-engine/internal/domain"

type ImportStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Running   bool   `json:"running"`

	Stats domain.ImportStats `json:"stats"`
}
