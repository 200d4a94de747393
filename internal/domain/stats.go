package domain

import "time"

// ImportStats is the summary persisted after every import run and shown on
// the dashboard / CLI.
type ImportStats struct {
	At       time.Time `json:"at"`
	Imported int       `json:"imported"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Errors   int       `json:"errors"`
	Total    int       `json:"total"`
	// Truncated is set when the pagination safety cap fired and the run
	// processed a partial listing.
	Truncated bool   `json:"truncated"`
	Message   string `json:"message,omitempty"`
}
