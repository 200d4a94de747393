package domain

import "time"

// JobRecord is the canonical shape every remote posting is normalized into
// before anything else touches it. The Crelate API mixes PascalCase, camelCase
// and nested objects; by the time a record leaves the normalizer all of that
// is gone and every field is at least an empty string.
type JobRecord struct {
	ID         int64  `json:"id"`         // local row id, 0 until stored
	ExternalID string `json:"externalId"` // Crelate posting id; reconciliation key

	Title        string `json:"title"`
	Description  string `json:"description"` // HTML as supplied
	Requirements string `json:"requirements"`
	Benefits     string `json:"benefits"`

	Department string `json:"department"`
	Type       string `json:"type"`       // full-time/part-time/contract/...
	Experience string `json:"experience"` // senior/junior/...
	WorkMode   string `json:"workMode"`   // Remote/Hybrid/Onsite or ""

	Salary   string `json:"salary"`
	Location string `json:"location"` // "City, State" / "City" / "State" / ""
	ApplyURL string `json:"applyUrl"`

	// CreatedOn is the remote creation timestamp when the API supplied one.
	CreatedOn *time.Time `json:"createdOn,omitempty"`
	// ModifiedOn is kept verbatim as the API sent it; change detection is a
	// string equality check against the stored copy, never a parse.
	ModifiedOn string    `json:"modifiedOn"`
	ImportedAt time.Time `json:"importedAt"`
}
