package model

import "time"

// EvidenceFile describes one durably stored certificate image inside an
// owner's namespace. RelativePath is always of the form
// certificates/<ownerID>/<storedFilename> and resolves to a descendant
// of the store root.
type EvidenceFile struct {
	OwnerID          int64     `json:"owner_id"`
	StoredFilename   string    `json:"stored_filename"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	RelativePath     string    `json:"relative_path"`
	URL              string    `json:"url"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}
