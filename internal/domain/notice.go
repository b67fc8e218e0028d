package domain

import "time"

// Notice is a gazette publication discovered by a source scanner.
// ID is the gazette's stable slug for the item and doubles as the
// summary file identity downstream.
type Notice struct {
	ID      string
	Title   string
	URL     string
	Excerpt string
	PubDate Date
	Edition string
	Section string
}

// ProcessingStatus enumerates pipeline milestones for a notice.
type ProcessingStatus string

const (
	StatusDiscovered ProcessingStatus = "discovered"
	StatusExtracted  ProcessingStatus = "extracted"
	StatusReviewed   ProcessingStatus = "reviewed"
)

// CatalogEntry persists a notice and its milestone for deduplication
// across runs and for audit.
type CatalogEntry struct {
	Notice    Notice
	Status    ProcessingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
