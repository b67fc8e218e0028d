package domain

import "time"

// ReviewedExample is the training record appended when a human correction
// changes a stored summary. Only changed fields are recorded.
type ReviewedExample struct {
	SummaryID string        `json:"summary_id"`
	Reviewer  string        `json:"reviewer"`
	Timestamp time.Time     `json:"timestamp"`
	Changes   []FieldChange `json:"changes"`
}

// FieldChange captures one corrected field. Field uses section.key notation
// (for example "metadata.board"). Old and New hold string-encoded values;
// nil means absent.
type FieldChange struct {
	Field   string  `json:"field"`
	Old     *string `json:"old"`
	New     *string `json:"new"`
	Snippet string  `json:"snippet,omitempty"`
}
