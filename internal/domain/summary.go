package domain

import "time"

// Confidence grades extraction trust. Values order low < medium < high.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var confidenceRank = map[Confidence]int{
	ConfidenceLow:    0,
	ConfidenceMedium: 1,
	ConfidenceHigh:   2,
}

// AtLeast reports whether c ranks at or above threshold.
func (c Confidence) AtLeast(threshold Confidence) bool {
	return confidenceRank[c] >= confidenceRank[threshold]
}

// Issue tags a gap or inconsistency found while assembling a summary.
// Tags are stable identifiers, not prose.
type Issue string

const (
	IssueMissingOrg            Issue = "missing_org"
	IssueMissingEditalNumber   Issue = "missing_edital_number"
	IssueMissingJobTitle       Issue = "missing_job_title"
	IssueMissingTotalVacancies Issue = "missing_total_vacancies"
	IssueMissingFee            Issue = "missing_fee"
	IssueMissingKeyDates       Issue = "missing_key_dates"
	IssueBoardAmbiguous        Issue = "board_ambiguous"
	IssueBoardMessy            Issue = "board_messy"
	IssueReservedExceedsTotal  Issue = "reserved_exceeds_total"
)

// Summary is the structured record produced for one notice. Nil pointers
// mean the field could not be extracted; they serialize as explicit nulls.
type Summary struct {
	SourceID          string            `json:"source_id"`
	Metadata          Metadata          `json:"metadata"`
	Vacancies         Vacancies         `json:"vacancies"`
	Financial         Financial         `json:"financial"`
	Schedule          Schedule          `json:"schedule"`
	OverallConfidence Confidence        `json:"overall_confidence"`
	Issues            []Issue           `json:"issues"`
	Snippets          map[string]string `json:"snippets,omitempty"`
	Review            *ReviewStamp      `json:"review,omitempty"`
}

// Metadata identifies the notice and the parties behind it.
type Metadata struct {
	Org          *string `json:"org"`
	EditalNumber *string `json:"edital_number"`
	JobTitle     *string `json:"job_title"`
	Board        *string `json:"board"`
}

// Vacancies carries announced position counts. ReservedA covers the
// disability quota, ReservedB the racial quota.
type Vacancies struct {
	Total     *int `json:"total"`
	ReservedA *int `json:"reserved_a"`
	ReservedB *int `json:"reserved_b"`
}

// Financial keeps money amounts as the notice wrote them.
type Financial struct {
	Fee            *string `json:"fee"`
	StartingSalary *string `json:"starting_salary"`
}

// Schedule holds the key dates a candidate acts on.
type Schedule struct {
	RegistrationStart *Date `json:"registration_start"`
	RegistrationEnd   *Date `json:"registration_end"`
	WaiverStart       *Date `json:"waiver_start"`
	ExamDate          *Date `json:"exam_date"`
}

// ReviewStamp records the most recent human correction pass.
type ReviewStamp struct {
	LastReviewed time.Time `json:"last_reviewed"`
	Reviewer     string    `json:"reviewer"`
}

// HasIssue reports whether tag is already recorded on the summary.
func (s *Summary) HasIssue(tag Issue) bool {
	for _, it := range s.Issues {
		if it == tag {
			return true
		}
	}
	return false
}

// AddIssue records tag once, preserving insertion order.
func (s *Summary) AddIssue(tag Issue) {
	if !s.HasIssue(tag) {
		s.Issues = append(s.Issues, tag)
	}
}
