package domain

// Category labels the kind of milestone a notice schedules.
type Category string

const (
	CategoryWaiver       Category = "fee_waiver"
	CategoryRegistration Category = "registration"
	CategoryExam         Category = "exam"
	CategoryResult       Category = "result"
	CategoryAppeal       Category = "appeal"
	CategoryPublication  Category = "publication"
	CategoryOther        Category = "other"
)

// Event is a dated milestone read out of notice text. End is nil for
// single-day events. Pos is the byte offset of the date expression in the
// normalized text, kept for ordering and audit.
type Event struct {
	Category   Category
	Start      Date
	End        *Date
	Confidence Confidence
	Snippet    string
	Pos        int
}

// IsRange reports whether the event spans more than a single day.
func (e Event) IsRange() bool { return e.End != nil }
