package extract

import (
	"strings"
	"unicode/utf8"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/events"
	"EditalScanner/internal/normalize"
)

// boardMessyRunes is the length past which a board capture has clearly
// swallowed surrounding text.
const boardMessyRunes = 120

// Assemble builds the structured summary for one notice from its raw
// text. The text is normalized, both event strategies and all field
// extractors run over it, and the result is graded and tagged with the
// gaps a reviewer should look at.
func Assemble(sourceID, raw string, opts Options) domain.Summary {
	text := normalize.Normalize(raw)
	fields := Fields(text, opts)
	chosen := events.Select(events.Extract(text))

	sum := domain.Summary{
		SourceID: sourceID,
		Metadata: domain.Metadata{
			Org:          valueOf(fields.Org),
			EditalNumber: valueOf(fields.EditalNumber),
			JobTitle:     valueOf(fields.JobTitle),
			Board:        valueOf(fields.Board),
		},
		Vacancies: domain.Vacancies{
			Total:     fields.Total,
			ReservedA: fields.ReservedA,
			ReservedB: fields.ReservedB,
		},
		Financial: domain.Financial{
			Fee:            valueOf(fields.Fee),
			StartingSalary: valueOf(fields.StartingSalary),
		},
		Issues:   []domain.Issue{},
		Snippets: map[string]string{},
	}

	fillSchedule(&sum.Schedule, chosen)
	collectSnippets(&sum, fields, chosen)

	for _, issue := range fields.Issues {
		sum.AddIssue(issue)
	}
	flagGaps(&sum)
	flagMessyBoard(&sum)

	sum.OverallConfidence = scoreConfidence(&sum, fields.JobTitle.Hint)
	return sum
}

func valueOf(c Candidate) *string {
	if !c.Found() {
		return nil
	}
	v := c.Value
	return &v
}

// fillSchedule maps the representative events onto the summary's date
// slots. A single-date registration sets only the start.
func fillSchedule(sched *domain.Schedule, chosen map[domain.Category]domain.Event) {
	if ev, ok := chosen[domain.CategoryRegistration]; ok {
		start := ev.Start
		sched.RegistrationStart = &start
		if ev.End != nil {
			end := *ev.End
			sched.RegistrationEnd = &end
		}
	}
	if ev, ok := chosen[domain.CategoryWaiver]; ok {
		start := ev.Start
		sched.WaiverStart = &start
	}
	if ev, ok := chosen[domain.CategoryExam]; ok {
		start := ev.Start
		sched.ExamDate = &start
	}
}

func collectSnippets(sum *domain.Summary, fields FieldSet, chosen map[domain.Category]domain.Event) {
	put := func(key string, c Candidate) {
		if c.Found() && c.Snippet != "" {
			sum.Snippets[key] = c.Snippet
		}
	}
	put("org", fields.Org)
	put("edital_number", fields.EditalNumber)
	put("job_title", fields.JobTitle)
	put("board", fields.Board)
	put("fee", fields.Fee)
	put("starting_salary", fields.StartingSalary)

	for _, cat := range []domain.Category{domain.CategoryRegistration, domain.CategoryWaiver, domain.CategoryExam} {
		if ev, ok := chosen[cat]; ok && ev.Snippet != "" {
			sum.Snippets[string(cat)] = ev.Snippet
		}
	}
}

// flagGaps tags every core field the extractors left empty.
func flagGaps(sum *domain.Summary) {
	if sum.Metadata.Org == nil {
		sum.AddIssue(domain.IssueMissingOrg)
	}
	if sum.Metadata.EditalNumber == nil {
		sum.AddIssue(domain.IssueMissingEditalNumber)
	}
	if sum.Metadata.JobTitle == nil {
		sum.AddIssue(domain.IssueMissingJobTitle)
	}
	if sum.Vacancies.Total == nil {
		sum.AddIssue(domain.IssueMissingTotalVacancies)
	}
	if sum.Financial.Fee == nil {
		sum.AddIssue(domain.IssueMissingFee)
	}
	if !hasKeyDate(sum.Schedule) {
		sum.AddIssue(domain.IssueMissingKeyDates)
	}
}

func hasKeyDate(s domain.Schedule) bool {
	return s.RegistrationStart != nil || s.RegistrationEnd != nil || s.WaiverStart != nil || s.ExamDate != nil
}

func flagMessyBoard(sum *domain.Summary) {
	if sum.Metadata.Board == nil {
		return
	}
	b := *sum.Metadata.Board
	if strings.Contains(b, "\n") || utf8.RuneCountInString(b) > boardMessyRunes {
		sum.AddIssue(domain.IssueBoardMessy)
	}
}

// scoreConfidence grades the summary by how many of the six core slots
// extraction filled: org, notice number, job title, total vacancies,
// fee, and at least one key date. A job title rescued by the whitelist
// fallback scan carries a low hint and does not count as filled.
// Filling another slot never lowers the grade.
func scoreConfidence(sum *domain.Summary, jobHint domain.Confidence) domain.Confidence {
	n := 0
	if sum.Metadata.Org != nil {
		n++
	}
	if sum.Metadata.EditalNumber != nil {
		n++
	}
	if sum.Metadata.JobTitle != nil && jobHint.AtLeast(domain.ConfidenceMedium) {
		n++
	}
	if sum.Vacancies.Total != nil {
		n++
	}
	if sum.Financial.Fee != nil {
		n++
	}
	if hasKeyDate(sum.Schedule) {
		n++
	}
	switch {
	case n >= 5:
		return domain.ConfidenceHigh
	case n >= 3:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
