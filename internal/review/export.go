// Package review moves summaries through the human correction loop: it
// exports stored summaries to an editable CSV and applies the edited
// rows back, taking a backup before every mutation and appending a
// training example for each applied change.
package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"EditalScanner/internal/domain"
)

// Columns is the review CSV header. Every field column is editable;
// confidence and issues are derived outputs and ignored on apply.
var Columns = []string{
	"source_id",
	"org",
	"edital_number",
	"job_title",
	"board",
	"vacancies_total",
	"vacancies_reserved_a",
	"vacancies_reserved_b",
	"fee",
	"starting_salary",
	"registration_start",
	"registration_end",
	"waiver_start",
	"exam_date",
	"confidence",
	"issues",
}

// ExportOptions filter which summaries land in the CSV.
type ExportOptions struct {
	// MaxConfidence keeps only summaries graded strictly below it, so a
	// reviewer can pull just the doubtful ones. Empty exports everything.
	MaxConfidence domain.Confidence
}

// Export writes one CSV row per summary and returns how many rows were
// written. Summaries are never mutated.
func Export(w io.Writer, sums []domain.Summary, opts ExportOptions) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	n := 0
	for _, sum := range sums {
		if opts.MaxConfidence != "" && sum.OverallConfidence.AtLeast(opts.MaxConfidence) {
			continue
		}
		if err := cw.Write(exportRow(sum)); err != nil {
			return n, fmt.Errorf("write csv row %s: %w", sum.SourceID, err)
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}

func exportRow(sum domain.Summary) []string {
	return []string{
		sum.SourceID,
		strCell(sum.Metadata.Org),
		strCell(sum.Metadata.EditalNumber),
		strCell(sum.Metadata.JobTitle),
		strCell(sum.Metadata.Board),
		intCell(sum.Vacancies.Total),
		intCell(sum.Vacancies.ReservedA),
		intCell(sum.Vacancies.ReservedB),
		strCell(sum.Financial.Fee),
		strCell(sum.Financial.StartingSalary),
		dateCell(sum.Schedule.RegistrationStart),
		dateCell(sum.Schedule.RegistrationEnd),
		dateCell(sum.Schedule.WaiverStart),
		dateCell(sum.Schedule.ExamDate),
		string(sum.OverallConfidence),
		joinIssues(sum.Issues),
	}
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateCell(v *domain.Date) string {
	if v == nil {
		return ""
	}
	return v.ISO()
}

func joinIssues(issues []domain.Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = string(issue)
	}
	return strings.Join(parts, ";")
}
