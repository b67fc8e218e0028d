package review

import (
	"bytes"
	"encoding/csv"
	"testing"

	"EditalScanner/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func datePtr(d domain.Date) *domain.Date {
	return &d
}

func reviewedSummary(id string, conf domain.Confidence) domain.Summary {
	return domain.Summary{
		SourceID: id,
		Metadata: domain.Metadata{
			Org:          strPtr("UNIVERSIDADE FEDERAL DO CEARÁ"),
			EditalNumber: strPtr("12/2026"),
			JobTitle:     strPtr("Professor do Magistério Superior"),
			Board:        strPtr("VUNESP"),
		},
		Vacancies: domain.Vacancies{Total: intPtr(20), ReservedA: intPtr(2)},
		Financial: domain.Financial{Fee: strPtr("R$ 110,00"), StartingSalary: strPtr("R$ 9.616,18")},
		Schedule: domain.Schedule{
			RegistrationStart: datePtr(domain.NewDate(2026, 1, 5)),
			RegistrationEnd:   datePtr(domain.NewDate(2026, 1, 30)),
			ExamDate:          datePtr(domain.NewDate(2026, 3, 15)),
		},
		OverallConfidence: conf,
		Issues:            []domain.Issue{domain.IssueBoardMessy, domain.IssueMissingKeyDates},
		Snippets:          map[string]string{"board": "VUNESP"},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	return records
}

func TestExportWritesEditableRow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := Export(&buf, []domain.Summary{reviewedSummary("dou-1", domain.ConfidenceHigh)}, ExportOptions{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}

	records := parseCSV(t, buf.Bytes())
	if len(records) != 2 {
		t.Fatalf("expected header plus row, got %d records", len(records))
	}
	for i, want := range Columns {
		if records[0][i] != want {
			t.Fatalf("header column %d: got %q, want %q", i, records[0][i], want)
		}
	}

	row := records[1]
	want := []string{
		"dou-1",
		"UNIVERSIDADE FEDERAL DO CEARÁ",
		"12/2026",
		"Professor do Magistério Superior",
		"VUNESP",
		"20", "2", "",
		"R$ 110,00", "R$ 9.616,18",
		"2026-01-05", "2026-01-30", "", "2026-03-15",
		"high",
		"board_messy;missing_key_dates",
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %s: got %q, want %q", Columns[i], row[i], want[i])
		}
	}
}

func TestExportEmptyCellsForNullFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := Export(&buf, []domain.Summary{{SourceID: "dou-bare", OverallConfidence: domain.ConfidenceLow}}, ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}

	row := parseCSV(t, buf.Bytes())[1]
	for i, col := range Columns {
		switch col {
		case "source_id":
			if row[i] != "dou-bare" {
				t.Fatalf("unexpected source_id: %q", row[i])
			}
		case "confidence":
			if row[i] != "low" {
				t.Fatalf("unexpected confidence: %q", row[i])
			}
		default:
			if row[i] != "" {
				t.Fatalf("column %s must be empty, got %q", col, row[i])
			}
		}
	}
}

func TestExportFiltersByConfidence(t *testing.T) {
	t.Parallel()

	sums := []domain.Summary{
		reviewedSummary("dou-low", domain.ConfidenceLow),
		reviewedSummary("dou-medium", domain.ConfidenceMedium),
		reviewedSummary("dou-high", domain.ConfidenceHigh),
	}

	var all bytes.Buffer
	if n, _ := Export(&all, sums, ExportOptions{}); n != 3 {
		t.Fatalf("unfiltered export: expected 3 rows, got %d", n)
	}

	var doubtful bytes.Buffer
	n, err := Export(&doubtful, sums, ExportOptions{MaxConfidence: domain.ConfidenceHigh})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows below high, got %d", n)
	}
	records := parseCSV(t, doubtful.Bytes())
	if records[1][0] != "dou-low" || records[2][0] != "dou-medium" {
		t.Fatalf("unexpected filtered rows: %v", records[1:])
	}

	var lowOnly bytes.Buffer
	if n, _ := Export(&lowOnly, sums, ExportOptions{MaxConfidence: domain.ConfidenceMedium}); n != 1 {
		t.Fatalf("expected 1 row below medium, got %d", n)
	}
}
