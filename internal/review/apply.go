package review

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/storage"
)

// ErrConflict marks corrections that cannot land: the row references a
// summary that no longer exists, or a cell cannot be parsed into the
// field's type. Conflicts mean review data is stale and must reach the
// operator instead of being silently dropped.
var ErrConflict = errors.New("review conflict")

// SummaryStore is the storage surface corrections run against.
type SummaryStore interface {
	Load(sourceID string) (domain.Summary, error)
	Save(sum domain.Summary) error
	Backup(sourceID string) (string, error)
	AppendExample(ex domain.ReviewedExample) (string, error)
}

// Applier turns edited review rows back into stored summaries.
type Applier struct {
	store SummaryStore
	now   func() time.Time
}

func NewApplier(store SummaryStore) *Applier {
	return &Applier{store: store, now: time.Now}
}

// Plan describes what one review row did or would do.
type Plan struct {
	SourceID string
	Changes  []domain.FieldChange
	Applied  bool
}

// Apply reads an edited review CSV and processes every row. In dry-run
// mode it only reports the diffs. In apply mode each row that loads
// gets a timestamped backup first; rows with a non-empty diff are then
// written in place and a reviewed example appended. Row failures are
// collected and joined so one stale row never aborts the batch.
func (a *Applier) Apply(r io.Reader, reviewer string, dryRun bool) ([]Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["source_id"]; !ok {
		return nil, errors.New("review csv has no source_id column")
	}

	var plans []Plan
	var failed []error
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			failed = append(failed, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		id := cell("source_id")
		if id == "" {
			failed = append(failed, fmt.Errorf("row %d: empty source_id", line))
			continue
		}
		plan, err := a.applyRow(id, cell, reviewer, dryRun)
		if err != nil {
			failed = append(failed, fmt.Errorf("row %d (%s): %w", line, id, err))
			continue
		}
		plans = append(plans, plan)
	}
	return plans, errors.Join(failed...)
}

func (a *Applier) applyRow(id string, cell func(string) string, reviewer string, dryRun bool) (Plan, error) {
	sum, err := a.store.Load(id)
	if errors.Is(err, storage.ErrNotFound) {
		return Plan{}, fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if err != nil {
		return Plan{}, err
	}

	if !dryRun {
		if _, err := a.store.Backup(id); err != nil {
			return Plan{}, err
		}
	}

	var changes []domain.FieldChange
	for _, spec := range fieldSpecs {
		raw := cell(spec.column)
		if raw == "" {
			continue
		}
		old := spec.get(&sum)
		canonical, err := spec.apply(&sum, raw)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: column %s: %w", ErrConflict, spec.column, err)
		}
		if old != nil && *old == canonical {
			continue
		}
		newVal := canonical
		changes = append(changes, domain.FieldChange{
			Field:   spec.field,
			Old:     old,
			New:     &newVal,
			Snippet: sum.Snippets[spec.snippet],
		})
	}

	if len(changes) == 0 || dryRun {
		return Plan{SourceID: id, Changes: changes}, nil
	}

	stamp := a.now().UTC()
	sum.Review = &domain.ReviewStamp{LastReviewed: stamp, Reviewer: reviewer}
	if err := a.store.Save(sum); err != nil {
		return Plan{}, err
	}
	example := domain.ReviewedExample{
		SummaryID: id,
		Reviewer:  reviewer,
		Timestamp: stamp,
		Changes:   changes,
	}
	if _, err := a.store.AppendExample(example); err != nil {
		return Plan{}, err
	}
	return Plan{SourceID: id, Changes: changes, Applied: true}, nil
}

// fieldSpec binds one CSV column to a summary field: reading the current
// value in canonical string form, and parsing a cell into the field.
// Canonical forms make corrections comparable regardless of how the
// reviewer typed them, so "05/01/2026" against a stored 2026-01-05 is
// recognized as no change.
type fieldSpec struct {
	column  string
	field   string
	snippet string
	get     func(*domain.Summary) *string
	apply   func(*domain.Summary, string) (string, error)
}

var fieldSpecs = []fieldSpec{
	strField("org", "metadata.org", "org", func(s *domain.Summary) **string { return &s.Metadata.Org }),
	strField("edital_number", "metadata.edital_number", "edital_number", func(s *domain.Summary) **string { return &s.Metadata.EditalNumber }),
	strField("job_title", "metadata.job_title", "job_title", func(s *domain.Summary) **string { return &s.Metadata.JobTitle }),
	strField("board", "metadata.board", "board", func(s *domain.Summary) **string { return &s.Metadata.Board }),
	intField("vacancies_total", "vacancies.total", func(s *domain.Summary) **int { return &s.Vacancies.Total }),
	intField("vacancies_reserved_a", "vacancies.reserved_a", func(s *domain.Summary) **int { return &s.Vacancies.ReservedA }),
	intField("vacancies_reserved_b", "vacancies.reserved_b", func(s *domain.Summary) **int { return &s.Vacancies.ReservedB }),
	strField("fee", "financial.fee", "fee", func(s *domain.Summary) **string { return &s.Financial.Fee }),
	strField("starting_salary", "financial.starting_salary", "starting_salary", func(s *domain.Summary) **string { return &s.Financial.StartingSalary }),
	dateField("registration_start", "schedule.registration_start", "registration", func(s *domain.Summary) **domain.Date { return &s.Schedule.RegistrationStart }),
	dateField("registration_end", "schedule.registration_end", "registration", func(s *domain.Summary) **domain.Date { return &s.Schedule.RegistrationEnd }),
	dateField("waiver_start", "schedule.waiver_start", "fee_waiver", func(s *domain.Summary) **domain.Date { return &s.Schedule.WaiverStart }),
	dateField("exam_date", "schedule.exam_date", "exam", func(s *domain.Summary) **domain.Date { return &s.Schedule.ExamDate }),
}

func strField(column, field, snippet string, slot func(*domain.Summary) **string) fieldSpec {
	return fieldSpec{
		column:  column,
		field:   field,
		snippet: snippet,
		get: func(s *domain.Summary) *string {
			p := *slot(s)
			if p == nil {
				return nil
			}
			v := *p
			return &v
		},
		apply: func(s *domain.Summary, raw string) (string, error) {
			v := raw
			*slot(s) = &v
			return v, nil
		},
	}
}

func intField(column, field string, slot func(*domain.Summary) **int) fieldSpec {
	return fieldSpec{
		column: column,
		field:  field,
		get: func(s *domain.Summary) *string {
			p := *slot(s)
			if p == nil {
				return nil
			}
			v := strconv.Itoa(*p)
			return &v
		},
		apply: func(s *domain.Summary, raw string) (string, error) {
			n, err := parseIntCell(raw)
			if err != nil {
				return "", err
			}
			*slot(s) = &n
			return strconv.Itoa(n), nil
		},
	}
}

func dateField(column, field, snippet string, slot func(*domain.Summary) **domain.Date) fieldSpec {
	return fieldSpec{
		column:  column,
		field:   field,
		snippet: snippet,
		get: func(s *domain.Summary) *string {
			p := *slot(s)
			if p == nil {
				return nil
			}
			v := p.ISO()
			return &v
		},
		apply: func(s *domain.Summary, raw string) (string, error) {
			ts, err := dateparse.ParseAny(raw, dateparse.PreferMonthFirst(false))
			if err != nil {
				return "", fmt.Errorf("parse date %q: %w", raw, err)
			}
			d := domain.DateOf(ts)
			*slot(s) = &d
			return d.ISO(), nil
		},
	}
}

// parseIntCell reads a count the way reviewers type them, tolerating
// Brazilian thousands separators and decimal commas.
func parseIntCell(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	cleaned := strings.ReplaceAll(raw, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", raw, err)
	}
	return int(f), nil
}
