package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/storage"
)

type fakeSource struct {
	notices []domain.Notice
	err     error
}

func (f *fakeSource) FetchWindow(ctx context.Context, from, to domain.Date) ([]domain.Notice, error) {
	return f.notices, f.err
}

type fakeCatalog struct {
	known    map[string]bool
	statuses map[string]domain.ProcessingStatus
}

func newFakeCatalog(seen ...string) *fakeCatalog {
	known := make(map[string]bool, len(seen))
	for _, id := range seen {
		known[id] = true
	}
	return &fakeCatalog{known: known, statuses: map[string]domain.ProcessingStatus{}}
}

func (f *fakeCatalog) Seen(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range ids {
		if f.known[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeCatalog) Upsert(ctx context.Context, entry domain.CatalogEntry) error {
	f.statuses[entry.Notice.ID] = entry.Status
	return nil
}

func (f *fakeCatalog) MarkStatus(ctx context.Context, id string, status domain.ProcessingStatus) error {
	f.statuses[id] = status
	return nil
}

type fakeTexts struct {
	texts map[string]string
}

func (f *fakeTexts) Text(ctx context.Context, notice domain.Notice) (string, error) {
	text, ok := f.texts[notice.ID]
	if !ok {
		return "", fmt.Errorf("no text for %s", notice.ID)
	}
	return text, nil
}

type memStore struct {
	saved map[string]domain.Summary
}

func newMemStore() *memStore {
	return &memStore{saved: map[string]domain.Summary{}}
}

func (m *memStore) Save(sum domain.Summary) error {
	m.saved[sum.SourceID] = sum
	return nil
}

func (m *memStore) Load(sourceID string) (domain.Summary, error) {
	sum, ok := m.saved[sourceID]
	if !ok {
		return domain.Summary{}, fmt.Errorf("summary %s: %w", sourceID, storage.ErrNotFound)
	}
	return sum, nil
}

func (m *memStore) List() ([]domain.Summary, error) { return nil, nil }

func (m *memStore) Backup(sourceID string) (string, error) { return "", nil }

func (m *memStore) AppendExample(ex domain.ReviewedExample) (string, error) { return "", nil }

func (m *memStore) ListExamples() ([]domain.ReviewedExample, error) { return nil, nil }

type recordingNotifier struct {
	subjects []string
	bodies   []string
	err      error
}

func (r *recordingNotifier) Notify(ctx context.Context, subject, body string) error {
	r.subjects = append(r.subjects, subject)
	r.bodies = append(r.bodies, body)
	return r.err
}

func noticeText() string {
	return strings.Join([]string{
		"UNIVERSIDADE FEDERAL DO CEARÁ",
		"EDITAL Nº 12/2026 CONCURSO PÚBLICO",
		"Taxa de inscrição: R$ 110,00",
		"Período de inscrições: 05/01/2026 a 30/01/2026",
	}, "\n")
}

func notice(id string) domain.Notice {
	return domain.Notice{
		ID:      id,
		Title:   "EDITAL DE ABERTURA " + id,
		URL:     "https://www.in.gov.br/web/dou/-/" + id,
		PubDate: domain.NewDate(2026, 1, 8),
		Section: "DO3",
	}
}

func TestPipelineProcessWindow(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog("seen-1")
	store := newMemStore()
	notifier := &recordingNotifier{}

	pipe := NewPipeline(PipelineDeps{
		Source:    &fakeSource{notices: []domain.Notice{notice("new-1"), notice("seen-1"), notice("broken-1")}},
		Catalog:   catalog,
		Extractor: &fakeTexts{texts: map[string]string{"new-1": noticeText()}},
		Store:     store,
		Notifier:  notifier,
	})

	report, err := pipe.ProcessWindow(context.Background(), domain.NewDate(2026, 1, 1), domain.NewDate(2026, 1, 8))
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if report.Found != 3 || report.Skipped != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report counts: %+v", report)
	}
	if len(report.Processed) != 1 || report.Processed[0].SourceID != "new-1" {
		t.Fatalf("unexpected processed set: %+v", report.Processed)
	}

	saved, ok := store.saved["new-1"]
	if !ok {
		t.Fatalf("summary for new-1 was not persisted")
	}
	if saved.Metadata.EditalNumber == nil || *saved.Metadata.EditalNumber != "12/2026" {
		t.Fatalf("unexpected edital number: %v", saved.Metadata.EditalNumber)
	}
	if _, ok := store.saved["seen-1"]; ok {
		t.Fatalf("already cataloged notice was reprocessed")
	}

	if catalog.statuses["new-1"] != domain.StatusExtracted {
		t.Fatalf("new-1 status = %q, want extracted", catalog.statuses["new-1"])
	}
	if catalog.statuses["broken-1"] != domain.StatusDiscovered {
		t.Fatalf("broken-1 status = %q, want discovered", catalog.statuses["broken-1"])
	}

	if len(notifier.subjects) != 1 {
		t.Fatalf("expected one digest, got %d", len(notifier.subjects))
	}
	if notifier.subjects[0] != "[EditalScanner] 1 opening notice(s) found" {
		t.Fatalf("unexpected subject: %q", notifier.subjects[0])
	}
	if !strings.Contains(notifier.bodies[0], "new-1") || !strings.Contains(notifier.bodies[0], "2026-01-05") {
		t.Fatalf("digest body missing notice details:\n%s", notifier.bodies[0])
	}
}

func TestPipelineSourceFailure(t *testing.T) {
	t.Parallel()

	pipe := NewPipeline(PipelineDeps{
		Source: &fakeSource{err: errors.New("gazette is down")},
	})

	if _, err := pipe.ProcessWindow(context.Background(), domain.NewDate(2026, 1, 1), domain.NewDate(2026, 1, 8)); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestPipelineBelowNotifyThreshold(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	pipe := NewPipeline(PipelineDeps{
		Source:          &fakeSource{notices: []domain.Notice{notice("new-1")}},
		Extractor:       &fakeTexts{texts: map[string]string{"new-1": noticeText()}},
		Store:           newMemStore(),
		Notifier:        notifier,
		NotifyThreshold: 2,
	})

	report, err := pipe.ProcessWindow(context.Background(), domain.NewDate(2026, 1, 1), domain.NewDate(2026, 1, 8))
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if len(report.Processed) != 1 {
		t.Fatalf("expected one processed notice, got %d", len(report.Processed))
	}
	if len(notifier.subjects) != 0 {
		t.Fatalf("digest sent below threshold: %v", notifier.subjects)
	}
}

func TestPipelineNotifierFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	pipe := NewPipeline(PipelineDeps{
		Source:    &fakeSource{notices: []domain.Notice{notice("new-1")}},
		Extractor: &fakeTexts{texts: map[string]string{"new-1": noticeText()}},
		Store:     newMemStore(),
		Notifier:  &recordingNotifier{err: errors.New("telegram is down")},
	})

	report, err := pipe.ProcessWindow(context.Background(), domain.NewDate(2026, 1, 1), domain.NewDate(2026, 1, 8))
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if len(report.Processed) != 1 {
		t.Fatalf("expected one processed notice, got %d", len(report.Processed))
	}
}

func TestPipelineWithoutSource(t *testing.T) {
	t.Parallel()

	pipe := NewPipeline(PipelineDeps{})

	report, err := pipe.ProcessWindow(context.Background(), domain.NewDate(2026, 1, 1), domain.NewDate(2026, 1, 8))
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if report.Found != 0 || len(report.Processed) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestProcessTextPersistsSummary(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	pipe := NewPipeline(PipelineDeps{Store: store})

	sum, err := pipe.ProcessText("local-1", noticeText())
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if sum.Financial.Fee == nil || *sum.Financial.Fee != "R$ 110,00" {
		t.Fatalf("unexpected fee: %v", sum.Financial.Fee)
	}
	if _, ok := store.saved["local-1"]; !ok {
		t.Fatalf("summary was not persisted")
	}
}

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	org := "UNIVERSIDADE FEDERAL DO CEARÁ"
	start := domain.NewDate(2026, 1, 5)
	end := domain.NewDate(2026, 1, 30)
	report := RunReport{
		From:  domain.NewDate(2026, 1, 1),
		To:    domain.NewDate(2026, 1, 8),
		Found: 4,
		Processed: []domain.Summary{{
			SourceID:          "new-1",
			Metadata:          domain.Metadata{Org: &org},
			Schedule:          domain.Schedule{RegistrationStart: &start, RegistrationEnd: &end},
			OverallConfidence: domain.ConfidenceHigh,
			Issues:            []domain.Issue{domain.IssueMissingFee},
		}},
	}

	body := buildDigest(report)
	for _, want := range []string{
		"Window: 2026-01-01 to 2026-01-08",
		"Found 4, new 1, skipped 0, failed 0",
		"- new-1 (confidence: high, issues: 1)",
		"UNIVERSIDADE FEDERAL DO CEARÁ",
		"inscrições: 2026-01-05 a 2026-01-30",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("digest missing %q:\n%s", want, body)
		}
	}
}
