package ports

import (
	"context"
	"time"

	"EditalScanner/internal/domain"
)

// NoticeSource pulls gazette notices published inside a date window.
type NoticeSource interface {
	FetchWindow(ctx context.Context, from, to domain.Date) ([]domain.Notice, error)
}

// TextExtractor turns a discovered notice into plain text ready for
// extraction.
type TextExtractor interface {
	Text(ctx context.Context, notice domain.Notice) (string, error)
}

// SummaryStore persists assembled summaries and their correction
// artifacts (backups, reviewed examples).
type SummaryStore interface {
	Save(sum domain.Summary) error
	Load(sourceID string) (domain.Summary, error)
	List() ([]domain.Summary, error)
	Backup(sourceID string) (string, error)
	AppendExample(ex domain.ReviewedExample) (string, error)
	ListExamples() ([]domain.ReviewedExample, error)
}

// Catalog records discovered notices and their milestones so repeated
// runs skip work already done.
type Catalog interface {
	Seen(ctx context.Context, ids []string) (map[string]bool, error)
	Upsert(ctx context.Context, entry domain.CatalogEntry) error
	MarkStatus(ctx context.Context, id string, status domain.ProcessingStatus) error
}

// Notifier delivers run digests to an operator channel.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
