package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/extract"
	"EditalScanner/internal/ports"
	"EditalScanner/internal/whitelist"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Source    ports.NoticeSource
	Catalog   ports.Catalog
	Extractor ports.TextExtractor
	Store     ports.SummaryStore
	Notifier  ports.Notifier

	Boards         whitelist.Snapshot
	JobTitles      whitelist.Snapshot
	FallbackPrefix int

	// NotifyThreshold is the minimum number of newly processed notices
	// that triggers a digest. Values below 1 mean one.
	NotifyThreshold int

	Logger *slog.Logger
}

// Pipeline implements the notice-ingestion workflow: discover, dedup,
// fetch text, extract, persist, notify.
type Pipeline struct {
	source    ports.NoticeSource
	catalog   ports.Catalog
	extractor ports.TextExtractor
	store     ports.SummaryStore
	notifier  ports.Notifier

	boards         whitelist.Snapshot
	jobTitles      whitelist.Snapshot
	fallbackPrefix int
	threshold      int
	logger         *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	threshold := deps.NotifyThreshold
	if threshold < 1 {
		threshold = 1
	}
	return &Pipeline{
		source:         deps.Source,
		catalog:        deps.Catalog,
		extractor:      deps.Extractor,
		store:          deps.Store,
		notifier:       deps.Notifier,
		boards:         deps.Boards,
		jobTitles:      deps.JobTitles,
		fallbackPrefix: deps.FallbackPrefix,
		threshold:      threshold,
		logger:         deps.Logger,
	}
}

// RunReport summarizes one pipeline execution.
type RunReport struct {
	From      domain.Date
	To        domain.Date
	Found     int
	Skipped   int
	Failed    int
	Processed []domain.Summary
}

// ProcessWindow orchestrates one ingestion run over a publication
// window. Notices already cataloged are skipped; a notice whose text
// cannot be fetched is counted as failed and the run continues.
// Persistence failures abort the run.
func (p *Pipeline) ProcessWindow(ctx context.Context, from, to domain.Date) (RunReport, error) {
	report := RunReport{From: from, To: to}
	if p.source == nil {
		return report, nil
	}

	notices, err := p.source.FetchWindow(ctx, from, to)
	if err != nil {
		return report, fmt.Errorf("fetch window: %w", err)
	}
	report.Found = len(notices)

	ids := make([]string, len(notices))
	for i, notice := range notices {
		ids[i] = notice.ID
	}

	seen := map[string]bool{}
	if p.catalog != nil && len(ids) > 0 {
		seen, err = p.catalog.Seen(ctx, ids)
		if err != nil {
			return report, fmt.Errorf("load catalog: %w", err)
		}
	}

	for _, notice := range notices {
		if seen[notice.ID] {
			report.Skipped++
			continue
		}
		if p.extractor == nil {
			return report, errors.New("text extractor is not configured")
		}

		if p.catalog != nil {
			entry := domain.CatalogEntry{Notice: notice, Status: domain.StatusDiscovered}
			if err := p.catalog.Upsert(ctx, entry); err != nil {
				return report, fmt.Errorf("catalog notice %s: %w", notice.ID, err)
			}
		}

		text, err := p.extractor.Text(ctx, notice)
		if err != nil {
			p.warn("notice text unavailable", "notice", notice.ID, "error", err)
			report.Failed++
			continue
		}

		sum := extract.Assemble(notice.ID, text, p.options())

		if p.store != nil {
			if err := p.store.Save(sum); err != nil {
				return report, fmt.Errorf("persist summary %s: %w", notice.ID, err)
			}
		}

		if p.catalog != nil {
			if err := p.catalog.MarkStatus(ctx, notice.ID, domain.StatusExtracted); err != nil {
				return report, fmt.Errorf("mark notice %s: %w", notice.ID, err)
			}
		}

		report.Processed = append(report.Processed, sum)
		p.debug("notice processed", "notice", notice.ID,
			"confidence", sum.OverallConfidence, "issues", len(sum.Issues))
	}

	p.notify(ctx, report)
	return report, nil
}

// ProcessText runs extraction and persistence for text that is already
// local, bypassing discovery.
func (p *Pipeline) ProcessText(sourceID, text string) (domain.Summary, error) {
	sum := extract.Assemble(sourceID, text, p.options())
	if p.store != nil {
		if err := p.store.Save(sum); err != nil {
			return domain.Summary{}, fmt.Errorf("persist summary %s: %w", sourceID, err)
		}
	}
	return sum, nil
}

func (p *Pipeline) options() extract.Options {
	return extract.Options{
		Boards:         p.boards,
		JobTitles:      p.jobTitles,
		FallbackPrefix: p.fallbackPrefix,
	}
}

func (p *Pipeline) notify(ctx context.Context, report RunReport) {
	if p.notifier == nil || len(report.Processed) < p.threshold {
		return
	}

	subject := fmt.Sprintf("[EditalScanner] %d opening notice(s) found", len(report.Processed))
	if err := p.notifier.Notify(ctx, subject, buildDigest(report)); err != nil {
		p.warn("digest delivery failed", "error", err)
	}
}

func buildDigest(report RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %s to %s\n", report.From.ISO(), report.To.ISO())
	fmt.Fprintf(&b, "Found %d, new %d, skipped %d, failed %d\n\n",
		report.Found, len(report.Processed), report.Skipped, report.Failed)

	for _, sum := range report.Processed {
		fmt.Fprintf(&b, "- %s (confidence: %s", sum.SourceID, sum.OverallConfidence)
		if len(sum.Issues) > 0 {
			fmt.Fprintf(&b, ", issues: %d", len(sum.Issues))
		}
		b.WriteString(")\n")
		if sum.Metadata.Org != nil {
			fmt.Fprintf(&b, "  %s\n", *sum.Metadata.Org)
		}
		if sum.Schedule.RegistrationStart != nil {
			fmt.Fprintf(&b, "  inscrições: %s", sum.Schedule.RegistrationStart.ISO())
			if sum.Schedule.RegistrationEnd != nil {
				fmt.Fprintf(&b, " a %s", sum.Schedule.RegistrationEnd.ISO())
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
