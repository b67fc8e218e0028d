package gazette

import (
	"context"
	"fmt"
	"log/slog"

	"EditalScanner/internal/config"
	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
	"EditalScanner/internal/scanner"
)

// StrategySource implements NoticeSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	gazettes []config.GazetteConfig
	logger   *slog.Logger
}

var _ ports.NoticeSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined gazettes.
func NewStrategySource(reg *scanner.Registry, gazettes []config.GazetteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		gazettes: gazettes,
		logger:   log,
	}
}

// FetchWindow iterates over configured gazettes and executes their scanners.
func (s *StrategySource) FetchWindow(ctx context.Context, from, to domain.Date) ([]domain.Notice, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch window", "gazettes", len(s.gazettes), "from", from.ISO(), "to", to.ISO())

	var aggregated []domain.Notice
	for _, gaz := range s.gazettes {
		s.debug("process gazette", "gazette", gaz.Name, "scanner", gaz.Scanner, "sections", len(gaz.Sections))
		strategy, err := s.registry.Resolve(gaz.Scanner)
		if err != nil {
			return nil, fmt.Errorf("gazette %s: %w", gaz.Name, err)
		}

		req := scanner.Request{
			From:     from,
			To:       to,
			Gazette:  gaz.Name,
			Query:    gaz.Query,
			Sections: gaz.Sections,
			Keywords: gaz.Keywords,
			Options:  gaz.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan gazette %s: %w", gaz.Name, err)
		}

		for i := range results {
			if results[i].Section == "" {
				results[i].Section = gaz.Name
			}
		}
		s.debug("gazette produced notices", "gazette", gaz.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_notices", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
