package events

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"EditalScanner/internal/domain"
)

const dateCore = `\d{2}/\d{2}/\d{4}`

// dateSpanExpr matches single dates, "A a B" ranges and "Entre A e/a B"
// phrases. Alternative order matters: ranges first so a range is never
// consumed as its leading single date.
var dateSpanExpr = regexp.MustCompile(`(?i)\b(?:` +
	dateCore + `\s*a\s*` + dateCore +
	`|entre\s+` + dateCore + `(?:\s*(?:e|a)\s*` + dateCore + `)?` +
	`|` + dateCore + `)\b`)

var dateExpr = regexp.MustCompile(dateCore)

// parseBRDate parses a strict DD/MM/YYYY date. Invalid day or month
// combinations are errors, never rounded to a nearby valid date.
func parseBRDate(s string) (domain.Date, error) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return domain.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return domain.DateOf(t), nil
}

// parseSpan turns one dateSpanExpr match into its start and optional end.
// A span whose first date fails validation is discarded whole; a broken
// second date degrades the span to a single-day event.
func parseSpan(block string) (start domain.Date, end *domain.Date, ok bool) {
	dates := dateExpr.FindAllString(block, -1)
	if len(dates) == 0 {
		return domain.Date{}, nil, false
	}
	first, err := parseBRDate(dates[0])
	if err != nil {
		return domain.Date{}, nil, false
	}
	if len(dates) > 1 {
		if second, err := parseBRDate(dates[1]); err == nil {
			return first, &second, true
		}
	}
	return first, nil, true
}
