package events

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"EditalScanner/internal/domain"
)

// Context windows in bytes around a keyword or date expression.
const (
	forwardWindow = 200
	backWindow    = 150
)

type keywordRule struct {
	expr     *regexp.Regexp
	category domain.Category
}

var keywordRules = []keywordRule{
	{regexp.MustCompile(`(?i)inscri[çc][õo]es?`), domain.CategoryRegistration},
	{regexp.MustCompile(`(?i)isen[çc][ãa]o`), domain.CategoryWaiver},
	{regexp.MustCompile(`(?i)(?:aplica[çc][ãa]o\s+da\s+)?provas?(?:\s+objetivas?)?`), domain.CategoryExam},
	{regexp.MustCompile(`(?i)realiza[çc][ãa]o\s+da\s+provas?`), domain.CategoryExam},
}

var (
	noteExpr      = regexp.MustCompile(`Nota Informativa.*`)
	connectorExpr = regexp.MustCompile(`[:\-–]+$`)
)

// KeywordForward finds category keywords and takes the first date span
// within a bounded window after each. The keyword is explicit in local
// context, so candidates carry high confidence.
func KeywordForward(text string) []domain.Event {
	var found []domain.Event
	for _, rule := range keywordRules {
		for _, kw := range rule.expr.FindAllStringIndex(text, -1) {
			window := text[kw[0]:clampRuneStart(text, kw[0]+forwardWindow)]
			loc := dateSpanExpr.FindStringIndex(window)
			if loc == nil {
				continue
			}
			start, end, ok := parseSpan(window[loc[0]:loc[1]])
			if !ok {
				continue
			}
			snippet := text[clampRuneStart(text, kw[0]-50):clampRuneStart(text, kw[0]+100)]
			snippet = strings.TrimSpace(connectorExpr.ReplaceAllString(strings.TrimSpace(snippet), ""))
			found = append(found, domain.Event{
				Category:   rule.category,
				Start:      start,
				End:        end,
				Confidence: domain.ConfidenceHigh,
				Snippet:    snippet,
				Pos:        kw[0] + loc[0],
			})
		}
	}
	return found
}

// ContextBackward finds every date span in the text and infers its
// category from the wording behind it. Inferred context earns low
// confidence.
func ContextBackward(text string) []domain.Event {
	var found []domain.Event
	for _, loc := range dateSpanExpr.FindAllStringIndex(text, -1) {
		start, end, ok := parseSpan(text[loc[0]:loc[1]])
		if !ok {
			continue
		}
		context := text[clampRuneStart(text, loc[0]-backWindow):loc[0]]
		context = strings.TrimSpace(noteExpr.ReplaceAllString(context, ""))
		// Keep only the last sentence fragment before the date.
		if i := strings.LastIndex(context, "."); i >= 0 {
			context = context[i+1:]
		}
		context = strings.TrimSpace(connectorExpr.ReplaceAllString(strings.TrimSpace(context), ""))
		found = append(found, domain.Event{
			Category:   Classify(context),
			Start:      start,
			End:        end,
			Confidence: domain.ConfidenceLow,
			Snippet:    context,
			Pos:        loc[0],
		})
	}
	return found
}

// clampRuneStart clips i into [0, len(s)] and backs it off to a rune
// boundary so window slicing never splits a multibyte character.
func clampRuneStart(s string, i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
