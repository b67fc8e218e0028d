// Package events locates calendar events in normalized notice text and
// classifies them by schedule category. Two independent strategies run
// over the same text; their candidates are merged, deduplicated and then
// reduced to one representative event per category.
package events

import (
	"regexp"
	"sort"

	"EditalScanner/internal/domain"
)

// minSectionEvents is the yield below which section-scoped extraction is
// considered a misdetected boundary and the full text is scanned instead.
const minSectionEvents = 3

// sectionMaxLen bounds how much text after a schedule header is treated
// as the schedule section.
const sectionMaxLen = 12000

var sectionExpr = regexp.MustCompile(`(?i)(?:cronograma|datas?\s+importantes?)[^\n]*\n([\s\S]{100,}?)(?:\n\s*(?:anexo|capítulo|\d+\.\s+[A-ZÀ-Ú])|$)`)

// Extract runs both strategies over the schedule section when a header is
// found, falling back to the whole text when the section yields too few
// candidates.
func Extract(text string) []domain.Event {
	if text == "" {
		return nil
	}
	if section, ok := scheduleSection(text); ok {
		if found := extractAll(section); len(found) >= minSectionEvents {
			return found
		}
	}
	return extractAll(text)
}

func extractAll(text string) []domain.Event {
	return Merge(KeywordForward(text), ContextBackward(text))
}

// scheduleSection isolates the text under a schedule header.
func scheduleSection(text string) (string, bool) {
	m := sectionExpr.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	section := m[1]
	if len(section) > sectionMaxLen {
		section = section[:clampRuneStart(section, sectionMaxLen)]
	}
	return section, true
}

// Merge combines strategy candidates, collapsing duplicates that cover
// the same category and dates. A high-confidence duplicate survives its
// low-confidence twin; within a tier the earliest occurrence survives.
// Output is ordered by position in text.
func Merge(candidates ...[]domain.Event) []domain.Event {
	best := make(map[string]domain.Event)
	for _, list := range candidates {
		for _, ev := range list {
			key := spanKey(ev)
			cur, seen := best[key]
			if !seen || strongerDuplicate(ev, cur) {
				best[key] = ev
			}
		}
	}
	merged := make([]domain.Event, 0, len(best))
	for _, ev := range best {
		merged = append(merged, ev)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Pos < merged[j].Pos })
	return merged
}

func spanKey(ev domain.Event) string {
	key := string(ev.Category) + "|" + ev.Start.ISO() + "|"
	if ev.End != nil {
		key += ev.End.ISO()
	}
	return key
}

func strongerDuplicate(a, b domain.Event) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence.AtLeast(b.Confidence)
	}
	return a.Pos < b.Pos
}

// Select keeps one representative event per category. High confidence
// beats low and within a tier the earliest occurrence wins. For the exam
// category a range beats a single date regardless of confidence, since
// exams are frequently announced as multi-day windows.
func Select(found []domain.Event) map[domain.Category]domain.Event {
	chosen := make(map[domain.Category]domain.Event)
	for _, ev := range found {
		cur, ok := chosen[ev.Category]
		if !ok || replaces(ev, cur) {
			chosen[ev.Category] = ev
		}
	}
	return chosen
}

func replaces(candidate, current domain.Event) bool {
	if candidate.Category == domain.CategoryExam && candidate.IsRange() != current.IsRange() {
		return candidate.IsRange()
	}
	if candidate.Confidence != current.Confidence {
		return candidate.Confidence.AtLeast(current.Confidence)
	}
	return candidate.Pos < current.Pos
}
