package events

import (
	"strings"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/normalize"
)

// Classify maps event wording to a schedule category. Comparison is done
// on folded lowercase text so accent variants land in the same bucket.
// Waiver is checked before registration: waiver windows are announced
// inside registration clauses and the more specific term wins.
func Classify(text string) domain.Category {
	e := normalize.FoldLower(text)
	switch {
	case strings.Contains(e, "isen"):
		return domain.CategoryWaiver
	case strings.Contains(e, "inscri"):
		return domain.CategoryRegistration
	case containsAny(e, "prova", "aplicac", "realizac"):
		return domain.CategoryExam
	case strings.Contains(e, "resultado"):
		return domain.CategoryResult
	case strings.Contains(e, "recurso"):
		return domain.CategoryAppeal
	case strings.Contains(e, "publica"):
		return domain.CategoryPublication
	}
	return domain.CategoryOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
