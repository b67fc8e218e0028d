// Package normalize repairs line-wrapping artifacts in text extracted from
// gazette documents so downstream pattern matching sees dates and their
// labels on one line.
package normalize

import (
	"regexp"
	"strings"
)

const datePat = `\d{2}/\d{2}/\d{4}`
const rangeOrDatePat = datePat + `(?:\s+a\s+` + datePat + `)?`

var (
	urlExpr = regexp.MustCompile(`https?://\S+|www\.\S+`)

	// Range keyword separated from its date by a line break.
	brokenEntreExpr = regexp.MustCompile(`(?i)entre\s*\n\s*(` + datePat + `)`)

	// Range separator split across a line break.
	brokenRangeExpr = regexp.MustCompile(`(` + datePat + `)\s*a\s*\n\s*(` + datePat + `)`)

	// Table layout where the label landed between the two dates of a range:
	// "DD/MM/YYYY a <junk>\nLABEL\nDD/MM/YYYY". The line holding the
	// separator must not already carry the closing date.
	labelBetweenExpr = regexp.MustCompile(`(` + datePat + `)\s+a\s+(?:[^\n\d][^\n]*)?\n\s*([^\d\n][^\n]*)\n\s*(` + datePat + `)`)

	// Table layout with the activity on one line and its date on the next.
	joinExprs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(inscri[çc][ãõ][^\n]{0,100})\n\s*(` + rangeOrDatePat + `)`),
		regexp.MustCompile(`(?i)(isen[çc][ãa]o[^\n]{0,100})\n\s*(` + rangeOrDatePat + `)`),
		regexp.MustCompile(`(?i)((?:aplica[çc][ãa]o\s+da\s+)?provas?[^\n]{0,100})\n\s*(` + rangeOrDatePat + `)`),
	}

	// "Entre DD/MM/YYYY a <text> DD/MM/YYYY" with junk between the dates.
	entreJunkExpr = regexp.MustCompile(`(?i)(entre\s+` + datePat + `)\s+a\s*\n?\s*(?:[^\d\n]+)?\s*(` + datePat + `)`)

	hspaceExpr     = regexp.MustCompile(`[ \t]+`)
	blankLinesExpr = regexp.MustCompile(`\n{3,}`)
)

// Normalize prepares raw document text for extraction. It is pure and
// idempotent. Step order matters: URLs go first so later repairs never
// glue address fragments into date context, and whitespace collapse runs
// last so the repairs still see original line structure.
func Normalize(raw string) string {
	text := urlExpr.ReplaceAllString(raw, "")
	text = brokenEntreExpr.ReplaceAllString(text, "Entre $1")
	text = brokenRangeExpr.ReplaceAllString(text, "$1 a $2")
	text = labelBetweenExpr.ReplaceAllString(text, "$2 $1 a $3")
	for _, expr := range joinExprs {
		text = expr.ReplaceAllString(text, "$1 $2")
	}
	text = entreJunkExpr.ReplaceAllString(text, "$1 a $2")
	text = hspaceExpr.ReplaceAllString(text, " ")
	text = blankLinesExpr.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
