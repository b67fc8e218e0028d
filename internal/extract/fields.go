// Package extract turns normalized notice text into a structured summary.
// Categorical fields are matched by ordered patterns per field, with the
// job title and issuing board backed by whitelists: a pattern hit is
// normalized against the whitelist, and extraction silence falls back to
// scanning a bounded document prefix for known entries.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/whitelist"
)

// headLines bounds how far into the document positional heuristics look.
const headLines = 40

// snippetMaxRunes clips audit snippets to a reviewable length.
const snippetMaxRunes = 160

// Candidate is one categorical extraction result. The zero value means
// the field could not be extracted. Snippet keeps the text window the
// value came from.
type Candidate struct {
	Value   string
	Hint    domain.Confidence
	Snippet string
}

// Found reports whether the extractor produced a value.
func (c Candidate) Found() bool { return c.Value != "" }

// Options carries the whitelists consumed by the job-title and board
// extractors. FallbackPrefix bounds, in bytes, how much of the document
// the whitelist fallback scan covers; zero scans the whole text.
type Options struct {
	Boards         whitelist.Snapshot
	JobTitles      whitelist.Snapshot
	FallbackPrefix int
}

// FieldSet holds every categorical field extracted from one notice,
// plus the consistency issues raised while extracting them.
type FieldSet struct {
	Org            Candidate
	EditalNumber   Candidate
	JobTitle       Candidate
	Board          Candidate
	Total          *int
	ReservedA      *int
	ReservedB      *int
	Fee            Candidate
	StartingSalary Candidate
	Issues         []domain.Issue
}

// Fields runs the categorical extractors over normalized text. It is
// pure given its inputs; whitelists are read, never written.
func Fields(text string, opts Options) FieldSet {
	lines := headerLines(text)

	var fs FieldSet
	fs.Org = extractOrg(text, lines)
	fs.EditalNumber = extractEditalNumber(text)
	fs.JobTitle = extractJobTitle(text, lines, opts.JobTitles, opts.FallbackPrefix)

	board, boardIssues := extractBoard(text, lines, opts.Boards)
	fs.Board = board
	fs.Issues = append(fs.Issues, boardIssues...)

	total, reservedA, reservedB, vacancyIssues := extractVacancies(text)
	fs.Total, fs.ReservedA, fs.ReservedB = total, reservedA, reservedB
	fs.Issues = append(fs.Issues, vacancyIssues...)

	fs.Fee = extractFee(text)
	fs.StartingSalary = extractSalary(text)
	return fs
}

// headerLines returns the non-empty trimmed lines of text, the unit the
// positional heuristics work on.
func headerLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

var (
	editalWordExpr  = regexp.MustCompile(`(?i)EDITAL`)
	orgaoLabelExpr  = regexp.MustCompile(`(?i)(?:Órgão|Entidade)[:\s\-]{1,30}([\pL\pN][\pL\pN\s\-/\.,]+)`)
	editalNumExpr   = regexp.MustCompile(`(?i)Edital(?: de Abertura)?(?: n(?:º|o|r)\.?\s*)?[:\-\s]*([0-9A-Za-z\-/\.]+)`)
	editalDateExpr  = regexp.MustCompile(`(?i)Edital de Abertura de\s*([0-9]{1,2}\s+de\s+\pL+\s+de\s+[0-9]{4})`)
	cargoLabelExpr  = regexp.MustCompile(`(?i)cargos?[:\s\-]{1,80}([\pL\pN\s\-\.,/()]+)`)
	cargoPhraseExpr = regexp.MustCompile(`(?i)destinado a selecionar candidatos para o cargo de\s*([\pL\pN\s\-\.,/()]+)`)
	provimentoExpr  = regexp.MustCompile(`(?i)PROVIMENTO DE\s+([\pL\pN\s\-/,()]+)`)
)

// extractOrg infers the issuing organization. Gazette notices open with
// the org header block right above the EDITAL line, so the positional
// heuristic runs before the explicit label.
func extractOrg(text string, lines []string) Candidate {
	limit := len(lines)
	if limit > headLines {
		limit = headLines
	}
	for i := 0; i < limit; i++ {
		if !editalWordExpr.MatchString(lines[i]) {
			continue
		}
		from := i - 2
		if from < 0 {
			from = 0
		}
		val := strings.TrimSpace(strings.Join(lines[from:i], " "))
		if val != "" {
			return Candidate{Value: val, Hint: domain.ConfidenceHigh, Snippet: clipSnippet(val)}
		}
	}
	if m := orgaoLabelExpr.FindStringSubmatch(text); m != nil {
		return Candidate{Value: strings.TrimSpace(m[1]), Hint: domain.ConfidenceMedium, Snippet: clipSnippet(m[0])}
	}
	return Candidate{}
}

// extractEditalNumber captures the notice identifier, preferring the
// numbered form and falling back to the date phrase some notices use in
// its place. Bare one or two character captures are connector noise.
func extractEditalNumber(text string) Candidate {
	if m := editalNumExpr.FindStringSubmatch(text); m != nil {
		val := strings.TrimSpace(m[1])
		if len(val) > 2 && !strings.EqualFold(val, "de") {
			return Candidate{Value: val, Hint: domain.ConfidenceHigh, Snippet: clipSnippet(m[0])}
		}
	}
	if m := editalDateExpr.FindStringSubmatch(text); m != nil {
		return Candidate{Value: strings.TrimSpace(m[1]), Hint: domain.ConfidenceMedium, Snippet: clipSnippet(m[0])}
	}
	return Candidate{}
}

// extractJobTitle finds the announced position. Pattern hits are
// normalized to the whitelist's canonical form when they match one;
// with no pattern hit the whitelist rescues the field by scanning the
// document prefix, at a lowered hint.
func extractJobTitle(text string, lines []string, jobs whitelist.Snapshot, fallbackPrefix int) Candidate {
	cand := Candidate{}
	if m := cargoLabelExpr.FindStringSubmatch(text); m != nil {
		cand = Candidate{Value: strings.TrimSpace(m[1]), Hint: domain.ConfidenceHigh, Snippet: clipSnippet(m[0])}
	} else if m := cargoPhraseExpr.FindStringSubmatch(text); m != nil {
		cand = Candidate{Value: strings.TrimSpace(m[1]), Hint: domain.ConfidenceHigh, Snippet: clipSnippet(m[0])}
	} else if val, snip := provimentoNearEdital(lines); val != "" {
		cand = Candidate{Value: val, Hint: domain.ConfidenceMedium, Snippet: snip}
	}

	if cand.Found() {
		if canonical, ok := jobs.Canonical(cand.Value); ok {
			cand.Value = canonical
		}
		return cand
	}
	if canonical, ok := jobs.FindIn(text, fallbackPrefix); ok {
		return Candidate{Value: canonical, Hint: domain.ConfidenceLow, Snippet: canonical}
	}
	return Candidate{}
}

// provimentoNearEdital looks for the PROVIMENTO DE wording in the lines
// right after the first EDITAL header.
func provimentoNearEdital(lines []string) (string, string) {
	limit := len(lines)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		if !editalWordExpr.MatchString(lines[i]) {
			continue
		}
		to := i + 6
		if to > len(lines) {
			to = len(lines)
		}
		window := strings.Join(lines[i:to], " ")
		if m := provimentoExpr.FindStringSubmatch(window); m != nil {
			return strings.TrimSpace(m[1]), clipSnippet(m[0])
		}
		break
	}
	return "", ""
}

var (
	organizerLabelExpr = regexp.MustCompile(`(?i)(?:organizad[oa]r|executad[oa]r|realizad[oa]r|sob responsabilidade|contratada).{0,60}por\s+([A-ZÀ-Ú][\pL\pN\s\-\.,/()]+)`)
	ownExecutionExpr   = regexp.MustCompile(`(?i)universidade|universitári[oa]|comiss[ãa]o|pró-?reitor`)
	foundationKindExpr = regexp.MustCompile(`(?i)funda[çc][ãa]o|fundao|instituto`)
	foundationExpr     = regexp.MustCompile(`(?i)\b(?:funda[çc][ãa]o|instituto)\s+[\pL\pN][\pL\pN\s\-]+`)
	commissionExpr     = regexp.MustCompile(`(?i)comiss[ãa]o examinadora|comiss[ãa]o designada|executado pela pró-?reitoria|executado pela progp`)
	institutionExpr    = regexp.MustCompile(`(?i)universidade|funda[çc][ãa]o|instituto|minist[ée]rio`)
)

// extractBoard finds the examining board through layered patterns: a
// whole-text scan for whitelisted boards, then organizer wording, then a
// bare foundation name, then the own-commission heuristic used by
// notices the institution runs itself. Pattern candidates are normalized
// against the whitelist before being accepted.
func extractBoard(text string, lines []string, boards whitelist.Snapshot) (Candidate, []domain.Issue) {
	if canonical, ok := boards.FindIn(text, 0); ok {
		return Candidate{Value: canonical, Hint: domain.ConfidenceHigh, Snippet: canonical}, nil
	}

	if m := organizerLabelExpr.FindStringSubmatch(text); m != nil {
		cand := normalizeBoard(strings.TrimSpace(m[1]), boards)
		cand.Snippet = clipSnippet(m[0])
		switch {
		case cand.Hint == domain.ConfidenceHigh:
			return cand, nil
		case ownExecutionExpr.MatchString(cand.Value), foundationKindExpr.MatchString(cand.Value):
			cand.Hint = domain.ConfidenceHigh
			return cand, nil
		default:
			cand.Hint = domain.ConfidenceMedium
			return cand, []domain.Issue{domain.IssueBoardAmbiguous}
		}
	}

	if m := foundationExpr.FindString(text); m != "" {
		cand := normalizeBoard(titleCaser.String(strings.TrimSpace(m)), boards)
		if cand.Hint != domain.ConfidenceHigh {
			cand.Hint = domain.ConfidenceMedium
		}
		cand.Snippet = clipSnippet(m)
		return cand, nil
	}

	if commissionExpr.MatchString(text) {
		limit := len(lines)
		if limit > 10 {
			limit = 10
		}
		for i := 0; i < limit; i++ {
			if institutionExpr.MatchString(lines[i]) {
				cand := normalizeBoard(lines[i], boards)
				cand.Hint = domain.ConfidenceHigh
				cand.Snippet = clipSnippet(lines[i])
				return cand, nil
			}
		}
	}
	return Candidate{}, nil
}

// normalizeBoard swaps a pattern candidate for its canonical whitelist
// form when the whitelist recognizes it. A recognized board is a high
// hint on its own.
func normalizeBoard(value string, boards whitelist.Snapshot) Candidate {
	if canonical, ok := boards.Canonical(value); ok {
		return Candidate{Value: canonical, Hint: domain.ConfidenceHigh}
	}
	return Candidate{Value: value}
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

var (
	totalExpr         = regexp.MustCompile(`(?i)(?:Total de vagas|Vagas totais|Vagas)[:\s\-]{0,10}([0-9]+)`)
	totalFallbackExpr = regexp.MustCompile(`(?i)Vagas?[^\d]{0,10}([0-9]{1,4})`)
	reservedAExpr     = regexp.MustCompile(`(?i)PCD[:\s\-]{0,10}([0-9]+)`)
	reservedBKeyword  = regexp.MustCompile(`(?i)PPIQ|PPI|Pretos\s+Pardos|Indígenas`)
	bareNumberExpr    = regexp.MustCompile(`[0-9]{1,3}`)
)

// extractVacancies pulls announced position counts. A reserved count
// larger than the total is treated as a mis-extraction: the reserved
// value is discarded and an issue recorded, keeping the total.
func extractVacancies(text string) (total, reservedA, reservedB *int, issues []domain.Issue) {
	if m := totalExpr.FindStringSubmatch(text); m != nil {
		total = parseCount(m[1])
	} else if m := totalFallbackExpr.FindStringSubmatch(text); m != nil {
		total = parseCount(m[1])
	}

	if m := reservedAExpr.FindStringSubmatch(text); m != nil {
		reservedA = parseCount(m[1])
	}

	if loc := reservedBKeyword.FindStringIndex(text); loc != nil {
		end := loc[0] + 60
		if end > len(text) {
			end = len(text)
		}
		window := text[loc[0]:clampRuneStart(text, end)]
		if m := bareNumberExpr.FindString(window); m != "" {
			reservedB = parseCount(m)
		}
	}

	if total != nil && reservedA != nil && *reservedA > *total {
		reservedA = nil
		issues = append(issues, domain.IssueReservedExceedsTotal)
	}
	if total != nil && reservedB != nil && *reservedB > *total {
		reservedB = nil
		issues = append(issues, domain.IssueReservedExceedsTotal)
	}
	return total, reservedA, reservedB, issues
}

func parseCount(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

var (
	moneyExpr       = regexp.MustCompile(`R\$\s*\d+(?:\.\d{3})*(?:,\d{2})?`)
	salaryLabelExpr = regexp.MustCompile(`(?i)(?:Remunera[çc][ãa]o(?:\s+inicial)?|Vencimento)[:\s\-]{0,30}(R\$\s*\d+(?:\.\d{3})*(?:,\d{2})?)`)
	salaryKeyword   = regexp.MustCompile(`(?i)remuner|vencim|sal[áa]rio`)
)

// salaryWindow bounds how far after a salary keyword the fallback looks
// for an amount.
const salaryWindow = 200

// extractFee takes the first currency amount in the document as the
// registration fee. Notices quote the fee before any other amount.
func extractFee(text string) Candidate {
	loc := moneyExpr.FindStringIndex(text)
	if loc == nil {
		return Candidate{}
	}
	val := text[loc[0]:loc[1]]
	return Candidate{Value: val, Hint: domain.ConfidenceMedium, Snippet: clipSnippet(moneyContext(text, loc))}
}

// extractSalary finds the starting salary, first by explicit label, then
// by the nearest amount after a salary keyword. The occurrence the fee
// was taken from is never also reported as a salary.
func extractSalary(text string) Candidate {
	feeLoc := moneyExpr.FindStringIndex(text)

	if m := salaryLabelExpr.FindStringSubmatchIndex(text); m != nil {
		if feeLoc != nil && m[2] == feeLoc[0] {
			return Candidate{}
		}
		return Candidate{Value: text[m[2]:m[3]], Hint: domain.ConfidenceHigh, Snippet: clipSnippet(text[m[0]:m[1]])}
	}

	kw := salaryKeyword.FindStringIndex(text)
	if kw == nil {
		return Candidate{}
	}
	end := kw[0] + salaryWindow
	if end > len(text) {
		end = len(text)
	}
	window := text[kw[0]:clampRuneStart(text, end)]
	loc := moneyExpr.FindStringIndex(window)
	if loc == nil {
		return Candidate{}
	}
	if feeLoc != nil && kw[0]+loc[0] == feeLoc[0] {
		return Candidate{}
	}
	return Candidate{Value: window[loc[0]:loc[1]], Hint: domain.ConfidenceMedium, Snippet: clipSnippet(moneyContext(window, loc))}
}

// moneyContext widens a bare amount match to a line-ish window so the
// snippet shows what the amount was attached to.
func moneyContext(text string, loc []int) string {
	from := loc[0] - 40
	if from < 0 {
		from = 0
	}
	to := loc[1] + 20
	if to > len(text) {
		to = len(text)
	}
	return text[clampRuneStart(text, from):clampRuneStart(text, to)]
}

// clipSnippet trims a snippet to one reviewable line.
func clipSnippet(s string) string {
	s = strings.TrimSpace(strings.Join(strings.Fields(s), " "))
	if utf8.RuneCountInString(s) <= snippetMaxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:snippetMaxRunes])
}

// clampRuneStart moves a byte offset left until it is a rune boundary.
func clampRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
