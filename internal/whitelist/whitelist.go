// Package whitelist keeps the curated categorical vocabularies (issuing
// boards, job titles) used both to normalize confident extractions and to
// rescue failed ones. Extraction receives an immutable snapshot; the
// learner is the only writer and runs out-of-band.
package whitelist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"EditalScanner/internal/normalize"
)

// Kind partitions whitelists by the summary field they back.
type Kind string

const (
	KindBoard    Kind = "board"
	KindJobTitle Kind = "job_title"
)

// ChangeField is the correction-record field this kind learns from.
func (k Kind) ChangeField() string {
	switch k {
	case KindBoard:
		return "metadata.board"
	case KindJobTitle:
		return "metadata.job_title"
	}
	return ""
}

// minMatchRunes guards substring comparison against trivially short
// values matching inside unrelated words.
const minMatchRunes = 3

// Snapshot is a read-only view of one whitelist: canonical value mapped
// to its accepted variants.
type Snapshot struct {
	kind    Kind
	entries map[string][]string
}

// New builds a snapshot from canonical→variants entries.
func New(kind Kind, entries map[string][]string) Snapshot {
	copied := make(map[string][]string, len(entries))
	for canonical, variants := range entries {
		copied[canonical] = append([]string(nil), variants...)
	}
	return Snapshot{kind: kind, entries: copied}
}

// DefaultBoards is the built-in issuing-board vocabulary used when no
// whitelist file exists yet.
func DefaultBoards() map[string][]string {
	return map[string][]string{
		"CEBRASPE":                {"CESPE/CEBRASPE"},
		"CESPE":                   nil,
		"CESGRANRIO":              nil,
		"CONSULPLAN":              nil,
		"AOCP":                    nil,
		"FCC":                     nil,
		"FGV":                     nil,
		"FUNDAÇÃO GETULIO VARGAS": nil,
		"FUNDATEC":                nil,
		"FUNRIO":                  nil,
		"IADES":                   nil,
		"IBFC":                    nil,
		"IDECAN":                  nil,
		"QUADRIX":                 nil,
		"VUNESP":                  nil,
	}
}

// Load reads the whitelist for kind at path. A missing file yields the
// built-in defaults for the kind. Both the canonical→variants map format
// and the legacy flat-array format are accepted.
func Load(path string, kind Kind) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if kind == KindBoard {
			return New(kind, DefaultBoards()), nil
		}
		return New(kind, nil), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read whitelist %s: %w", path, err)
	}

	var entries map[string][]string
	if err := json.Unmarshal(raw, &entries); err == nil {
		return New(kind, entries), nil
	}

	var flat []string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return Snapshot{}, fmt.Errorf("decode whitelist %s: %w", path, err)
	}
	entries = make(map[string][]string, len(flat))
	for _, value := range flat {
		entries[value] = nil
	}
	return New(kind, entries), nil
}

// Save writes the snapshot as indented JSON, canonical → variants.
func Save(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create whitelist dir: %w", err)
	}
	data, err := json.MarshalIndent(snap.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode whitelist: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write whitelist %s: %w", path, err)
	}
	return nil
}

func (s Snapshot) Kind() Kind { return s.kind }
func (s Snapshot) Len() int   { return len(s.entries) }

// Canonicals returns the canonical values in sorted order.
func (s Snapshot) Canonicals() []string {
	out := make([]string, 0, len(s.entries))
	for canonical := range s.entries {
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

// Entries returns a deep copy of the canonical→variants mapping.
func (s Snapshot) Entries() map[string][]string {
	out := make(map[string][]string, len(s.entries))
	for canonical, variants := range s.entries {
		out[canonical] = append([]string(nil), variants...)
	}
	return out
}

// Contains reports whether value equals a canonical or variant under
// case- and accent-insensitive comparison.
func (s Snapshot) Contains(value string) bool {
	folded := normalize.FoldLower(strings.TrimSpace(value))
	for canonical, variants := range s.entries {
		if normalize.FoldLower(canonical) == folded {
			return true
		}
		for _, v := range variants {
			if normalize.FoldLower(v) == folded {
				return true
			}
		}
	}
	return false
}

// Canonical normalizes candidate against the whitelist: a case- and
// accent-insensitive substring match in either direction replaces the
// candidate with the canonical form. Iteration over sorted canonicals
// keeps the result deterministic.
func (s Snapshot) Canonical(candidate string) (string, bool) {
	folded := normalize.FoldLower(strings.TrimSpace(candidate))
	if folded == "" {
		return "", false
	}
	for _, canonical := range s.Canonicals() {
		for _, value := range s.valuesOf(canonical) {
			if matchEitherWay(folded, normalize.FoldLower(value)) {
				return canonical, true
			}
		}
	}
	return "", false
}

// FindIn scans the first prefixLen bytes of text for any whitelisted
// value and returns its canonical form. This is the fallback stage: it
// only runs when pattern extraction produced nothing, so it can never
// contradict an explicit match.
func (s Snapshot) FindIn(text string, prefixLen int) (string, bool) {
	if prefixLen > 0 && len(text) > prefixLen {
		for prefixLen > 0 && !utf8.RuneStart(text[prefixLen]) {
			prefixLen--
		}
		text = text[:prefixLen]
	}
	haystack := normalize.FoldLower(text)
	for _, canonical := range s.Canonicals() {
		for _, value := range s.valuesOf(canonical) {
			needle := normalize.FoldLower(value)
			if utf8.RuneCountInString(needle) >= minMatchRunes && strings.Contains(haystack, needle) {
				return canonical, true
			}
		}
	}
	return "", false
}

func (s Snapshot) valuesOf(canonical string) []string {
	return append([]string{canonical}, s.entries[canonical]...)
}

func matchEitherWay(a, b string) bool {
	if utf8.RuneCountInString(a) < minMatchRunes || utf8.RuneCountInString(b) < minMatchRunes {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
