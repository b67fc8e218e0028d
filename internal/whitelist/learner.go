package whitelist

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/normalize"
)

// DefaultThreshold is how many distinct corrections a value needs before
// it is proposed for whitelisting.
const DefaultThreshold = 3

// Proposal is a corrected value seen often enough to whitelist.
type Proposal struct {
	Value string
	Count int
}

// Propose tallies corrected values for the kind across reviewed examples
// and returns those reaching threshold, most frequent first. Values are
// reported in title-cased canonical form.
func Propose(examples []domain.ReviewedExample, kind Kind, threshold int) []Proposal {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	field := kind.ChangeField()
	caser := cases.Title(language.BrazilianPortuguese)

	counts := make(map[string]int)
	display := make(map[string]string)
	for _, ex := range examples {
		for _, change := range ex.Changes {
			if change.Field != field || change.New == nil {
				continue
			}
			value := strings.TrimSpace(*change.New)
			if value == "" {
				continue
			}
			key := normalize.FoldLower(value)
			counts[key]++
			if _, ok := display[key]; !ok {
				display[key] = caser.String(value)
			}
		}
	}

	var proposals []Proposal
	for key, n := range counts {
		if n >= threshold {
			proposals = append(proposals, Proposal{Value: display[key], Count: n})
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].Count != proposals[j].Count {
			return proposals[i].Count > proposals[j].Count
		}
		return proposals[i].Value < proposals[j].Value
	})
	return proposals
}

// Merge adds proposals missing from the snapshot, comparing case- and
// accent-insensitively. The input snapshot stays untouched so extraction
// snapshots remain stable; the merged copy and the values actually added
// are returned.
func Merge(snap Snapshot, proposals []Proposal) (Snapshot, []string) {
	merged := New(snap.kind, snap.entries)
	var added []string
	for _, p := range proposals {
		if merged.Contains(p.Value) {
			continue
		}
		merged.entries[p.Value] = nil
		added = append(added, p.Value)
	}
	return merged, added
}
