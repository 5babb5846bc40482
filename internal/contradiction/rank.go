package contradiction

import (
	"sort"

	"github.com/todmy/report-checker/internal/similarity"
)

// isDuplicate reports whether two findings describe the same contradiction:
// same type, same description and near-identical evidence.
func isDuplicate(a, b Match) bool {
	if a.Type != b.Type || a.Description != b.Description {
		return false
	}
	return similarity.Similar(a.Evidence, b.Evidence, similarity.DefaultThreshold)
}

// Deduplicate keeps the first occurrence of every group of duplicate findings,
// preserving input order.
func Deduplicate(matches []Match) []Match {
	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		duplicate := false
		for _, k := range kept {
			if isDuplicate(k, m) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, m)
		}
	}
	return kept
}

// Rank sorts findings by severity, then by confidence, both descending.
// The sort is stable so equal findings keep their input order.
func Rank(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].Severity.Rank(), matches[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return matches[i].Confidence > matches[j].Confidence
	})
}

// DeduplicateAndRank is the final stage of an analysis
func DeduplicateAndRank(matches []Match) []Match {
	out := Deduplicate(matches)
	Rank(out)
	return out
}
