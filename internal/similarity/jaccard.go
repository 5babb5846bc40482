package similarity

import "strings"

// DefaultThreshold is the Jaccard similarity above which two evidence sets
// are treated as the same finding.
const DefaultThreshold = 0.8

// Jaccard calculates the Jaccard index of two string sets after lower-casing.
// Duplicate entries within one side count once. Two empty sets are identical.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for s := range setA {
		if setB[s] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// Similar reports whether the Jaccard index of a and b exceeds threshold.
// A non-positive threshold falls back to DefaultThreshold.
func Similar(a, b []string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Jaccard(a, b) > threshold
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}
