package contradiction

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report is the result of Engine.Analyze
type Report struct {
	Matches []Match `json:"matches"`
	Summary Summary `json:"summary"`
}

// Summary aggregates findings for the caller's warning banner
type Summary struct {
	Total           int              `json:"total"`
	BySeverity      map[Severity]int `json:"by_severity"`
	ByType          map[Type]int     `json:"by_type"`
	HighestSeverity Severity         `json:"highest_severity,omitempty"`
	MeanConfidence  float64          `json:"mean_confidence"`
	MaxConfidence   int              `json:"max_confidence"`
	// HasBlocking is set when any finding is high or critical.
	HasBlocking bool `json:"has_blocking"`
}

// Summarize computes counts and confidence statistics for findings
func Summarize(matches []Match) Summary {
	s := Summary{
		Total:      len(matches),
		BySeverity: make(map[Severity]int),
		ByType:     make(map[Type]int),
	}
	if len(matches) == 0 {
		return s
	}

	confidences := make([]float64, len(matches))
	for i, m := range matches {
		s.BySeverity[m.Severity]++
		s.ByType[m.Type]++
		confidences[i] = float64(m.Confidence)

		if m.Severity.Rank() > s.HighestSeverity.Rank() {
			s.HighestSeverity = m.Severity
		}
		if m.Severity.Rank() >= SeverityHigh.Rank() {
			s.HasBlocking = true
		}
	}

	s.MeanConfidence = stat.Mean(confidences, nil)
	s.MaxConfidence = int(floats.Max(confidences))

	return s
}

// GroupBySeverity groups findings by severity level
func GroupBySeverity(matches []Match) map[Severity][]Match {
	grouped := make(map[Severity][]Match)

	for _, m := range matches {
		grouped[m.Severity] = append(grouped[m.Severity], m)
	}

	return grouped
}

// GroupByType groups findings by type
func GroupByType(matches []Match) map[Type][]Match {
	grouped := make(map[Type][]Match)

	for _, m := range matches {
		grouped[m.Type] = append(grouped[m.Type], m)
	}

	return grouped
}
