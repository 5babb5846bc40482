package contradiction

import "strings"

const patternConfidence = 85

var suggestionsByType = map[Type][]string{
	TypeLogical: {
		"Review the logical consistency of these statements",
		"Remove absolute language or state the exceptions explicitly",
		"Make sure conditions and conclusions agree",
	},
	TypeFactual: {
		"Verify the fact against the source data",
		"Keep a single, consistent statement of this fact",
		"Cite the evidence that supports the chosen statement",
	},
	TypeTemporal: {
		"Check the chronological order of the events",
		"State explicit dates instead of relative timing",
		"Make sure before/after references agree across sections",
	},
	TypeQuantitative: {
		"Confirm the direction of the change with market data",
		"Quantify the change with figures and a time period",
		"Separate statements about different periods or metrics",
	},
	TypeSemantic: {
		"Clarify which aspect each opposing description refers to",
		"Use consistent terminology throughout the report",
		"Qualify the assessment if both descriptions apply in part",
	},
}

var genericSuggestions = []string{
	"Review these statements for consistency",
	"Clarify the intended meaning",
}

func suggestionsFor(t Type) []string {
	s, ok := suggestionsByType[t]
	if !ok {
		s = genericSuggestions
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// runPatternPass matches each pattern against the normalized full text.
// Only the first occurrence per pattern is reported unless allOccurrences is set.
func runPatternPass(doc Document, patterns []Pattern, allOccurrences bool) []Match {
	var matches []Match

	for _, p := range patterns {
		var spans [][]int
		if allOccurrences {
			spans = p.Regexp.FindAllStringIndex(doc.Text, -1)
		} else if loc := p.Regexp.FindStringIndex(doc.Text); loc != nil {
			spans = [][]int{loc}
		}

		for _, span := range spans {
			matched := doc.Text[span[0]:span[1]]
			context := sentenceContaining(doc, matched)
			if context == "" {
				context = matched
			}

			matches = append(matches, Match{
				Type:        p.Type,
				Severity:    p.Severity,
				Description: p.Description,
				Evidence:    []string{context},
				Confidence:  patternConfidence,
				Location: &Location{
					Start:   span[0],
					End:     span[1],
					Context: context,
				},
				Suggestions: suggestionsFor(p.Type),
				Source:      SourcePattern,
			})
		}
	}

	return matches
}

func sentenceContaining(doc Document, fragment string) string {
	needle := strings.ToLower(fragment)
	for i, s := range doc.lowerSentences {
		if strings.Contains(s, needle) {
			return doc.Sentences[i]
		}
	}
	return ""
}
