package contradiction

import (
	"fmt"
	"regexp"
	"strings"
)

const semanticConfidence = 70

var comparativeMarker = regexp.MustCompile(`(?i)\b(?:more|less|than|compared|versus|vs|rather|instead)\b`)

var semanticSuggestions = []string{
	"Clarify how both opposing concepts can apply at once",
	"Specify which part of the property each description refers to",
	"Rephrase as an explicit comparison if a contrast is intended",
}

// runSemanticPass flags sentences that contain both words of an opposition
// pair, unless the sentence reads as a comparison.
func runSemanticPass(doc Document, lexicon []OppositionPair) []Match {
	var matches []Match

	for i, sentence := range doc.Sentences {
		lower := doc.lowerSentences[i]
		if comparativeMarker.MatchString(sentence) {
			continue
		}

		for _, pair := range lexicon {
			if !strings.Contains(lower, strings.ToLower(pair.A)) || !strings.Contains(lower, strings.ToLower(pair.B)) {
				continue
			}

			suggestions := make([]string, len(semanticSuggestions))
			copy(suggestions, semanticSuggestions)

			matches = append(matches, Match{
				Type:        TypeSemantic,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("Opposing concepts %q and %q used in the same sentence", pair.A, pair.B),
				Evidence:    []string{sentence},
				Confidence:  semanticConfidence,
				Suggestions: suggestions,
				Source:      SourceSemantic,
			})
		}
	}

	return matches
}
