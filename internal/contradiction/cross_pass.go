package contradiction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	crossSemanticConfidence = 75
	negationConfidence      = 90
)

var contextualConnector = regexp.MustCompile(`(?i)\b(?:but|however|although|while|whereas|in contrast)\b`)

type negationTemplate struct {
	positive *regexp.Regexp
	negative *regexp.Regexp
}

var negationTemplates = []negationTemplate{
	{
		positive: regexp.MustCompile(`(?i)\bis (?:true|correct|accurate|valid)\b`),
		negative: regexp.MustCompile(`(?i)\bis (?:false|incorrect|inaccurate|invalid)\b`),
	},
	{
		positive: regexp.MustCompile(`(?i)\bwill (?:happen|occur|succeed)\b`),
		negative: regexp.MustCompile(`(?i)\bwill not (?:happen|occur|succeed)\b`),
	},
	{
		positive: regexp.MustCompile(`(?i)\bcan (?:do|achieve|accomplish)\b`),
		negative: regexp.MustCompile(`(?i)\bcannot (?:do|achieve|accomplish)\b`),
	},
}

var crossSentenceSuggestions = []string{
	"Reconcile the two statements or explain why both hold",
	"Add a connecting phrase if the contrast is intentional",
}

var negationSuggestions = []string{
	"One of these statements must be wrong; confirm which one",
	"Remove or correct the negated statement",
}

// crossEvent keeps emission order identical to a nested i<j loop that checks
// opposition pairs first and negation templates second.
type crossEvent struct {
	i, j  int
	order int
	match Match
}

// runCrossSentencePass compares every pair of distinct sentences. Word
// presence is indexed per sentence so only sentences that contain lexicon
// words are paired.
func runCrossSentencePass(doc Document, lexicon []OppositionPair, limit int) []Match {
	n := len(doc.Sentences)
	if limit > 0 && n > limit {
		n = limit
	}
	if n < 2 {
		return nil
	}

	hasConnector := make([]bool, n)
	for i := 0; i < n; i++ {
		hasConnector[i] = contextualConnector.MatchString(doc.Sentences[i])
	}

	var events []crossEvent

	presence := make(map[string][]int)
	indexWord := func(word string) []int {
		if idx, ok := presence[word]; ok {
			return idx
		}
		var idx []int
		for i := 0; i < n; i++ {
			if !hasConnector[i] && strings.Contains(doc.lowerSentences[i], word) {
				idx = append(idx, i)
			}
		}
		presence[word] = idx
		return idx
	}

	for k, pair := range lexicon {
		a := indexWord(strings.ToLower(pair.A))
		b := indexWord(strings.ToLower(pair.B))
		if len(a) == 0 || len(b) == 0 {
			continue
		}

		seen := make(map[[2]int]bool)
		for _, ia := range a {
			for _, ib := range b {
				if ia == ib {
					continue
				}
				lo, hi := ia, ib
				if lo > hi {
					lo, hi = hi, lo
				}
				key := [2]int{lo, hi}
				if seen[key] {
					continue
				}
				seen[key] = true

				events = append(events, crossEvent{
					i:     lo,
					j:     hi,
					order: k,
					match: Match{
						Type:        TypeSemantic,
						Severity:    SeverityHigh,
						Description: fmt.Sprintf("Cross-sentence contradiction between %q and %q", pair.A, pair.B),
						Evidence:    []string{doc.Sentences[lo], doc.Sentences[hi]},
						Confidence:  crossSemanticConfidence,
						Suggestions: append([]string(nil), crossSentenceSuggestions...),
						Source:      SourceCrossSentence,
					},
				})
			}
		}
	}

	for t, tmpl := range negationTemplates {
		var positives, negatives []int
		for i := 0; i < n; i++ {
			if tmpl.positive.MatchString(doc.Sentences[i]) {
				positives = append(positives, i)
			}
			if tmpl.negative.MatchString(doc.Sentences[i]) {
				negatives = append(negatives, i)
			}
		}

		for _, i := range positives {
			for _, j := range negatives {
				if j <= i {
					continue
				}
				events = append(events, crossEvent{
					i:     i,
					j:     j,
					order: len(lexicon) + t,
					match: Match{
						Type:        TypeLogical,
						Severity:    SeverityCritical,
						Description: "Statement is directly negated in another sentence",
						Evidence:    []string{doc.Sentences[i], doc.Sentences[j]},
						Confidence:  negationConfidence,
						Suggestions: append([]string(nil), negationSuggestions...),
						Source:      SourceCrossSentence,
					},
				})
			}
		}
	}

	sort.SliceStable(events, func(x, y int) bool {
		ex, ey := events[x], events[y]
		if ex.i != ey.i {
			return ex.i < ey.i
		}
		if ex.j != ey.j {
			return ex.j < ey.j
		}
		return ex.order < ey.order
	})

	matches := make([]Match, len(events))
	for i, e := range events {
		matches[i] = e.match
	}
	return matches
}
