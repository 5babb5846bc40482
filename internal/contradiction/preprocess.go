package contradiction

import (
	"regexp"
	"strings"
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+`)

	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
	)
)

// Document is the preprocessed form of the analyzed text
type Document struct {
	Text      string
	Sentences []string

	lowerText      string
	lowerSentences []string
}

// Normalize collapses whitespace runs, straightens curly quotes and trims.
// Whitespace is anything unicode.IsSpace accepts, so non-breaking and em
// spaces collapse too.
func Normalize(text string) string {
	text = quoteReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// SplitSentences splits on runs of sentence terminators. Abbreviations and
// decimal numbers split too; there is no language-aware boundary detection.
func SplitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Preprocess normalizes text and splits it into sentences
func Preprocess(text string) Document {
	normalized := Normalize(text)
	sentences := SplitSentences(normalized)

	lower := make([]string, len(sentences))
	for i, s := range sentences {
		lower[i] = strings.ToLower(s)
	}

	return Document{
		Text:           normalized,
		Sentences:      sentences,
		lowerText:      strings.ToLower(normalized),
		lowerSentences: lower,
	}
}
