package contradiction

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidOpposition = errors.New("invalid opposition pair")

// Pairs must not contain one another as substrings, or a single word would
// satisfy both sides.
var defaultOppositions = []OppositionPair{
	{"large", "small"},
	{"big", "small"},
	{"high", "low"},
	{"increase", "decrease"},
	{"good", "bad"},
	{"excellent", "poor"},
	{"modern", "dated"},
	{"safe", "dangerous"},
	{"stable", "volatile"},
	{"strong", "weak"},
	{"expensive", "cheap"},
	{"positive", "negative"},
	{"present", "absent"},
	{"included", "excluded"},
	{"approved", "rejected"},
	{"occupied", "vacant"},
	{"quiet", "noisy"},
	{"flat", "sloping"},
	{"above", "below"},
}

// DefaultLexicon returns a fresh copy of the built-in opposition lexicon.
func DefaultLexicon() []OppositionPair {
	out := make([]OppositionPair, len(defaultOppositions))
	copy(out, defaultOppositions)
	return out
}

// NewOppositionPair validates and lower-cases an antonym pair
func NewOppositionPair(a, b string) (OppositionPair, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return OppositionPair{}, fmt.Errorf("%w: both words are required", ErrInvalidOpposition)
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return OppositionPair{}, fmt.Errorf("%w: %q and %q overlap", ErrInvalidOpposition, a, b)
	}
	return OppositionPair{A: a, B: b}, nil
}
