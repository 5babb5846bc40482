package contradiction

import (
	"context"
	"regexp"
)

// Type represents the category of a contradiction
type Type string

const (
	TypeLogical      Type = "logical"
	TypeFactual      Type = "factual"
	TypeTemporal     Type = "temporal"
	TypeQuantitative Type = "quantitative"
	TypeSemantic     Type = "semantic"
)

// Valid reports whether t is one of the known contradiction types
func (t Type) Valid() bool {
	switch t {
	case TypeLogical, TypeFactual, TypeTemporal, TypeQuantitative, TypeSemantic:
		return true
	default:
		return false
	}
}

// Severity represents contradiction severity
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for sorting. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severity levels
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Pattern is a compiled regex describing one class of lexical self-contradiction.
// Patterns are immutable once registered with an Engine.
type Pattern struct {
	ID          string
	Name        string
	Type        Type
	Regexp      *regexp.Regexp
	Description string
	Severity    Severity
}

// OppositionPair is an unordered pair of antonyms
type OppositionPair struct {
	A string
	B string
}

// Location points at the span of a direct pattern match in the normalized text
type Location struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Context string `json:"context"`
}

// Match represents a detected contradiction
type Match struct {
	Type        Type      `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Evidence    []string  `json:"evidence"`
	Confidence  int       `json:"confidence"`
	Location    *Location `json:"location,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	// Source names the pass that produced the match. It does not take part
	// in duplicate detection.
	Source string `json:"source,omitempty"`
}

// CustomRule contributes caller-defined findings. Check receives the
// normalized full text once per analysis.
type CustomRule interface {
	ID() string
	Name() string
	Category() string
	Check(ctx context.Context, text string) ([]Match, error)
}

// RuleFunc adapts a plain function to the CustomRule interface
type RuleFunc struct {
	RuleID       string
	RuleName     string
	RuleCategory string
	Fn           func(ctx context.Context, text string) ([]Match, error)
}

func (r RuleFunc) ID() string       { return r.RuleID }
func (r RuleFunc) Name() string     { return r.RuleName }
func (r RuleFunc) Category() string { return r.RuleCategory }

// Check calls the wrapped function
func (r RuleFunc) Check(ctx context.Context, text string) ([]Match, error) {
	if r.Fn == nil {
		return nil, nil
	}
	return r.Fn(ctx, text)
}

const (
	SourcePattern       = "pattern"
	SourceSemantic      = "semantic"
	SourceCrossSentence = "cross-sentence"
	sourceCustomPrefix  = "custom:"
)
