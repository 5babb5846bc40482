package contradiction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidPattern = errors.New("invalid contradiction pattern")
)

// PatternSpec is the uncompiled form of a Pattern, as supplied by callers
// and rule packs.
type PatternSpec struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Type        Type     `yaml:"type" json:"type"`
	Expr        string   `yaml:"pattern" json:"pattern"`
	Description string   `yaml:"description" json:"description"`
	Severity    Severity `yaml:"severity" json:"severity"`
}

// CompilePattern validates a PatternSpec and compiles its expression case-insensitively.
// A malformed expression is reported here instead of at analysis time.
func CompilePattern(spec PatternSpec) (Pattern, error) {
	if strings.TrimSpace(spec.ID) == "" {
		return Pattern{}, fmt.Errorf("%w: id is required", ErrInvalidPattern)
	}
	if !spec.Type.Valid() {
		return Pattern{}, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidPattern, spec.ID, spec.Type)
	}
	if !spec.Severity.Valid() {
		return Pattern{}, fmt.Errorf("%w: %s: unknown severity %q", ErrInvalidPattern, spec.ID, spec.Severity)
	}
	if strings.TrimSpace(spec.Expr) == "" {
		return Pattern{}, fmt.Errorf("%w: %s: empty expression", ErrInvalidPattern, spec.ID)
	}

	expr := spec.Expr
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, spec.ID, err)
	}

	name := spec.Name
	if name == "" {
		name = spec.ID
	}

	return Pattern{
		ID:          spec.ID,
		Name:        name,
		Type:        spec.Type,
		Regexp:      re,
		Description: spec.Description,
		Severity:    spec.Severity,
	}, nil
}

// cooccur builds an expression matching a word from one family followed,
// anywhere later in the text, by a word from the other family, in either order.
func cooccur(left, right string) string {
	l := `\b(?:` + left + `)\b`
	r := `\b(?:` + right + `)\b`
	return `(?s)(?:` + l + `.*?` + r + `|` + r + `.*?` + l + `)`
}

var defaultPatternSpecs = []PatternSpec{
	{
		ID:          "absolute-conditional",
		Name:        "Absolute vs Conditional",
		Type:        TypeLogical,
		Expr:        cooccur(`always|never|all|none|every|completely|entirely|absolutely`, `sometimes|occasionally|usually|often|rarely|might|may|possibly|partially`),
		Description: "Absolute statement combined with a conditional or hedged qualifier",
		Severity:    SeverityHigh,
	},
	{
		ID:          "quantitative-opposite",
		Name:        "Quantitative Opposites",
		Type:        TypeQuantitative,
		Expr:        cooccur(`increase[sd]?|increasing|rise[sn]?|rising|rose|grow(?:s|n|ing)?|grew|higher|gain(?:s|ed)?`, `decrease[sd]?|decreasing|decline[sd]?|declining|fall(?:s|en|ing)?|fell|drop(?:s|ped|ping)?|lower|shrink(?:s|ing)?`),
		Description: "Conflicting quantitative directions mentioned together",
		Severity:    SeverityMedium,
	},
	{
		ID:          "temporal-conflict",
		Name:        "Temporal Conflict",
		Type:        TypeTemporal,
		Expr:        cooccur(`before|prior to|previously|earlier`, `after|following|subsequently|later`),
		Description: "Conflicting temporal ordering of events",
		Severity:    SeverityMedium,
	},
	{
		ID:          "boolean-opposite",
		Name:        "Boolean Opposites",
		Type:        TypeFactual,
		Expr:        cooccur(`true|yes|correct|confirmed|verified`, `false|no|incorrect|unconfirmed|unverified`),
		Description: "Affirmation and negation of the same fact",
		Severity:    SeverityHigh,
	},
	{
		ID:          "quality-opposite",
		Name:        "Quality Opposites",
		Type:        TypeSemantic,
		Expr:        cooccur(`excellent|good|superior|well maintained|pristine`, `poor|bad|inferior|dilapidated|deteriorated`),
		Description: "Conflicting quality assessments",
		Severity:    SeverityMedium,
	},
	{
		ID:          "existence-contradiction",
		Name:        "Existence Contradiction",
		Type:        TypeLogical,
		Expr:        cooccur(`there is|there are|exists?|present|includes?`, `there is no|there are no|does not exist|absent|not present|lacks?`),
		Description: "Something is stated both to exist and not to exist",
		Severity:    SeverityHigh,
	},
	{
		ID:          "capability-contradiction",
		Name:        "Capability Contradiction",
		Type:        TypeLogical,
		Expr:        cooccur(`can|able to|capable|possible`, `cannot|can't|unable to|incapable|impossible`),
		Description: "Capability is both affirmed and denied",
		Severity:    SeverityMedium,
	},
}

// DefaultPatterns returns a fresh copy of the built-in pattern registry.
func DefaultPatterns() []Pattern {
	patterns := make([]Pattern, 0, len(defaultPatternSpecs))
	for _, spec := range defaultPatternSpecs {
		p, err := CompilePattern(spec)
		if err != nil {
			panic(err)
		}
		patterns = append(patterns, p)
	}
	return patterns
}
