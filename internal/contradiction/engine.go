package contradiction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/todmy/report-checker/internal/logger"
)

var (
	ErrInvalidRule   = errors.New("invalid custom rule")
	ErrDuplicateRule = errors.New("custom rule already registered")
)

// FailurePolicy decides what a failing custom rule does to an analysis
type FailurePolicy int

const (
	// IsolateFailures logs the failing rule and continues without its findings.
	IsolateFailures FailurePolicy = iota
	// PropagateFailures aborts the analysis with a *RuleError.
	PropagateFailures
)

// ParseFailurePolicy maps "isolate"/"propagate" to a FailurePolicy
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isolate":
		return IsolateFailures, nil
	case "propagate":
		return PropagateFailures, nil
	default:
		return IsolateFailures, fmt.Errorf("unknown rule failure policy %q", s)
	}
}

// RuleError reports a custom rule that failed during analysis
type RuleError struct {
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("custom rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Config holds engine configuration
type Config struct {
	// MaxSentences caps the sentences considered by the cross-sentence pass.
	// Zero means no cap.
	MaxSentences int
	// AllOccurrences reports every occurrence of a pattern instead of the first.
	AllOccurrences bool
	FailurePolicy  FailurePolicy
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxSentences:   0,
		AllOccurrences: false,
		FailurePolicy:  IsolateFailures,
	}
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig replaces the engine configuration
func WithConfig(config Config) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithPatterns replaces the default pattern registry
func WithPatterns(patterns []Pattern) Option {
	return func(e *Engine) {
		e.patterns = append([]Pattern(nil), patterns...)
	}
}

// WithLexicon replaces the default opposition lexicon
func WithLexicon(lexicon []OppositionPair) Option {
	return func(e *Engine) {
		e.lexicon = append([]OppositionPair(nil), lexicon...)
	}
}

// WithLogger sets the logger used for rule failures and guards
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxSentences caps the cross-sentence pass
func WithMaxSentences(n int) Option {
	return func(e *Engine) {
		e.config.MaxSentences = n
	}
}

// WithAllOccurrences reports every occurrence of each pattern
func WithAllOccurrences() Option {
	return func(e *Engine) {
		e.config.AllOccurrences = true
	}
}

// WithRuleFailurePolicy sets how failing custom rules are handled
func WithRuleFailurePolicy(p FailurePolicy) Option {
	return func(e *Engine) {
		e.config.FailurePolicy = p
	}
}

// Engine detects internal contradictions in report text.
// It is safe for concurrent use; registrations made while an analysis is
// running apply to the next analysis.
type Engine struct {
	mu       sync.RWMutex
	patterns []Pattern
	lexicon  []OppositionPair
	rules    []CustomRule
	ruleIDs  map[string]bool

	config Config
	logger *logger.Logger
}

// New creates an engine seeded with the default patterns and lexicon
func New(opts ...Option) *Engine {
	e := &Engine{
		patterns: DefaultPatterns(),
		lexicon:  DefaultLexicon(),
		ruleIDs:  make(map[string]bool),
		config:   DefaultConfig(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.config.MaxSentences < 0 {
		e.config.MaxSentences = 0
	}
	return e
}

// AddCustomRule registers a rule that runs on every analysis, after the
// built-in passes in registration order.
func (e *Engine) AddCustomRule(rule CustomRule) error {
	if rule == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidRule)
	}
	id := strings.TrimSpace(rule.ID())
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRule)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ruleIDs[id] {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, id)
	}
	e.ruleIDs[id] = true
	e.rules = append(e.rules, rule)
	return nil
}

// AddCustomPattern compiles and appends a pattern to the registry
func (e *Engine) AddCustomPattern(spec PatternSpec) error {
	p, err := CompilePattern(spec)
	if err != nil {
		return err
	}
	return e.AddPattern(p)
}

// AddPattern appends an already compiled pattern to the registry
func (e *Engine) AddPattern(p Pattern) error {
	if p.Regexp == nil {
		return fmt.Errorf("%w: %s: nil regexp", ErrInvalidPattern, p.ID)
	}
	if p.ID == "" || !p.Type.Valid() || !p.Severity.Valid() {
		return fmt.Errorf("%w: %q: id, type and severity are required", ErrInvalidPattern, p.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.patterns {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidPattern, p.ID)
		}
	}
	e.patterns = append(e.patterns, p)
	return nil
}

// AddOppositionPair extends the lexicon used by the semantic passes
func (e *Engine) AddOppositionPair(a, b string) error {
	pair, err := NewOppositionPair(a, b)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lexicon = append(e.lexicon, pair)
	return nil
}

// Patterns returns a copy of the active pattern registry
func (e *Engine) Patterns() []Pattern {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Pattern(nil), e.patterns...)
}

// Lexicon returns a copy of the active opposition lexicon
func (e *Engine) Lexicon() []OppositionPair {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]OppositionPair(nil), e.lexicon...)
}

type snapshot struct {
	patterns []Pattern
	lexicon  []OppositionPair
	rules    []CustomRule
}

func (e *Engine) snapshot() snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshot{
		patterns: append([]Pattern(nil), e.patterns...),
		lexicon:  append([]OppositionPair(nil), e.lexicon...),
		rules:    append([]CustomRule(nil), e.rules...),
	}
}

// AnalyzeText runs every pass over text and returns the deduplicated findings,
// most severe first. The built-in passes and custom rules run concurrently but
// their findings are concatenated in a fixed order: pattern, semantic,
// cross-sentence, then custom rules in registration order.
func (e *Engine) AnalyzeText(ctx context.Context, text string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := e.snapshot()
	doc := Preprocess(text)

	if limit := e.config.MaxSentences; limit > 0 && len(doc.Sentences) > limit {
		e.logger.Warn("cross-sentence pass truncated",
			"sentences", len(doc.Sentences),
			"max_sentences", limit,
		)
	}

	var (
		patternMatches  []Match
		semanticMatches []Match
		crossMatches    []Match
		customMatches   = make([][]Match, len(snap.rules))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		patternMatches = runPatternPass(doc, snap.patterns, e.config.AllOccurrences)
		return nil
	})
	g.Go(func() error {
		semanticMatches = runSemanticPass(doc, snap.lexicon)
		return nil
	})
	g.Go(func() error {
		crossMatches = runCrossSentencePass(doc, snap.lexicon, e.config.MaxSentences)
		return nil
	})

	for i, rule := range snap.rules {
		i, rule := i, rule
		g.Go(func() error {
			matches, err := e.runRule(gctx, rule, doc.Text)
			if err != nil {
				return err
			}
			customMatches[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]Match, 0, len(patternMatches)+len(semanticMatches)+len(crossMatches))
	pool = append(pool, patternMatches...)
	pool = append(pool, semanticMatches...)
	pool = append(pool, crossMatches...)
	for _, m := range customMatches {
		pool = append(pool, m...)
	}

	return DeduplicateAndRank(pool), nil
}

// runRule executes one custom rule, applying the failure policy
func (e *Engine) runRule(ctx context.Context, rule CustomRule, text string) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			return
		}
		if e.config.FailurePolicy == PropagateFailures {
			matches, err = nil, &RuleError{RuleID: rule.ID(), Err: err}
			return
		}
		e.logger.Error("custom rule failed, skipping",
			"rule_id", rule.ID(),
			"rule_name", rule.Name(),
			"error", err,
		)
		matches, err = nil, nil
	}()

	raw, err := rule.Check(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.sanitizeCustomMatches(rule, raw), nil
}

// sanitizeCustomMatches enforces the finding invariants on rule output.
// Confidence is clamped; findings with an unknown type or severity, or no
// evidence, are dropped.
func (e *Engine) sanitizeCustomMatches(rule CustomRule, raw []Match) []Match {
	out := make([]Match, 0, len(raw))
	for _, m := range raw {
		if !m.Type.Valid() || !m.Severity.Valid() || len(m.Evidence) == 0 {
			e.logger.Warn("dropping invalid custom finding",
				"rule_id", rule.ID(),
				"type", m.Type,
				"severity", m.Severity,
				"evidence", len(m.Evidence),
			)
			continue
		}
		if m.Confidence < 0 {
			m.Confidence = 0
		}
		if m.Confidence > 100 {
			m.Confidence = 100
		}
		if m.Source == "" {
			m.Source = sourceCustomPrefix + rule.ID()
		}
		m.Evidence = append([]string(nil), m.Evidence...)
		out = append(out, m)
	}
	return out
}

// Analyze runs AnalyzeText and summarises the findings
func (e *Engine) Analyze(ctx context.Context, text string) (*Report, error) {
	matches, err := e.AnalyzeText(ctx, text)
	if err != nil {
		return nil, err
	}
	return &Report{
		Matches: matches,
		Summary: Summarize(matches),
	}, nil
}
