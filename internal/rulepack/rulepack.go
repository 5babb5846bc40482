// Package rulepack loads additional contradiction patterns and opposition
// pairs from YAML files.
package rulepack

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/todmy/report-checker/internal/contradiction"
)

var ErrEmptyPack = errors.New("rule pack defines no patterns or oppositions")

// Pack is the on-disk rule pack format
type Pack struct {
	Name        string                      `yaml:"name"`
	Patterns    []contradiction.PatternSpec `yaml:"patterns"`
	Oppositions [][2]string                 `yaml:"oppositions"`
}

// Load reads and validates a rule pack file
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	pack, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule pack %s: %w", path, err)
	}
	return pack, nil
}

// Parse decodes and validates a rule pack. Every pattern is compiled so a
// malformed expression is reported before it reaches an engine.
func Parse(data []byte) (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if len(pack.Patterns) == 0 && len(pack.Oppositions) == 0 {
		return nil, ErrEmptyPack
	}

	seen := make(map[string]bool)
	for _, spec := range pack.Patterns {
		if seen[spec.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", contradiction.ErrInvalidPattern, spec.ID)
		}
		seen[spec.ID] = true
		if _, err := contradiction.CompilePattern(spec); err != nil {
			return nil, err
		}
	}
	for _, pair := range pack.Oppositions {
		if _, err := contradiction.NewOppositionPair(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}

	return &pack, nil
}

// Apply registers the pack's patterns and oppositions with an engine
func (p *Pack) Apply(e *contradiction.Engine) error {
	for _, spec := range p.Patterns {
		if err := e.AddCustomPattern(spec); err != nil {
			return fmt.Errorf("apply pattern %s: %w", spec.ID, err)
		}
	}
	for _, pair := range p.Oppositions {
		if err := e.AddOppositionPair(pair[0], pair[1]); err != nil {
			return fmt.Errorf("apply opposition %s/%s: %w", pair[0], pair[1], err)
		}
	}
	return nil
}
