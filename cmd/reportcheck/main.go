// Command reportcheck scans report text for internal contradictions from the
// command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/internal/logger"
	"github.com/todmy/report-checker/internal/rulepack"
)

const version = "0.1.0"

// errBlocking signals findings at or above the --fail-on severity
var errBlocking = errors.New("blocking contradictions found")

var stdin io.Reader = os.Stdin

// CLI defines the command-line interface for reportcheck.
var CLI struct {
	Rules   string `name:"rules" short:"r" help:"YAML rule pack with extra patterns and oppositions" type:"path"`
	NoColor bool   `name:"no-color" help:"Disable colored output"`
	Verbose bool   `name:"verbose" short:"v" help:"Log rule failures and guards to stderr"`

	Check    CheckCmd    `cmd:"" default:"withargs" help:"Check report files (or stdin) for contradictions"`
	Patterns PatternsCmd `cmd:"" help:"List the active detection patterns"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// CheckCmd analyzes one or more report files.
type CheckCmd struct {
	Files          []string `arg:"" optional:"" help:"Files to check; reads stdin when empty or '-'"`
	JSON           bool     `name:"json" help:"Print findings as JSON"`
	AllOccurrences bool     `name:"all-occurrences" help:"Report every occurrence of each pattern"`
	MaxSentences   int      `name:"max-sentences" default:"0" help:"Cap sentences compared across the text (0 = no cap)"`
	FailOn         string   `name:"fail-on" default:"high" enum:"critical,high,medium,low,none" help:"Exit non-zero when a finding reaches this severity"`
}

// PatternsCmd lists the pattern registry.
type PatternsCmd struct {
	JSON bool `name:"json" help:"Print patterns as JSON"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

type fileResult struct {
	File   string                `json:"file"`
	Report *contradiction.Report `json:"report"`
}

func (c *CheckCmd) Run(ctx *kong.Context) error {
	opts := []contradiction.Option{contradiction.WithMaxSentences(c.MaxSentences)}
	if c.AllOccurrences {
		opts = append(opts, contradiction.WithAllOccurrences())
	}
	engine, err := newEngine(opts...)
	if err != nil {
		return err
	}

	files := c.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	var (
		results  []fileResult
		blocking bool
	)
	for _, file := range files {
		text, err := readInput(file)
		if err != nil {
			return err
		}

		report, err := engine.Analyze(context.Background(), text)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		results = append(results, fileResult{File: displayName(file), Report: report})
		if reachesThreshold(report.Matches, c.FailOn) {
			blocking = true
		}
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printReport(ctx.Stdout, res)
		}
	}

	if blocking {
		return errBlocking
	}
	return nil
}

func (c *PatternsCmd) Run(ctx *kong.Context) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	patterns := engine.Patterns()

	if c.JSON {
		type patternJSON struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Type        string `json:"type"`
			Severity    string `json:"severity"`
			Description string `json:"description"`
		}
		out := make([]patternJSON, 0, len(patterns))
		for _, p := range patterns {
			out = append(out, patternJSON{p.ID, p.Name, string(p.Type), string(p.Severity), p.Description})
		}
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, p := range patterns {
		fmt.Fprintf(ctx.Stdout, "%s %-26s %-13s %s\n", badge(p.Severity), p.ID, p.Type, p.Description)
	}
	return nil
}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "reportcheck version %s\n", version)
	return nil
}

// newEngine builds an engine with the global flags applied
func newEngine(opts ...contradiction.Option) (*contradiction.Engine, error) {
	logg := logger.Nop()
	if CLI.Verbose {
		l, err := logger.New("development")
		if err != nil {
			return nil, err
		}
		logg = l
	}
	opts = append(opts, contradiction.WithLogger(logg))

	engine := contradiction.New(opts...)
	if CLI.Rules != "" {
		pack, err := rulepack.Load(CLI.Rules)
		if err != nil {
			return nil, err
		}
		if err := pack.Apply(engine); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

func readInput(file string) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func displayName(file string) string {
	if file == "-" {
		return "<stdin>"
	}
	return filepath.Clean(file)
}

// reachesThreshold reports whether any finding is at least as severe as failOn
func reachesThreshold(matches []contradiction.Match, failOn string) bool {
	if failOn == "none" {
		return false
	}
	threshold := contradiction.Severity(failOn).Rank()
	for _, m := range matches {
		if m.Severity.Rank() >= threshold {
			return true
		}
	}
	return false
}

var severityOrder = []contradiction.Severity{
	contradiction.SeverityCritical,
	contradiction.SeverityHigh,
	contradiction.SeverityMedium,
	contradiction.SeverityLow,
}

var typeOrder = []contradiction.Type{
	contradiction.TypeLogical,
	contradiction.TypeFactual,
	contradiction.TypeTemporal,
	contradiction.TypeQuantitative,
	contradiction.TypeSemantic,
}

var severityColors = map[contradiction.Severity]*color.Color{
	contradiction.SeverityCritical: color.New(color.FgWhite, color.BgRed, color.Bold),
	contradiction.SeverityHigh:     color.New(color.FgRed, color.Bold),
	contradiction.SeverityMedium:   color.New(color.FgYellow),
	contradiction.SeverityLow:      color.New(color.FgCyan),
}

func badge(s contradiction.Severity) string {
	label := fmt.Sprintf("[%-8s]", strings.ToUpper(string(s)))
	if c, ok := severityColors[s]; ok {
		return c.Sprint(label)
	}
	return label
}

var (
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.Faint)
	okColor     = color.New(color.FgGreen)
)

func printReport(w io.Writer, res fileResult) {
	headerColor.Fprintln(w, res.File)

	if len(res.Report.Matches) == 0 {
		okColor.Fprintln(w, "  no contradictions found")
		fmt.Fprintln(w)
		return
	}

	bySeverity := contradiction.GroupBySeverity(res.Report.Matches)
	for _, sev := range severityOrder {
		group := bySeverity[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s %d\n", badge(sev), len(group))
		for _, m := range group {
			fmt.Fprintf(w, "    %s (%s, %d%%)\n", m.Description, m.Type, m.Confidence)
			for _, e := range m.Evidence {
				fmt.Fprintf(w, "      > %s\n", e)
			}
			for _, s := range m.Suggestions {
				dimColor.Fprintf(w, "      - %s\n", s)
			}
		}
	}

	byType := contradiction.GroupByType(res.Report.Matches)
	var types []string
	for _, t := range typeOrder {
		if n := len(byType[t]); n > 0 {
			types = append(types, fmt.Sprintf("%s %d", t, n))
		}
	}

	sum := res.Report.Summary
	fmt.Fprintf(w, "  %d finding(s) [%s], highest %s, mean confidence %.0f%%\n\n",
		sum.Total, strings.Join(types, ", "), sum.HighestSeverity, sum.MeanConfidence)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("reportcheck"),
		kong.Description("Detect internal contradictions in report text"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.NoColor {
		color.NoColor = true
	}

	err := ctx.Run(ctx)
	if errors.Is(err, errBlocking) {
		os.Exit(2)
	}
	ctx.FatalIfErrorf(err)
}
