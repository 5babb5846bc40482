package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// runCLI parses args into CLI and runs the selected command
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	parser, err := kong.New(&CLI,
		kong.Name("reportcheck"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) { t.Fatalf("unexpected exit, output: %s", out.String()) }),
	)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}
	err = ctx.Run(ctx)
	return out.String(), err
}

func TestCheck_BlockingFindings(t *testing.T) {
	dir := t.TempDir()
	file := createTestFile(t, dir, "report.txt", "This is true. This is false.")

	out, err := runCLI(t, "check", file)
	if !errors.Is(err, errBlocking) {
		t.Fatalf("expected errBlocking, got %v", err)
	}
	if !strings.Contains(out, "[CRITICAL]") {
		t.Errorf("expected critical badge in output, got:\n%s", out)
	}
	if !strings.Contains(out, "> This is true") {
		t.Errorf("expected evidence in output, got:\n%s", out)
	}
	if !strings.Contains(out, "[CRITICAL] 1\n") || !strings.Contains(out, "[HIGH    ] 1\n") {
		t.Errorf("expected findings grouped by severity, got:\n%s", out)
	}
	if strings.Index(out, "[CRITICAL]") > strings.Index(out, "[HIGH    ]") {
		t.Errorf("expected critical group before high group, got:\n%s", out)
	}
	if !strings.Contains(out, "2 finding(s) [logical 1, factual 1]") {
		t.Errorf("expected type breakdown in summary line, got:\n%s", out)
	}
}

func TestCheck_FailOnNone(t *testing.T) {
	dir := t.TempDir()
	file := createTestFile(t, dir, "report.txt", "This is true. This is false.")

	if _, err := runCLI(t, "check", "--fail-on", "none", file); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestCheck_JSON(t *testing.T) {
	dir := t.TempDir()
	a := createTestFile(t, dir, "a.txt", "The house is large. The garden is small.")
	b := createTestFile(t, dir, "b.txt", "Nothing to see here.")

	out, err := runCLI(t, "check", "--json", "--fail-on", "critical", a, b)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var results []fileResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Report.Summary.Total == 0 {
		t.Errorf("expected findings for %s", results[0].File)
	}
	if results[1].Report.Summary.Total != 0 {
		t.Errorf("expected no findings for %s, got %d", results[1].File, results[1].Report.Summary.Total)
	}
}

func TestCheck_Stdin(t *testing.T) {
	stdin = strings.NewReader("Plain text with nothing odd.")
	defer func() { stdin = os.Stdin }()

	out, err := runCLI(t, "check")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "<stdin>") || !strings.Contains(out, "no contradictions found") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := runCLI(t, "check", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPatterns_WithRulePack(t *testing.T) {
	dir := t.TempDir()
	rules := createTestFile(t, dir, "rules.yaml", `
name: valuation
patterns:
  - id: tenure-conflict
    type: factual
    severity: critical
    pattern: 'freehold.*leasehold'
    description: Tenure stated as both freehold and leasehold
`)

	out, err := runCLI(t, "--rules", rules, "patterns", "--json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var patterns []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &patterns); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(patterns) != 8 {
		t.Fatalf("expected 8 patterns, got %d", len(patterns))
	}
	if patterns[7].ID != "tenure-conflict" {
		t.Errorf("expected custom pattern last, got %s", patterns[7].ID)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("expected version in output, got %q", out)
	}
}
