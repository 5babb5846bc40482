package models

import (
	"time"
)

// AnalyzeRequest is the body of a stateless analysis request
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// ReportRequest is the body of a stored report submission
type ReportRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Location points at a finding inside the analyzed text
type Location struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Context string `json:"context"`
}

// Finding is a contradiction as returned by the API
type Finding struct {
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Evidence    []string  `json:"evidence"`
	Confidence  int       `json:"confidence"`
	Location    *Location `json:"location,omitempty"`
	Suggestions []string  `json:"suggestions"`
	Source      string    `json:"source,omitempty"`
}

// Summary aggregates the findings of one analysis
type Summary struct {
	Total           int            `json:"total"`
	BySeverity      map[string]int `json:"by_severity"`
	ByType          map[string]int `json:"by_type"`
	HighestSeverity string         `json:"highest_severity,omitempty"`
	MeanConfidence  float64        `json:"mean_confidence"`
	MaxConfidence   int            `json:"max_confidence"`
	HasBlocking     bool           `json:"has_blocking"`
}

// AnalysisResponse is the result of a stateless analysis
type AnalysisResponse struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

// Report is a stored report without its findings
type Report struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ContentHash     string    `json:"content_hash"`
	FindingCount    int       `json:"finding_count"`
	HighestSeverity string    `json:"highest_severity,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReportResponse is a stored report with its findings
type ReportResponse struct {
	Report
	Status   string    `json:"status,omitempty"`
	Findings []Finding `json:"findings"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// Pattern describes a registered detection pattern
type Pattern struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}
