package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/pkg/models"
)

const maxTextSize = 1 << 20 // 1 MB

// handleAnalyze runs the engine over the submitted text without storing it
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := s.analyze(r.Context(), req.Text)
	if err != nil {
		s.respondAnalysisError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.AnalysisResponse{
		Findings: toFindings(report.Matches),
		Summary:  toSummary(report.Summary),
	})
}

func (s *Server) analyze(ctx context.Context, text string) (*contradiction.Report, error) {
	report, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("analysis complete",
		"findings", report.Summary.Total,
		"highest_severity", report.Summary.HighestSeverity,
	)
	return report, nil
}

func (s *Server) respondAnalysisError(w http.ResponseWriter, err error) {
	var ruleErr *contradiction.RuleError
	switch {
	case errors.As(err, &ruleErr):
		s.logger.Error("custom rule aborted analysis", "rule_id", ruleErr.RuleID, "error", ruleErr.Err)
		respondError(w, http.StatusUnprocessableEntity, "custom rule "+ruleErr.RuleID+" failed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "analysis cancelled")
	default:
		s.logger.Error("analysis failed", "error", err)
		respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}
