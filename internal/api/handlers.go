package api

import (
	"net/http"

	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/internal/storage"
	"github.com/todmy/report-checker/pkg/models"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "storage": "disabled"}
	if s.reports != nil {
		status["storage"] = "enabled"
	}
	respondJSON(w, http.StatusOK, status)
}

// handleListPatterns returns the active pattern registry
func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	patterns := s.engine.Patterns()

	response := make([]models.Pattern, 0, len(patterns))
	for _, p := range patterns {
		response = append(response, models.Pattern{
			ID:          p.ID,
			Name:        p.Name,
			Type:        string(p.Type),
			Severity:    string(p.Severity),
			Pattern:     p.Regexp.String(),
			Description: p.Description,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

func toFinding(m contradiction.Match) models.Finding {
	f := models.Finding{
		Type:        string(m.Type),
		Severity:    string(m.Severity),
		Description: m.Description,
		Evidence:    m.Evidence,
		Confidence:  m.Confidence,
		Suggestions: m.Suggestions,
		Source:      m.Source,
	}
	if f.Evidence == nil {
		f.Evidence = []string{}
	}
	if f.Suggestions == nil {
		f.Suggestions = []string{}
	}
	if m.Location != nil {
		f.Location = &models.Location{
			Start:   m.Location.Start,
			End:     m.Location.End,
			Context: m.Location.Context,
		}
	}
	return f
}

func toFindings(matches []contradiction.Match) []models.Finding {
	out := make([]models.Finding, 0, len(matches))
	for _, m := range matches {
		out = append(out, toFinding(m))
	}
	return out
}

func toSummary(s contradiction.Summary) models.Summary {
	out := models.Summary{
		Total:           s.Total,
		BySeverity:      make(map[string]int, len(s.BySeverity)),
		ByType:          make(map[string]int, len(s.ByType)),
		HighestSeverity: string(s.HighestSeverity),
		MeanConfidence:  s.MeanConfidence,
		MaxConfidence:   s.MaxConfidence,
		HasBlocking:     s.HasBlocking,
	}
	for k, v := range s.BySeverity {
		out.BySeverity[string(k)] = v
	}
	for k, v := range s.ByType {
		out.ByType[string(k)] = v
	}
	return out
}

func toReport(r *storage.Report) models.Report {
	return models.Report{
		ID:              r.ID.String(),
		Title:           r.Title,
		ContentHash:     r.ContentHash,
		FindingCount:    r.FindingCount,
		HighestSeverity: r.HighestSeverity,
		CreatedAt:       r.CreatedAt,
	}
}

// storedMatches converts persisted findings back into engine matches
func storedMatches(findings []*storage.Finding) []contradiction.Match {
	out := make([]contradiction.Match, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Match())
	}
	return out
}
