package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/todmy/report-checker/internal/cache"
	"github.com/todmy/report-checker/internal/contradiction"
	"github.com/todmy/report-checker/internal/storage"
	"github.com/todmy/report-checker/pkg/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxTitleLength   = 200
)

// handleListReports returns the caller's most recent reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	reports, err := s.reports.ListByClient(r.Context(), s.clientID(r), limit)
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch reports")
		return
	}

	response := make([]models.Report, 0, len(reports))
	for _, rep := range reports {
		response = append(response, toReport(rep))
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateReport analyzes a report and stores it with its findings
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)

	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	s.storeReport(w, r, req.Title, req.Text)
}

// storeReport analyzes text and persists it for the calling client. Text the
// client already submitted is answered from storage with status "exists".
func (s *Server) storeReport(w http.ResponseWriter, r *http.Request, title, text string) {
	ctx := r.Context()
	clientID := s.clientID(r)
	hash := cache.GenerateCacheKey(contradiction.Normalize(text))

	existing, err := s.reports.GetByHash(ctx, clientID, hash)
	if err != nil {
		s.logger.Error("lookup report by hash failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to check existing reports")
		return
	}

	if existing != nil {
		findings, err := s.findings.GetByReportID(ctx, existing.ID)
		if err != nil {
			s.logger.Error("fetch findings failed", "report_id", existing.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to fetch findings")
			return
		}
		respondJSON(w, http.StatusOK, reportResponse(existing, storedMatches(findings), "exists"))
		return
	}

	analysis, err := s.analyze(ctx, text)
	if err != nil {
		s.respondAnalysisError(w, err)
		return
	}

	report := &storage.Report{
		ClientID:        clientID,
		Title:           reportTitle(title, text),
		Content:         text,
		ContentHash:     hash,
		FindingCount:    analysis.Summary.Total,
		HighestSeverity: string(analysis.Summary.HighestSeverity),
	}

	if err := s.persist(ctx, report, analysis.Matches); err != nil {
		s.logger.Error("store report failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	s.logger.Info("report stored",
		"report_id", report.ID,
		"client_id", clientID,
		"findings", report.FindingCount,
	)

	respondJSON(w, http.StatusCreated, reportResponse(report, analysis.Matches, "created"))
}

func (s *Server) persist(ctx context.Context, report *storage.Report, matches []contradiction.Match) error {
	if err := s.reports.Create(ctx, report); err != nil {
		return err
	}

	findings := make([]*storage.Finding, len(matches))
	for i, m := range matches {
		findings[i] = storage.NewFinding(report.ID, i, m)
	}

	if err := s.findings.CreateBatch(ctx, findings); err != nil {
		// The report row is useless without its findings.
		if delErr := s.reports.Delete(ctx, report.ID); delErr != nil {
			s.logger.Warn("rollback report failed", "report_id", report.ID, "error", delErr)
		}
		return err
	}
	return nil
}

// handleGetReport returns a stored report with its findings
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.ownedReport(w, r)
	if !ok {
		return
	}

	findings, err := s.findings.GetByReportID(r.Context(), report.ID)
	if err != nil {
		s.logger.Error("fetch findings failed", "report_id", report.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch findings")
		return
	}

	respondJSON(w, http.StatusOK, reportResponse(report, storedMatches(findings), ""))
}

// handleGetFindings returns only the findings of a stored report
func (s *Server) handleGetFindings(w http.ResponseWriter, r *http.Request) {
	report, ok := s.ownedReport(w, r)
	if !ok {
		return
	}

	findings, err := s.findings.GetByReportID(r.Context(), report.ID)
	if err != nil {
		s.logger.Error("fetch findings failed", "report_id", report.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch findings")
		return
	}

	respondJSON(w, http.StatusOK, toFindings(storedMatches(findings)))
}

// handleDeleteReport deletes a report and its findings
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.ownedReport(w, r)
	if !ok {
		return
	}

	if err := s.findings.DeleteByReportID(r.Context(), report.ID); err != nil {
		s.logger.Error("delete findings failed", "report_id", report.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete findings")
		return
	}

	if err := s.reports.Delete(r.Context(), report.ID); err != nil {
		s.logger.Error("delete report failed", "report_id", report.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ownedReport loads the report named in the URL and checks that the caller
// owns it. It writes the error response itself.
func (s *Server) ownedReport(w http.ResponseWriter, r *http.Request) (*storage.Report, bool) {
	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		respondError(w, http.StatusBadRequest, "report id is required")
		return nil, false
	}

	rid, err := uuid.Parse(reportID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return nil, false
	}

	report, err := s.reports.GetByID(r.Context(), rid)
	if err != nil {
		s.logger.Error("fetch report failed", "report_id", rid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch report")
		return nil, false
	}

	if report == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return nil, false
	}

	// Verify ownership
	if report.ClientID != s.clientID(r) {
		respondError(w, http.StatusForbidden, "access denied")
		return nil, false
	}

	return report, true
}

func reportResponse(report *storage.Report, matches []contradiction.Match, status string) models.ReportResponse {
	summary := toSummary(contradiction.Summarize(matches))
	return models.ReportResponse{
		Report:   toReport(report),
		Status:   status,
		Findings: toFindings(matches),
		Summary:  &summary,
	}
}

// reportTitle falls back to the first sentence when no title is given
func reportTitle(title, text string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		if sentences := contradiction.SplitSentences(contradiction.Normalize(text)); len(sentences) > 0 {
			title = sentences[0]
		}
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength]) + "..."
	}
	return title
}
