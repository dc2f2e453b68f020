package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/models"
)

// ReportService is the report logic used by ReportHandlers.
type ReportService interface {
	Create(ctx context.Context, userID, stationID, issueType, description string) (*models.Report, error)
	ListForStation(ctx context.Context, stationID string) ([]models.Report, error)
}

// ReportHandlers serves /api/report.
type ReportHandlers struct {
	reports ReportService
	logger  *zap.Logger
}

// NewReportHandlers returns handler.
func NewReportHandlers(reports ReportService, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reports: reports, logger: logger}
}

type reportRequest struct {
	IssueType   string `json:"issueType" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2000"`
}

// Create handles POST /api/report/{stationId}.
func (h *ReportHandlers) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	report, err := h.reports.Create(r.Context(), userID, r.PathValue("stationId"), req.IssueType, req.Description)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"report": report})
	return nil
}

// List handles GET /api/report/{stationId}.
func (h *ReportHandlers) List(w http.ResponseWriter, r *http.Request) error {
	reports, err := h.reports.ListForStation(r.Context(), r.PathValue("stationId"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, reports)
	return nil
}
