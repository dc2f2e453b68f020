package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/cache"
	"chargehub/backend/services/station-service/internal/models"
)

// ReportService files issue reports against stations.
type ReportService struct {
	reports  ReportRepository
	stations StationRepository
	cache    Cache
	logger   *zap.Logger
}

// NewReportService builds ReportService.
func NewReportService(reports ReportRepository, stations StationRepository, cache Cache, logger *zap.Logger) *ReportService {
	return &ReportService{reports: reports, stations: stations, cache: cache, logger: logger}
}

// Create appends a report and drops the station's cached entry.
func (s *ReportService) Create(ctx context.Context, userID, stationID, issueType, description string) (*models.Report, error) {
	issueType = strings.TrimSpace(issueType)
	description = strings.TrimSpace(description)
	if issueType == "" || description == "" {
		return nil, apperror.BadRequest("Issue type and description are required")
	}
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, stationError(err)
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		UserID:      userID,
		StationID:   stationID,
		IssueType:   issueType,
		Description: description,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.cache.Invalidate(ctx, cache.ReportCreated, cache.Target{StationID: stationID, UserID: userID}); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Stringer("mutation", cache.ReportCreated), zap.String("station_id", stationID), zap.Error(err))
	}
	s.logger.Info("report created", zap.String("station_id", stationID), zap.String("issue_type", issueType))
	return report, nil
}

// ListForStation returns reports filed against stationID.
func (s *ReportService) ListForStation(ctx context.Context, stationID string) ([]models.Report, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, stationError(err)
	}
	reports, err := s.reports.ListForStation(ctx, stationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}
