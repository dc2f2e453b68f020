package repository

import (
	"context"
	"database/sql"

	"chargehub/backend/services/station-service/internal/models"
)

// ReportRepository appends station issue reports.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository returns repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	const query = `
		INSERT INTO reports (id, user_id, station_id, issue_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		report.ID,
		report.UserID,
		report.StationID,
		report.IssueType,
		report.Description,
	).Scan(&report.CreatedAt)
}

// ListForStation returns reports filed against stationID, newest first.
func (r *ReportRepository) ListForStation(ctx context.Context, stationID string) ([]models.Report, error) {
	const query = `
		SELECT id, user_id, station_id, issue_type, description, created_at
		FROM reports
		WHERE station_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var rp models.Report
		if err := rows.Scan(&rp.ID, &rp.UserID, &rp.StationID, &rp.IssueType, &rp.Description, &rp.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
