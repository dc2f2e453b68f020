package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"chargehub/backend/services/station-service/internal/models"
)

var stationColumnNames = []string{
	"id", "name", "address", "latitude", "longitude", "status", "power_output", "connector_type",
	"price_per_kwh", "amenities", "average_rating", "owner_id", "created_at", "updated_at",
}

// stationColumns renders the scan column list, qualified with alias when set.
func stationColumns(alias string) string {
	if alias == "" {
		return strings.Join(stationColumnNames, ", ")
	}
	cols := make([]string, len(stationColumnNames))
	for i, name := range stationColumnNames {
		cols[i] = alias + "." + name
	}
	return strings.Join(cols, ", ")
}

// StationRepository handles CRUD for stations table.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var s models.Station
	amenities := []string{}
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Location.Latitude,
		&s.Location.Longitude,
		&s.Status,
		&s.PowerOutput,
		&s.ConnectorType,
		&s.PricePerKWh,
		pq.Array(&amenities),
		&s.AverageRating,
		&s.OwnerID,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Amenities = amenities
	return &s, nil
}

func collectStations(rows *sql.Rows) ([]models.Station, error) {
	defer rows.Close()
	stations := make([]models.Station, 0)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Create inserts a new station.
func (r *StationRepository) Create(ctx context.Context, s *models.Station) error {
	const query = `
		INSERT INTO stations (id, name, address, latitude, longitude, status, power_output, connector_type,
			price_per_kwh, amenities, average_rating, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.Name,
		s.Address,
		s.Location.Latitude,
		s.Location.Longitude,
		s.Status,
		s.PowerOutput,
		s.ConnectorType,
		s.PricePerKWh,
		pq.Array(s.Amenities),
		s.AverageRating,
		s.OwnerID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapWriteError(err)
}

// GetByID fetches a station by id.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	query := `SELECT ` + stationColumns("") + ` FROM stations WHERE id = $1`
	s, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns stations matching filters, newest first.
func (r *StationRepository) List(ctx context.Context, f models.StationFilters) ([]models.Station, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.ConnectorType != "" {
		conds = append(conds, "connector_type = "+arg(f.ConnectorType))
	}
	if f.MinPower != nil {
		conds = append(conds, "power_output >= "+arg(*f.MinPower))
	}
	if f.MaxPower != nil {
		conds = append(conds, "power_output <= "+arg(*f.MaxPower))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		p := arg("%" + search + "%")
		conds = append(conds, "(name ILIKE "+p+" OR address ILIKE "+p+")")
	}

	query := `SELECT ` + stationColumns("") + ` FROM stations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectStations(rows)
}

// ListByOwner returns stations created by ownerID.
func (r *StationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Station, error) {
	query := `SELECT ` + stationColumns("") + ` FROM stations WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectStations(rows)
}

// Update overwrites mutable fields when s.OwnerID still owns the row.
func (r *StationRepository) Update(ctx context.Context, s *models.Station) error {
	const query = `
		UPDATE stations
		SET name = $3,
		    address = $4,
		    latitude = $5,
		    longitude = $6,
		    status = $7,
		    power_output = $8,
		    connector_type = $9,
		    price_per_kwh = $10,
		    amenities = $11,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.OwnerID,
		s.Name,
		s.Address,
		s.Location.Latitude,
		s.Location.Longitude,
		s.Status,
		s.PowerOutput,
		s.ConnectorType,
		s.PricePerKWh,
		pq.Array(s.Amenities),
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a station owned by ownerID.
func (r *StationRepository) Delete(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM stations WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAverageRating stores a recomputed rating.
func (r *StationRepository) UpdateAverageRating(ctx context.Context, id string, rating float64) error {
	const query = `UPDATE stations SET average_rating = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, rating)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
