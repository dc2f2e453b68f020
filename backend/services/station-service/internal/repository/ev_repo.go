package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargehub/backend/services/station-service/internal/models"
)

// EVRepository reads the EV reference set.
type EVRepository struct {
	db *sql.DB
}

// NewEVRepository returns repository.
func NewEVRepository(db *sql.DB) *EVRepository {
	return &EVRepository{db: db}
}

func scanEV(row rowScanner) (*models.EV, error) {
	var (
		ev      models.EV
		rangeKm sql.NullFloat64
		port    sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.Name, &ev.Manufacturer, &ev.BatteryCapacity, &rangeKm, &port); err != nil {
		return nil, err
	}
	if rangeKm.Valid {
		ev.RangeKm = &rangeKm.Float64
	}
	if port.Valid {
		ev.ChargingPort = &port.String
	}
	return &ev, nil
}

// List returns all EVs ordered by manufacturer and name.
func (r *EVRepository) List(ctx context.Context) ([]models.EV, error) {
	const query = `
		SELECT id, name, manufacturer, battery_capacity, range_km, charging_port
		FROM evs
		ORDER BY manufacturer, name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evs := make([]models.EV, 0)
	for rows.Next() {
		ev, err := scanEV(rows)
		if err != nil {
			return nil, err
		}
		evs = append(evs, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}

// GetByID fetches one EV.
func (r *EVRepository) GetByID(ctx context.Context, id string) (*models.EV, error) {
	const query = `
		SELECT id, name, manufacturer, battery_capacity, range_km, charging_port
		FROM evs
		WHERE id = $1
	`
	ev, err := scanEV(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}
