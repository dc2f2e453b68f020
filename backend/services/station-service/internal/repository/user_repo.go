package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargehub/backend/services/station-service/internal/models"
)

// UserRepository handles CRUD for users table and the saved-station relation.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `
		INSERT INTO users (id, name, email, password_hash, firebase_uid, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.FirebaseUID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, email, COALESCE(password_hash, ''), COALESCE(firebase_uid, ''), created_at, updated_at
		FROM users
		WHERE ` + where + `
		LIMIT 1
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.FirebaseUID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// LinkFirebase records the federated uid on an existing account.
func (r *UserRepository) LinkFirebase(ctx context.Context, userID, uid string) error {
	const query = `UPDATE users SET firebase_uid = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, uid)
	return mapWriteError(err)
}

// IsStationSaved reports whether stationID is in the user's saved list.
func (r *UserRepository) IsStationSaved(ctx context.Context, userID, stationID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_saved_stations WHERE user_id = $1 AND station_id = $2)`
	var saved bool
	if err := r.db.QueryRowContext(ctx, query, userID, stationID).Scan(&saved); err != nil {
		return false, err
	}
	return saved, nil
}

// SaveStation adds stationID to the saved list; saving twice is a no-op.
func (r *UserRepository) SaveStation(ctx context.Context, userID, stationID string) error {
	const query = `
		INSERT INTO user_saved_stations (user_id, station_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, station_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, stationID)
	return err
}

// UnsaveStation removes stationID from the saved list.
func (r *UserRepository) UnsaveStation(ctx context.Context, userID, stationID string) error {
	const query = `DELETE FROM user_saved_stations WHERE user_id = $1 AND station_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, stationID)
	return err
}

// SavedStationIDs returns the saved station ids in the order they were saved.
func (r *UserRepository) SavedStationIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT station_id FROM user_saved_stations WHERE user_id = $1 ORDER BY created_at, station_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SavedStations returns the full station records saved by userID.
func (r *UserRepository) SavedStations(ctx context.Context, userID string) ([]models.Station, error) {
	query := `
		SELECT ` + stationColumns("s") + `
		FROM user_saved_stations us
		JOIN stations s ON s.id = us.station_id
		WHERE us.user_id = $1
		ORDER BY us.created_at, s.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectStations(rows)
}
