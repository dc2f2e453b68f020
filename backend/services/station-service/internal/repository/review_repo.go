package repository

import (
	"context"
	"database/sql"

	"chargehub/backend/services/station-service/internal/models"
)

// ReviewRepository persists station reviews.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository returns repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A second review by the same user for the same station yields ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	const query = `
		INSERT INTO reviews (id, user_id, station_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		review.ID,
		review.UserID,
		review.StationID,
		review.Rating,
		review.Comment,
	).Scan(&review.CreatedAt)
	return mapWriteError(err)
}

// RatingsForStation returns every rating currently attached to stationID.
func (r *ReviewRepository) RatingsForStation(ctx context.Context, stationID string) ([]int, error) {
	const query = `SELECT rating FROM reviews WHERE station_id = $1`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

// ListForStation returns reviews with reviewer names, newest first.
func (r *ReviewRepository) ListForStation(ctx context.Context, stationID string) ([]models.ReviewWithAuthor, error) {
	const query = `
		SELECT rv.id, rv.user_id, rv.station_id, rv.rating, rv.comment, rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.station_id = $1
		ORDER BY rv.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.ReviewWithAuthor, 0)
	for rows.Next() {
		var rv models.ReviewWithAuthor
		if err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.StationID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UserName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
