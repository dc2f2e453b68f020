package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/cache"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/repository"
)

// ReviewService records station reviews and keeps each station's average rating current.
type ReviewService struct {
	reviews  ReviewRepository
	stations StationRepository
	cache    Cache
	logger   *zap.Logger
}

// NewReviewService builds ReviewService.
func NewReviewService(reviews ReviewRepository, stations StationRepository, cache Cache, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, stations: stations, cache: cache, logger: logger}
}

// Create stores the user's review of stationID and recomputes the station's average
// from every stored rating. The recompute is a plain read then write.
func (s *ReviewService) Create(ctx context.Context, userID, stationID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.BadRequest("Rating must be between 1 and 5")
	}
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, stationError(err)
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		StationID: stationID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("You have already reviewed this station")
		}
		return nil, apperror.Internal(err)
	}

	ratings, err := s.reviews.RatingsForStation(ctx, stationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	avg := averageRating(ratings)
	if err := s.stations.UpdateAverageRating(ctx, stationID, avg); err != nil {
		return nil, stationError(err)
	}

	if err := s.cache.Invalidate(ctx, cache.ReviewCreated, cache.Target{StationID: stationID, UserID: userID}); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Stringer("mutation", cache.ReviewCreated), zap.String("station_id", stationID), zap.Error(err))
	}
	s.logger.Info("review created",
		zap.String("station_id", stationID),
		zap.Int("reviews", len(ratings)),
		zap.Float64("average_rating", avg),
	)
	return review, nil
}

// ListForStation returns the station's reviews, newest first.
func (s *ReviewService) ListForStation(ctx context.Context, stationID string) ([]models.ReviewWithAuthor, error) {
	reviews, err := s.reviews.ListForStation(ctx, stationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if reviews == nil {
		reviews = []models.ReviewWithAuthor{}
	}
	return reviews, nil
}

// averageRating is the mean of ratings rounded to one decimal, or 0 without ratings.
func averageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return round(float64(sum)/float64(len(ratings)), 1)
}
