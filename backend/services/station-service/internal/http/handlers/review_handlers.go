package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/models"
)

// ReviewService is the review logic used by ReviewHandlers.
type ReviewService interface {
	Create(ctx context.Context, userID, stationID string, rating int, comment string) (*models.Review, error)
	ListForStation(ctx context.Context, stationID string) ([]models.ReviewWithAuthor, error)
}

// ReviewHandlers serves /api/review.
type ReviewHandlers struct {
	reviews ReviewService
	logger  *zap.Logger
}

// NewReviewHandlers returns handler.
func NewReviewHandlers(reviews ReviewService, logger *zap.Logger) *ReviewHandlers {
	return &ReviewHandlers{reviews: reviews, logger: logger}
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Create handles POST /api/review/{stationId}.
func (h *ReviewHandlers) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(r.Context(), userID, r.PathValue("stationId"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"review": review})
	return nil
}

// List handles GET /api/review/{stationId}.
func (h *ReviewHandlers) List(w http.ResponseWriter, r *http.Request) error {
	reviews, err := h.reviews.ListForStation(r.Context(), r.PathValue("stationId"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, reviews)
	return nil
}
