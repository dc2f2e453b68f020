package handlers

import (
	"context"
	"net/http"

	"chargehub/backend/services/station-service/internal/models"
)

// EVService lists the EV reference set.
type EVService interface {
	List(ctx context.Context) ([]models.EV, error)
}

// NewEVListHandler handles GET /api/car/evs.
func NewEVListHandler(evs EVService) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		list, err := evs.List(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, list)
		return nil
	}
}
