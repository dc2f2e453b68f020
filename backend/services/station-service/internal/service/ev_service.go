package service

import (
	"context"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/models"
)

// EVService exposes the EV reference set.
type EVService struct {
	evs EVRepository
}

// NewEVService builds EVService.
func NewEVService(evs EVRepository) *EVService {
	return &EVService{evs: evs}
}

// List returns every known EV.
func (s *EVService) List(ctx context.Context) ([]models.EV, error) {
	evs, err := s.evs.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if evs == nil {
		evs = []models.EV{}
	}
	return evs, nil
}
