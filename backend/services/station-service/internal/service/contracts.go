package service

import (
	"context"

	"chargehub/backend/services/station-service/internal/cache"
	"chargehub/backend/services/station-service/internal/federated"
	"chargehub/backend/services/station-service/internal/live"
	"chargehub/backend/services/station-service/internal/models"
)

// StationRepository defines station storage used by the services.
type StationRepository interface {
	Create(ctx context.Context, s *models.Station) error
	GetByID(ctx context.Context, id string) (*models.Station, error)
	List(ctx context.Context, f models.StationFilters) ([]models.Station, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Station, error)
	Update(ctx context.Context, s *models.Station) error
	Delete(ctx context.Context, id, ownerID string) error
	UpdateAverageRating(ctx context.Context, id string, rating float64) error
}

// UserRepository defines account and saved-station storage.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	LinkFirebase(ctx context.Context, userID, uid string) error
	IsStationSaved(ctx context.Context, userID, stationID string) (bool, error)
	SaveStation(ctx context.Context, userID, stationID string) error
	UnsaveStation(ctx context.Context, userID, stationID string) error
	SavedStationIDs(ctx context.Context, userID string) ([]string, error)
	SavedStations(ctx context.Context, userID string) ([]models.Station, error)
}

// ReviewRepository defines review storage.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	RatingsForStation(ctx context.Context, stationID string) ([]int, error)
	ListForStation(ctx context.Context, stationID string) ([]models.ReviewWithAuthor, error)
}

// ReportRepository defines report storage.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListForStation(ctx context.Context, stationID string) ([]models.Report, error)
}

// EVRepository defines access to the EV reference set.
type EVRepository interface {
	List(ctx context.Context) ([]models.EV, error)
	GetByID(ctx context.Context, id string) (*models.EV, error)
}

// Cache is the read-result cache consulted before the repositories.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	SetIndexed(ctx context.Context, index, key string, value any) error
	Invalidate(ctx context.Context, m cache.Mutation, t cache.Target) error
}

// Publisher receives station change events.
type Publisher interface {
	Publish(event live.Event)
}

// IdentityVerifier checks federated identity tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*federated.Identity, error)
}

var (
	_ Cache            = (*cache.Store)(nil)
	_ Publisher        = (*live.Hub)(nil)
	_ IdentityVerifier = (*federated.FirebaseVerifier)(nil)
)
