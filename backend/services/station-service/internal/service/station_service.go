package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/cache"
	"chargehub/backend/services/station-service/internal/live"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/repository"
)

const (
	msgStationNotFound = "Station not found"
	msgStationSaved    = "Station saved"
	msgStationRemoved  = "Station removed"
)

// StationInput carries the fields of a new station.
type StationInput struct {
	Name          string
	Address       string
	Latitude      float64
	Longitude     float64
	Status        models.StationStatus
	PowerOutput   float64
	ConnectorType string
	PricePerKWh   float64
	Amenities     []string
}

// SaveResult is the outcome of a save toggle.
type SaveResult struct {
	Message       string   `json:"message"`
	SavedStations []string `json:"savedStations"`
}

// StationService serves station reads through the cache and invalidates it on writes.
type StationService struct {
	stations  StationRepository
	users     UserRepository
	cache     Cache
	estimator *Estimator
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewStationService builds StationService. publisher may be nil.
func NewStationService(
	stations StationRepository,
	users UserRepository,
	cache Cache,
	estimator *Estimator,
	publisher Publisher,
	logger *zap.Logger,
) *StationService {
	return &StationService{
		stations:  stations,
		users:     users,
		cache:     cache,
		estimator: estimator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns stations matching filters.
func (s *StationService) List(ctx context.Context, filters models.StationFilters) ([]models.Station, error) {
	stations, err := readThrough(ctx, s.cache, s.logger, cache.StationsIndex, cache.StationsKey(filters),
		func(ctx context.Context) ([]models.Station, error) {
			return s.stations.List(ctx, filters)
		})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stations, nil
}

// ListMine returns the stations owned by userID.
func (s *StationService) ListMine(ctx context.Context, userID string) ([]models.Station, error) {
	stations, err := readThrough(ctx, s.cache, s.logger, "", cache.MyStationsKey(userID),
		func(ctx context.Context) ([]models.Station, error) {
			return s.stations.ListByOwner(ctx, userID)
		})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stations, nil
}

// Get returns a single station. Absent stations are not cached.
func (s *StationService) Get(ctx context.Context, id string) (*models.Station, error) {
	station, err := readThrough(ctx, s.cache, s.logger, "", cache.StationKey(id),
		func(ctx context.Context) (*models.Station, error) {
			return s.stations.GetByID(ctx, id)
		})
	if err != nil {
		return nil, stationError(err)
	}
	return station, nil
}

// Create stores a station owned by ownerID.
func (s *StationService) Create(ctx context.Context, ownerID string, in StationInput) (*models.Station, error) {
	status := in.Status
	if status == "" {
		status = models.StationStatusActive
	}
	if !status.Valid() {
		return nil, apperror.BadRequest("Invalid station status")
	}

	station := &models.Station{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Address:       in.Address,
		Location:      models.Location{Latitude: in.Latitude, Longitude: in.Longitude},
		Status:        status,
		PowerOutput:   in.PowerOutput,
		ConnectorType: in.ConnectorType,
		PricePerKWh:   in.PricePerKWh,
		Amenities:     append([]string{}, in.Amenities...),
		OwnerID:       ownerID,
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidate(ctx, cache.StationCreated, cache.Target{StationID: station.ID, OwnerID: ownerID})
	s.publish(live.EventStationCreated, station.ID, station)
	s.logger.Info("station created", zap.String("station_id", station.ID), zap.String("owner_id", ownerID))
	return station, nil
}

// Update applies patch to a station owned by ownerID. Stations owned by someone else are reported as not found.
func (s *StationService) Update(ctx context.Context, ownerID, id string, patch models.StationPatch) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return nil, stationError(err)
	}
	if station.OwnerID != ownerID {
		return nil, apperror.NotFound(msgStationNotFound)
	}

	patch.Apply(station)
	if !station.Status.Valid() {
		return nil, apperror.BadRequest("Invalid station status")
	}
	if err := s.stations.Update(ctx, station); err != nil {
		return nil, stationError(err)
	}

	s.invalidate(ctx, cache.StationUpdated, cache.Target{StationID: id, OwnerID: ownerID})
	s.publish(live.EventStationUpdated, id, station)
	s.logger.Info("station updated", zap.String("station_id", id))
	return station, nil
}

// Delete removes a station owned by ownerID.
func (s *StationService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.stations.Delete(ctx, id, ownerID); err != nil {
		return stationError(err)
	}

	s.invalidate(ctx, cache.StationDeleted, cache.Target{StationID: id, OwnerID: ownerID})
	s.publish(live.EventStationDeleted, id, nil)
	s.logger.Info("station deleted", zap.String("station_id", id))
	return nil
}

// ToggleSave adds the station to the user's saved list, or removes it if already present.
// Presence is always read from the database.
func (s *StationService) ToggleSave(ctx context.Context, userID, stationID string) (*SaveResult, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, stationError(err)
	}

	saved, err := s.users.IsStationSaved(ctx, userID, stationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	message := msgStationSaved
	if saved {
		message = msgStationRemoved
		err = s.users.UnsaveStation(ctx, userID, stationID)
	} else {
		err = s.users.SaveStation(ctx, userID, stationID)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids, err := s.users.SavedStationIDs(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidate(ctx, cache.StationSaveToggled, cache.Target{StationID: stationID, UserID: userID})
	return &SaveResult{Message: message, SavedStations: ids}, nil
}

// ListSaved returns the full records of the user's saved stations.
func (s *StationService) ListSaved(ctx context.Context, userID string) ([]models.Station, error) {
	stations, err := readThrough(ctx, s.cache, s.logger, "", cache.SavedStationsKey(userID),
		func(ctx context.Context) ([]models.Station, error) {
			return s.users.SavedStations(ctx, userID)
		})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stations, nil
}

// Estimate prices a charging session.
func (s *StationService) Estimate(ctx context.Context, in EstimateInput) (*Estimate, error) {
	return s.estimator.Estimate(ctx, in)
}

func (s *StationService) invalidate(ctx context.Context, m cache.Mutation, t cache.Target) {
	if err := s.cache.Invalidate(ctx, m, t); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Stringer("mutation", m), zap.String("station_id", t.StationID), zap.Error(err))
	}
}

func (s *StationService) publish(eventType, stationID string, station *models.Station) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(live.Event{Type: eventType, StationID: stationID, Station: station, At: s.now().UTC()})
}

func stationError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgStationNotFound)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}
