package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/service"
)

// StationService is the station logic used by StationHandlers.
type StationService interface {
	List(ctx context.Context, filters models.StationFilters) ([]models.Station, error)
	ListMine(ctx context.Context, userID string) ([]models.Station, error)
	Get(ctx context.Context, id string) (*models.Station, error)
	Create(ctx context.Context, ownerID string, in service.StationInput) (*models.Station, error)
	Update(ctx context.Context, ownerID, id string, patch models.StationPatch) (*models.Station, error)
	Delete(ctx context.Context, ownerID, id string) error
	ToggleSave(ctx context.Context, userID, stationID string) (*service.SaveResult, error)
	ListSaved(ctx context.Context, userID string) ([]models.Station, error)
	Estimate(ctx context.Context, in service.EstimateInput) (*service.Estimate, error)
}

// StationHandlers serves /api/station.
type StationHandlers struct {
	stations StationService
	logger   *zap.Logger
}

// NewStationHandlers returns handler.
func NewStationHandlers(stations StationService, logger *zap.Logger) *StationHandlers {
	return &StationHandlers{stations: stations, logger: logger}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type createStationRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Address       string          `json:"address" validate:"required,max=500"`
	Location      locationRequest `json:"location"`
	Status        string          `json:"status" validate:"omitempty,oneof=Active Maintenance Inactive"`
	PowerOutput   *float64        `json:"powerOutput" validate:"required,gte=0"`
	ConnectorType string          `json:"connectorType" validate:"required"`
	PricePerKWh   *float64        `json:"pricePerKWh" validate:"required,gte=0"`
	Amenities     []string        `json:"amenities" validate:"omitempty,dive,required"`
}

type locationPatch struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type updateStationRequest struct {
	Name          *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Address       *string        `json:"address" validate:"omitempty,min=1,max=500"`
	Location      *locationPatch `json:"location"`
	Status        *string        `json:"status" validate:"omitempty,oneof=Active Maintenance Inactive"`
	PowerOutput   *float64       `json:"powerOutput" validate:"omitempty,gte=0"`
	ConnectorType *string        `json:"connectorType" validate:"omitempty,min=1"`
	PricePerKWh   *float64       `json:"pricePerKWh" validate:"omitempty,gte=0"`
	Amenities     *[]string      `json:"amenities"`
}

func (req updateStationRequest) patch() models.StationPatch {
	p := models.StationPatch{
		Name:          req.Name,
		Address:       req.Address,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
		PricePerKWh:   req.PricePerKWh,
	}
	if req.Location != nil {
		p.Latitude = req.Location.Latitude
		p.Longitude = req.Location.Longitude
	}
	if req.Status != nil {
		status := models.StationStatus(*req.Status)
		p.Status = &status
	}
	if req.Amenities != nil {
		p.Amenities = *req.Amenities
		p.SetAmenities = true
	}
	return p
}

type estimateRequest struct {
	EVID         string   `json:"evId" validate:"required"`
	StationPower *float64 `json:"stationPower" validate:"required"`
	PricePerKWh  *float64 `json:"pricePerKWh" validate:"required,gte=0"`
	ChargeFrom   *float64 `json:"chargeFrom" validate:"required,gte=0,lte=100"`
	ChargeTo     *float64 `json:"chargeTo" validate:"required,gte=0,lte=100"`
}

// List handles GET /api/station.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) error {
	filters, err := parseFilters(r)
	if err != nil {
		return err
	}
	stations, err := h.stations.List(r.Context(), filters)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": nonNil(stations)})
	return nil
}

// Mine handles GET /api/station/me.
func (h *StationHandlers) Mine(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	stations, err := h.stations.ListMine(r.Context(), userID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": nonNil(stations)})
	return nil
}

// Get handles GET /api/station/{id}.
func (h *StationHandlers) Get(w http.ResponseWriter, r *http.Request) error {
	station, err := h.stations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station": station})
	return nil
}

// Create handles POST /api/station/create.
func (h *StationHandlers) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	var req createStationRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	station, err := h.stations.Create(r.Context(), userID, service.StationInput{
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		Latitude:      *req.Location.Latitude,
		Longitude:     *req.Location.Longitude,
		Status:        models.StationStatus(req.Status),
		PowerOutput:   *req.PowerOutput,
		ConnectorType: strings.TrimSpace(req.ConnectorType),
		PricePerKWh:   *req.PricePerKWh,
		Amenities:     req.Amenities,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"station": station})
	return nil
}

// Update handles PUT /api/station/update/{id}.
func (h *StationHandlers) Update(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	var req updateStationRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	station, err := h.stations.Update(r.Context(), userID, r.PathValue("id"), req.patch())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station": station})
	return nil
}

// Delete handles DELETE /api/station/delete/{id}.
func (h *StationHandlers) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	if err := h.stations.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Station deleted"})
	return nil
}

// ToggleSave handles POST /api/station/save/{id}.
func (h *StationHandlers) ToggleSave(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	result, err := h.stations.ToggleSave(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		return err
	}
	if result.SavedStations == nil {
		result.SavedStations = []string{}
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

// Saved handles GET /api/station/saved-stations.
func (h *StationHandlers) Saved(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	stations, err := h.stations.ListSaved(r.Context(), userID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"savedStations": nonNil(stations)})
	return nil
}

// Estimate handles POST /api/station/estimate.
func (h *StationHandlers) Estimate(w http.ResponseWriter, r *http.Request) error {
	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	estimate, err := h.stations.Estimate(r.Context(), service.EstimateInput{
		EVID:         req.EVID,
		StationPower: *req.StationPower,
		PricePerKWh:  *req.PricePerKWh,
		ChargeFrom:   *req.ChargeFrom,
		ChargeTo:     *req.ChargeTo,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, estimate)
	return nil
}

func parseFilters(r *http.Request) (models.StationFilters, error) {
	q := r.URL.Query()
	filters := models.StationFilters{
		Status:        strings.TrimSpace(q.Get("status")),
		ConnectorType: strings.TrimSpace(q.Get("connectorType")),
		Search:        strings.TrimSpace(q.Get("search")),
	}
	for name, dst := range map[string]**float64{"minPower": &filters.MinPower, "maxPower": &filters.MaxPower} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, apperror.BadRequest(name + " must be a number")
		}
		*dst = &v
	}
	return filters, nil
}

func nonNil(stations []models.Station) []models.Station {
	if stations == nil {
		return []models.Station{}
	}
	return stations
}
