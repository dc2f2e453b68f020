package models

import "time"

// StationStatus is the operational state of a charging station.
type StationStatus string

const (
	StationStatusActive      StationStatus = "Active"
	StationStatusMaintenance StationStatus = "Maintenance"
	StationStatusInactive    StationStatus = "Inactive"
)

// Valid reports whether s is one of the known statuses.
func (s StationStatus) Valid() bool {
	switch s {
	case StationStatusActive, StationStatusMaintenance, StationStatusInactive:
		return true
	}
	return false
}

// Location holds station geocoordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Station is a charging station owned by a user.
type Station struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Address       string        `db:"address" json:"address"`
	Location      Location      `json:"location"`
	Status        StationStatus `db:"status" json:"status"`
	PowerOutput   float64       `db:"power_output" json:"powerOutput"`
	ConnectorType string        `db:"connector_type" json:"connectorType"`
	PricePerKWh   float64       `db:"price_per_kwh" json:"pricePerKWh"`
	Amenities     []string      `db:"amenities" json:"amenities"`
	AverageRating float64       `db:"average_rating" json:"averageRating"`
	OwnerID       string        `db:"owner_id" json:"owner"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// StationFilters narrows the public station list. Zero values mean "no constraint".
type StationFilters struct {
	Status        string   `json:"status,omitempty"`
	ConnectorType string   `json:"connectorType,omitempty"`
	MinPower      *float64 `json:"minPower,omitempty"`
	MaxPower      *float64 `json:"maxPower,omitempty"`
	Search        string   `json:"search,omitempty"`
}

// StationPatch carries the fields of a partial station update; nil fields are left untouched.
type StationPatch struct {
	Name          *string
	Address       *string
	Latitude      *float64
	Longitude     *float64
	Status        *StationStatus
	PowerOutput   *float64
	ConnectorType *string
	PricePerKWh   *float64
	Amenities     []string
	SetAmenities  bool
}

// Apply copies the non-nil patch fields onto s.
func (p StationPatch) Apply(s *Station) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Latitude != nil {
		s.Location.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		s.Location.Longitude = *p.Longitude
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.PowerOutput != nil {
		s.PowerOutput = *p.PowerOutput
	}
	if p.ConnectorType != nil {
		s.ConnectorType = *p.ConnectorType
	}
	if p.PricePerKWh != nil {
		s.PricePerKWh = *p.PricePerKWh
	}
	if p.SetAmenities {
		s.Amenities = append([]string(nil), p.Amenities...)
	}
}
