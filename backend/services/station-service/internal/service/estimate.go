package service

import (
	"context"
	"errors"
	"math"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/repository"
)

// EstimateInput describes a charging session to price.
type EstimateInput struct {
	EVID         string
	StationPower float64
	PricePerKWh  float64
	ChargeFrom   float64
	ChargeTo     float64
}

// Estimate is the projected energy, cost and duration of a charge.
type Estimate struct {
	EV           models.EV `json:"ev"`
	EnergyNeeded float64   `json:"energyNeeded"`
	Cost         float64   `json:"cost"`
	Time         int       `json:"time"`
}

// Estimator computes charging estimates. It never writes.
type Estimator struct {
	evs EVRepository
}

// NewEstimator builds Estimator.
func NewEstimator(evs EVRepository) *Estimator {
	return &Estimator{evs: evs}
}

// Estimate resolves the EV and computes energy in kWh, cost and time in minutes.
func (e *Estimator) Estimate(ctx context.Context, in EstimateInput) (*Estimate, error) {
	if in.StationPower <= 0 {
		return nil, apperror.BadRequest("Station power must be greater than 0")
	}
	if in.PricePerKWh < 0 {
		return nil, apperror.BadRequest("Price per kWh must not be negative")
	}
	if !percent(in.ChargeFrom) || !percent(in.ChargeTo) {
		return nil, apperror.BadRequest("Charge levels must be between 0 and 100")
	}
	if in.ChargeTo < in.ChargeFrom {
		return nil, apperror.BadRequest("Charge target must not be lower than the starting charge")
	}

	ev, err := e.evs.GetByID(ctx, in.EVID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.BadRequest("EV not found")
		}
		return nil, apperror.Internal(err)
	}

	energy := (in.ChargeTo - in.ChargeFrom) / 100 * ev.BatteryCapacity
	cost := energy * in.PricePerKWh
	minutes := energy / in.StationPower * 60

	return &Estimate{
		EV:           *ev,
		EnergyNeeded: round(energy, 2),
		Cost:         round(cost, 2),
		Time:         int(math.Round(minutes)),
	}, nil
}

func percent(v float64) bool {
	return v >= 0 && v <= 100
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
