package models

// EV is a read-only vehicle reference entry used by the charging estimator.
type EV struct {
	ID              string   `db:"id" json:"id"`
	Name            string   `db:"name" json:"name"`
	Manufacturer    string   `db:"manufacturer" json:"manufacturer"`
	BatteryCapacity float64  `db:"battery_capacity" json:"batteryCapacity"`
	RangeKm         *float64 `db:"range_km" json:"range,omitempty"`
	ChargingPort    *string  `db:"charging_port" json:"chargingPort,omitempty"`
}
