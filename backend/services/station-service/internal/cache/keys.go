package cache

import (
	"net/url"
	"strconv"
	"strings"

	"chargehub/backend/services/station-service/internal/models"
)

const (
	stationsPrefix = "stations:"
	// StationsIndex is the redis set that registers every filtered station-list key.
	StationsIndex = "stations:index"
)

// StationsKey builds a deterministic key for a filtered station list.
// Filters are encoded as sorted, percent-escaped query pairs, so equal filters
// share a key and distinct filters never do.
func StationsKey(f models.StationFilters) string {
	values := url.Values{}
	add := func(name, value string) {
		if value != "" {
			values.Set(name, value)
		}
	}
	add("status", strings.TrimSpace(f.Status))
	add("connectorType", strings.TrimSpace(f.ConnectorType))
	add("search", strings.ToLower(strings.TrimSpace(f.Search)))
	if f.MinPower != nil {
		add("minPower", strconv.FormatFloat(*f.MinPower, 'f', -1, 64))
	}
	if f.MaxPower != nil {
		add("maxPower", strconv.FormatFloat(*f.MaxPower, 'f', -1, 64))
	}
	if len(values) == 0 {
		return stationsPrefix + "all"
	}
	return stationsPrefix + values.Encode()
}

// MyStationsKey is the key for the stations owned by userID.
func MyStationsKey(userID string) string {
	return "myStations:" + userID
}

// StationKey is the key for a single station.
func StationKey(id string) string {
	return "station:" + id
}

// SavedStationsKey is the key for a user's saved-station list.
func SavedStationsKey(userID string) string {
	return "savedStations:" + userID
}
