package models

import (
	"time"

	"city-server/utils/errors"
)

// BikeStation is one availability snapshot in MongoDB, keyed by the external
// provider's station id. Each sync overwrites the previous snapshot, so every
// field must appear in the stored document — a nil capacity is written as
// null rather than omitted, otherwise an upsert could leave a stale capacity
// from an earlier snapshot in place.
type BikeStation struct {
	StationID      string    `json:"station_id" bson:"station_id"`
	Name           string    `json:"name" bson:"name"`
	Latitude       float64   `json:"latitude" bson:"latitude"`
	Longitude      float64   `json:"longitude" bson:"longitude"`
	BikesAvailable int       `json:"bikes_available" bson:"bikes_available"`
	Capacity       *int      `json:"capacity,omitempty" bson:"capacity"`
	LastUpdated    time.Time `json:"last_updated" bson:"last_updated"`
}

// BikeStationCreate is the upsert payload, from the POST endpoint or the
// poller. LastUpdated is set server-side at write time.
type BikeStationCreate struct {
	StationID      string  `json:"station_id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	BikesAvailable int     `json:"bikes_available"`
	Capacity       *int    `json:"capacity,omitempty"`
}

// Validate checks field constraints before anything touches the store.
func (s *BikeStationCreate) Validate() *errors.APIError {
	if s.StationID == "" {
		return errors.NewValidationError("station_id must not be empty")
	}
	if s.Name == "" {
		return errors.NewValidationError("name must not be empty")
	}
	if len(s.Name) > 200 {
		return errors.NewValidationError("name must be at most 200 characters")
	}
	if err := validateCoordinates(s.Latitude, s.Longitude); err != nil {
		return err
	}
	if s.BikesAvailable < 0 {
		return errors.NewValidationError("bikes_available must not be negative")
	}
	if s.Capacity != nil && *s.Capacity < 0 {
		return errors.NewValidationError("capacity must not be negative")
	}
	return nil
}

// BikeStationHistory is one historical availability record for a station.
type BikeStationHistory struct {
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	BikesAvailable int       `json:"bikes_available" bson:"bikes_available"`
	Capacity       *int      `json:"capacity,omitempty" bson:"capacity,omitempty"`
}
