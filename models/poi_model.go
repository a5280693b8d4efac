package models

import (
	"fmt"

	"city-server/utils/errors"
)

// POI is a point of interest stored in MySQL. Records are immutable once
// created; the id is assigned by the database.
type POI struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Type        string  `json:"type" db:"type"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Description string  `json:"description,omitempty" db:"description"`
}

// POICreate is the POST payload for a new POI.
type POICreate struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description,omitempty"`
}

// Validate checks field constraints before anything touches the store.
func (p *POICreate) Validate() *errors.APIError {
	if p.Name == "" {
		return errors.NewValidationError("name must not be empty")
	}
	if len(p.Name) > 200 {
		return errors.NewValidationError("name must be at most 200 characters")
	}
	if p.Type == "" {
		return errors.NewValidationError("type must not be empty")
	}
	if len(p.Type) > 50 {
		return errors.NewValidationError("type must be at most 50 characters")
	}
	if err := validateCoordinates(p.Latitude, p.Longitude); err != nil {
		return err
	}
	if len(p.Description) > 1000 {
		return errors.NewValidationError("description must be at most 1000 characters")
	}
	return nil
}

func validateCoordinates(lat, lon float64) *errors.APIError {
	if lat < -90 || lat > 90 {
		return errors.NewValidationError(fmt.Sprintf("latitude %v outside [-90, 90]", lat))
	}
	if lon < -180 || lon > 180 {
		return errors.NewValidationError(fmt.Sprintf("longitude %v outside [-180, 180]", lon))
	}
	return nil
}
