package models

import (
	"testing"
)

func TestPOICreateValidation(t *testing.T) {
	valid := POICreate{Name: "Test Location", Type: "test", Latitude: 54.32, Longitude: 10.13}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	outOfRange := valid
	outOfRange.Latitude = 120
	if err := outOfRange.Validate(); err == nil {
		t.Error("latitude 120 must be rejected")
	} else if err.Status != 422 {
		t.Errorf("expected 422, got %d", err.Status)
	}

	westOfEverything := valid
	westOfEverything.Longitude = -200
	if err := westOfEverything.Validate(); err == nil {
		t.Error("longitude -200 must be rejected")
	}

	nameless := valid
	nameless.Name = ""
	if err := nameless.Validate(); err == nil {
		t.Error("empty name must be rejected")
	}
}

func TestBikeStationCreateValidation(t *testing.T) {
	capacity := 10
	valid := BikeStationCreate{StationID: "KIEL001", Name: "Hauptbahnhof",
		Latitude: 54.31, Longitude: 10.13, BikesAvailable: 5, Capacity: &capacity}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	negative := valid
	negative.BikesAvailable = -1
	if err := negative.Validate(); err == nil {
		t.Error("negative bikes_available must be rejected")
	}

	negativeCapacity := -1
	badCapacity := valid
	badCapacity.Capacity = &negativeCapacity
	if err := badCapacity.Validate(); err == nil {
		t.Error("negative capacity must be rejected")
	}

	noKey := valid
	noKey.StationID = ""
	if err := noKey.Validate(); err == nil {
		t.Error("empty station_id must be rejected")
	}
}
