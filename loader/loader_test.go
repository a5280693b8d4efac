package loader

import (
	"strings"
	"testing"
)

func TestParseCSVReadsSeedRows(t *testing.T) {
	csv := `name,type,latitude,longitude,description
Kiel Fjord,nature,54.36,10.15,The fjord
Rathaus,landmark,54.3208,10.1344,
Stadtmuseum,museum,54.3244,10.1377,City history museum`

	pois, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pois) != 3 {
		t.Fatalf("expected 3 POIs, got %d", len(pois))
	}
	if pois[0].Name != "Kiel Fjord" || pois[0].Type != "nature" {
		t.Errorf("unexpected first row: %+v", pois[0])
	}
	if pois[0].Latitude != 54.36 || pois[0].Longitude != 10.15 {
		t.Errorf("coordinates not parsed: %+v", pois[0])
	}
	if pois[1].Description != "" {
		t.Errorf("empty description should stay empty, got %q", pois[1].Description)
	}
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	csv := `name,type,latitude,longitude,description
Good Place,park,54.33,10.12,
,park,54.33,10.12,missing name
Too Far North,park,120.0,10.12,latitude out of range
Bad Coords,park,abc,10.12,unparseable`

	pois, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pois) != 1 {
		t.Fatalf("expected only the valid row, got %d", len(pois))
	}
	if pois[0].Name != "Good Place" {
		t.Errorf("wrong surviving row: %+v", pois[0])
	}
}

func TestParseCSVRequiresDataRows(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("name,type,latitude,longitude\n")); err == nil {
		t.Error("expected error for header-only file")
	}
}
