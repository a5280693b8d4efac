package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"city-server/middleware"
	"city-server/models"
	"city-server/utils/errors"

	"github.com/gorilla/mux"
)

// BikeProvider is the slice of BikeService the bike endpoints need.
type BikeProvider interface {
	List(ctx context.Context, minBikes, limit int) ([]models.BikeStation, error)
	Get(ctx context.Context, stationID string) (*models.BikeStation, error)
	Upsert(ctx context.Context, payload *models.BikeStationCreate) (*models.BikeStation, error)
	History(ctx context.Context, stationID string, limit int) ([]models.BikeStationHistory, error)
}

type BikeHandler struct {
	bikeService BikeProvider
}

func NewBikeHandler(bikeService BikeProvider) *BikeHandler {
	return &BikeHandler{bikeService: bikeService}
}

// ListStations handles GET /api/bikes/stations with optional min_bikes and
// limit.
func (h *BikeHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	minBikes, ok := optionalIntParam(w, r, "min_bikes", 0)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	stations, err := h.bikeService.List(r.Context(), minBikes, limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// GetStation handles GET /api/bikes/stations/{id}.
func (h *BikeHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	station, err := h.bikeService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// CreateStation handles POST /api/bikes/stations. Creates or overwrites the
// snapshot for the payload's station_id.
func (h *BikeHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var payload models.BikeStationCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, errors.NewAPIError("INVALID_INPUT", "Request body must be valid JSON", http.StatusBadRequest))
		return
	}

	station, err := h.bikeService.Upsert(r.Context(), &payload)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// GetStationHistory handles GET /api/bikes/stations/{id}/history.
func (h *BikeHandler) GetStationHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := optionalIntParam(w, r, "limit", 10)
	if !ok {
		return
	}

	history, err := h.bikeService.History(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// optionalIntParam parses a non-negative integer query parameter, writing a
// client error and returning ok=false when the value is malformed.
func optionalIntParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		middleware.WriteError(w, errors.NewAPIError("INVALID_INPUT", name+" must be a non-negative integer", http.StatusBadRequest))
		return 0, false
	}
	return parsed, true
}
