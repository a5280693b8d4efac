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

// POIProvider is the slice of POIService the city endpoints need; tests
// substitute a fake.
type POIProvider interface {
	List(ctx context.Context, poiType string, limit int) ([]models.POI, error)
	Get(ctx context.Context, id int64) (*models.POI, error)
	Create(ctx context.Context, payload *models.POICreate) (*models.POI, error)
	Search(ctx context.Context, q, field string) ([]models.POI, error)
}

type POIHandler struct {
	poiService POIProvider
}

func NewPOIHandler(poiService POIProvider) *POIHandler {
	return &POIHandler{poiService: poiService}
}

// ListPOIs handles GET /api/city/pois with optional poi_type and limit.
func (h *POIHandler) ListPOIs(w http.ResponseWriter, r *http.Request) {
	poiType := r.URL.Query().Get("poi_type")
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	pois, err := h.poiService.List(r.Context(), poiType, limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pois)
}

// GetPOI handles GET /api/city/pois/{id}.
func (h *POIHandler) GetPOI(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		middleware.WriteError(w, errors.NewAPIError("INVALID_INPUT", "POI id must be an integer", http.StatusBadRequest))
		return
	}

	poi, svcErr := h.poiService.Get(r.Context(), id)
	if svcErr != nil {
		middleware.WriteError(w, svcErr)
		return
	}
	writeJSON(w, http.StatusOK, poi)
}

// CreatePOI handles POST /api/city/pois, returning 201 with the stored
// entity or 422 when a field constraint fails.
func (h *POIHandler) CreatePOI(w http.ResponseWriter, r *http.Request) {
	var payload models.POICreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, errors.NewAPIError("INVALID_INPUT", "Request body must be valid JSON", http.StatusBadRequest))
		return
	}

	poi, err := h.poiService.Create(r.Context(), &payload)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poi)
}

// SearchPOIs handles GET /api/city/search with q and search_field.
func (h *POIHandler) SearchPOIs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	field := r.URL.Query().Get("search_field")
	if field == "" {
		field = "name"
	}

	pois, err := h.poiService.Search(r.Context(), q, field)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pois)
}

// limitParam parses the limit query parameter. Absent means "use the service
// default" (0); a non-integer is a malformed request, while an explicit value
// below 1 fails validation — upper bounds are enforced by the services, under
// the same validation code.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		middleware.WriteError(w, errors.NewAPIError("INVALID_INPUT", "limit must be an integer", http.StatusBadRequest))
		return 0, false
	}
	if parsed < 1 {
		middleware.WriteError(w, errors.NewValidationError("limit must be at least 1"))
		return 0, false
	}
	return parsed, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
