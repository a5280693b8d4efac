package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"city-server/handlers"
	"city-server/models"
	"city-server/utils/errors"

	"github.com/gorilla/mux"
)

// fakePOIProvider implements handlers.POIProvider with injectable behavior,
// in the style of the per-method mock funcs used elsewhere in this codebase's
// dependencies.
type fakePOIProvider struct {
	listFunc   func(ctx context.Context, poiType string, limit int) ([]models.POI, error)
	getFunc    func(ctx context.Context, id int64) (*models.POI, error)
	createFunc func(ctx context.Context, payload *models.POICreate) (*models.POI, error)
	searchFunc func(ctx context.Context, q, field string) ([]models.POI, error)
}

func (f *fakePOIProvider) List(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
	return f.listFunc(ctx, poiType, limit)
}
func (f *fakePOIProvider) Get(ctx context.Context, id int64) (*models.POI, error) {
	return f.getFunc(ctx, id)
}
func (f *fakePOIProvider) Create(ctx context.Context, payload *models.POICreate) (*models.POI, error) {
	return f.createFunc(ctx, payload)
}
func (f *fakePOIProvider) Search(ctx context.Context, q, field string) ([]models.POI, error) {
	return f.searchFunc(ctx, q, field)
}

func poiRouter(provider handlers.POIProvider) *mux.Router {
	h := handlers.NewPOIHandler(provider)
	r := mux.NewRouter()
	r.HandleFunc("/api/city/pois", h.ListPOIs).Methods("GET")
	r.HandleFunc("/api/city/pois", h.CreatePOI).Methods("POST")
	r.HandleFunc("/api/city/pois/{id}", h.GetPOI).Methods("GET")
	r.HandleFunc("/api/city/search", h.SearchPOIs).Methods("GET")
	return r
}

func TestListPOIsPassesFilters(t *testing.T) {
	var gotType string
	var gotLimit int
	provider := &fakePOIProvider{
		listFunc: func(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
			gotType, gotLimit = poiType, limit
			return []models.POI{{ID: 1, Name: "Museum"}}, nil
		},
	}

	req := httptest.NewRequest("GET", "/api/city/pois?poi_type=museum&limit=10", nil)
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotType != "museum" || gotLimit != 10 {
		t.Errorf("filters not passed through: type=%q limit=%d", gotType, gotLimit)
	}
	var pois []models.POI
	if err := json.NewDecoder(rec.Body).Decode(&pois); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(pois) != 1 || pois[0].Name != "Museum" {
		t.Errorf("unexpected body: %v", pois)
	}
}

func TestListPOIsRejectsMalformedLimit(t *testing.T) {
	provider := &fakePOIProvider{
		listFunc: func(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
			t.Fatal("service must not be called for malformed limit")
			return nil, nil
		},
	}

	req := httptest.NewRequest("GET", "/api/city/pois?limit=abc", nil)
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestListPOIsRejectsZeroLimit(t *testing.T) {
	provider := &fakePOIProvider{
		listFunc: func(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
			t.Fatal("service must not be called for an out-of-range limit")
			return nil, nil
		},
	}

	req := httptest.NewRequest("GET", "/api/city/pois?limit=0", nil)
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestGetPOINotFound(t *testing.T) {
	provider := &fakePOIProvider{
		getFunc: func(ctx context.Context, id int64) (*models.POI, error) {
			return nil, errors.NewNotFoundError("POI with id 99 not found")
		},
	}

	req := httptest.NewRequest("GET", "/api/city/pois/99", nil)
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var apiErr errors.APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if apiErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND code, got %q", apiErr.Code)
	}
}

func TestCreatePOIReturns201(t *testing.T) {
	provider := &fakePOIProvider{
		createFunc: func(ctx context.Context, payload *models.POICreate) (*models.POI, error) {
			return &models.POI{ID: 7, Name: payload.Name, Type: payload.Type,
				Latitude: payload.Latitude, Longitude: payload.Longitude}, nil
		},
	}

	body := `{"name":"Test Location","type":"test","latitude":54.32,"longitude":10.13}`
	req := httptest.NewRequest("POST", "/api/city/pois", strings.NewReader(body))
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var poi models.POI
	if err := json.NewDecoder(rec.Body).Decode(&poi); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if poi.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", poi.ID)
	}
}

func TestCreatePOIValidationFailureReturns422(t *testing.T) {
	provider := &fakePOIProvider{
		createFunc: func(ctx context.Context, payload *models.POICreate) (*models.POI, error) {
			return nil, payload.Validate()
		},
	}

	body := `{"name":"Bad","type":"test","latitude":120,"longitude":10.13}`
	req := httptest.NewRequest("POST", "/api/city/pois", strings.NewReader(body))
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestCreatePOIMalformedBodyReturns400(t *testing.T) {
	provider := &fakePOIProvider{}

	req := httptest.NewRequest("POST", "/api/city/pois", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSearchPOIsDefaultsToNameField(t *testing.T) {
	var gotField string
	provider := &fakePOIProvider{
		searchFunc: func(ctx context.Context, q, field string) ([]models.POI, error) {
			gotField = field
			return []models.POI{}, nil
		},
	}

	req := httptest.NewRequest("GET", "/api/city/search?q=kiel", nil)
	rec := httptest.NewRecorder()
	poiRouter(provider).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotField != "name" {
		t.Errorf("expected default field name, got %q", gotField)
	}
}
