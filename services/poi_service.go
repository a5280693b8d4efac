package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"city-server/models"
	apierrors "city-server/utils/errors"
)

const (
	poiDefaultLimit = 100
	poiMaxLimit     = 1000
	searchLimit     = 50
)

// POIService composes the relational store with the read-through cache for
// the city data endpoints.
type POIService struct {
	store        POIStore
	cache        Cache
	ttl          time.Duration
	storeTimeout time.Duration
}

func NewPOIService(store POIStore, cache Cache, ttl, storeTimeout time.Duration) *POIService {
	return &POIService{store: store, cache: cache, ttl: ttl, storeTimeout: storeTimeout}
}

// List returns POIs, optionally filtered by type, capped at limit. The cached
// payload is the serialized result slice, so a hit skips the store entirely.
func (s *POIService) List(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
	limit, apiErr := validateLimit(limit, poiDefaultLimit, poiMaxLimit)
	if apiErr != nil {
		return nil, apiErr
	}
	key := CacheKey(NamespacePOIs, "type", poiType, "limit", strconv.Itoa(limit))

	var pois []models.POI
	if hit := lookupJSON(ctx, s.cache, key, &pois); hit {
		return pois, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	pois, err := s.store.List(storeCtx, poiType, limit)
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to list POIs", apierrors.ErrDatabase.Status)
	}

	storeJSON(ctx, s.cache, key, pois, s.ttl)
	return pois, nil
}

// Get fetches a single POI by id. Single-entity reads are not cached.
func (s *POIService) Get(ctx context.Context, id int64) (*models.POI, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	poi, err := s.store.Get(storeCtx, id)
	if errors.Is(err, ErrNoRecord) {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("POI with id %d not found", id))
	}
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to fetch POI", apierrors.ErrDatabase.Status)
	}
	return poi, nil
}

// Create validates, persists, and invalidates every cached POI list plus the
// stats aggregate. The store assigns the id.
func (s *POIService) Create(ctx context.Context, payload *models.POICreate) (*models.POI, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	poi, err := s.store.Create(storeCtx, payload)
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to create POI", apierrors.ErrDatabase.Status)
	}

	s.cache.Invalidate(ctx, NamespacePOIs)
	s.cache.Invalidate(ctx, NamespaceStats)
	return poi, nil
}

// Search matches a case-insensitive substring of q against the chosen field.
// Results follow insertion order. Search results are not cached; the query
// space is too wide for namespace invalidation to pay off.
func (s *POIService) Search(ctx context.Context, q, field string) ([]models.POI, error) {
	if q == "" {
		return nil, apierrors.NewAPIError("INVALID_INPUT", "Query parameter q must not be empty", apierrors.ErrInvalidInput.Status)
	}
	if field != "name" && field != "type" {
		return nil, apierrors.NewAPIError("INVALID_INPUT", "search_field must be 'name' or 'type'", apierrors.ErrInvalidInput.Status)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	pois, err := s.store.Search(storeCtx, q, field, searchLimit)
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to search POIs", apierrors.ErrDatabase.Status)
	}
	return pois, nil
}

// validateLimit resolves an absent limit to the fallback and rejects values
// outside 1..max with a validation error.
func validateLimit(limit, fallback, max int) (int, *apierrors.APIError) {
	if limit == 0 {
		return fallback, nil
	}
	if limit < 0 || limit > max {
		return 0, apierrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", max))
	}
	return limit, nil
}

// lookupJSON deserializes a cached payload into out. A decode failure counts
// as a miss so a stale or corrupt entry gets overwritten on the next store.
func lookupJSON(ctx context.Context, cache Cache, key string, out any) bool {
	payload, hit := cache.Lookup(ctx, key)
	if !hit {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Printf("discarding undecodable cache entry %s: %v", key, err)
		return false
	}
	return true
}

func storeJSON(ctx context.Context, cache Cache, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("failed to serialize cache entry %s: %v", key, err)
		return
	}
	cache.Store(ctx, key, payload, ttl)
}
