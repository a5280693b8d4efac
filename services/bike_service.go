package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"city-server/models"
	apierrors "city-server/utils/errors"
)

const (
	bikeDefaultLimit = 100
	bikeMaxLimit     = 500
)

// BikeService composes the station store with the cache. Bike availability
// changes every few minutes, so cached lists get the short TTL.
type BikeService struct {
	store        StationStore
	cache        Cache
	ttl          time.Duration
	storeTimeout time.Duration
	now          func() time.Time
}

func NewBikeService(store StationStore, cache Cache, ttl, storeTimeout time.Duration) *BikeService {
	return &BikeService{
		store:        store,
		cache:        cache,
		ttl:          ttl,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// List returns stations with at least minBikes available, capped at limit.
func (s *BikeService) List(ctx context.Context, minBikes, limit int) ([]models.BikeStation, error) {
	if minBikes < 0 {
		minBikes = 0
	}
	limit, apiErr := validateLimit(limit, bikeDefaultLimit, bikeMaxLimit)
	if apiErr != nil {
		return nil, apiErr
	}
	key := CacheKey(NamespaceBikes, "min", strconv.Itoa(minBikes), "limit", strconv.Itoa(limit))

	var stations []models.BikeStation
	if hit := lookupJSON(ctx, s.cache, key, &stations); hit {
		return stations, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	stations, err := s.store.List(storeCtx, minBikes, limit)
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to list stations", apierrors.ErrDatabase.Status)
	}

	storeJSON(ctx, s.cache, key, stations, s.ttl)
	return stations, nil
}

// Get fetches one station snapshot by its external id.
func (s *BikeService) Get(ctx context.Context, stationID string) (*models.BikeStation, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	station, err := s.store.Get(storeCtx, stationID)
	if errors.Is(err, ErrNoRecord) {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("Station %s not found", stationID))
	}
	if err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to fetch station", apierrors.ErrDatabase.Status)
	}
	return station, nil
}

// Upsert validates and writes one snapshot keyed on station_id, overwriting
// any previous record, then drops the cached station lists and stats. Used by
// both the POST endpoint and the feed poller.
func (s *BikeService) Upsert(ctx context.Context, payload *models.BikeStationCreate) (*models.BikeStation, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	station := &models.BikeStation{
		StationID:      payload.StationID,
		Name:           payload.Name,
		Latitude:       payload.Latitude,
		Longitude:      payload.Longitude,
		BikesAvailable: payload.BikesAvailable,
		Capacity:       payload.Capacity,
		LastUpdated:    s.now(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Upsert(storeCtx, station); err != nil {
		return nil, apierrors.Wrap(err, "DATABASE_ERROR", "Failed to upsert station", apierrors.ErrDatabase.Status)
	}

	s.cache.Invalidate(ctx, NamespaceBikes)
	s.cache.Invalidate(ctx, NamespaceStats)
	return station, nil
}

// History returns availability records for a station. Only the current
// snapshot is retained, so the result is that snapshot as a single record.
func (s *BikeService) History(ctx context.Context, stationID string, limit int) ([]models.BikeStationHistory, error) {
	station, err := s.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	history := []models.BikeStationHistory{
		{
			Timestamp:      station.LastUpdated,
			BikesAvailable: station.BikesAvailable,
			Capacity:       station.Capacity,
		},
	}
	return history, nil
}
