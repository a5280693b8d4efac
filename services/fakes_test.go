package services_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"city-server/models"
	"city-server/services"
)

// memCache implements services.Cache in memory, recording TTLs and
// invalidations so tests can assert on cache behavior.
type memCache struct {
	entries     map[string][]byte
	ttls        map[string]time.Duration
	invalidated []string
	failLookups bool
	lookupCount int
	storeCount  int
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *memCache) Lookup(ctx context.Context, key string) ([]byte, bool) {
	c.lookupCount++
	if c.failLookups {
		return nil, false
	}
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *memCache) Store(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	c.storeCount++
	if c.failLookups {
		return
	}
	c.entries[key] = payload
	c.ttls[key] = ttl
}

func (c *memCache) Invalidate(ctx context.Context, namespace string) {
	c.invalidated = append(c.invalidated, namespace)
	for key := range c.entries {
		if strings.HasPrefix(key, namespace+":") {
			delete(c.entries, key)
			delete(c.ttls, key)
		}
	}
}

// memPOIStore implements services.POIStore on a slice, mirroring the MySQL
// semantics the service relies on: id assignment, insertion order, and
// case-insensitive LIKE matching.
type memPOIStore struct {
	pois       []models.POI
	nextID     int64
	listCalls  int
	countCalls int
	failAll    bool
}

func newMemPOIStore() *memPOIStore {
	return &memPOIStore{nextID: 1}
}

func (s *memPOIStore) List(ctx context.Context, poiType string, limit int) ([]models.POI, error) {
	s.listCalls++
	if s.failAll {
		return nil, context.DeadlineExceeded
	}
	out := []models.POI{}
	for _, poi := range s.pois {
		if poiType != "" && poi.Type != poiType {
			continue
		}
		out = append(out, poi)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memPOIStore) Get(ctx context.Context, id int64) (*models.POI, error) {
	for _, poi := range s.pois {
		if poi.ID == id {
			p := poi
			return &p, nil
		}
	}
	return nil, services.ErrNoRecord
}

func (s *memPOIStore) Create(ctx context.Context, payload *models.POICreate) (*models.POI, error) {
	if s.failAll {
		return nil, context.DeadlineExceeded
	}
	poi := models.POI{
		ID:          s.nextID,
		Name:        payload.Name,
		Type:        payload.Type,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		Description: payload.Description,
	}
	s.nextID++
	s.pois = append(s.pois, poi)
	return &poi, nil
}

func (s *memPOIStore) Search(ctx context.Context, query, field string, limit int) ([]models.POI, error) {
	needle := strings.ToLower(query)
	out := []models.POI{}
	for _, poi := range s.pois {
		haystack := poi.Name
		if field == "type" {
			haystack = poi.Type
		}
		if strings.Contains(strings.ToLower(haystack), needle) {
			out = append(out, poi)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memPOIStore) Count(ctx context.Context) (int64, error) {
	s.countCalls++
	if s.failAll {
		return 0, context.DeadlineExceeded
	}
	return int64(len(s.pois)), nil
}

func (s *memPOIStore) Ping(ctx context.Context) error {
	if s.failAll {
		return context.DeadlineExceeded
	}
	return nil
}

// memStationStore implements services.StationStore on a map keyed by
// station_id, the same natural key the Mongo upsert uses.
type memStationStore struct {
	stations  map[string]models.BikeStation
	listCalls int
	failAll   bool
}

func newMemStationStore() *memStationStore {
	return &memStationStore{stations: make(map[string]models.BikeStation)}
}

func (s *memStationStore) List(ctx context.Context, minBikes, limit int) ([]models.BikeStation, error) {
	s.listCalls++
	if s.failAll {
		return nil, context.DeadlineExceeded
	}
	out := []models.BikeStation{}
	for _, station := range s.stations {
		if station.BikesAvailable >= minBikes {
			out = append(out, station)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStationStore) Get(ctx context.Context, stationID string) (*models.BikeStation, error) {
	station, ok := s.stations[stationID]
	if !ok {
		return nil, services.ErrNoRecord
	}
	return &station, nil
}

func (s *memStationStore) Upsert(ctx context.Context, station *models.BikeStation) error {
	if s.failAll {
		return context.DeadlineExceeded
	}
	s.stations[station.StationID] = *station
	return nil
}

func (s *memStationStore) CountAndSum(ctx context.Context) (int64, int64, error) {
	if s.failAll {
		return 0, 0, context.DeadlineExceeded
	}
	var bikes int64
	for _, station := range s.stations {
		bikes += int64(station.BikesAvailable)
	}
	return int64(len(s.stations)), bikes, nil
}

func (s *memStationStore) Ping(ctx context.Context) error {
	if s.failAll {
		return context.DeadlineExceeded
	}
	return nil
}
