package services

import (
	"context"
	"log"
	"time"

	"city-server/models"

	"golang.org/x/sync/errgroup"
)

// StatsService aggregates counts from both stores. The aggregate mixes POI
// and bike freshness domains, so it is cached with the shorter bike TTL.
type StatsService struct {
	pois         POIStore
	stations     StationStore
	cache        Cache
	ttl          time.Duration
	storeTimeout time.Duration
}

func NewStatsService(pois POIStore, stations StationStore, cache Cache, ttl, storeTimeout time.Duration) *StatsService {
	return &StatsService{
		pois:         pois,
		stations:     stations,
		cache:        cache,
		ttl:          ttl,
		storeTimeout: storeTimeout,
	}
}

// Overview gathers the counters from both stores concurrently. A failing
// store leaves its counters at zero rather than failing the whole aggregate.
func (s *StatsService) Overview(ctx context.Context) (*models.Stats, error) {
	key := CacheKey(NamespaceStats, "overview")

	var stats models.Stats
	if hit := lookupJSON(ctx, s.cache, key, &stats); hit {
		return &stats, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(storeCtx)
	g.Go(func() error {
		count, err := s.pois.Count(gctx)
		if err != nil {
			log.Printf("stats: counting POIs failed: %v", err)
			return nil
		}
		stats.TotalPOIs = count
		return nil
	})
	g.Go(func() error {
		stations, bikes, err := s.stations.CountAndSum(gctx)
		if err != nil {
			log.Printf("stats: counting stations failed: %v", err)
			return nil
		}
		stats.TotalStations = stations
		stats.TotalBikesAvailable = bikes
		return nil
	})
	// Goroutines never return errors, they degrade their counters instead.
	_ = g.Wait()

	storeJSON(ctx, s.cache, key, &stats, s.ttl)
	return &stats, nil
}
