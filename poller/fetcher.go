// Package poller syncs bike availability from the public bike-share hubs API
// into the document store. It runs as its own process on a fixed interval;
// the HTTP service only ever reads what the poller wrote.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"city-server/models"
)

const maxFetchRetries = 3

// StationWriter is the slice of BikeService the poller needs.
type StationWriter interface {
	Upsert(ctx context.Context, payload *models.BikeStationCreate) (*models.BikeStation, error)
}

// Config points the fetcher at the provider's nearby-hubs endpoint with a
// bounding box, the same query the provider's own apps issue.
type Config struct {
	APIURL     string
	Accept     string
	TopRight   string
	BottomLeft string
	Interval   time.Duration
}

// Fetcher pulls the hub list and upserts each station snapshot.
type Fetcher struct {
	cfg    Config
	client *http.Client
	writer StationWriter
	sleep  func(d time.Duration)
}

func NewFetcher(cfg Config, writer StationWriter) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		writer: writer,
		sleep:  time.Sleep,
	}
}

// hub mirrors the provider's nearby response. Field names vary between API
// versions, so both spellings of each coordinate are accepted.
type hub struct {
	ID             json.Number `json:"id"`
	Name           string      `json:"name"`
	Latitude       float64     `json:"latitude"`
	Lat            float64     `json:"lat"`
	Longitude      float64     `json:"longitude"`
	Lng            float64     `json:"lng"`
	AvailableBikes int         `json:"available_bikes"`
	MaxBikes       *int        `json:"max_bikes"`
	Capacity       *int        `json:"capacity"`
}

type nearbyResponse struct {
	Hubs []hub `json:"hubs"`
}

// Run polls until the context is cancelled. The first sync happens
// immediately.
func (f *Fetcher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	f.syncOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.syncOnce(ctx)
		}
	}
}

// syncOnce fetches and upserts one cycle. Any fetch error skips the cycle;
// the stale snapshots in the store remain servable until the next run.
func (f *Fetcher) syncOnce(ctx context.Context) {
	body, err := f.fetch(ctx)
	if err != nil {
		log.Printf("Skipping sync cycle: %v", err)
		return
	}

	stations, err := ParseHubs(body)
	if err != nil {
		log.Printf("Skipping sync cycle, unparseable response: %v", err)
		return
	}

	stored := 0
	for _, station := range stations {
		if _, err := f.writer.Upsert(ctx, station); err != nil {
			log.Printf("Failed to store station %s: %v", station.StationID, err)
			continue
		}
		stored++
	}
	log.Printf("Synced %d/%d stations", stored, len(stations))
}

// fetch performs the bounding-box query with bounded exponential backoff.
func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchRetries; attempt++ {
		if attempt > 0 {
			f.sleep(time.Duration(1<<attempt) * time.Second)
		}
		body, err := f.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Printf("Fetch attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("fetching bike data after %d attempts: %w", maxFetchRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]byte, error) {
	params := url.Values{}
	params.Set("top_right", f.cfg.TopRight)
	params.Set("bottom_left", f.cfg.BottomLeft)
	params.Set("filter_type", "box")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", f.cfg.Accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from bike API", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseHubs converts the provider's hubs payload into upsert payloads. Hubs
// without a usable id or with out-of-range coordinates are dropped with a
// warning rather than aborting the batch.
func ParseHubs(body []byte) ([]*models.BikeStationCreate, error) {
	var nearby nearbyResponse
	if err := json.Unmarshal(body, &nearby); err != nil {
		return nil, fmt.Errorf("decoding hubs payload: %w", err)
	}

	stations := make([]*models.BikeStationCreate, 0, len(nearby.Hubs))
	for _, h := range nearby.Hubs {
		id := h.ID.String()
		if id == "" {
			id = h.Name
		}
		lat := h.Latitude
		if lat == 0 {
			lat = h.Lat
		}
		lon := h.Longitude
		if lon == 0 {
			lon = h.Lng
		}
		capacity := h.Capacity
		if h.MaxBikes != nil {
			capacity = h.MaxBikes
		}

		station := &models.BikeStationCreate{
			StationID:      id,
			Name:           h.Name,
			Latitude:       lat,
			Longitude:      lon,
			BikesAvailable: h.AvailableBikes,
			Capacity:       capacity,
		}
		if err := station.Validate(); err != nil {
			log.Printf("Dropping invalid hub %q: %v", h.Name, err)
			continue
		}
		stations = append(stations, station)
	}
	return stations, nil
}
