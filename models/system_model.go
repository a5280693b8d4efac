package models

import "time"

// HealthStatus reports per-backend reachability. Status is "healthy" when
// every backend answered its ping, "degraded" otherwise.
type HealthStatus struct {
	Status    string    `json:"status"`
	MySQL     bool      `json:"mysql"`
	MongoDB   bool      `json:"mongodb"`
	Redis     bool      `json:"redis"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates counts across both stores at call time.
type Stats struct {
	TotalPOIs           int64 `json:"total_pois"`
	TotalStations       int64 `json:"total_stations"`
	TotalBikesAvailable int64 `json:"total_bikes_available"`
}
