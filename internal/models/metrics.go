package models

import "time"

// SystemMetrics is the aggregated stats snapshot served by the ops status
// endpoint.
type SystemMetrics struct {
	PermissionCacheHitRatio  float64   `json:"permission_cache_hit_ratio"`
	PermissionCacheHits      uint64    `json:"permission_cache_hits"`
	PermissionCacheMisses    uint64    `json:"permission_cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	Transitions              uint64    `json:"transitions_total"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
