package models

import "time"

// SystemMetrics is a point-in-time summary of gateway activity.
type SystemMetrics struct {
	DecodesTotal             uint64    `json:"decodes_total"`
	DecodeFailures           uint64    `json:"decode_failures"`
	CoursesSkipped           uint64    `json:"courses_skipped"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
