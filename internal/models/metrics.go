package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot exposed alongside
// the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ScheduleRuns             uint64    `json:"schedule_runs"`
	UnplacedTasks            uint64    `json:"unplaced_tasks"`
	LearnerUpdates           uint64    `json:"learner_updates"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
