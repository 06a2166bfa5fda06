package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// OperationStats summarizes latencies recorded for a single operation.
type OperationStats struct {
	Count      int           `json:"count"`
	AverageLat time.Duration `json:"averageLatency"`
}

// Snapshot returns request/error counts, uptime and per-operation averages.
func (mc *MetricsCollector) Snapshot() (uint64, uint64, time.Duration, map[string]OperationStats) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	ops := make(map[string]OperationStats, len(mc.operationTimes))
	for name, latencies := range mc.operationTimes {
		var total int64
		for _, l := range latencies {
			total += l
		}
		stats := OperationStats{Count: len(latencies)}
		if stats.Count > 0 {
			stats.AverageLat = time.Duration(total / int64(stats.Count))
		}
		ops[name] = stats
	}

	return mc.requestCount, mc.errorCount, time.Since(mc.systemStartTime), ops
}
