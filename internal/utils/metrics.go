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

// OperationStats summarizes the recorded latencies for one operation.
type OperationStats struct {
	Count          int           `json:"count"`
	AverageLatency time.Duration `json:"averageLatency"`
}

// Snapshot returns per-operation stats plus global counters.
func (mc *MetricsCollector) Snapshot() (map[string]OperationStats, uint64, uint64, time.Duration) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	stats := make(map[string]OperationStats, len(mc.operationTimes))
	for name, latencies := range mc.operationTimes {
		if len(latencies) == 0 {
			continue
		}
		var total int64
		for _, l := range latencies {
			total += l
		}
		stats[name] = OperationStats{
			Count:          len(latencies),
			AverageLatency: time.Duration(total / int64(len(latencies))),
		}
	}
	return stats, mc.requestCount, mc.errorCount, time.Since(mc.systemStartTime)
}
