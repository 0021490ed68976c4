package services

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// SystemMetrics holds a point-in-time snapshot of host and runtime load.
type SystemMetrics struct {
	CPUUsage    float64   `json:"cpu_usage"`
	MemoryUsage uint64    `json:"memory_usage"`
	MemoryTotal uint64    `json:"memory_total"`
	HeapAlloc   uint64    `json:"heap_alloc"`
	Goroutines  int       `json:"goroutines"`
	NumGC       uint32    `json:"num_gc"`
	LastUpdated time.Time `json:"last_updated"`
}

// RunMetrics accumulates forecast-pipeline counters across runs.
type RunMetrics struct {
	RunsCompleted  int64     `json:"runs_completed"`
	RunsFailed     int64     `json:"runs_failed"`
	RowsScored     int64     `json:"rows_scored"`
	KitsDelivered  int64     `json:"kits_delivered"`
	LastRunAt      time.Time `json:"last_run_at"`
	LastRunElapsed string    `json:"last_run_elapsed"`
}

// PerformanceMonitor tracks system load and pipeline throughput for the
// health endpoint.
type PerformanceMonitor struct {
	logger *logrus.Logger
	mu     sync.RWMutex

	system SystemMetrics
	runs   RunMetrics
}

// NewPerformanceMonitor creates a performance monitor.
func NewPerformanceMonitor(logger *logrus.Logger) *PerformanceMonitor {
	return &PerformanceMonitor{logger: logger}
}

// RecordRun accumulates one forecast run's outcome.
func (pm *PerformanceMonitor) RecordRun(rows int, elapsed time.Duration, failed bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if failed {
		pm.runs.RunsFailed++
	} else {
		pm.runs.RunsCompleted++
		pm.runs.RowsScored += int64(rows)
	}
	pm.runs.LastRunAt = time.Now().UTC()
	pm.runs.LastRunElapsed = elapsed.String()
}

// RecordDeliveries accumulates delivered kit counts.
func (pm *PerformanceMonitor) RecordDeliveries(count int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.runs.KitsDelivered += int64(count)
}

// RunStats returns the accumulated pipeline counters.
func (pm *PerformanceMonitor) RunStats() RunMetrics {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.runs
}

// UpdateSystemMetrics samples host CPU and memory plus Go runtime stats.
// Sampling failures leave the previous snapshot in place.
func (pm *PerformanceMonitor) UpdateSystemMetrics(ctx context.Context) SystemMetrics {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		pm.system.CPUUsage = cpuPercent[0]
	} else if err != nil && pm.logger != nil {
		pm.logger.WithError(err).Debug("Failed to sample CPU usage")
	}

	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		pm.system.MemoryUsage = memInfo.Used
		pm.system.MemoryTotal = memInfo.Total
	} else if pm.logger != nil {
		pm.logger.WithError(err).Debug("Failed to sample memory usage")
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	pm.system.HeapAlloc = ms.HeapAlloc
	pm.system.NumGC = ms.NumGC
	pm.system.Goroutines = runtime.NumGoroutine()
	pm.system.LastUpdated = time.Now().UTC()

	return pm.system
}
