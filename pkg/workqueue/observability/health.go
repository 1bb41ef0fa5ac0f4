package observability

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthStatus represents the health status of a queue
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// HealthChecker provides Kubernetes-style health checks for a queue.
// The owning service feeds it task outcomes and worker gauges; probes
// read the derived state.
type HealthChecker struct {
	isAlive       atomic.Bool
	isReady       atomic.Bool
	isStarted     atomic.Bool
	panicCount    atomic.Int64
	totalTasks    atomic.Int64
	pendingTasks  atomic.Int32
	activeWorkers atomic.Int32
	maxWorkers    int32
	startTime     time.Time
}

// HealthCheck represents a health check result
type HealthCheck struct {
	Status    HealthStatus   `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewHealthChecker creates a health checker for a pool of the given size.
func NewHealthChecker(maxWorkers int) *HealthChecker {
	hc := &HealthChecker{
		maxWorkers: int32(maxWorkers),
		startTime:  time.Now(),
	}
	hc.isAlive.Store(true)
	return hc
}

// MarkStarted marks the queue as started and ready.
func (h *HealthChecker) MarkStarted() {
	h.isStarted.Store(true)
	h.isReady.Store(true)
}

// MarkStopped marks the queue as stopped.
func (h *HealthChecker) MarkStopped() {
	h.isReady.Store(false)
	h.isAlive.Store(false)
}

// RecordPanic records a task panic.
func (h *HealthChecker) RecordPanic() {
	h.panicCount.Add(1)
	h.totalTasks.Add(1)
}

// RecordTaskCompletion records a successfully completed task.
func (h *HealthChecker) RecordTaskCompletion() {
	h.totalTasks.Add(1)
}

// UpdateMetrics updates the pending-task and active-worker gauges.
func (h *HealthChecker) UpdateMetrics(pendingTasks, activeWorkers int) {
	h.pendingTasks.Store(int32(pendingTasks))
	h.activeWorkers.Store(int32(activeWorkers))
}

// Liveness checks if the queue is alive.
// Returns false if:
// - The queue is explicitly stopped
// - The panic rate exceeds 50% (with at least 100 samples)
func (h *HealthChecker) Liveness() bool {
	if !h.isAlive.Load() {
		return false
	}

	total := h.totalTasks.Load()
	if total > 100 {
		panics := h.panicCount.Load()
		if float64(panics)/float64(total) > 0.5 {
			return false
		}
	}

	return true
}

// Readiness checks if the queue is accepting work.
// Returns false if the queue was never started or has been stopped.
func (h *HealthChecker) Readiness() bool {
	return h.isReady.Load()
}

// Startup checks if the queue has started successfully.
func (h *HealthChecker) Startup() bool {
	return h.isStarted.Load()
}

// GetStatus returns detailed health status
func (h *HealthChecker) GetStatus() HealthCheck {
	status := HealthStatusHealthy

	if !h.Liveness() {
		status = HealthStatusUnhealthy
	} else if !h.Readiness() {
		status = HealthStatusDegraded
	}

	total := h.totalTasks.Load()
	panics := h.panicCount.Load()
	panicRate := 0.0
	if total > 0 {
		panicRate = float64(panics) / float64(total)
	}

	return HealthCheck{
		Status:    status,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startTime).String(),
		Details: map[string]any{
			"alive":          h.isAlive.Load(),
			"ready":          h.isReady.Load(),
			"started":        h.isStarted.Load(),
			"pending_tasks":  h.pendingTasks.Load(),
			"active_workers": h.activeWorkers.Load(),
			"max_workers":    h.maxWorkers,
			"panic_rate":     panicRate,
			"total_tasks":    total,
		},
	}
}

// LivenessHandler returns an HTTP handler for the liveness probe.
func (h *HealthChecker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Liveness() {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not alive"})
		}
	}
}

// ReadinessHandler returns an HTTP handler for the readiness probe.
func (h *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Readiness() {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		}
	}
}

// HealthzHandler returns a comprehensive health status handler.
func (h *HealthChecker) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.GetStatus()

		w.Header().Set("Content-Type", "application/json")
		if status.Status == HealthStatusHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(status)
	}
}
