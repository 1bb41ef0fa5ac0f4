package workqueue

import (
	"sync/atomic"
	"time"
)

// Stats contains queue statistics
type Stats struct {
	MaxWorkers     int           // Configured pool size
	ActiveWorkers  int           // Currently occupied slots
	PendingTasks   int           // Tasks waiting for dispatch
	CompletedTasks int64         // Tasks that ran to completion
	PanickedTasks  int64         // Tasks that panicked during Run
	SpawnedWorkers int64         // Worker goroutines started
	ReusedWorkers  int64         // Tasks picked up by an already-running worker
	AverageLatency time.Duration // Average task execution time
	Uptime         time.Duration // Time since queue construction
}

// statsCollector holds internal statistics
type statsCollector struct {
	completedTasks atomic.Int64
	panickedTasks  atomic.Int64
	spawnedWorkers atomic.Int64
	reusedWorkers  atomic.Int64
	totalLatency   atomic.Int64 // in nanoseconds
	startTime      time.Time
}

func newStatsCollector() *statsCollector {
	return &statsCollector{
		startTime: time.Now(),
	}
}

// snapshot returns a snapshot of current statistics
func (s *statsCollector) snapshot(pending, active, maxWorkers int) Stats {
	completed := s.completedTasks.Load()
	var avgLatency time.Duration
	if completed > 0 {
		avgLatency = time.Duration(s.totalLatency.Load() / completed)
	}

	return Stats{
		MaxWorkers:     maxWorkers,
		ActiveWorkers:  active,
		PendingTasks:   pending,
		CompletedTasks: completed,
		PanickedTasks:  s.panickedTasks.Load(),
		SpawnedWorkers: s.spawnedWorkers.Load(),
		ReusedWorkers:  s.reusedWorkers.Load(),
		AverageLatency: avgLatency,
		Uptime:         time.Since(s.startTime),
	}
}

func (s *statsCollector) recordTaskCompletion(duration time.Duration) {
	s.completedTasks.Add(1)
	s.totalLatency.Add(int64(duration))
}

func (s *statsCollector) recordTaskPanic() {
	s.panickedTasks.Add(1)
}

func (s *statsCollector) recordWorkerSpawn() {
	s.spawnedWorkers.Add(1)
}

func (s *statsCollector) recordWorkerReuse() {
	s.reusedWorkers.Add(1)
}
