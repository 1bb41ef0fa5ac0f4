// Package metrics exports work-queue statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tohafrit/workqueue/pkg/workqueue"
)

// StatsProvider is the slice of the queue surface the collector needs.
// Every queue type in pkg/workqueue satisfies it.
type StatsProvider interface {
	Stats() workqueue.Stats
}

// QueueCollector is a prometheus.Collector reporting one queue's statistics.
// Register it with a registry; every scrape takes a fresh Stats snapshot.
type QueueCollector struct {
	provider StatsProvider

	maxWorkers     *prometheus.Desc
	activeWorkers  *prometheus.Desc
	pendingTasks   *prometheus.Desc
	completedTasks *prometheus.Desc
	panickedTasks  *prometheus.Desc
	spawnedWorkers *prometheus.Desc
	reusedWorkers  *prometheus.Desc
	taskLatency    *prometheus.Desc
}

// NewQueueCollector creates a collector for the named queue. The name is
// attached as the "queue" label on every metric.
func NewQueueCollector(queueName string, provider StatsProvider) *QueueCollector {
	labels := prometheus.Labels{"queue": queueName}

	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName("workqueue", "", name),
			help, nil, labels,
		)
	}

	return &QueueCollector{
		provider:       provider,
		maxWorkers:     desc("max_workers", "Configured worker pool size."),
		activeWorkers:  desc("active_workers", "Worker slots currently occupied."),
		pendingTasks:   desc("pending_tasks", "Tasks waiting for dispatch."),
		completedTasks: desc("completed_tasks_total", "Tasks that ran to completion."),
		panickedTasks:  desc("panicked_tasks_total", "Tasks that panicked during execution."),
		spawnedWorkers: desc("workers_spawned_total", "Worker goroutines started."),
		reusedWorkers:  desc("workers_reused_total", "Tasks picked up by an already-running worker."),
		taskLatency:    desc("task_latency_avg_seconds", "Average task execution time."),
	}
}

// Describe implements prometheus.Collector.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxWorkers
	ch <- c.activeWorkers
	ch <- c.pendingTasks
	ch <- c.completedTasks
	ch <- c.panickedTasks
	ch <- c.spawnedWorkers
	ch <- c.reusedWorkers
	ch <- c.taskLatency
}

// Collect implements prometheus.Collector.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.provider.Stats()

	ch <- prometheus.MustNewConstMetric(c.maxWorkers, prometheus.GaugeValue, float64(stats.MaxWorkers))
	ch <- prometheus.MustNewConstMetric(c.activeWorkers, prometheus.GaugeValue, float64(stats.ActiveWorkers))
	ch <- prometheus.MustNewConstMetric(c.pendingTasks, prometheus.GaugeValue, float64(stats.PendingTasks))
	ch <- prometheus.MustNewConstMetric(c.completedTasks, prometheus.CounterValue, float64(stats.CompletedTasks))
	ch <- prometheus.MustNewConstMetric(c.panickedTasks, prometheus.CounterValue, float64(stats.PanickedTasks))
	ch <- prometheus.MustNewConstMetric(c.spawnedWorkers, prometheus.CounterValue, float64(stats.SpawnedWorkers))
	ch <- prometheus.MustNewConstMetric(c.reusedWorkers, prometheus.CounterValue, float64(stats.ReusedWorkers))
	ch <- prometheus.MustNewConstMetric(c.taskLatency, prometheus.GaugeValue, stats.AverageLatency.Seconds())
}
