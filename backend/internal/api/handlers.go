package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tohafrit/workqueue/pkg/workqueue"
)

// TaskQueue is the queue surface the API depends on.
// *workqueue.FifoWorkQueue satisfies it.
type TaskQueue interface {
	AddFunc(fn func())
	Stats() workqueue.Stats
	MaxThreads() int
	ActiveThreads() int
}

const maxJobsPerRequest = 10000

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Queue handlers
func handleGetStats(queue TaskQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := queue.Stats()
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"max_workers":     stats.MaxWorkers,
			"active_workers":  stats.ActiveWorkers,
			"pending_tasks":   stats.PendingTasks,
			"completed_tasks": stats.CompletedTasks,
			"panicked_tasks":  stats.PanickedTasks,
			"spawned_workers": stats.SpawnedWorkers,
			"reused_workers":  stats.ReusedWorkers,
			"avg_latency":     stats.AverageLatency.String(),
			"uptime":          stats.Uptime.String(),
		})
	}
}

// Job handlers
func handleSubmitJobs(queue TaskQueue, jobs *JobRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Count    int    `json:"count"`
			BusyTime string `json:"busy_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Count <= 0 {
			req.Count = 1
		}
		if req.Count > maxJobsPerRequest {
			respondError(w, http.StatusBadRequest, "Too many jobs requested")
			return
		}

		var busyTime time.Duration
		if req.BusyTime != "" {
			d, err := time.ParseDuration(req.BusyTime)
			if err != nil || d < 0 {
				respondError(w, http.StatusBadRequest, "Invalid busy_time")
				return
			}
			busyTime = d
		}

		ids := make([]string, 0, req.Count)
		for i := 0; i < req.Count; i++ {
			job := jobs.create(busyTime)
			ids = append(ids, job.ID)

			id := job.ID
			queue.AddFunc(func() {
				jobs.markRunning(id)
				if busyTime > 0 {
					time.Sleep(busyTime)
				}
				jobs.markDone(id)
			})
		}

		respondJSON(w, http.StatusAccepted, map[string]interface{}{
			"job_ids": ids,
		})
	}
}

func handleListJobs(jobs *JobRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"jobs": jobs.List(),
		})
	}
}

func handleGetJob(jobs *JobRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		job, ok := jobs.Get(jobID)
		if !ok {
			respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		respondJSON(w, http.StatusOK, job)
	}
}
