package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobState is the lifecycle state of a synthetic job.
type JobState string

const (
	JobStateQueued  JobState = "queued"
	JobStateRunning JobState = "running"
	JobStateDone    JobState = "done"
)

// Job tracks one synthetic task submitted through the load-generation API.
type Job struct {
	ID          string     `json:"id"`
	State       JobState   `json:"state"`
	BusyTime    string     `json:"busy_time"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// JobRegistry is an in-memory record of submitted jobs.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]*Job)}
}

func (r *JobRegistry) create(busyTime time.Duration) *Job {
	job := &Job{
		ID:          uuid.NewString(),
		State:       JobStateQueued,
		BusyTime:    busyTime.String(),
		SubmittedAt: time.Now(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job
}

func (r *JobRegistry) markRunning(id string) {
	now := time.Now()
	r.mu.Lock()
	if job, ok := r.jobs[id]; ok {
		job.State = JobStateRunning
		job.StartedAt = &now
	}
	r.mu.Unlock()
}

func (r *JobRegistry) markDone(id string) {
	now := time.Now()
	r.mu.Lock()
	if job, ok := r.jobs[id]; ok {
		job.State = JobStateDone
		job.FinishedAt = &now
	}
	r.mu.Unlock()
}

// Get returns a copy of the job, if present.
func (r *JobRegistry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns copies of all jobs, oldest first.
func (r *JobRegistry) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
