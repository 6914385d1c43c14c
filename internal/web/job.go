package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"glyphembed/internal/pipeline"
	"glyphembed/pkg/utils"
)

// JobStatus represents the current status of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// terminal reports whether no further status transition is allowed.
func (s JobStatus) terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Job represents one asynchronous embed request. The uploaded audio is staged
// in WorkDir, which also receives the tagged output; the directory lives until
// the retention window expires so the result stays downloadable.
type Job struct {
	ID           string
	Title        string
	Request      pipeline.Request
	Status       JobStatus
	Error        string
	WorkDir      string
	OutputPath   string
	DownloadName string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Cancel       context.CancelFunc
}

// JobManager manages embed jobs
type JobManager struct {
	jobs      map[string]*Job
	mu        sync.RWMutex
	listeners map[string][]chan *Job
}

const jobRetention = 1 * time.Hour

// NewJobManager creates a new job manager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:      make(map[string]*Job),
		listeners: make(map[string][]chan *Job),
	}
}

// StartCleanup starts a background goroutine that removes old completed jobs
// and their staging directories. Stops when ctx is cancelled.
func (jm *JobManager) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				jm.cleanup()
			}
		}
	}()
}

func (jm *JobManager) cleanup() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	cutoff := time.Now().Add(-jobRetention)
	for id, job := range jm.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			utils.Cleanup(job.WorkDir)
			delete(jm.jobs, id)
			delete(jm.listeners, id)
		}
	}
}

// CreateJob registers a new pending embed job
func (jm *JobManager) CreateJob(req pipeline.Request, workDir, downloadName string) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Request:      req,
		Status:       StatusPending,
		WorkDir:      workDir,
		DownloadName: downloadName,
		CreatedAt:    time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a snapshot of a job by ID. Callers get a copy; the job
// itself is only ever mutated through UpdateJob, under the lock.
func (jm *JobManager) GetJob(id string) (*Job, error) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, ok := jm.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	snap := *job
	return &snap, nil
}

// ListJobs returns snapshots of all jobs
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		snap := *job
		jobs = append(jobs, &snap)
	}
	return jobs
}

// UpdateJob updates job status
func (jm *JobManager) UpdateJob(id string, fn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, ok := jm.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}

	oldStatus := job.Status
	fn(job)

	// A terminal status is final: a late transition (the worker moving a
	// just-cancelled pending job to running, say) must not resurrect the job.
	if oldStatus.terminal() && job.Status != oldStatus {
		job.Status = oldStatus
	}

	// Update timestamps based on status changes
	if oldStatus != job.Status {
		switch job.Status {
		case StatusRunning:
			if job.StartedAt == nil {
				now := time.Now()
				job.StartedAt = &now
			}
		case StatusCompleted, StatusFailed, StatusCancelled:
			if job.CompletedAt == nil {
				now := time.Now()
				job.CompletedAt = &now
			}
		}
	}

	jm.notifyListeners(id, job)
	return nil
}

// Subscribe subscribes to job updates
func (jm *JobManager) Subscribe(jobID string) <-chan *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	ch := make(chan *Job, 10)
	jm.listeners[jobID] = append(jm.listeners[jobID], ch)
	return ch
}

// Unsubscribe removes a listener
func (jm *JobManager) Unsubscribe(jobID string, ch <-chan *Job) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	listeners := jm.listeners[jobID]
	for i, listener := range listeners {
		if listener == ch {
			jm.listeners[jobID] = append(listeners[:i], listeners[i+1:]...)
			close(listener)
			break
		}
	}
}

// notifyListeners sends a snapshot of the job to all listeners
func (jm *JobManager) notifyListeners(jobID string, job *Job) {
	snap := *job
	for _, ch := range jm.listeners[jobID] {
		select {
		case ch <- &snap:
		default:
		}
	}
}
