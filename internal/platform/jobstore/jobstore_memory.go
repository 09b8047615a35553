// Package jobstore provides job-state storage for background update
// batches: an in-process map for single-instance deployments and a
// Redis-backed implementation for anything that must survive restarts.
package jobstore

import (
	"context"
	"sync"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain/entity"
)

// JobMemory implements usecase.JobStore with an in-process map.
type JobMemory struct {
	mu   sync.RWMutex
	jobs map[string]entity.Job
}

// NewJobMemory creates a new JobMemory instance.
func NewJobMemory() *JobMemory {
	return &JobMemory{jobs: make(map[string]entity.Job)}
}

// Create persists a new job.
func (s *JobMemory) Create(ctx context.Context, job *entity.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// Update overwrites the stored job state.
func (s *JobMemory) Update(ctx context.Context, job *entity.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrJobNotFound
	}
	s.jobs[job.ID] = *job
	return nil
}

// Get retrieves a job by its ID.
func (s *JobMemory) Get(ctx context.Context, id string) (*entity.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}
