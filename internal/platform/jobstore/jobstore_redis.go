package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain/entity"
)

// jobTTL is how long finished job results stay readable for polling.
const jobTTL = 24 * time.Hour

// JobRedis implements usecase.JobStore using Redis, for deployments where
// job status must be visible across instances or survive a restart.
type JobRedis struct {
	client *redis.Client
	prefix string
}

// NewJobRedis creates a new JobRedis instance.
func NewJobRedis(client *redis.Client, prefix string) *JobRedis {
	return &JobRedis{client: client, prefix: prefix}
}

// jobKey returns the Redis key for a job.
func (s *JobRedis) jobKey(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

// Create persists a new job to Redis.
func (s *JobRedis) Create(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.client.Set(ctx, s.jobKey(job.ID), data, jobTTL).Err()
}

// Update overwrites the stored job state.
func (s *JobRedis) Update(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.client.Set(ctx, s.jobKey(job.ID), data, jobTTL).Err()
}

// Get retrieves a job by its ID.
func (s *JobRedis) Get(ctx context.Context, id string) (*entity.Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}

	var job entity.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}
