package di

import (
	"github.com/redis/go-redis/v9"

	updateusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/update/usecase"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/jobstore"
)

// NewJobStore creates a JobStore implementation.
// If Redis is available, it returns a Redis-backed implementation so that
// job status survives restarts. Otherwise, it falls back to process memory.
func NewJobStore(rdb *redis.Client) updateusecase.JobStore {
	if rdb != nil {
		return jobstore.NewJobRedis(rdb, "update_job")
	}
	return jobstore.NewJobMemory()
}
