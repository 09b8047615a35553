// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
)

// RecordRepository is the canonical-store surface this decorator wraps.
type RecordRepository interface {
	Upsert(ctx context.Context, rec entity.MarketRecord) error
	UpsertBatch(ctx context.Context, recs []entity.MarketRecord) error
	FindByDate(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error)
	FindLatestBefore(ctx context.Context, assetID uint, before time.Time) (entity.MarketRecord, error)
	FindLatestOnOrBefore(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error)
	FindFirstOnOrAfter(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error)
	FindLatestWithRatios(ctx context.Context, assetID uint) (entity.MarketRecord, error)
	FindRange(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error)
}

// CachingRecordRepository decorates a RecordRepository with Redis caching
// of range reads (the chart/leaderboard read path). Point lookups used by
// the update pipeline always hit the database: they feed writes and must
// see the freshest state. It implements the decorator pattern,
// transparently adding caching without modifying the underlying repository.
type CachingRecordRepository struct {
	inner     RecordRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRecordRepository decorates a RecordRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "records".
func NewCachingRecordRepository(rdb *redis.Client, ttl time.Duration, inner RecordRepository, namespace string) *CachingRecordRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "records"
	}
	return &CachingRecordRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Upsert writes through to the database and invalidates the asset's cached ranges.
func (c *CachingRecordRepository) Upsert(ctx context.Context, rec entity.MarketRecord) error {
	if err := c.inner.Upsert(ctx, rec); err != nil {
		return err
	}
	c.invalidateAsset(ctx, rec.AssetID)
	return nil
}

// UpsertBatch writes through to the database and invalidates every touched asset.
func (c *CachingRecordRepository) UpsertBatch(ctx context.Context, recs []entity.MarketRecord) error {
	if err := c.inner.UpsertBatch(ctx, recs); err != nil {
		return err
	}
	if c.rdb == nil || len(recs) == 0 {
		return nil
	}
	seen := map[uint]struct{}{}
	for _, rec := range recs {
		if _, ok := seen[rec.AssetID]; ok {
			continue
		}
		seen[rec.AssetID] = struct{}{}
		c.invalidateAsset(ctx, rec.AssetID)
	}
	return nil
}

func (c *CachingRecordRepository) FindByDate(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	return c.inner.FindByDate(ctx, assetID, date)
}

func (c *CachingRecordRepository) FindLatestBefore(ctx context.Context, assetID uint, before time.Time) (entity.MarketRecord, error) {
	return c.inner.FindLatestBefore(ctx, assetID, before)
}

func (c *CachingRecordRepository) FindLatestOnOrBefore(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	return c.inner.FindLatestOnOrBefore(ctx, assetID, date)
}

func (c *CachingRecordRepository) FindFirstOnOrAfter(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	return c.inner.FindFirstOnOrAfter(ctx, assetID, date)
}

func (c *CachingRecordRepository) FindLatestWithRatios(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
	return c.inner.FindLatestWithRatios(ctx, assetID)
}

// FindRange retrieves records, checking cache first then falling back to the database.
func (c *CachingRecordRepository) FindRange(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindRange(ctx, assetID, start, end, limit)
	}

	key := c.cacheKey(assetID, start, end, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.MarketRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindRange(ctx, assetID, start, end, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific range query.
func (c *CachingRecordRepository) cacheKey(assetID uint, start, end time.Time, limit int) string {
	return fmt.Sprintf("%s:%d:%s:%s:%d",
		c.namespace,
		assetID,
		start.Format("20060102"),
		end.Format("20060102"),
		limit,
	)
}

// cacheKeyPrefix generates a prefix for invalidating one asset's cache entries.
func (c *CachingRecordRepository) cacheKeyPrefix(assetID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, assetID)
}

// invalidateAsset removes every cached range of one asset. Best effort:
// a stale entry only lasts until the TTL expires.
func (c *CachingRecordRepository) invalidateAsset(ctx context.Context, assetID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(assetID)+"*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRecordRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
