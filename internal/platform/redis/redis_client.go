// Package redis はジョブストアとレコードキャッシュが共有するRedis接続を提供します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient は環境変数の設定でRedisに接続し、疎通を確認して返します。
// REDIS_HOST / REDIS_PORT 未設定時はローカルの既定ポートを使います。
func NewRedisClient() (*redis.Client, error) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			db = n
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", rdb.Options().Addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", rdb.Options().Addr)
	return rdb, nil
}
