// Package ratelimiter は外部データソース呼び出しの頻度制限を提供します。
package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、プロバイダ呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は固定ウィンドウ方式で呼び出し回数を制限します。
type RateLimiter struct {
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しい RateLimiter のインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded は上限に達しているかを確認し、必要であればウィンドウの残り時間だけ待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("provider call budget exhausted, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
