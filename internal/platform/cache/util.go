package cache

import (
	"time"

	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// TimeUntilNextOpen は次の取引セッション開始（北京時間 09:15）までの期間を
// 返します。確定済みの日足はそれまで変化しないため、キャッシュ TTL に使えます。
func TimeUntilNextOpen() time.Duration {
	now := tradingcal.Now()

	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 15, 0, 0, tradingcal.CST)
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
