package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
)

// Client は東方財富の各種 API への薄いクライアントです。
// 1 ホストあたりの呼び出し頻度を rate.Limiter で抑え、IP 単位の
// アクセス制限を踏みにくくしています。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), limit),
	}
}

// getJSON は GET リクエストを発行し、JSON レスポンスを out にデコードします。
// HTTP 429 / 403 はレート制限として分類します。
func (c *Client) getJSON(ctx context.Context, url string, referer string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusForbidden {
		return fmt.Errorf("eastmoney http %d: %w", res.StatusCode, domain.ErrRateLimited)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("eastmoney http %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
