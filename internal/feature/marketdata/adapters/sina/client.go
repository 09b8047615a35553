// Package sina provides a client for the Sina finance kline feed, a
// direct exchange feed used when both the aggregator and the global
// fallback fail. Prices only, no fundamentals.
package sina

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

// Config holds configuration for the Sina kline client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
}

// LoadConfig loads Sina configuration from environment variables,
// falling back to the public endpoint.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   os.Getenv("SINA_BASE_URL"),
		Timeout:   20 * time.Second,
		RateLimit: 2,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://quotes.sina.cn"
	}
	return cfg
}

// klineRow は getKLineData の 1 行です。数値は文字列で届きます。
type klineRow struct {
	Day    string `json:"day"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// Client は新浪財経の kline フィードへの薄いクライアントです。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 2
	}
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), limit),
	}
}

// GetKlines は株式の日足を取得します。code は正規化済みの 6 桁コードです。
// API は日付範囲を受け付けないため直近 datalen 本を取り、手元で範囲に
// 絞り込みます。
func (c *Client) GetKlines(ctx context.Context, code string, start, end time.Time) ([]entity.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// 期間 + 休場分の余裕を見て取得本数を決めます。
	datalen := int(end.Sub(start).Hours()/24) + 10
	if datalen < 10 {
		datalen = 10
	}

	q := url.Values{}
	q.Set("symbol", normalize.PrefixSymbol(code))
	q.Set("scale", "240") // 日足
	q.Set("ma", "no")
	q.Set("datalen", strconv.Itoa(datalen))
	reqURL := c.cfg.BaseURL + "/cn/api/json_v2.php/CN_MarketDataService.getKLineData?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://finance.sina.com.cn/")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("sina http %d: %w", res.StatusCode, domain.ErrRateLimited)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("sina http %d", res.StatusCode)
	}

	var rows []klineRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, err
	}

	bars := make([]entity.Bar, 0, len(rows))
	for _, row := range rows {
		date, err := time.ParseInLocation("2006-01-02", row.Day, time.UTC)
		if err != nil {
			slog.Warn("skipping kline row with unexpected date", "code", code, "day", row.Day)
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		closePrice, err := strconv.ParseFloat(row.Close, 64)
		if err != nil {
			continue
		}
		bar := entity.Bar{Date: date, Close: closePrice}
		if v, err := strconv.ParseFloat(row.Open, 64); err == nil {
			bar.Open = &v
		}
		if v, err := strconv.ParseFloat(row.High, 64); err == nil {
			bar.High = &v
		}
		if v, err := strconv.ParseFloat(row.Low, 64); err == nil {
			bar.Low = &v
		}
		if v, err := strconv.ParseFloat(row.Volume, 64); err == nil {
			bar.Volume = &v
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
