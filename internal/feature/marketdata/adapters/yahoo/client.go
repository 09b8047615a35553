package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/yahoo/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// ブラウザ風の UA が無いと chart API は 429 を返しやすくなります。
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client は Yahoo Finance chart API への薄いクライアントです。
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

// GetKlines は指定シンボルの日足を取得します。symbol は Yahoo 形式
// ("600000.SS" や "AAPL") を渡します。
func (c *Client) GetKlines(ctx context.Context, symbol string, start, end time.Time) ([]entity.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(start.Unix()))
	// period2 は排他境界のため end の翌日を渡します。
	q.Set("period2", fmt.Sprint(end.AddDate(0, 0, 1).Unix()))
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

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
		return nil, fmt.Errorf("yahoo http %d: %w", res.StatusCode, domain.ErrRateLimited)
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, nil
	}
	return c.toBars(body.Chart.Result[0], start, end), nil
}

// toBars はタイムスタンプ配列と OHLCV 並列配列を Bar 列に畳みます。
// 終値が null の行 (休場・欠損) はスキップします。
func (c *Client) toBars(result dto.ChartResult, start, end time.Time) []entity.Bar {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]

	loc := tradingcal.CST
	if result.Meta.Timezone != "" {
		if parsed, err := time.LoadLocation(result.Meta.Timezone); err == nil {
			loc = parsed
		}
	}

	bars := make([]entity.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		date := tradingcal.DateOnly(time.Unix(ts, 0).In(loc))
		if date.Before(start) || date.After(end) {
			continue
		}
		bar := entity.Bar{Date: date, Close: *quote.Close[i]}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars
}
