package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

const (
	klineFields1 = "f1,f2,f3,f4,f5,f6"
	klineFields2 = "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61"
)

// GetKlines は株式・ETF の日足を取得します。code は正規化済みの 6 桁コードです。
// 当日の確定足が日中に返らないことがあるため、end を 1 日先に広げて
// リクエストし、受信後に範囲外の行を落とします。
func (c *Client) GetKlines(ctx context.Context, code string, start, end time.Time) ([]entity.Bar, error) {
	return c.klinesBySecID(ctx, normalize.SecID(code), start, end)
}

// klinesBySecID は secid 指定で日足を取得します。株式は "1.600000" 形式、
// 中金所の株価指数先物は "8.IF2603" 形式です。
func (c *Client) klinesBySecID(ctx context.Context, secid string, start, end time.Time) ([]entity.Bar, error) {
	q := url.Values{}
	q.Set("secid", secid)
	q.Set("fields1", klineFields1)
	q.Set("fields2", klineFields2)
	q.Set("klt", "101") // 日足
	q.Set("fqt", "1")   // 前復権
	q.Set("beg", start.Format("20060102"))
	q.Set("end", end.AddDate(0, 0, 1).Format("20060102"))

	var res dto.KlineResponse
	reqURL := c.cfg.HistBaseURL + "/api/qt/stock/kline/get?" + q.Encode()
	if err := c.getJSON(ctx, reqURL, "", &res); err != nil {
		return nil, err
	}
	if res.Data == nil || len(res.Data.Klines) == 0 {
		return nil, nil
	}

	bars := make([]entity.Bar, 0, len(res.Data.Klines))
	for _, line := range res.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return nil, err
		}
		if bar.Date.Before(start) || bar.Date.After(end) {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline はカンマ結合された 1 行
// (date,open,close,high,low,volume,turnover,amplitude,change_pct,change_amount,turnover_rate)
// を Bar に変換します。
func parseKline(line string) (entity.Bar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 11 {
		return entity.Bar{}, fmt.Errorf("unexpected kline row %q", line)
	}

	date, err := time.ParseInLocation("2006-01-02", parts[0], time.UTC)
	if err != nil {
		return entity.Bar{}, fmt.Errorf("unexpected kline date %q: %w", parts[0], err)
	}
	closePrice, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return entity.Bar{}, fmt.Errorf("unexpected kline close %q: %w", parts[2], err)
	}

	return entity.Bar{
		Date:         date,
		Open:         parseOptFloat(parts[1]),
		Close:        closePrice,
		High:         parseOptFloat(parts[3]),
		Low:          parseOptFloat(parts[4]),
		Volume:       parseOptFloat(parts[5]),
		Turnover:     parseOptFloat(parts[6]),
		Amplitude:    parseOptFloat(parts[7]),
		ChangePct:    parseOptFloat(parts[8]),
		ChangeAmount: parseOptFloat(parts[9]),
		TurnoverRate: parseOptFloat(parts[10]),
	}, nil
}

// parseOptFloat は欠損値 ("-" や空文字) を nil として扱います。
func parseOptFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
