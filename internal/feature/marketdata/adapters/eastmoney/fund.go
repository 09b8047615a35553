package eastmoney

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

// fundReferer が無いと api.fund.eastmoney.com は空レスポンスを返します。
const fundReferer = "https://fundf10.eastmoney.com/"

// GetFundHistory はファンドの日次データを取得します。上場 ETF は株式と同じ
// kline API で取れるためまずそちらを試し、空だった場合 (場外ファンドなど) は
// 公式の基準価額履歴にフォールバックします。
func (c *Client) GetFundHistory(ctx context.Context, code string, start, end time.Time) ([]entity.Bar, error) {
	bars, err := c.GetKlines(ctx, code, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		return bars, nil
	}
	slog.Debug("fund has no kline data, falling back to NAV history", "code", code)
	return c.getFundNav(ctx, code, start, end)
}

// getFundNav は /f10/lsjz の基準価額履歴を Bar 列に変換します。
// 単位浄値を終値として扱います。
func (c *Client) getFundNav(ctx context.Context, code string, start, end time.Time) ([]entity.Bar, error) {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	reqURL := fmt.Sprintf("%s/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=%d&startDate=%s&endDate=%s",
		c.cfg.FundBaseURL, code, days,
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	var res dto.FundNavResponse
	if err := c.getJSON(ctx, reqURL, fundReferer, &res); err != nil {
		return nil, err
	}
	if res.ErrCode != 0 {
		return nil, fmt.Errorf("fund nav api error %d: %s", res.ErrCode, res.ErrMsg)
	}
	if res.Data == nil || len(res.Data.LSJZList) == 0 {
		return nil, nil
	}

	bars := make([]entity.Bar, 0, len(res.Data.LSJZList))
	// 履歴は新しい順に届くため日付昇順に詰め直します。
	for i := len(res.Data.LSJZList) - 1; i >= 0; i-- {
		row := res.Data.LSJZList[i]
		date, err := time.ParseInLocation("2006-01-02", row.Date, time.UTC)
		if err != nil {
			slog.Warn("skipping NAV row with unexpected date", "code", code, "date", row.Date)
			continue
		}
		nav, err := strconv.ParseFloat(row.UnitNav, 64)
		if err != nil {
			continue
		}
		bar := entity.Bar{Date: date, Close: nav}
		if pct, err := strconv.ParseFloat(row.ChangePct, 64); err == nil {
			bar.ChangePct = &pct
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
