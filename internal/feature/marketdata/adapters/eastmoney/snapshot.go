package eastmoney

import (
	"context"
	"net/url"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

// snapshotFields は /api/qt/stock/get に要求するフィールドです。
//
//	f43  現在値 (×100)
//	f55  毎株収益 EPS (×100)
//	f57  銘柄コード
//	f58  銘柄名
//	f116 総市値 (元)
//	f162 PE TTM (×100)
//	f167 PB (×100)
const snapshotFields = "f43,f55,f57,f58,f116,f162,f167"

// GetSnapshot は当日の株価とファンダメンタルズを取得します。
// 騰落率や PE/PB は ×100 された整数で届くため 100 で割り、
// 総市値は元から億元に換算します。
func (c *Client) GetSnapshot(ctx context.Context, code string) (*entity.Snapshot, error) {
	q := url.Values{}
	q.Set("secid", normalize.SecID(code))
	q.Set("fields", snapshotFields)

	var res dto.QuoteResponse
	reqURL := c.cfg.QuoteBaseURL + "/api/qt/stock/get?" + q.Encode()
	if err := c.getJSON(ctx, reqURL, "", &res); err != nil {
		return nil, err
	}
	if res.Data == nil || res.Data.Price == 0 {
		return nil, nil
	}

	d := res.Data
	snap := &entity.Snapshot{Price: d.Price / 100}
	if d.PERatioTTM != 0 {
		snap.PERatio = ptr(d.PERatioTTM / 100)
	}
	if d.PBRatio != 0 {
		snap.PBRatio = ptr(d.PBRatio / 100)
	}
	if d.MarketCap != 0 {
		snap.MarketCap = ptr(d.MarketCap / 1e8)
	}
	if d.EPS != 0 {
		snap.EPSForecast = ptr(d.EPS / 100)
	}
	return snap, nil
}

func ptr(v float64) *float64 { return &v }
