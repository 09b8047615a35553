package eastmoney

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

// futuresMarketCFFEX は中国金融先物取引所の secid 市場プレフィックスです。
const futuresMarketCFFEX = "8"

// continuousContracts は主力合約が解決できなかった場合に使う連続合約です。
var continuousContracts = map[string]string{
	"IF": "IF0",
	"IH": "IH0",
	"IC": "IC0",
	"IM": "IM0",
}

// ResolveMainContract は品種ファミリー (IF/IH/IC/IM) の現在の主力合約コードを
// 返します。リストの取得に失敗した場合やフラグ付きの行が無い場合は連続合約に
// フォールバックし、エラーは返しません。
func (c *Client) ResolveMainContract(ctx context.Context, family string) string {
	family = strings.ToUpper(family)
	fallback, ok := continuousContracts[family]
	if !ok {
		fallback = family + "0"
	}

	reqURL := fmt.Sprintf("%s/list/220?orderBy=zdf&sort=desc&pageSize=100&pageIndex=0&field=dm,name,zl", c.cfg.FutsBaseURL)
	var res dto.FuturesListResponse
	if err := c.getJSON(ctx, reqURL, "", &res); err != nil {
		slog.Warn("futures contract list unavailable, using continuous contract",
			"family", family, "fallback", fallback, "error", err)
		return fallback
	}

	for _, row := range res.List {
		if row.IsMain == 1 && strings.HasPrefix(strings.ToUpper(row.Code), family) {
			return strings.ToUpper(row.Code)
		}
	}
	return fallback
}

// GetFuturesKlines は株価指数先物の日足を取得します。family は品種ファミリー
// (IF など) か具体的な合約コード (IF2603 など) のどちらでも構いません。
func (c *Client) GetFuturesKlines(ctx context.Context, family string, start, end time.Time) ([]entity.Bar, error) {
	family = strings.ToUpper(family)
	contract := family
	if _, isFamily := continuousContracts[family]; isFamily {
		contract = c.ResolveMainContract(ctx, family)
	}

	bars, err := c.klinesBySecID(ctx, futuresMarketCFFEX+"."+contract, start, end)
	if err != nil || len(bars) > 0 {
		return bars, err
	}

	// 主力合約で空だった場合は連続合約を試します。
	if fallback, ok := continuousContracts[family]; ok && fallback != contract {
		return c.klinesBySecID(ctx, futuresMarketCFFEX+"."+fallback, start, end)
	}
	return nil, nil
}
