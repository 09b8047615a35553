// Package dto defines the raw response shapes of the Eastmoney push2 APIs.
package dto

// KlineResponse is the envelope of /api/qt/stock/kline/get.
// Each kline string is a comma-joined row:
// date,open,close,high,low,volume,turnover,amplitude,change_pct,change_amount,turnover_rate
type KlineResponse struct {
	RC   int    `json:"rc"`
	Msg  string `json:"msg"`
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// QuoteResponse is the envelope of /api/qt/stock/get (current snapshot).
// Numeric fields arrive scaled by 100; see the field map in snapshot.go.
type QuoteResponse struct {
	RC   int    `json:"rc"`
	Msg  string `json:"msg"`
	Data *struct {
		Price       float64 `json:"f43"`  // 現在値 ×100
		EPS         float64 `json:"f55"`  // 毎株収益 ×100
		Code        string  `json:"f57"`  // 銘柄コード
		Name        string  `json:"f58"`  // 銘柄名
		MarketCap   float64 `json:"f116"` // 総市値（元）
		PERatioTTM  float64 `json:"f162"` // PE(TTM) ×100
		PBRatio     float64 `json:"f167"` // PB ×100
	} `json:"data"`
}
