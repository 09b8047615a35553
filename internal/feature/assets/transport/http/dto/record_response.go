// Package dto はアセット読み取りAPIのレスポンスDTOを定義します。
package dto

// AssetResponse はアセット1件のレスポンスDTOです。
type AssetResponse struct {
	ID            uint     `json:"id"`
	UserID        uint     `json:"user_id"`
	AssetType     string   `json:"asset_type"`
	Market        string   `json:"market"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	BaselinePrice *float64 `json:"baseline_price"`
	BaselineDate  *string  `json:"baseline_date"`
	StartDate     string   `json:"start_date"`
}

// MarketRecordResponse は日次レコード1件のレスポンスDTOです。
// 欠損している指標は null のまま返します。
type MarketRecordResponse struct {
	AssetID      uint           `json:"asset_id"`
	Date         string         `json:"date"`
	ClosePrice   float64        `json:"close_price"`
	Volume       *float64       `json:"volume"`
	TurnoverRate *float64       `json:"turnover_rate"`
	PERatio      *float64       `json:"pe_ratio"`
	PBRatio      *float64       `json:"pb_ratio"`
	MarketCap    *float64       `json:"market_cap"`
	EPSForecast  *float64       `json:"eps_forecast"`
	Additional   map[string]any `json:"additional_data,omitempty"`
}
