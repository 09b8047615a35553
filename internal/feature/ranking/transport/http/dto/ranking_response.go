// Package dto は順位表APIのレスポンスDTOを定義します。
package dto

// RankingEntryResponse は順位表1行のレスポンスDTOです。
// 基準値が解決できなかった行は rank / change_rate が null になります。
type RankingEntryResponse struct {
	RankType      string   `json:"rank_type"`
	Date          string   `json:"date"`
	AssetID       uint     `json:"asset_id"`
	UserID        uint     `json:"user_id"`
	Rank          *int     `json:"rank"`
	ChangeRate    *float64 `json:"change_rate"`
	Price         *float64 `json:"price"`
	BaselinePrice *float64 `json:"baseline_price"`
}

// BaselineResponse は1アセットの基準値レスポンスDTOです。
type BaselineResponse struct {
	AssetID       uint    `json:"asset_id"`
	BaselinePrice float64 `json:"baseline_price"`
	BaselineDate  string  `json:"baseline_date"`
}
