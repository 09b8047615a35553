// Package dto は更新ジョブAPIのリクエスト/レスポンスDTOを定義します。
package dto

// StartUpdateRequest は一括更新開始リクエストのDTOです。
// AssetIDs が空の場合は全アセットが対象になります。
type StartUpdateRequest struct {
	AssetIDs []uint `json:"asset_ids"`
	Force    bool   `json:"force"`
}

// StartUpdateResponse は一括更新開始レスポンスのDTOです。
type StartUpdateResponse struct {
	JobID string `json:"job_id"`
}

// CalibrateRequest は単一日付の強制再取得リクエストのDTOです。
type CalibrateRequest struct {
	AssetID uint   `json:"asset_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
}
