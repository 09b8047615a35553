// Package usecase はアセットとその日次レコードの読み取り系ユースケースを提供します。
package usecase

import (
	"context"
	"time"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// defaultHistoryDays は期間未指定時に遡る日数です。
const defaultHistoryDays = 30

// AssetRepository はアセット読み取りに必要な永続化インターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AssetRepository interface {
	FindByID(ctx context.Context, id uint) (entity.Asset, error)
	ListAll(ctx context.Context) ([]entity.Asset, error)
}

// RecordRepository は日次レコード読み取りに必要な永続化インターフェースを定義します。
type RecordRepository interface {
	FindRange(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error)
	FindLatestOnOrBefore(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error)
}

// AssetQueryUsecase はアセット一覧とレコード履歴の参照を提供します。
type AssetQueryUsecase struct {
	assets  AssetRepository
	records RecordRepository
	now     func() time.Time
}

// NewAssetQueryUsecase はAssetQueryUsecaseの新しいインスタンスを生成します。
func NewAssetQueryUsecase(assets AssetRepository, records RecordRepository) *AssetQueryUsecase {
	return &AssetQueryUsecase{assets: assets, records: records, now: tradingcal.Now}
}

// ListAssets は追跡中の全アセットを返します。
func (u *AssetQueryUsecase) ListAssets(ctx context.Context) ([]entity.Asset, error) {
	return u.assets.ListAll(ctx)
}

// GetHistory は指定アセットの [start, end] 範囲のレコードを日付昇順で返します。
// start/end がゼロ値の場合は直近30日をデフォルトとして使います。
func (u *AssetQueryUsecase) GetHistory(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
	if _, err := u.assets.FindByID(ctx, assetID); err != nil {
		return nil, err
	}
	today := tradingcal.DateOnly(u.now())
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -defaultHistoryDays)
	}
	return u.records.FindRange(ctx, assetID, start, end, limit)
}

// GetLatest は指定アセットの本日以前で最新のレコードを返します。
func (u *AssetQueryUsecase) GetLatest(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
	if _, err := u.assets.FindByID(ctx, assetID); err != nil {
		return entity.MarketRecord{}, err
	}
	return u.records.FindLatestOnOrBefore(ctx, assetID, tradingcal.DateOnly(u.now()))
}
