package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
)

type assetMySQL struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *assetMySQL {
	return &assetMySQL{db: db}
}

type AssetModel struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"not null;index"`
	AssetType     string `gorm:"size:16;not null"`
	Market        string `gorm:"size:16;not null"`
	Code          string `gorm:"size:32;not null"`
	Name          string `gorm:"size:64;not null"`
	BaselinePrice *float64
	BaselineDate  *time.Time
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	IsPrimary     bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time

	Records []MarketRecordModel `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

func (AssetModel) TableName() string {
	return "assets"
}

func assetToEntity(m AssetModel) entity.Asset {
	return entity.Asset{
		ID:            m.ID,
		UserID:        m.UserID,
		AssetType:     m.AssetType,
		Market:        m.Market,
		Code:          m.Code,
		Name:          m.Name,
		BaselinePrice: m.BaselinePrice,
		BaselineDate:  m.BaselineDate,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		IsPrimary:     m.IsPrimary,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *assetMySQL) FindByID(ctx context.Context, id uint) (entity.Asset, error) {
	var m AssetModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Asset{}, domain.ErrAssetNotFound
		}
		return entity.Asset{}, err
	}
	return assetToEntity(m), nil
}

func (r *assetMySQL) ListAll(ctx context.Context) ([]entity.Asset, error) {
	var rows []AssetModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Asset, 0, len(rows))
	for _, m := range rows {
		out = append(out, assetToEntity(m))
	}
	return out, nil
}

func (r *assetMySQL) ListByIDs(ctx context.Context, ids []uint) ([]entity.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []AssetModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Asset, 0, len(rows))
	for _, m := range rows {
		out = append(out, assetToEntity(m))
	}
	return out, nil
}

func (r *assetMySQL) ListByUser(ctx context.Context, userID uint) ([]entity.Asset, error) {
	var rows []AssetModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Asset, 0, len(rows))
	for _, m := range rows {
		out = append(out, assetToEntity(m))
	}
	return out, nil
}

// UpdateBaseline は基準価格と基準日を遅延設定します。エンジンがアセットを
// 変更するのはこのフィールドだけです。
func (r *assetMySQL) UpdateBaseline(ctx context.Context, id uint, price float64, date time.Time) error {
	return r.db.WithContext(ctx).Model(&AssetModel{}).Where("id = ?", id).
		Updates(map[string]any{"baseline_price": price, "baseline_date": date}).Error
}
