// Package adapters persists leaderboard rows with GORM.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

type rankingMySQL struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) *rankingMySQL {
	return &rankingMySQL{db: db}
}

// RankingModel は rankings テーブルの GORM モデルです。rank は MySQL の
// 予約語のため rank_no カラムに逃がしています。
type RankingModel struct {
	ID            uint      `gorm:"primaryKey"`
	RankType      string    `gorm:"size:16;not null;index:idx_rank_date_type,priority:2"`
	Date          time.Time `gorm:"not null;index:idx_rank_date_type,priority:1"`
	AssetID       uint      `gorm:"not null"`
	UserID        uint      `gorm:"not null"`
	Rank          *int      `gorm:"column:rank_no"`
	ChangeRate    *float64
	Price         *float64
	BaselinePrice *float64
	CreatedAt     time.Time
}

func (RankingModel) TableName() string {
	return "rankings"
}

func rankingToModel(e entity.RankingEntry) RankingModel {
	return RankingModel{
		ID:            e.ID,
		RankType:      e.RankType,
		Date:          tradingcal.DateOnly(e.Date),
		AssetID:       e.AssetID,
		UserID:        e.UserID,
		Rank:          e.Rank,
		ChangeRate:    e.ChangeRate,
		Price:         e.Price,
		BaselinePrice: e.BaselinePrice,
	}
}

func rankingToEntity(m RankingModel) entity.RankingEntry {
	return entity.RankingEntry{
		ID:            m.ID,
		RankType:      m.RankType,
		Date:          m.Date,
		AssetID:       m.AssetID,
		UserID:        m.UserID,
		Rank:          m.Rank,
		ChangeRate:    m.ChangeRate,
		Price:         m.Price,
		BaselinePrice: m.BaselinePrice,
		CreatedAt:     m.CreatedAt,
	}
}

// ReplaceForDate は指定日の順位表を丸ごと置き換えます。削除と挿入を
// 同一トランザクションで行い、途中失敗時は元の順位表が残ります。
func (r *rankingMySQL) ReplaceForDate(ctx context.Context, date time.Time, entries []entity.RankingEntry) error {
	date = tradingcal.DateOnly(date)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&RankingModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		models := make([]RankingModel, 0, len(entries))
		for _, e := range entries {
			m := rankingToModel(e)
			m.ID = 0
			m.Date = date
			models = append(models, m)
		}
		return tx.Create(&models).Error
	})
}

// FindByDate は指定日・種別の順位表を順位昇順で返します。順位 nil の
// 行は末尾に並びます。
func (r *rankingMySQL) FindByDate(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
	var models []RankingModel
	err := r.db.WithContext(ctx).
		Where("date = ? AND rank_type = ?", tradingcal.DateOnly(date), rankType).
		Order("rank_no IS NULL, rank_no ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]entity.RankingEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, rankingToEntity(m))
	}
	return entries, nil
}
