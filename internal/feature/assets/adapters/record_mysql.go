package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

type recordMySQL struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *recordMySQL {
	return &recordMySQL{db: db}
}

type MarketRecordModel struct {
	ID           uint      `gorm:"primaryKey"`
	AssetID      uint      `gorm:"not null;uniqueIndex:rec_asset_date,priority:1"`
	Date         time.Time `gorm:"not null;uniqueIndex:rec_asset_date,priority:2"`
	ClosePrice   float64   `gorm:"not null"`
	Volume       *float64
	TurnoverRate *float64
	PERatio      *float64
	PBRatio      *float64
	MarketCap    *float64
	EPSForecast  *float64
	Additional   *string `gorm:"type:text"` // JSON
	CreatedAt    time.Time
}

func (MarketRecordModel) TableName() string {
	return "market_records"
}

func recordToModel(e entity.MarketRecord) MarketRecordModel {
	m := MarketRecordModel{
		ID:           e.ID,
		AssetID:      e.AssetID,
		Date:         tradingcal.DateOnly(e.Date),
		ClosePrice:   e.ClosePrice,
		Volume:       e.Volume,
		TurnoverRate: e.TurnoverRate,
		PERatio:      e.PERatio,
		PBRatio:      e.PBRatio,
		MarketCap:    e.MarketCap,
		EPSForecast:  e.EPSForecast,
	}
	if len(e.Additional) > 0 {
		if b, err := json.Marshal(e.Additional); err == nil {
			s := string(b)
			m.Additional = &s
		}
	}
	return m
}

func recordToEntity(m MarketRecordModel) entity.MarketRecord {
	e := entity.MarketRecord{
		ID:           m.ID,
		AssetID:      m.AssetID,
		Date:         tradingcal.DateOnly(m.Date),
		ClosePrice:   m.ClosePrice,
		Volume:       m.Volume,
		TurnoverRate: m.TurnoverRate,
		PERatio:      m.PERatio,
		PBRatio:      m.PBRatio,
		MarketCap:    m.MarketCap,
		EPSForecast:  m.EPSForecast,
		CreatedAt:    m.CreatedAt,
	}
	if m.Additional != nil && *m.Additional != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(*m.Additional), &extra); err == nil {
			e.Additional = extra
		}
	}
	return e
}

// mergeInto は incoming の非 nil フィールドだけを既存モデルへ上書きします。
// 省略されたフィールドの既存値は保持します（upsert の契約）。
func mergeInto(m *MarketRecordModel, e entity.MarketRecord) {
	m.ClosePrice = e.ClosePrice
	if e.Volume != nil {
		m.Volume = e.Volume
	}
	if e.TurnoverRate != nil {
		m.TurnoverRate = e.TurnoverRate
	}
	if e.PERatio != nil {
		m.PERatio = e.PERatio
	}
	if e.PBRatio != nil {
		m.PBRatio = e.PBRatio
	}
	// 市値は 0 を計算不能の印として扱うため、正の値のみ上書き
	if e.MarketCap != nil && *e.MarketCap > 0 {
		m.MarketCap = e.MarketCap
	}
	if e.EPSForecast != nil {
		m.EPSForecast = e.EPSForecast
	}
	if len(e.Additional) > 0 {
		if b, err := json.Marshal(e.Additional); err == nil {
			s := string(b)
			m.Additional = &s
		}
	} else if !e.IsTemporary() && m.Additional != nil {
		// 実データで上書きされた借用レコードはフラグを失う
		var extra map[string]any
		if err := json.Unmarshal([]byte(*m.Additional), &extra); err == nil {
			if _, ok := extra[entity.AdditionalKeyBorrowedFrom]; ok {
				delete(extra, entity.AdditionalKeyBorrowedFrom)
				if b, err := json.Marshal(extra); err == nil {
					s := string(b)
					m.Additional = &s
				}
			}
		}
	}
}

func upsertTx(tx *gorm.DB, e entity.MarketRecord) error {
	day := tradingcal.DateOnly(e.Date)
	var existing MarketRecordModel
	err := tx.Where("asset_id = ? AND date = ?", e.AssetID, day).First(&existing).Error
	switch {
	case err == nil:
		mergeInto(&existing, e)
		return tx.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		m := recordToModel(e)
		return tx.Create(&m).Error
	default:
		return err
	}
}

// Upsert は (asset_id, date) をキーに 1 レコードを原子的に挿入または更新します。
func (r *recordMySQL) Upsert(ctx context.Context, rec entity.MarketRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertTx(tx, rec)
	})
}

// UpsertBatch はバッチ全体を 1 トランザクションでコミットします。
// 途中で失敗した場合はバッチ全体をロールバックします。
func (r *recordMySQL) UpsertBatch(ctx context.Context, recs []entity.MarketRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			if err := upsertTx(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recordMySQL) FindByDate(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	var m MarketRecordModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND date = ?", assetID, tradingcal.DateOnly(date)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.MarketRecord{}, domain.ErrRecordNotFound
		}
		return entity.MarketRecord{}, err
	}
	return recordToEntity(m), nil
}

// FindLatestBefore は指定日より前の直近レコードを返します。
func (r *recordMySQL) FindLatestBefore(ctx context.Context, assetID uint, before time.Time) (entity.MarketRecord, error) {
	var m MarketRecordModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND date < ?", assetID, tradingcal.DateOnly(before)).
		Order("date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.MarketRecord{}, domain.ErrRecordNotFound
		}
		return entity.MarketRecord{}, err
	}
	return recordToEntity(m), nil
}

// FindLatestOnOrBefore は指定日以前の直近レコードを返します（ランキング計算用）。
func (r *recordMySQL) FindLatestOnOrBefore(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	var m MarketRecordModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND date <= ?", assetID, tradingcal.DateOnly(date)).
		Order("date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.MarketRecord{}, domain.ErrRecordNotFound
		}
		return entity.MarketRecord{}, err
	}
	return recordToEntity(m), nil
}

// FindFirstOnOrAfter は指定日以降の最初のレコードを返します（基準価格の代替解決用）。
func (r *recordMySQL) FindFirstOnOrAfter(ctx context.Context, assetID uint, date time.Time) (entity.MarketRecord, error) {
	var m MarketRecordModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND date >= ?", assetID, tradingcal.DateOnly(date)).
		Order("date ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.MarketRecord{}, domain.ErrRecordNotFound
		}
		return entity.MarketRecord{}, err
	}
	return recordToEntity(m), nil
}

// FindLatestWithRatios は PE が非 null かつ非ゼロの直近レコードを返します。
// 財務指標の按分補完における基準レコードです。
func (r *recordMySQL) FindLatestWithRatios(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
	var m MarketRecordModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND pe_ratio IS NOT NULL AND pe_ratio <> 0", assetID).
		Order("date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.MarketRecord{}, domain.ErrRecordNotFound
		}
		return entity.MarketRecord{}, err
	}
	return recordToEntity(m), nil
}

// FindRange は日付範囲のレコードを新しい順に返します。limit<=0 は無制限です。
func (r *recordMySQL) FindRange(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
	q := r.db.WithContext(ctx).
		Where("asset_id = ? AND date >= ? AND date <= ?",
			assetID, tradingcal.DateOnly(start), tradingcal.DateOnly(end)).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []MarketRecordModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.MarketRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, recordToEntity(m))
	}
	return out, nil
}
