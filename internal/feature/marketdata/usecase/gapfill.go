package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// defaultLookbackDays はギャップ埋めが遡る最大日数です。観測開始日が
// これより近ければそちらが優先されます。
const defaultLookbackDays = 30

// GapFiller は今日より前の取引日の欠損・不完全レコードを埋めます。
//
// 1 日ごとの判定:
//   - 非取引日: 何も読み書きしません。
//   - 価格とレシオが揃った完全レコード: スキップします。
//   - 価格のみのレコード: 参照レコードから比例外挿でレシオを導出します。
//   - レコード無し: 単日取得を行い、不足レシオは同じく導出します。
type GapFiller struct {
	records  RecordRepository
	lookback int
	now      func() time.Time
}

// NewGapFiller は新しい GapFiller を作成します。
func NewGapFiller(records RecordRepository) *GapFiller {
	return &GapFiller{records: records, lookback: defaultLookbackDays, now: tradingcal.Now}
}

// Fill は 1 アセット分のギャップを埋めます。対象は観測開始日と
// 遡り上限のうち近い方から今日の前日までの取引日です。
// force はスキップ判定を無視して全対象日を取り直します。
func (g *GapFiller) Fill(ctx context.Context, fetcher BarFetcher, asset assetent.Asset, force bool) error {
	today := tradingcal.DateOnly(g.now())
	start := today.AddDate(0, 0, -g.lookback)
	if obs := tradingcal.DateOnly(asset.StartDate); obs.After(start) {
		start = obs
	}

	for d := start; d.Before(today); d = d.AddDate(0, 0, 1) {
		if !tradingcal.IsTradingDay(d) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.fillDay(ctx, fetcher, asset, d, force); err != nil {
			// 1 日の失敗で残りの日を諦めません。
			slog.Error("gap fill failed for day",
				"asset_id", asset.ID, "date", d.Format("2006-01-02"), "error", err)
		}
	}
	return nil
}

// fillDay は 1 取引日分の欠損を判定して埋めます。force はレコードの
// 状態にかかわらず取り直します。
func (g *GapFiller) fillDay(ctx context.Context, fetcher BarFetcher, asset assetent.Asset, d time.Time, force bool) error {
	if !force {
		rec, err := g.records.FindByDate(ctx, asset.ID, d)
		switch {
		case err == nil:
			if rec.ClosePrice > 0 && rec.HasRatios() {
				return nil
			}
			if rec.ClosePrice > 0 {
				return g.deriveAndSave(ctx, asset, rec)
			}
			// 価格の無いレコードは欠損と同じ扱いで取り直します。
		case !errors.Is(err, assetdomain.ErrRecordNotFound):
			return err
		}
	}

	bars, err := fetcher.Fetch(ctx, asset, d, d)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		slog.Debug("no provider data for missing day",
			"asset_id", asset.ID, "date", d.Format("2006-01-02"))
		return nil
	}

	fetched := barToRecord(asset.ID, bars[len(bars)-1])
	fetched.Date = d
	if fetched.HasRatios() {
		return g.records.Upsert(ctx, fetched)
	}
	return g.deriveAndSave(ctx, asset, fetched)
}

// deriveAndSave は参照レコードのレシオを価格比で外挿して保存します。
// 導出式: derived = ref_ratio × (price / ref_price)。EPS は収益実績で
// あり価格に比例しないため、参照値をそのまま引き継ぎます。
func (g *GapFiller) deriveAndSave(ctx context.Context, asset assetent.Asset, rec assetent.MarketRecord) error {
	ref, err := g.records.FindLatestWithRatios(ctx, asset.ID)
	if err != nil {
		if errors.Is(err, assetdomain.ErrRecordNotFound) {
			// 参照が無ければ価格のみで保存します。後続の実行で
			// レシオ付きレコードが現れ次第埋まります。
			return g.records.Upsert(ctx, rec)
		}
		return err
	}
	if ref.ClosePrice <= 0 {
		return g.records.Upsert(ctx, rec)
	}

	scale := rec.ClosePrice / ref.ClosePrice
	if rec.PERatio == nil || *rec.PERatio == 0 {
		if ref.PERatio != nil && *ref.PERatio != 0 {
			v := *ref.PERatio * scale
			rec.PERatio = &v
		}
	}
	if rec.PBRatio == nil || *rec.PBRatio == 0 {
		if ref.PBRatio != nil && *ref.PBRatio != 0 {
			v := *ref.PBRatio * scale
			rec.PBRatio = &v
		}
	}
	if rec.MarketCap == nil || *rec.MarketCap == 0 {
		if ref.MarketCap != nil && *ref.MarketCap > 0 {
			v := *ref.MarketCap * scale
			rec.MarketCap = &v
		}
	}
	if rec.EPSForecast == nil && ref.EPSForecast != nil {
		v := *ref.EPSForecast
		rec.EPSForecast = &v
	}
	return g.records.Upsert(ctx, rec)
}

// Calibrate は指定日の単日取得と無条件保存を行います。スキップ判定や
// カレンダー抑制は一切適用しません。プロバイダが当日分を返さなかった
// 場合はエラーです。
func (g *GapFiller) Calibrate(ctx context.Context, fetcher BarFetcher, asset assetent.Asset, date time.Time) error {
	d := tradingcal.DateOnly(date)
	bars, err := fetcher.Fetch(ctx, asset, d, d)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("no provider data for asset %d on %s", asset.ID, d.Format("2006-01-02"))
	}
	rec := barToRecord(asset.ID, bars[len(bars)-1])
	rec.Date = d
	return g.records.Upsert(ctx, rec)
}
