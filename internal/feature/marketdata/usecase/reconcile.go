package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// RecordRepository は正準ストアへの読み書きを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RecordRepository interface {
	Upsert(ctx context.Context, rec assetent.MarketRecord) error
	UpsertBatch(ctx context.Context, recs []assetent.MarketRecord) error
	FindByDate(ctx context.Context, assetID uint, date time.Time) (assetent.MarketRecord, error)
	FindLatestBefore(ctx context.Context, assetID uint, before time.Time) (assetent.MarketRecord, error)
	FindLatestWithRatios(ctx context.Context, assetID uint) (assetent.MarketRecord, error)
}

// SnapshotProvider は当日のファンダメンタルズを提供します。kline には
// PE/PB が乗らないため、当日分だけ別途取得して合成します。
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, code string) (*entity.Snapshot, error)
}

// BarFetcher はプロバイダチェーン経由の取得操作です。実体は Fetcher ですが
// テストではスタブに差し替えます。
type BarFetcher interface {
	Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error)
}

// Reconciler は「今日」のデータを確定させる調整器です。
//
// 日次の振る舞い:
//   - 今日の分は常に取得します (過去日付向けのカレンダー抑制は適用しない)。
//   - 取引時間中に書いた値は暫定で、後続の実行が常に上書きします。
//   - 大引け後に書いた値が確定値となり、ギャップ埋めの参照になります。
//   - 全プロバイダが失敗した場合は直近の確定足を今日の日付で借用し、
//     借用元の日付をレコードに残します。
type Reconciler struct {
	records   RecordRepository
	snapshots SnapshotProvider
	now       func() time.Time
}

// NewReconciler は新しい Reconciler を作成します。
func NewReconciler(records RecordRepository, snapshots SnapshotProvider) *Reconciler {
	return &Reconciler{records: records, snapshots: snapshots, now: tradingcal.Now}
}

// ReconcileToday は 1 アセット分の当日レコードを取得・保存します。
// 週末は直近の取引日 (金曜) を対象日とします。
func (r *Reconciler) ReconcileToday(ctx context.Context, fetcher BarFetcher, asset assetent.Asset) error {
	now := r.now()
	target := tradingcal.DateOnly(tradingcal.LatestTradingDay(now))

	bars, err := fetcher.Fetch(ctx, asset, target, target)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return r.borrowLatest(ctx, asset, target)
	}

	bar := bars[len(bars)-1]
	rec := barToRecord(asset.ID, bar)
	rec.Date = target

	// 国内株は kline にファンダメンタルズが乗らないため、当日分は
	// スナップショット API から補完します。失敗しても価格だけで保存します。
	if r.snapshots != nil && asset.AssetType == assetent.TypeStock && asset.IsDomestic() && !rec.HasRatios() {
		if snap, err := r.snapshots.GetSnapshot(ctx, asset.Code); err != nil {
			slog.Warn("snapshot fetch failed, saving price only", "asset_id", asset.ID, "error", err)
		} else if snap != nil {
			rec.PERatio = snap.PERatio
			rec.PBRatio = snap.PBRatio
			rec.MarketCap = snap.MarketCap
			rec.EPSForecast = snap.EPSForecast
		}
	}

	if tradingcal.IsTradingHours(now) {
		slog.Debug("saving provisional intraday record", "asset_id", asset.ID, "date", target.Format("2006-01-02"))
	}
	return r.records.Upsert(ctx, rec)
}

// borrowLatest は全プロバイダが失敗した当日分として、直近の確定足を
// 今日の日付で書き込みます。借用レコードには借用元の日付を残し、
// 実データが届き次第 Upsert のマージで上書きされます。
func (r *Reconciler) borrowLatest(ctx context.Context, asset assetent.Asset, target time.Time) error {
	prev, err := r.records.FindLatestBefore(ctx, asset.ID, target)
	if err != nil {
		if errors.Is(err, assetdomain.ErrRecordNotFound) {
			slog.Warn("no data for today and nothing to borrow", "asset_id", asset.ID)
			return nil
		}
		return err
	}

	borrowed := prev
	borrowed.ID = 0
	borrowed.Date = target
	if borrowed.Additional == nil {
		borrowed.Additional = map[string]any{}
	}
	borrowed.Additional[assetent.AdditionalKeyBorrowedFrom] = prev.Date.Format("2006-01-02")

	slog.Info("borrowing latest settled bar for today",
		"asset_id", asset.ID,
		"borrowed_from", prev.Date.Format("2006-01-02"),
		"date", target.Format("2006-01-02"))
	return r.records.Upsert(ctx, borrowed)
}

// barToRecord はプロバイダの Bar を正準レコードに写します。
// 固定カラム外のプロバイダ列は Additional に流し込みます。
func barToRecord(assetID uint, bar entity.Bar) assetent.MarketRecord {
	rec := assetent.MarketRecord{
		AssetID:      assetID,
		Date:         tradingcal.DateOnly(bar.Date),
		ClosePrice:   bar.Close,
		Volume:       bar.Volume,
		TurnoverRate: bar.TurnoverRate,
		PERatio:      bar.PERatio,
		PBRatio:      bar.PBRatio,
		MarketCap:    bar.MarketCap,
		EPSForecast:  bar.EPSForecast,
	}

	extra := map[string]any{}
	for k, v := range bar.Extra {
		extra[k] = v
	}
	if bar.Open != nil {
		extra["open"] = *bar.Open
	}
	if bar.High != nil {
		extra["high"] = *bar.High
	}
	if bar.Low != nil {
		extra["low"] = *bar.Low
	}
	if bar.Turnover != nil {
		extra["turnover"] = *bar.Turnover
	}
	if bar.Amplitude != nil {
		extra["amplitude"] = *bar.Amplitude
	}
	if bar.ChangePct != nil {
		extra["change_pct"] = *bar.ChangePct
	}
	if bar.ChangeAmount != nil {
		extra["change_amount"] = *bar.ChangeAmount
	}
	if len(extra) > 0 {
		rec.Additional = extra
	}
	return rec
}
