// Package adapters bridges the concrete market-data clients to the
// provider contract the usecase layer fetches through.
package adapters

import (
	"context"
	"log/slog"
	"time"

	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/sina"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/yahoo"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

// EastmoneyProvider は国内株・ETF の集約プロバイダです。
type EastmoneyProvider struct {
	client *eastmoney.Client
}

// NewEastmoneyProvider は新しい EastmoneyProvider を作成します。
func NewEastmoneyProvider(client *eastmoney.Client) *EastmoneyProvider {
	return &EastmoneyProvider{client: client}
}

func (p *EastmoneyProvider) Name() string { return "eastmoney" }

func (p *EastmoneyProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	return p.client.GetKlines(ctx, normalize.Code(asset.Code), start, end)
}

// GetSnapshot は当日のファンダメンタルズスナップショットを取得します。
func (p *EastmoneyProvider) GetSnapshot(ctx context.Context, code string) (*entity.Snapshot, error) {
	return p.client.GetSnapshot(ctx, normalize.Code(code))
}

// FuturesProvider は株価指数先物のプロバイダです。主力合約の解決を含みます。
type FuturesProvider struct {
	client *eastmoney.Client
}

// NewFuturesProvider は新しい FuturesProvider を作成します。
func NewFuturesProvider(client *eastmoney.Client) *FuturesProvider {
	return &FuturesProvider{client: client}
}

func (p *FuturesProvider) Name() string { return "eastmoney_futures" }

func (p *FuturesProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	return p.client.GetFuturesKlines(ctx, asset.Code, start, end)
}

// FundProvider はファンドのプロバイダです。ETF の kline と基準価額履歴の
// フォールバックをクライアント側で吸収しています。
type FundProvider struct {
	client *eastmoney.Client
}

// NewFundProvider は新しい FundProvider を作成します。
func NewFundProvider(client *eastmoney.Client) *FundProvider {
	return &FundProvider{client: client}
}

func (p *FundProvider) Name() string { return "eastmoney_fund" }

func (p *FundProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	return p.client.GetFundHistory(ctx, normalize.Code(asset.Code), start, end)
}

// YahooProvider はグローバル市場のフォールバックプロバイダです。
type YahooProvider struct {
	client *yahoo.Client
}

// NewYahooProvider は新しい YahooProvider を作成します。
func NewYahooProvider(client *yahoo.Client) *YahooProvider {
	return &YahooProvider{client: client}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	symbol := asset.Code
	if asset.IsDomestic() {
		symbol = normalize.SuffixSymbol(normalize.Code(asset.Code))
	}
	return p.client.GetKlines(ctx, symbol, start, end)
}

// SinaProvider は取引所直結フィードのプロバイダです。
type SinaProvider struct {
	client *sina.Client
}

// NewSinaProvider は新しい SinaProvider を作成します。
func NewSinaProvider(client *sina.Client) *SinaProvider {
	return &SinaProvider{client: client}
}

func (p *SinaProvider) Name() string { return "sina" }

func (p *SinaProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	return p.client.GetKlines(ctx, normalize.Code(asset.Code), start, end)
}

// storedRecordReader は正準ストアから期間検索できるリポジトリの抽象です。
type storedRecordReader interface {
	FindRange(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]assetent.MarketRecord, error)
}

// StoreCacheProvider はチェーンの最後に置く正準ストア読み出しです。
// 外部 API が全滅しても保存済みデータで応答するため、決してエラーを
// 返しません。
type StoreCacheProvider struct {
	records storedRecordReader
}

// NewStoreCacheProvider は新しい StoreCacheProvider を作成します。
func NewStoreCacheProvider(records storedRecordReader) *StoreCacheProvider {
	return &StoreCacheProvider{records: records}
}

func (p *StoreCacheProvider) Name() string { return "store_cache" }

func (p *StoreCacheProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	recs, err := p.records.FindRange(ctx, asset.ID, start, end, 0)
	if err != nil {
		slog.Warn("store cache read failed", "asset_id", asset.ID, "error", err)
		return nil, nil
	}
	bars := make([]entity.Bar, 0, len(recs))
	for _, rec := range recs {
		bars = append(bars, entity.Bar{
			Date:         rec.Date,
			Close:        rec.ClosePrice,
			Volume:       rec.Volume,
			TurnoverRate: rec.TurnoverRate,
			PERatio:      rec.PERatio,
			PBRatio:      rec.PBRatio,
			MarketCap:    rec.MarketCap,
			EPSForecast:  rec.EPSForecast,
		})
	}
	return bars, nil
}
