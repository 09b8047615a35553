package usecase

import (
	"context"
	"log/slog"
	"time"

	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

// Fetcher は 1 バッチ更新分のプロバイダ呼び出しを実行します。
// レート制限を踏んだプロバイダはベンチ入りし、同じバッチの残りの
// アセットではスキップされます。ベンチはバッチの生存期間だけ有効な
// ため、バッチごとに NewFetcher で作り直します。
type Fetcher struct {
	router  *Router
	benched map[string]bool
}

// NewFetcher は新しい Fetcher を作成します。
func NewFetcher(router *Router) *Fetcher {
	return &Fetcher{router: router, benched: make(map[string]bool)}
}

// Fetch はアセットのチェーンを順に試し、最初に結果を返したプロバイダの
// データを返します。全プロバイダが空だった場合は空スライスを返します。
// レート制限以外のプロバイダ例外はログに残して空結果として扱い、
// 1 プロバイダの失敗がバッチ全体を中断させることはありません。
func (f *Fetcher) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	chain, err := f.router.Chain(asset)
	if err != nil {
		return nil, err
	}

	for _, p := range chain {
		if f.benched[p.Name()] {
			slog.Debug("skipping rate limited provider", "provider", p.Name(), "asset_id", asset.ID)
			continue
		}

		bars, err := p.Fetch(ctx, asset, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if domain.IsRateLimited(err) {
				slog.Warn("provider rate limited, benching for this batch",
					"provider", p.Name(), "asset_id", asset.ID, "error", err)
				f.benched[p.Name()] = true
			} else {
				slog.Error("provider fetch failed, trying next",
					"provider", p.Name(), "asset_id", asset.ID, "error", err)
			}
			continue
		}
		if len(bars) == 0 {
			continue
		}
		slog.Debug("fetched bars", "provider", p.Name(), "asset_id", asset.ID, "bars", len(bars))
		return bars, nil
	}
	return nil, nil
}
