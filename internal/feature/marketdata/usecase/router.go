// Package usecase implements provider routing, fallback execution,
// today's reconciliation and historical gap-filling for daily market
// data.
package usecase

import (
	"context"
	"fmt"
	"time"

	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

// Provider はチェーン内の 1 データソースです。
// 空スライスは「データ無し」を意味し、エラーではありません。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error)
}

// Router はアセット種別と市場タグからプロバイダチェーンを選択します。
// チェーンは優先順で並び、末尾は常に正準ストアのキャッシュです。
type Router struct {
	aggregator Provider // 国内集約 (Eastmoney)
	global     Provider // グローバル (Yahoo)
	direct     Provider // 取引所直結 (Sina)
	futures    Provider // 株価指数先物
	fund       Provider // ファンド
	store      Provider // 正準ストア (最終フォールバック)
}

// NewRouter は新しい Router を作成します。
func NewRouter(aggregator, global, direct, futures, fund, store Provider) *Router {
	return &Router{
		aggregator: aggregator,
		global:     global,
		direct:     direct,
		futures:    futures,
		fund:       fund,
		store:      store,
	}
}

// Chain は指定アセットのプロバイダチェーンを返します。
// 対応するチェーンが構成できない種別は ErrUnresolvableClass を返し、
// 呼び出し元はそのアセットをスキップします。
func (r *Router) Chain(asset assetent.Asset) ([]Provider, error) {
	switch asset.AssetType {
	case assetent.TypeStock:
		if asset.IsDomestic() {
			return []Provider{r.aggregator, r.global, r.direct, r.store}, nil
		}
		return []Provider{r.global, r.store}, nil
	case assetent.TypeFund:
		return []Provider{r.fund, r.store}, nil
	case assetent.TypeFutures:
		return []Provider{r.futures, r.store}, nil
	default:
		// 外国為替を含む未対応の種別。
		return nil, fmt.Errorf("asset type %q: %w", asset.AssetType, domain.ErrUnresolvableClass)
	}
}
