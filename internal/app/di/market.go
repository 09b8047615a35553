// Package di provides dependency injection factories for creating application components.
package di

import (
	mdadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/eastmoney"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/sina"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/adapters/yahoo"
	mdusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/usecase"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/cache"
	infrahttp "github.com/howie79794-sys/sweep-the-board/internal/platform/http"
)

// MarketPipeline bundles the provider chain and the write-side usecases
// that every entry point (HTTP server and CLI) wires identically.
type MarketPipeline struct {
	Router     *mdusecase.Router
	Reconciler *mdusecase.Reconciler
	GapFiller  *mdusecase.GapFiller
}

// NewMarketPipeline creates fully configured provider clients and chains
// them behind the router, with the canonical store as the last resort.
func NewMarketPipeline(records cache.RecordRepository) *MarketPipeline {
	emCfg := eastmoney.LoadConfig()
	emClient := eastmoney.NewClient(emCfg, infrahttp.NewHTTPClient(emCfg.Timeout))

	yCfg := yahoo.LoadConfig()
	yClient := yahoo.NewClient(yCfg, infrahttp.NewHTTPClient(yCfg.Timeout))

	sCfg := sina.LoadConfig()
	sClient := sina.NewClient(sCfg, infrahttp.NewHTTPClient(sCfg.Timeout))

	aggregator := mdadapters.NewEastmoneyProvider(emClient)
	router := mdusecase.NewRouter(
		aggregator,
		mdadapters.NewYahooProvider(yClient),
		mdadapters.NewSinaProvider(sClient),
		mdadapters.NewFuturesProvider(emClient),
		mdadapters.NewFundProvider(emClient),
		mdadapters.NewStoreCacheProvider(records),
	)

	return &MarketPipeline{
		Router:     router,
		Reconciler: mdusecase.NewReconciler(records, aggregator),
		GapFiller:  mdusecase.NewGapFiller(records),
	}
}
