package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

func oneBar(d string, close float64) []entity.Bar {
	return []entity.Bar{{Date: day(d), Close: close}}
}

func newTestRouter(aggregator, global, direct, futures, fund, store *mockProvider) *Router {
	return NewRouter(aggregator, global, direct, futures, fund, store)
}

func emptyProviders() (aggregator, global, direct, futures, fund, store *mockProvider) {
	return &mockProvider{name: "eastmoney"},
		&mockProvider{name: "yahoo"},
		&mockProvider{name: "sina"},
		&mockProvider{name: "eastmoney_futures"},
		&mockProvider{name: "eastmoney_fund"},
		&mockProvider{name: "store_cache"}
}

func TestRouter_Chain(t *testing.T) {
	aggregator, global, direct, futures, fund, store := emptyProviders()
	router := newTestRouter(aggregator, global, direct, futures, fund, store)

	testCases := []struct {
		name          string
		asset         assetent.Asset
		expectedChain []string
		expectErr     bool
	}{
		{
			name:          "domestic stock uses the full four-step chain",
			asset:         assetent.Asset{AssetType: assetent.TypeStock, Market: assetent.MarketShanghai},
			expectedChain: []string{"eastmoney", "yahoo", "sina", "store_cache"},
		},
		{
			name:          "foreign stock goes straight to the global provider",
			asset:         assetent.Asset{AssetType: assetent.TypeStock, Market: "US"},
			expectedChain: []string{"yahoo", "store_cache"},
		},
		{
			name:          "fund uses the fund chain",
			asset:         assetent.Asset{AssetType: assetent.TypeFund, Market: assetent.MarketShenzhen},
			expectedChain: []string{"eastmoney_fund", "store_cache"},
		},
		{
			name:          "futures use the futures chain",
			asset:         assetent.Asset{AssetType: assetent.TypeFutures, Market: "CFFEX"},
			expectedChain: []string{"eastmoney_futures", "store_cache"},
		},
		{
			name:      "forex has no chain",
			asset:     assetent.Asset{AssetType: assetent.TypeForex},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chain, err := router.Chain(tc.asset)
			if tc.expectErr {
				if !errors.Is(err, domain.ErrUnresolvableClass) {
					t.Fatalf("expected ErrUnresolvableClass, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chain) != len(tc.expectedChain) {
				t.Fatalf("expected %d providers, got %d", len(tc.expectedChain), len(chain))
			}
			for i, p := range chain {
				if p.Name() != tc.expectedChain[i] {
					t.Errorf("position %d: expected %s, got %s", i, tc.expectedChain[i], p.Name())
				}
			}
		})
	}
}

func TestFetcher_FallbackOrder(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	// 集約プロバイダは空、グローバルがデータを返す。
	global.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return oneBar("2026-01-05", 10.5), nil
	}

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	bars, err := fetcher.Fetch(ctx, domesticStock(1), day("2026-01-05"), day("2026-01-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 10.5 {
		t.Fatalf("unexpected bars %+v", bars)
	}
	if aggregator.FetchCalls != 1 {
		t.Errorf("expected aggregator tried first, calls=%d", aggregator.FetchCalls)
	}
	// データが出た時点でチェーンは打ち切られます。
	if direct.FetchCalls != 0 || store.FetchCalls != 0 {
		t.Errorf("expected later providers untouched, sina=%d store=%d", direct.FetchCalls, store.FetchCalls)
	}
}

func TestFetcher_NonRateLimitErrorAdvancesChain(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	aggregator.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return nil, errors.New("connection reset")
	}
	global.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return oneBar("2026-01-05", 10.5), nil
	}

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	bars, err := fetcher.Fetch(ctx, domesticStock(1), day("2026-01-05"), day("2026-01-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected fallback data, got %+v", bars)
	}

	// レート制限ではないのでベンチ入りせず、次のアセットでも再試行されます。
	_, _ = fetcher.Fetch(ctx, domesticStock(2), day("2026-01-05"), day("2026-01-05"))
	if aggregator.FetchCalls != 2 {
		t.Errorf("expected aggregator retried on next asset, calls=%d", aggregator.FetchCalls)
	}
}

func TestFetcher_RateLimitedProviderIsBenchedForBatch(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	aggregator.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return nil, domain.ErrRateLimited
	}
	global.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return oneBar("2026-01-05", 10.5), nil
	}

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	for id := uint(1); id <= 3; id++ {
		bars, err := fetcher.Fetch(ctx, domesticStock(id), day("2026-01-05"), day("2026-01-05"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(bars) != 1 {
			t.Fatalf("expected fallback data for asset %d", id)
		}
	}

	// 同一バッチ内の 2 件目以降ではベンチ入りしたプロバイダを呼びません。
	if aggregator.FetchCalls != 1 {
		t.Errorf("expected 1 call to rate limited provider, got %d", aggregator.FetchCalls)
	}
	if global.FetchCalls != 3 {
		t.Errorf("expected 3 calls to fallback provider, got %d", global.FetchCalls)
	}

	// 新しいバッチ (新しい Fetcher) ではベンチが解除されます。
	fresh := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	_, _ = fresh.Fetch(ctx, domesticStock(1), day("2026-01-05"), day("2026-01-05"))
	if aggregator.FetchCalls != 2 {
		t.Errorf("expected benching reset per batch, calls=%d", aggregator.FetchCalls)
	}
}

func TestFetcher_RateLimitedMessagePattern(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	// ラップされていない生のメッセージでもパターン検出でベンチ入りします。
	aggregator.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return nil, errors.New("http 429 Too Many Requests")
	}
	global.FetchFunc = func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
		return oneBar("2026-01-05", 10.5), nil
	}

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	_, _ = fetcher.Fetch(ctx, domesticStock(1), day("2026-01-05"), day("2026-01-05"))
	_, _ = fetcher.Fetch(ctx, domesticStock(2), day("2026-01-05"), day("2026-01-05"))
	if aggregator.FetchCalls != 1 {
		t.Errorf("expected pattern-detected rate limit to bench provider, calls=%d", aggregator.FetchCalls)
	}
}

func TestFetcher_AllEmptyReturnsNoData(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	bars, err := fetcher.Fetch(ctx, domesticStock(1), day("2026-01-05"), day("2026-01-05"))
	if err != nil {
		t.Fatalf("empty chain result must not be an error, got %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no bars, got %+v", bars)
	}
	if store.FetchCalls != 1 {
		t.Errorf("expected store cache consulted last, calls=%d", store.FetchCalls)
	}
}

func TestFetcher_UnresolvableClass(t *testing.T) {
	ctx := context.Background()
	aggregator, global, direct, futures, fund, store := emptyProviders()

	fetcher := NewFetcher(newTestRouter(aggregator, global, direct, futures, fund, store))
	forex := assetent.Asset{ID: 9, AssetType: assetent.TypeForex, Code: "USDCNY"}
	_, err := fetcher.Fetch(ctx, forex, day("2026-01-05"), day("2026-01-05"))
	if !errors.Is(err, domain.ErrUnresolvableClass) {
		t.Fatalf("expected ErrUnresolvableClass, got %v", err)
	}
}
