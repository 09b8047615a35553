package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain/entity"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func f(v float64) *float64 { return &v }

// mockProvider is a mock implementation of the Provider interface.
type mockProvider struct {
	name       string
	FetchFunc  func(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error)
	FetchCalls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Fetch(ctx context.Context, asset assetent.Asset, start, end time.Time) ([]entity.Bar, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, asset, start, end)
	}
	return nil, nil
}

// mockRecordRepository is an in-memory implementation of RecordRepository
// keyed by (assetID, date).
type mockRecordRepository struct {
	recs        map[string]assetent.MarketRecord
	UpsertCalls int
	UpsertErr   error
}

func newMockRecordRepository() *mockRecordRepository {
	return &mockRecordRepository{recs: make(map[string]assetent.MarketRecord)}
}

func recKey(assetID uint, d time.Time) string {
	return fmt.Sprintf("%d#%s", assetID, d.Format("2006-01-02"))
}

func (m *mockRecordRepository) Upsert(ctx context.Context, rec assetent.MarketRecord) error {
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.recs[recKey(rec.AssetID, rec.Date)] = rec
	return nil
}

func (m *mockRecordRepository) UpsertBatch(ctx context.Context, recs []assetent.MarketRecord) error {
	for _, rec := range recs {
		if err := m.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockRecordRepository) FindByDate(ctx context.Context, assetID uint, date time.Time) (assetent.MarketRecord, error) {
	rec, ok := m.recs[recKey(assetID, date)]
	if !ok {
		return assetent.MarketRecord{}, assetdomain.ErrRecordNotFound
	}
	return rec, nil
}

func (m *mockRecordRepository) sorted(assetID uint) []assetent.MarketRecord {
	out := make([]assetent.MarketRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		if rec.AssetID == assetID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (m *mockRecordRepository) FindLatestBefore(ctx context.Context, assetID uint, before time.Time) (assetent.MarketRecord, error) {
	recs := m.sorted(assetID)
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Date.Before(before) {
			return recs[i], nil
		}
	}
	return assetent.MarketRecord{}, assetdomain.ErrRecordNotFound
}

func (m *mockRecordRepository) FindLatestWithRatios(ctx context.Context, assetID uint) (assetent.MarketRecord, error) {
	recs := m.sorted(assetID)
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].PERatio != nil && *recs[i].PERatio != 0 {
			return recs[i], nil
		}
	}
	return assetent.MarketRecord{}, assetdomain.ErrRecordNotFound
}

// mockSnapshotProvider is a mock implementation of SnapshotProvider.
type mockSnapshotProvider struct {
	GetSnapshotFunc  func(ctx context.Context, code string) (*entity.Snapshot, error)
	GetSnapshotCalls int
}

func (m *mockSnapshotProvider) GetSnapshot(ctx context.Context, code string) (*entity.Snapshot, error) {
	m.GetSnapshotCalls++
	if m.GetSnapshotFunc != nil {
		return m.GetSnapshotFunc(ctx, code)
	}
	return nil, errors.New("GetSnapshotFunc is not implemented")
}

func domesticStock(id uint) assetent.Asset {
	return assetent.Asset{
		ID:        id,
		UserID:    1,
		AssetType: assetent.TypeStock,
		Market:    assetent.MarketShanghai,
		Code:      "600000",
		Name:      "浦发银行",
		StartDate: day("2025-12-01"),
		EndDate:   day("2026-12-31"),
	}
}
