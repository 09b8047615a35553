// Package usecase computes daily leaderboards from the canonical
// record store.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/domain/entity"
	userent "github.com/howie79794-sys/sweep-the-board/internal/feature/users/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// AssetRepository は基準値の読み書きとアセット一覧に使うリポジトリの抽象です。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AssetRepository interface {
	FindByID(ctx context.Context, id uint) (assetent.Asset, error)
	ListAll(ctx context.Context) ([]assetent.Asset, error)
	UpdateBaseline(ctx context.Context, id uint, price float64, date time.Time) error
}

// RecordRepository は基準値解決と評価額の読み出しに使うストアの抽象です。
type RecordRepository interface {
	FindByDate(ctx context.Context, assetID uint, date time.Time) (assetent.MarketRecord, error)
	FindFirstOnOrAfter(ctx context.Context, assetID uint, date time.Time) (assetent.MarketRecord, error)
	FindLatestOnOrBefore(ctx context.Context, assetID uint, date time.Time) (assetent.MarketRecord, error)
}

// UserRepository はユーザー順位の対象ユーザーを引くリポジトリの抽象です。
type UserRepository interface {
	ListActive(ctx context.Context) ([]userent.User, error)
}

// RankingRepository は日付単位の順位表の置き換え保存です。
type RankingRepository interface {
	ReplaceForDate(ctx context.Context, date time.Time, entries []entity.RankingEntry) error
	FindByDate(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error)
}

// ErrBaselineUnresolved は基準値がどの手段でも解決できなかったことを示します。
var ErrBaselineUnresolved = errors.New("baseline price unresolved")

// RankingUsecase は日次順位表の計算と読み出しを提供します。
type RankingUsecase struct {
	assets   AssetRepository
	records  RecordRepository
	users    UserRepository
	rankings RankingRepository
}

// NewRankingUsecase は新しい RankingUsecase を作成します。
func NewRankingUsecase(assets AssetRepository, records RecordRepository, users UserRepository, rankings RankingRepository) *RankingUsecase {
	return &RankingUsecase{assets: assets, records: records, users: users, rankings: rankings}
}

// resolveBaseline は基準値を解決します。優先順:
//  1. アセットに保存済みの基準値
//  2. 基準日 (未設定なら観測開始日) の終値
//  3. 基準日以降で最初に見つかる終値
//
// 2 と 3 で解決した値はアセットに遅延保存され、以後の計算で再利用されます。
func (u *RankingUsecase) resolveBaseline(ctx context.Context, asset assetent.Asset) (float64, time.Time, error) {
	if asset.BaselinePrice != nil && *asset.BaselinePrice > 0 {
		d := asset.StartDate
		if asset.BaselineDate != nil {
			d = *asset.BaselineDate
		}
		return *asset.BaselinePrice, tradingcal.DateOnly(d), nil
	}

	baseDate := tradingcal.DateOnly(asset.StartDate)
	if asset.BaselineDate != nil {
		baseDate = tradingcal.DateOnly(*asset.BaselineDate)
	}

	rec, err := u.records.FindByDate(ctx, asset.ID, baseDate)
	if errors.Is(err, assetdomain.ErrRecordNotFound) {
		rec, err = u.records.FindFirstOnOrAfter(ctx, asset.ID, baseDate)
	}
	if err != nil {
		if errors.Is(err, assetdomain.ErrRecordNotFound) {
			return 0, time.Time{}, ErrBaselineUnresolved
		}
		return 0, time.Time{}, err
	}

	if err := u.assets.UpdateBaseline(ctx, asset.ID, rec.ClosePrice, rec.Date); err != nil {
		// 保存に失敗しても今回の計算には解決済みの値を使います。
		slog.Warn("failed to persist resolved baseline", "asset_id", asset.ID, "error", err)
	}
	return rec.ClosePrice, rec.Date, nil
}

// GetBaseline は 1 アセットの基準値と基準日を返します。
func (u *RankingUsecase) GetBaseline(ctx context.Context, assetID uint) (float64, time.Time, error) {
	asset, err := u.assets.FindByID(ctx, assetID)
	if err != nil {
		return 0, time.Time{}, err
	}
	return u.resolveBaseline(ctx, asset)
}

// ComputeRankings は指定日の順位表を計算して置き換え保存します。
// 基準値か当日価格が解決できないアセットも順位 nil の行として残します
// (順位付きの全行の後ろに並びます)。
func (u *RankingUsecase) ComputeRankings(ctx context.Context, date time.Time) error {
	date = tradingcal.DateOnly(date)

	assets, err := u.assets.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}

	ranked := make([]entity.RankingEntry, 0, len(assets))
	unranked := make([]entity.RankingEntry, 0)
	for _, asset := range assets {
		e := u.scoreAsset(ctx, asset, date)
		if e.ChangeRate != nil {
			ranked = append(ranked, e)
		} else {
			unranked = append(unranked, e)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].ChangeRate > *ranked[j].ChangeRate
	})
	for i := range ranked {
		rank := i + 1
		ranked[i].Rank = &rank
	}

	// ユーザー順位は有効なユーザーだけを対象にします。
	active := map[uint]bool{}
	if users, err := u.users.ListActive(ctx); err != nil {
		slog.Error("failed to list active users, skipping user ranking", "error", err)
	} else {
		for _, usr := range users {
			active[usr.ID] = true
		}
	}

	entries := append(ranked, unranked...)
	entries = append(entries, u.rankUsers(date, ranked, active)...)

	if err := u.rankings.ReplaceForDate(ctx, date, entries); err != nil {
		return fmt.Errorf("failed to save rankings: %w", err)
	}
	slog.Info("rankings computed",
		"date", date.Format("2006-01-02"), "ranked", len(ranked), "unranked", len(unranked))
	return nil
}

// scoreAsset は 1 アセット分の順位行を作ります。解決できない要素が
// あれば ChangeRate を nil のままにします。
func (u *RankingUsecase) scoreAsset(ctx context.Context, asset assetent.Asset, date time.Time) entity.RankingEntry {
	e := entity.RankingEntry{
		RankType: entity.RankTypeInstrument,
		Date:     date,
		AssetID:  asset.ID,
		UserID:   asset.UserID,
	}

	baseline, _, err := u.resolveBaseline(ctx, asset)
	if err != nil {
		if !errors.Is(err, ErrBaselineUnresolved) {
			slog.Error("baseline resolution failed", "asset_id", asset.ID, "error", err)
		}
		return e
	}
	e.BaselinePrice = &baseline

	rec, err := u.records.FindLatestOnOrBefore(ctx, asset.ID, date)
	if err != nil {
		if !errors.Is(err, assetdomain.ErrRecordNotFound) {
			slog.Error("price lookup failed", "asset_id", asset.ID, "error", err)
		}
		return e
	}
	price := rec.ClosePrice
	e.Price = &price

	if baseline > 0 {
		rate := (price - baseline) / baseline * 100
		e.ChangeRate = &rate
	}
	return e
}

// rankUsers はユーザーごとの最良アセットからユーザー順位行を作ります。
func (u *RankingUsecase) rankUsers(date time.Time, ranked []entity.RankingEntry, active map[uint]bool) []entity.RankingEntry {
	best := make(map[uint]entity.RankingEntry)
	for _, e := range ranked {
		if !active[e.UserID] {
			continue
		}
		cur, ok := best[e.UserID]
		if !ok || *e.ChangeRate > *cur.ChangeRate {
			best[e.UserID] = e
		}
	}

	users := make([]entity.RankingEntry, 0, len(best))
	for userID, e := range best {
		rate := *e.ChangeRate
		price := e.Price
		baseline := e.BaselinePrice
		users = append(users, entity.RankingEntry{
			RankType:      entity.RankTypeUser,
			Date:          date,
			AssetID:       e.AssetID,
			UserID:        userID,
			ChangeRate:    &rate,
			Price:         price,
			BaselinePrice: baseline,
		})
	}

	sort.SliceStable(users, func(i, j int) bool {
		return *users[i].ChangeRate > *users[j].ChangeRate
	})
	for i := range users {
		rank := i + 1
		users[i].Rank = &rank
	}
	return users
}

// GetRankings は指定日・種別の順位表を返します。
func (u *RankingUsecase) GetRankings(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
	return u.rankings.FindByDate(ctx, tradingcal.DateOnly(date), rankType)
}
