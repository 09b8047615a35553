// Package usecase orchestrates background market-data update batches.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	assetent "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	mddomain "github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/domain"
	mdusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/marketdata/usecase"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/ratelimiter"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

const (
	// アセット間のランダム待機の下限と上限です。連続アクセスで
	// プロバイダのレート制限を踏まないための揺らぎです。
	minAssetDelay = 1 * time.Second
	maxAssetDelay = 3 * time.Second

	// 同時に走るジョブ全体で毎分これ以上のアセットを処理しません。
	batchCallsPerMinute = 30
)

// JobStore はジョブ状態の保存先を抽象化します。既定はプロセス内メモリで、
// Redis 実装に差し替え可能です。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type JobStore interface {
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	Get(ctx context.Context, id string) (*entity.Job, error)
}

// AssetRepository は更新対象アセットの解決に使うリポジトリの抽象です。
type AssetRepository interface {
	FindByID(ctx context.Context, id uint) (assetent.Asset, error)
	ListAll(ctx context.Context) ([]assetent.Asset, error)
	ListByIDs(ctx context.Context, ids []uint) ([]assetent.Asset, error)
}

// RankingRefresher はバッチ完了後の順位再計算です。nil なら省略されます。
type RankingRefresher interface {
	ComputeRankings(ctx context.Context, date time.Time) error
}

// UpdateUsecase は更新ジョブの起動・進捗参照・キャリブレーションを提供します。
//
// 実行モデル: トリガーごとにワーカー goroutine を 1 つ起こし、アセットを
// 厳密に逐次処理します。アセット間には 1〜3 秒のランダム待機を入れます。
// 個々のアセットの失敗はジョブ結果に記録するだけで、バッチを中断しません。
type UpdateUsecase struct {
	assets     AssetRepository
	jobs       JobStore
	router     *mdusecase.Router
	reconciler *mdusecase.Reconciler
	gapFiller  *mdusecase.GapFiller
	rankings   RankingRefresher

	// アセット単位の直列化。同じアセットへの同時書き込みを防ぎます。
	muGuard sync.Mutex
	assetMu map[uint]*sync.Mutex

	// ジョブ横断の処理ペース上限です。
	limiter ratelimiter.RateLimiterInterface

	// テストで差し替えるためのフックです。
	now   func() time.Time
	sleep func(time.Duration)
	delay func() time.Duration
}

// NewUpdateUsecase は新しい UpdateUsecase を作成します。rankings は nil 可です。
func NewUpdateUsecase(
	assets AssetRepository,
	jobs JobStore,
	router *mdusecase.Router,
	reconciler *mdusecase.Reconciler,
	gapFiller *mdusecase.GapFiller,
	rankings RankingRefresher,
) *UpdateUsecase {
	return &UpdateUsecase{
		assets:     assets,
		jobs:       jobs,
		router:     router,
		reconciler: reconciler,
		gapFiller:  gapFiller,
		rankings:   rankings,
		assetMu:    make(map[uint]*sync.Mutex),
		limiter:    ratelimiter.NewRateLimiter(batchCallsPerMinute, time.Minute),
		now:        tradingcal.Now,
		sleep:      time.Sleep,
		delay: func() time.Duration {
			return minAssetDelay + time.Duration(rand.Int63n(int64(maxAssetDelay-minAssetDelay)))
		},
	}
}

// lockAsset は指定アセットのミューテックスを取得します。
func (u *UpdateUsecase) lockAsset(id uint) *sync.Mutex {
	u.muGuard.Lock()
	defer u.muGuard.Unlock()
	mu, ok := u.assetMu[id]
	if !ok {
		mu = &sync.Mutex{}
		u.assetMu[id] = mu
	}
	return mu
}

// StartUpdate は更新ジョブを起動し、ジョブ ID を即座に返します。
// assetIDs が空なら全アセットが対象です。force は既に確定済みの当日
// レコードがあっても取り直します。
func (u *UpdateUsecase) StartUpdate(ctx context.Context, assetIDs []uint, force bool) (string, error) {
	var (
		targets []assetent.Asset
		err     error
	)
	if len(assetIDs) == 0 {
		targets, err = u.assets.ListAll(ctx)
	} else {
		targets, err = u.assets.ListByIDs(ctx, assetIDs)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve update targets: %w", err)
	}

	job := &entity.Job{
		ID:        uuid.NewString(),
		Status:    entity.JobStatusPending,
		Total:     len(targets),
		CreatedAt: u.now(),
		UpdatedAt: u.now(),
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	// HTTP リクエストのキャンセルでバッチを道連れにしないため、
	// ワーカーは独立したコンテキストで動かします。
	go u.runBatch(context.Background(), job, targets, force)

	return job.ID, nil
}

// GetJobStatus は指定ジョブの現在の状態を返します。
func (u *UpdateUsecase) GetJobStatus(ctx context.Context, jobID string) (*entity.Job, error) {
	return u.jobs.Get(ctx, jobID)
}

// runBatch はワーカー本体です。どんな結末でもジョブを終端状態にします。
func (u *UpdateUsecase) runBatch(ctx context.Context, job *entity.Job, targets []assetent.Asset, force bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("update batch panicked", "job_id", job.ID, "panic", r)
			job.Status = entity.JobStatusFailed
			job.Error = fmt.Sprint(r)
			job.UpdatedAt = u.now()
			if err := u.jobs.Update(ctx, job); err != nil {
				slog.Error("failed to persist failed job", "job_id", job.ID, "error", err)
			}
		}
	}()

	job.Status = entity.JobStatusRunning
	job.UpdatedAt = u.now()
	if err := u.jobs.Update(ctx, job); err != nil {
		slog.Error("failed to persist running job", "job_id", job.ID, "error", err)
	}

	// プロバイダのベンチ入りはバッチ単位なので Fetcher もバッチ単位で作ります。
	fetcher := mdusecase.NewFetcher(u.router)

	for i, asset := range targets {
		if i > 0 {
			u.sleep(u.delay())
		}
		u.limiter.WaitIfNeeded()

		result := u.updateOne(ctx, fetcher, asset, force)
		job.Processed++
		if result.Success {
			job.SuccessCount++
		} else {
			job.FailureCount++
		}
		job.Results = append(job.Results, result)
		job.UpdatedAt = u.now()
		if err := u.jobs.Update(ctx, job); err != nil {
			slog.Error("failed to persist job progress", "job_id", job.ID, "error", err)
		}
	}

	if u.rankings != nil {
		date := tradingcal.DateOnly(tradingcal.LatestTradingDay(u.now()))
		if err := u.rankings.ComputeRankings(ctx, date); err != nil {
			slog.Error("ranking refresh failed after batch", "job_id", job.ID, "error", err)
		}
	}

	job.Status = entity.JobStatusCompleted
	job.UpdatedAt = u.now()
	if err := u.jobs.Update(ctx, job); err != nil {
		slog.Error("failed to persist completed job", "job_id", job.ID, "error", err)
	}
	slog.Info("update batch finished",
		"job_id", job.ID, "total", job.Total,
		"success", job.SuccessCount, "failure", job.FailureCount)
}

// updateOne は 1 アセット分の当日調整とギャップ埋めを行います。
func (u *UpdateUsecase) updateOne(ctx context.Context, fetcher *mdusecase.Fetcher, asset assetent.Asset, force bool) entity.AssetResult {
	mu := u.lockAsset(asset.ID)
	mu.Lock()
	defer mu.Unlock()

	result := entity.AssetResult{AssetID: asset.ID, Name: asset.Name}

	if err := u.reconciler.ReconcileToday(ctx, fetcher, asset); err != nil {
		if errors.Is(err, mddomain.ErrUnresolvableClass) {
			slog.Warn("skipping asset with no provider chain",
				"asset_id", asset.ID, "asset_type", asset.AssetType)
			result.Message = err.Error()
			return result
		}
		slog.Error("today reconcile failed", "asset_id", asset.ID, "error", err)
		result.Message = err.Error()
		return result
	}

	if err := u.gapFiller.Fill(ctx, fetcher, asset, force); err != nil {
		slog.Error("gap fill failed", "asset_id", asset.ID, "error", err)
		result.Message = err.Error()
		return result
	}

	result.Success = true
	return result
}

// Calibrate は指定アセット・日付の単日強制取得を同期実行します。
func (u *UpdateUsecase) Calibrate(ctx context.Context, assetID uint, date time.Time) error {
	asset, err := u.assets.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, assetdomain.ErrAssetNotFound) {
			return err
		}
		return fmt.Errorf("failed to load asset %d: %w", assetID, err)
	}

	mu := u.lockAsset(asset.ID)
	mu.Lock()
	defer mu.Unlock()

	fetcher := mdusecase.NewFetcher(u.router)
	return u.gapFiller.Calibrate(ctx, fetcher, asset, date)
}
