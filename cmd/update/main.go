package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/howie79794-sys/sweep-the-board/internal/app/di"
	assetsadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/adapters"
	rankingadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/adapters"
	rankingusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/usecase"
	updateusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/update/usecase"
	usersadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/users/adapters"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/cache"
	infradb "github.com/howie79794-sys/sweep-the-board/internal/platform/db"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/jobstore"
)

func main() {
	force := flag.Bool("force", false, "refetch days that already have complete records")
	timeout := flag.Duration("timeout", 30*time.Minute, "abort the batch after this long")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using environment variables")
	}

	db := infradb.OpenDB()

	assetRepo := assetsadapters.NewAssetRepository(db)
	recordRepo := cache.NewCachingRecordRepository(nil, 0, assetsadapters.NewRecordRepository(db), "records")
	rankingRepo := rankingadapters.NewRankingRepository(db)
	userRepo := usersadapters.NewUserRepository(db)

	pipeline := di.NewMarketPipeline(recordRepo)
	rankingUC := rankingusecase.NewRankingUsecase(assetRepo, recordRepo, userRepo, rankingRepo)
	uc := updateusecase.NewUpdateUsecase(
		assetRepo, jobstore.NewJobMemory(),
		pipeline.Router, pipeline.Reconciler, pipeline.GapFiller,
		rankingUC,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	jobID, err := uc.StartUpdate(ctx, nil, *force)
	if err != nil {
		log.Fatal("failed to start update:", err)
	}

	// バッチはワーカー goroutine 上で走るので、終了をポーリングで待つ
	for {
		select {
		case <-ctx.Done():
			log.Fatal("update timed out")
		case <-time.After(2 * time.Second):
		}

		job, err := uc.GetJobStatus(ctx, jobID)
		if err != nil {
			log.Fatal("failed to read job status:", err)
		}
		if job.IsTerminal() {
			for _, res := range job.Results {
				if !res.Success {
					log.Printf("[WARN] %s (id=%d): %s", res.Name, res.AssetID, res.Message)
				}
			}
			log.Printf("update %s: %d/%d succeeded", job.Status, job.SuccessCount, job.Total)
			return
		}
		log.Printf("progress: %d/%d", job.Processed, job.Total)
	}
}
