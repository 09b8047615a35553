package main

import (
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/howie79794-sys/sweep-the-board/internal/app/di"
	"github.com/howie79794-sys/sweep-the-board/internal/app/router"
	assetsadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/adapters"
	assetshandler "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/transport/handler"
	assetsusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/usecase"
	rankingadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/adapters"
	rankinghandler "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/transport/handler"
	rankingusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/usecase"
	updatehandler "github.com/howie79794-sys/sweep-the-board/internal/feature/update/transport/handler"
	updateusecase "github.com/howie79794-sys/sweep-the-board/internal/feature/update/usecase"
	usersadapters "github.com/howie79794-sys/sweep-the-board/internal/feature/users/adapters"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/cache"
	infradb "github.com/howie79794-sys/sweep-the-board/internal/platform/db"
	infraredis "github.com/howie79794-sys/sweep-the-board/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	assetRepo := assetsadapters.NewAssetRepository(db)
	userRepo := usersadapters.NewUserRepository(db)
	rankingRepo := rankingadapters.NewRankingRepository(db)

	// Redisキャッシュでラップ（翌営業日の寄り付きまで保持）
	ttl := cache.TimeUntilNextOpen()
	recordRepo := cache.NewCachingRecordRepository(rdb, ttl, assetsadapters.NewRecordRepository(db), "records")

	// プロバイダーチェーンと更新パイプライン
	pipeline := di.NewMarketPipeline(recordRepo)

	// Usecase
	rankingUC := rankingusecase.NewRankingUsecase(assetRepo, recordRepo, userRepo, rankingRepo)
	updateUC := updateusecase.NewUpdateUsecase(
		assetRepo, di.NewJobStore(rdb),
		pipeline.Router, pipeline.Reconciler, pipeline.GapFiller,
		rankingUC,
	)
	queryUC := assetsusecase.NewAssetQueryUsecase(assetRepo, recordRepo)

	// Handler
	assetsH := assetshandler.NewAssetHandler(queryUC)
	rankingH := rankinghandler.NewRankingHandler(rankingUC)
	updateH := updatehandler.NewUpdateHandler(updateUC)

	// ルータ生成
	r := router.NewRouter(assetsH, rankingH, updateH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
