package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	assetshandler "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/transport/handler"
	rankinghandler "github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/transport/handler"
	updatehandler "github.com/howie79794-sys/sweep-the-board/internal/feature/update/transport/handler"
	"github.com/howie79794-sys/sweep-the-board/internal/platform/http/handler"
)

func NewRouter(assets *assetshandler.AssetHandler, rankings *rankinghandler.RankingHandler,
	updates *updatehandler.UpdateHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 読み取り系
	r.GET("/assets", assets.ListAssetsHandler)
	r.GET("/assets/:id/records", assets.GetRecordsHandler)
	r.GET("/assets/:id/latest", assets.GetLatestRecordHandler)
	r.GET("/assets/:id/baseline", rankings.GetBaselineHandler)
	r.GET("/rankings", rankings.GetRankingsHandler)

	// 更新系
	r.POST("/update", updates.StartUpdateHandler)
	r.GET("/update/jobs/:id", updates.GetJobStatusHandler)
	r.POST("/calibrate", updates.CalibrateHandler)
	r.POST("/rankings/refresh", rankings.RefreshRankingsHandler)

	return r
}
