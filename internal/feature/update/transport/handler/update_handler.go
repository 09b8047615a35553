// Package handler は更新ジョブAPIのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/howie79794-sys/sweep-the-board/internal/api"
	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/update/transport/http/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

// UpdateUsecase は更新ジョブ操作のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UpdateUsecase interface {
	StartUpdate(ctx context.Context, assetIDs []uint, force bool) (string, error)
	GetJobStatus(ctx context.Context, jobID string) (*entity.Job, error)
	Calibrate(ctx context.Context, assetID uint, date time.Time) error
}

// UpdateHandler は更新ジョブのHTTPリクエストを処理します。
type UpdateHandler struct {
	uc UpdateUsecase
}

// NewUpdateHandler は指定されたusecaseでUpdateHandlerの新しいインスタンスを生成します。
func NewUpdateHandler(uc UpdateUsecase) *UpdateHandler {
	return &UpdateHandler{uc: uc}
}

// StartUpdateHandler は一括更新ジョブを開始し、ジョブIDを返します。
// ボディ省略時は全アセットを対象にします。
//
// エンドポイント例:
// POST /update  {"asset_ids":[1,2],"force":false}
func (h *UpdateHandler) StartUpdateHandler(c *gin.Context) {
	var req dto.StartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	jobID, err := h.uc.StartUpdate(c.Request.Context(), req.AssetIDs, req.Force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, dto.StartUpdateResponse{JobID: jobID})
}

// GetJobStatusHandler は指定ジョブの進捗と結果をJSONで返します。
//
// エンドポイント例:
// GET /update/jobs/:id
func (h *UpdateHandler) GetJobStatusHandler(c *gin.Context) {
	job, err := h.uc.GetJobStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

// CalibrateHandler は1アセット1日付の強制再取得を同期実行します。
//
// エンドポイント例:
// POST /calibrate  {"asset_id":1,"date":"2026-01-05"}
func (h *UpdateHandler) CalibrateHandler(c *gin.Context) {
	var req dto.CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	date, err := normalize.Date(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date"})
		return
	}

	if err := h.uc.Calibrate(c.Request.Context(), req.AssetID, date); err != nil {
		if errors.Is(err, assetdomain.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "asset not found"})
			return
		}
		// プロバイダーが当日のデータを返さなかった場合もここに落ちる
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
