// Package handler はアセット読み取りAPIのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/howie79794-sys/sweep-the-board/internal/api"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/transport/http/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
)

// AssetQueryUsecase はアセット読み取り操作のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AssetQueryUsecase interface {
	ListAssets(ctx context.Context) ([]entity.Asset, error)
	GetHistory(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error)
	GetLatest(ctx context.Context, assetID uint) (entity.MarketRecord, error)
}

// AssetHandler はアセットと日次レコードのHTTPリクエストを処理します。
type AssetHandler struct {
	uc AssetQueryUsecase
}

// NewAssetHandler は指定されたusecaseでAssetHandlerの新しいインスタンスを生成します。
func NewAssetHandler(uc AssetQueryUsecase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// ListAssetsHandler は追跡中の全アセットをJSONで返します。
//
// エンドポイント例:
// GET /assets
func (h *AssetHandler) ListAssetsHandler(c *gin.Context) {
	assets, err := h.uc.ListAssets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetToResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// GetRecordsHandler は指定アセットのレコード履歴を日付昇順のJSONで返します。
// start/end は YYYY-MM-DD / YYYY/MM/DD / YYYYMMDD を受け付けます。
//
// エンドポイント例:
// GET /assets/:id/records?start=2026-01-01&end=2026-01-31&limit=100
func (h *AssetHandler) GetRecordsHandler(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	var start, end time.Time
	if raw := c.Query("start"); raw != "" {
		t, err := normalize.Date(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start date"})
			return
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := normalize.Date(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid end date"})
			return
		}
		end = t
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recs, err := h.uc.GetHistory(c.Request.Context(), assetID, start, end, limit)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.MarketRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordToResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// GetLatestRecordHandler は指定アセットの最新レコード1件を返します。
//
// エンドポイント例:
// GET /assets/:id/latest
func (h *AssetHandler) GetLatestRecordHandler(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	rec, err := h.uc.GetLatest(c.Request.Context(), assetID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssetNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "asset not found"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no record yet"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, recordToResponse(rec))
}

func parseAssetID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid asset id"})
		return 0, false
	}
	return uint(id), true
}

func assetToResponse(a entity.Asset) dto.AssetResponse {
	out := dto.AssetResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		AssetType:     a.AssetType,
		Market:        a.Market,
		Code:          a.Code,
		Name:          a.Name,
		BaselinePrice: a.BaselinePrice,
		StartDate:     a.StartDate.Format("2006-01-02"),
	}
	if a.BaselineDate != nil {
		d := a.BaselineDate.Format("2006-01-02")
		out.BaselineDate = &d
	}
	return out
}

func recordToResponse(r entity.MarketRecord) dto.MarketRecordResponse {
	return dto.MarketRecordResponse{
		AssetID:      r.AssetID,
		Date:         r.Date.Format("2006-01-02"),
		ClosePrice:   r.ClosePrice,
		Volume:       r.Volume,
		TurnoverRate: r.TurnoverRate,
		PERatio:      r.PERatio,
		PBRatio:      r.PBRatio,
		MarketCap:    r.MarketCap,
		EPSForecast:  r.EPSForecast,
		Additional:   r.Additional,
	}
}
