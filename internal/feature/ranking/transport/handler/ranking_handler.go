// Package handler は順位表APIのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/howie79794-sys/sweep-the-board/internal/api"
	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/transport/http/dto"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/usecase"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/normalize"
	"github.com/howie79794-sys/sweep-the-board/internal/shared/tradingcal"
)

// RankingUsecase は順位表操作のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type RankingUsecase interface {
	GetRankings(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error)
	GetBaseline(ctx context.Context, assetID uint) (float64, time.Time, error)
	ComputeRankings(ctx context.Context, date time.Time) error
}

// RankingHandler は順位表のHTTPリクエストを処理します。
type RankingHandler struct {
	uc RankingUsecase
}

// NewRankingHandler は指定されたusecaseでRankingHandlerの新しいインスタンスを生成します。
func NewRankingHandler(uc RankingUsecase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

// GetRankingsHandler は指定日・種別の順位表をJSONで返します。
// date 省略時は直近の取引日、type 省略時はアセット順位表を返します。
//
// エンドポイント例:
// GET /rankings?date=2026-01-05&type=instrument
func (h *RankingHandler) GetRankingsHandler(c *gin.Context) {
	rankType := c.DefaultQuery("type", entity.RankTypeInstrument)
	if rankType != entity.RankTypeInstrument && rankType != entity.RankTypeUser {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid ranking type"})
		return
	}

	date := tradingcal.LatestTradingDay(tradingcal.Now())
	if raw := c.Query("date"); raw != "" {
		t, err := normalize.Date(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date"})
			return
		}
		date = t
	}

	entries, err := h.uc.GetRankings(c.Request.Context(), date, rankType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.RankingEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.RankingEntryResponse{
			RankType:      e.RankType,
			Date:          e.Date.Format("2006-01-02"),
			AssetID:       e.AssetID,
			UserID:        e.UserID,
			Rank:          e.Rank,
			ChangeRate:    e.ChangeRate,
			Price:         e.Price,
			BaselinePrice: e.BaselinePrice,
		})
	}
	c.JSON(http.StatusOK, out)
}

// RefreshRankingsHandler は指定日の順位表を同期で再計算します。
// date 省略時は直近の取引日を対象にします。
//
// エンドポイント例:
// POST /rankings/refresh?date=2026-01-05
func (h *RankingHandler) RefreshRankingsHandler(c *gin.Context) {
	date := tradingcal.LatestTradingDay(tradingcal.Now())
	if raw := c.Query("date"); raw != "" {
		t, err := normalize.Date(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date"})
			return
		}
		date = t
	}

	if err := h.uc.ComputeRankings(c.Request.Context(), date); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBaselineHandler は1アセットの基準値と基準日を返します。
//
// エンドポイント例:
// GET /assets/:id/baseline
func (h *RankingHandler) GetBaselineHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid asset id"})
		return
	}

	price, date, err := h.uc.GetBaseline(c.Request.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, assetdomain.ErrAssetNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "asset not found"})
		case errors.Is(err, usecase.ErrBaselineUnresolved):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "baseline unresolved"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BaselineResponse{
		AssetID:       uint(id),
		BaselinePrice: price,
		BaselineDate:  date.Format("2006-01-02"),
	})
}
