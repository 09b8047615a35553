package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	assetdomain "github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/transport/handler"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/ranking/usecase"
)

// mockRankingUsecase はRankingUsecaseインターフェースのモック実装です。
type mockRankingUsecase struct {
	GetRankingsFunc     func(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error)
	GetBaselineFunc     func(ctx context.Context, assetID uint) (float64, time.Time, error)
	ComputeRankingsFunc func(ctx context.Context, date time.Time) error
}

func (m *mockRankingUsecase) GetRankings(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
	return m.GetRankingsFunc(ctx, date, rankType)
}

func (m *mockRankingUsecase) GetBaseline(ctx context.Context, assetID uint) (float64, time.Time, error) {
	return m.GetBaselineFunc(ctx, assetID)
}

func (m *mockRankingUsecase) ComputeRankings(ctx context.Context, date time.Time) error {
	return m.ComputeRankingsFunc(ctx, date)
}

func newRouter(uc *mockRankingUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewRankingHandler(uc)
	r := gin.New()
	r.GET("/rankings", h.GetRankingsHandler)
	r.POST("/rankings/refresh", h.RefreshRankingsHandler)
	r.GET("/assets/:id/baseline", h.GetBaselineHandler)
	return r
}

func rank(n int) *int      { return &n }
func f(v float64) *float64 { return &v }

func TestRankingHandler_GetRankingsHandler(t *testing.T) {
	testDate := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		url             string
		mockGetRankings func(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error)
		expectedStatus  int
		expectedBody    string
	}{
		{
			name: "success: explicit date, ranked and unranked rows",
			url:  "/rankings?date=2026-01-05&type=instrument",
			mockGetRankings: func(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
				assert.Equal(t, testDate, date)
				assert.Equal(t, entity.RankTypeInstrument, rankType)
				return []entity.RankingEntry{
					{RankType: entity.RankTypeInstrument, Date: testDate, AssetID: 2, UserID: 7, Rank: rank(1), ChangeRate: f(25), Price: f(125), BaselinePrice: f(100)},
					{RankType: entity.RankTypeInstrument, Date: testDate, AssetID: 3, UserID: 8, Price: f(50)},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"rank_type":"instrument","date":"2026-01-05","asset_id":2,"user_id":7,"rank":1,"change_rate":25,"price":125,"baseline_price":100},` +
				`{"rank_type":"instrument","date":"2026-01-05","asset_id":3,"user_id":8,"rank":null,"change_rate":null,"price":50,"baseline_price":null}]`,
		},
		{
			name: "success: user ranking type",
			url:  "/rankings?date=20260105&type=user",
			mockGetRankings: func(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
				assert.Equal(t, entity.RankTypeUser, rankType)
				return []entity.RankingEntry{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "success: date omitted falls back to latest trading day",
			url:  "/rankings",
			mockGetRankings: func(ctx context.Context, date time.Time, rankType string) ([]entity.RankingEntry, error) {
				// 土日は金曜に巻き戻されるので、どの曜日でも平日になる
				wd := date.Weekday()
				assert.NotEqual(t, time.Saturday, wd)
				assert.NotEqual(t, time.Sunday, wd)
				return []entity.RankingEntry{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "error: unknown ranking type",
			url:            "/rankings?type=team",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid ranking type"}`,
		},
		{
			name:           "error: malformed date",
			url:            "/rankings?date=yesterday",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid date"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockRankingUsecase{GetRankingsFunc: tt.mockGetRankings})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestRankingHandler_RefreshRankingsHandler(t *testing.T) {
	var got time.Time
	uc := &mockRankingUsecase{
		ComputeRankingsFunc: func(ctx context.Context, date time.Time) error {
			got = date
			return nil
		},
	}
	router := newRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/rankings/refresh?date=2026-01-05", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestRankingHandler_RefreshRankingsHandler_Error(t *testing.T) {
	uc := &mockRankingUsecase{
		ComputeRankingsFunc: func(ctx context.Context, date time.Time) error {
			return errors.New("db down")
		},
	}
	router := newRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/rankings/refresh", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"db down"}`, w.Body.String())
}

func TestRankingHandler_GetBaselineHandler(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		mockGetBaseline func(ctx context.Context, assetID uint) (float64, time.Time, error)
		expectedStatus  int
		expectedBody    string
	}{
		{
			name: "success",
			url:  "/assets/1/baseline",
			mockGetBaseline: func(ctx context.Context, assetID uint) (float64, time.Time, error) {
				assert.Equal(t, uint(1), assetID)
				return 100.5, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"asset_id":1,"baseline_price":100.5,"baseline_date":"2025-12-01"}`,
		},
		{
			name: "error: unknown asset",
			url:  "/assets/99/baseline",
			mockGetBaseline: func(ctx context.Context, assetID uint) (float64, time.Time, error) {
				return 0, time.Time{}, assetdomain.ErrAssetNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"asset not found"}`,
		},
		{
			name: "error: baseline unresolved",
			url:  "/assets/1/baseline",
			mockGetBaseline: func(ctx context.Context, assetID uint) (float64, time.Time, error) {
				return 0, time.Time{}, usecase.ErrBaselineUnresolved
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"baseline unresolved"}`,
		},
		{
			name:           "error: non-numeric id",
			url:            "/assets/abc/baseline",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid asset id"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockRankingUsecase{GetBaselineFunc: tt.mockGetBaseline})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
