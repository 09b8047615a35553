package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/domain/entity"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/assets/transport/handler"
)

// mockAssetQueryUsecase はAssetQueryUsecaseインターフェースのモック実装です。
type mockAssetQueryUsecase struct {
	ListAssetsFunc func(ctx context.Context) ([]entity.Asset, error)
	GetHistoryFunc func(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error)
	GetLatestFunc  func(ctx context.Context, assetID uint) (entity.MarketRecord, error)
}

func (m *mockAssetQueryUsecase) ListAssets(ctx context.Context) ([]entity.Asset, error) {
	return m.ListAssetsFunc(ctx)
}

func (m *mockAssetQueryUsecase) GetHistory(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
	return m.GetHistoryFunc(ctx, assetID, start, end, limit)
}

func (m *mockAssetQueryUsecase) GetLatest(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
	return m.GetLatestFunc(ctx, assetID)
}

func newRouter(uc *mockAssetQueryUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewAssetHandler(uc)
	r := gin.New()
	r.GET("/assets", h.ListAssetsHandler)
	r.GET("/assets/:id/records", h.GetRecordsHandler)
	r.GET("/assets/:id/latest", h.GetLatestRecordHandler)
	return r
}

func f(v float64) *float64 { return &v }

// TestAssetHandler_GetRecordsHandler はレコード履歴エンドポイントのリクエスト/レスポンス処理をテストします。
func TestAssetHandler_GetRecordsHandler(t *testing.T) {
	testDate := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockGetHistory func(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: explicit range and limit",
			url:  "/assets/1/records?start=2026-01-01&end=20260131&limit=100",
			mockGetHistory: func(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
				assert.Equal(t, uint(1), assetID)
				assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)
				assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), end)
				assert.Equal(t, 100, limit)
				return []entity.MarketRecord{
					{AssetID: 1, Date: testDate, ClosePrice: 10.5, PERatio: f(12.3)},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"asset_id":1,"date":"2026-01-05","close_price":10.5,"volume":null,"turnover_rate":null,"pe_ratio":12.3,"pb_ratio":null,"market_cap":null,"eps_forecast":null}]`,
		},
		{
			name: "success: no query parameters uses usecase defaults",
			url:  "/assets/1/records",
			mockGetHistory: func(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
				assert.True(t, start.IsZero())
				assert.True(t, end.IsZero())
				assert.Equal(t, 0, limit)
				return []entity.MarketRecord{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "error: malformed start date",
			url:            "/assets/1/records?start=bogus",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid start date"}`,
		},
		{
			name:           "error: non-numeric asset id",
			url:            "/assets/abc/records",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid asset id"}`,
		},
		{
			name: "error: unknown asset",
			url:  "/assets/99/records",
			mockGetHistory: func(ctx context.Context, assetID uint, start, end time.Time, limit int) ([]entity.MarketRecord, error) {
				return nil, domain.ErrAssetNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"asset not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockAssetQueryUsecase{GetHistoryFunc: tt.mockGetHistory})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestAssetHandler_GetLatestRecordHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		mockGetLatest  func(ctx context.Context, assetID uint) (entity.MarketRecord, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: latest record with extras",
			url:  "/assets/1/latest",
			mockGetLatest: func(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
				return entity.MarketRecord{
					AssetID:    1,
					Date:       time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
					ClosePrice: 11.2,
					Additional: map[string]any{"borrowed_from": "2026-01-05"},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"asset_id":1,"date":"2026-01-06","close_price":11.2,"volume":null,"turnover_rate":null,"pe_ratio":null,"pb_ratio":null,"market_cap":null,"eps_forecast":null,"additional_data":{"borrowed_from":"2026-01-05"}}`,
		},
		{
			name: "error: no record stored yet",
			url:  "/assets/1/latest",
			mockGetLatest: func(ctx context.Context, assetID uint) (entity.MarketRecord, error) {
				return entity.MarketRecord{}, domain.ErrRecordNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"no record yet"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockAssetQueryUsecase{GetLatestFunc: tt.mockGetLatest})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestAssetHandler_ListAssetsHandler(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	uc := &mockAssetQueryUsecase{
		ListAssetsFunc: func(ctx context.Context) ([]entity.Asset, error) {
			return []entity.Asset{
				{ID: 1, UserID: 7, AssetType: entity.TypeStock, Market: entity.MarketShanghai, Code: "600000", Name: "浦发银行", BaselinePrice: f(10), StartDate: start},
			}, nil
		},
	}
	router := newRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/assets", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"user_id":7,"asset_type":"stock","market":"SH","code":"600000","name":"浦发银行","baseline_price":10,"baseline_date":null,"start_date":"2025-12-01"}]`, w.Body.String())
}
