package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coupon-insights/internal/handler"
	"coupon-insights/internal/middleware"
	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubReportService struct {
	calls int
}

func (s *stubReportService) UniqueProductCodes(ctx context.Context) (*model.UniqueProductCodesReport, error) {
	s.calls++
	return &model.UniqueProductCodesReport{Count: 1, GeneratedAt: time.Now().UTC()}, nil
}

func newTestRouter(limiter *middleware.LimiterStore) (http.Handler, *stubReportService) {
	svc := &stubReportService{}
	logger := zerolog.Nop()
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	return New(handler.NewReportHandler(svc, logger), metricsHandler, "secret", limiter, logger), svc
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		expectedStatus int
		expectService  bool
	}{
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Metrics without key", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "Report without key", method: http.MethodGet, path: "/api/reports/unique-product-codes", expectedStatus: http.StatusUnauthorized},
		{name: "Report with wrong key", method: http.MethodGet, path: "/api/reports/unique-product-codes", apiKey: "nope", expectedStatus: http.StatusUnauthorized},
		{name: "Report with key", method: http.MethodGet, path: "/api/reports/unique-product-codes", apiKey: "secret", expectedStatus: http.StatusOK, expectService: true},
		{name: "Report wrong method", method: http.MethodDelete, path: "/api/reports/unique-product-codes", apiKey: "secret", expectedStatus: http.StatusMethodNotAllowed},
		{name: "Preflight", method: http.MethodOptions, path: "/api/reports/unique-product-codes", expectedStatus: http.StatusNoContent},
		{name: "Unknown route", method: http.MethodGet, path: "/api/coupons", apiKey: "secret", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newTestRouter(nil)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectService, svc.calls == 1)
		})
	}
}

func TestRouter_RateLimitBeforeAuth(t *testing.T) {
	r, _ := newTestRouter(middleware.NewLimiterStore(0.001, 1))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/unique-product-codes", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestRouter_GuessedKeysAreLimitedPerHost(t *testing.T) {
	r, svc := newTestRouter(middleware.NewLimiterStore(1, 1))

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/unique-product-codes", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("X-API-Key", fmt.Sprintf("guess-%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.GreaterOrEqual(t, limited, 45)
	assert.Zero(t, svc.calls)

	// the configured key keeps its own budget
	req := httptest.NewRequest(http.MethodGet, "/api/reports/unique-product-codes", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
