package router

import (
	"net/http"

	"coupon-insights/internal/handler"
	"coupon-insights/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// limiter may be nil to disable rate limiting.
func New(
	reportHandler *handler.ReportHandler,
	metricsHandler http.Handler,
	apiKey string,
	limiter *middleware.LimiterStore,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.Health)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	mux.HandleFunc("/api/reports/unique-product-codes", reportHandler.UniqueProductCodes)

	// Apply middleware in order: Recovery -> Logging -> CORS -> RateLimit -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.RateLimit(limiter, apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
