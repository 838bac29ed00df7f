package handler

import (
	"net/http"

	"coupon-insights/internal/model"
	"coupon-insights/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles coupon report HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// UniqueProductCodes handles GET /api/reports/unique-product-codes requests.
func (h *ReportHandler) UniqueProductCodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", h.logger)
		return
	}

	report, err := h.service.UniqueProductCodes(r.Context())
	if err != nil {
		// A broken source contract is a server defect; anything else means the
		// source could not be read.
		if model.IsDomainError(err, model.ErrCodeInvalidSource) {
			writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
				"coupon source returned invalid data", h.logger)
			return
		}
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeSourceUnavailable,
			"coupon source unavailable", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
