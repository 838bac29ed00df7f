package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeInvalidSource     = "INVALID_SOURCE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNilCouponCollection = NewDomainError(ErrCodeInvalidSource, "Coupon source returned a nil collection")
	ErrUnknownSourceKind   = NewDomainError(ErrCodeInvalidSource, "Unknown coupon source kind")
)

// IsDomainError reports whether err is, or wraps, a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
