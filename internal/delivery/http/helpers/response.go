package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"guestrsvp/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNotFound           = "not_found"
	ErrCodeValidationFailed   = "validation_failed"
	ErrCodeCapacityExceeded   = "capacity_exceeded"
	ErrCodeLinkUnauthorized   = "link_unauthorized"
	ErrCodeRSVPClosed         = "rsvp_closed"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// Fields is set for validation and capacity failures; RemainingSeats only for capacity failures.
// swagger:model APIError
type APIError struct {
	Code           string            `json:"code"`
	Message        string            `json:"message"`
	Fields         map[string]string `json:"fields,omitempty"`
	RemainingSeats *int              `json:"remaining_seats,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeAPIError(w, statusCode, &APIError{Code: code, Message: message})
}

func writeAPIError(w http.ResponseWriter, statusCode int, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: nil, Error: apiErr})
}

// WriteDomainError maps a service error to its HTTP status and error code. Only unexpected
// failures are logged at error level; expected rejections are logged at info.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if ve, ok := domain.IsValidation(err); ok {
		logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", ErrCodeValidationFailed, "fields", ve.Fields)
		writeAPIError(w, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeValidationFailed,
			Message: "some fields are invalid",
			Fields:  ve.Fields,
		})
		return
	}
	if ce, ok := domain.IsCapacity(err); ok {
		logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", ErrCodeCapacityExceeded, "remaining_seats", ce.Remaining)
		remaining := ce.Remaining
		writeAPIError(w, http.StatusUnprocessableEntity, &APIError{
			Code:           ErrCodeCapacityExceeded,
			Message:        ce.Error(),
			Fields:         map[string]string{ce.Field: "not enough seats left"},
			RemainingSeats: &remaining,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrLinkUnauthorized):
		logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", ErrCodeLinkUnauthorized)
		WriteJSONError(w, http.StatusForbidden, ErrCodeLinkUnauthorized, domain.ErrLinkUnauthorized.Error())
	case errors.Is(err, domain.ErrRSVPPeriodClosed):
		logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", ErrCodeRSVPClosed)
		WriteJSONError(w, http.StatusForbidden, ErrCodeRSVPClosed, domain.ErrRSVPPeriodClosed.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeUnauthorized, "forbidden")
	case errors.Is(err, domain.ErrStorageDisabled):
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, domain.ErrStorageDisabled.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
