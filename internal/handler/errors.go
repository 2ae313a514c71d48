package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/travel-log/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeError sends status with an ErrorResponse body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// badRequest reports a request rejected before reaching the service layer,
// such as a malformed body or a query parameter of the wrong type.
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "bad_request", message)
}

// invalid reports input that is well formed but breaks a rule.
func invalid(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// serviceError maps a service error onto a status and ErrorResponse.
// notFound is the message used for domain.ErrNotFound because the handler is
// the layer that knows what was being looked up. Unexpected errors are logged
// and answered with a generic 500.
func serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var maxBytes *http.MaxBytesError
	var bad malformed
	switch {
	case errors.As(err, &bad):
		badRequest(w, "malformed request body")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrValidation):
		invalid(w, detail(err, domain.ErrValidation, "invalid input"))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", detail(err, domain.ErrUnauthorized, "unauthorized"))
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", "upstream temporarily unavailable, retry later")
	case errors.Is(err, domain.ErrUpstream):
		slog.WarnContext(r.Context(), "upstream failure",
			"error", err, "request_id", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusBadGateway, "upstream_error", detail(err, domain.ErrUpstream, "upstream failure"))
	case errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	default:
		slog.ErrorContext(r.Context(), "unhandled error",
			"error", err, "method", r.Method, "path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// detail extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.RecordService.Update: validation error: rating must be ..."
// yields "rating must be ...". fallback is used when nothing follows.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 && i+len(prefix) < len(msg) {
		return msg[i+len(prefix):]
	}
	return fallback
}
