package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// ErrorResponse is the uniform error body. Details carries per-field
// validation messages and is omitted otherwise.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, ErrorResponse{
		Error:   categoryForStatus(status),
		Message: message,
	})
}

// RespondAppError maps a service error onto the HTTP surface. Internal
// errors are logged with their cause and reported with a generic message
// so nothing leaks.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		h.RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Details: apperrors.FieldsOf(err),
		})
	case apperrors.KindUnauthenticated:
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	case apperrors.KindForbidden:
		h.RespondError(w, http.StatusForbidden, err.Error())
	case apperrors.KindNotFound:
		h.RespondError(w, http.StatusNotFound, err.Error())
	case apperrors.KindConflict:
		h.RespondError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Error("internal error", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// categoryForStatus names the error category used in response bodies
func categoryForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	default:
		return "internal_error"
	}
}
