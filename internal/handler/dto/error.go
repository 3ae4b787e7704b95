package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not-found errors
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", message
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, "NOTIFICATION_NOT_FOUND", message
	case errors.Is(err, domain.ErrPerformancePointNotFound):
		return http.StatusNotFound, "PERFORMANCE_POINT_NOT_FOUND", message

	// Permission errors
	case errors.Is(err, domain.ErrNotTaskCreator),
		errors.Is(err, domain.ErrNotTaskAssignee),
		errors.Is(err, domain.ErrSelfAssignment):
		return http.StatusForbidden, "FORBIDDEN", message

	// State errors
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", message
	case errors.Is(err, domain.ErrTaskConflict):
		return http.StatusConflict, "TASK_CONFLICT", message
	case errors.Is(err, domain.ErrMissingAssignee):
		return http.StatusConflict, "MISSING_ASSIGNEE", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrEmptyReason),
		errors.Is(err, domain.ErrEmptyIdentifier):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Auth errors
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
