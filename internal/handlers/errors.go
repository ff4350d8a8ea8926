package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		// ErrAuditFailure and unclassified errors.
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON and logs it at a level matching its status.
// Messages of unclassified errors are not echoed to the client.
func respondError(c *gin.Context, op string, err error) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusFor(err)
	body := errorResponse{Error: err.Error(), Reason: apperrors.Reason(err)}

	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented && status != http.StatusServiceUnavailable {
		logger.Error(op+" failed", slog.String("error", err.Error()))
		if !apperrors.IsKnown(err) {
			body.Error = op + " failed"
		}
	} else {
		logger.Warn(op+" rejected", slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// respondBindError reports a malformed request body or query.
func respondBindError(c *gin.Context, op string, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request for "+op, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request: " + err.Error(), Reason: "INVALID_REQUEST"})
}

// actorID returns the authenticated user, writing 401 when absent.
func actorID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
