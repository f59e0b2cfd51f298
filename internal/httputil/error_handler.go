package httputil

import (
	"net/http"

	"chat-sync/internal/apperror"
	"chat-sync/internal/platform/logger"
	"chat-sync/internal/platform/middleware"

	"github.com/gin-gonic/gin"
)

// SafeError 記錄完整錯誤，回應只包含可公開的訊息
func SafeError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)
	status := Status(err)

	severity := logger.SeverityWarning
	if status >= http.StatusInternalServerError {
		severity = logger.SeverityError
	}
	logger.Log(c.Request.Context(), severity, "API Error",
		logger.WithError(err),
		logger.WithDetails(map[string]interface{}{
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     status,
		}))

	c.JSON(status, ErrorResponse{
		OK:        false,
		Error:     &ErrorBody{Code: Code(err), Message: apperror.PublicMessage(err)},
		RequestID: requestID,
	})
}
