package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/logger"
)

// ErrorHandler renders the last error attached to the context as the error
// envelope. Handlers only call c.Error and return.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		reqID := c.GetString(string(domain.KeyRequestID))

		if appErr, ok := apperror.As(err); ok {
			if appErr.Status >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"code", appErr.Code, "path", c.FullPath(), "request_id", reqID, "error", appErr.Err)
			}
			response.Error(c, appErr.Status, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("Internal server error", "path", c.FullPath(), "request_id", reqID, "error", err)
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternal,
			"An unexpected error occurred. Please try again later.")
	}
}
