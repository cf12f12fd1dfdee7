package response

import (
	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/domain"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends the error envelope. code is one of the apperror codes.
func Error(c *gin.Context, status int, code, detail string) {
	c.JSON(status, Response{
		Success:   false,
		Error:     code,
		Detail:    detail,
		RequestID: requestID(c),
	})
}
