package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Success writes data as the bare response body. Clients of this API expect
// the record or list itself, not an envelope.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Message: message,
		Code:    errorCode,
		Details: details,
	})
}

// AbortError is Error for middleware: the handler chain stops after it.
func AbortError(c *gin.Context, status int, errorCode string, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Message: message,
		Code:    errorCode,
	})
}
