package middleware

import (
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// RequestContext reuses the caller's X-Request-ID, or mints one when it is
// missing or oversized, echoes it, and puts it with a tagged logger into the
// request context.
func RequestContext(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)

		ctx := contextutil.WithRequest(c.Request.Context(), rid, logger.With(zap.String("request_id", rid)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
