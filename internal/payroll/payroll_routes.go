package payroll

import (
	"github.com/rrayyhanep/Heaven-receipt/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Slip generation renders a PDF per call, so it is rate limited per client IP.
const (
	slipRate  = rate.Limit(2)
	slipBurst = 5
)

// RegisterRoutes mounts the slip endpoints. With a Redis client, retried
// generate calls carrying the same Idempotency-Key are replayed instead of
// carrying the balance forward twice.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	generate := []gin.HandlerFunc{middleware.RateLimitByIP(slipRate, slipBurst)}
	if redisClient != nil {
		generate = append(generate, middleware.Idempotency(redisClient))
	}
	generate = append(generate, handler.GenerateSlip)

	r.POST("/generate-pdf", generate...)
	r.POST("/salary/preview", handler.Preview)
}
