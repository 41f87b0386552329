package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyLock   = 30 * time.Second
)

// storedResponse is a successful response kept for replay.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Disposition string `json:"disposition,omitempty"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func IdempotencyCacheKey(path, key string) string {
	return fmt.Sprintf("idemp:%s:%s", path, key)
}

// Idempotency replays the stored 2xx response of a POST that carries an
// Idempotency-Key already seen. A second request with the same key while the
// first is still running gets 409. Requests without the header pass through.
func Idempotency(rdb *redis.Client, logger ...*zap.Logger) gin.HandlerFunc {
	l := zap.L().Named("middleware.idempotency")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("middleware.idempotency")
	}

	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := IdempotencyCacheKey(c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stored storedResponse
			if err := json.Unmarshal([]byte(val), &stored); err == nil {
				if stored.Disposition != "" {
					c.Header("Content-Disposition", stored.Disposition)
				}
				c.Header("Idempotent-Replayed", "true")
				c.Data(stored.Status, stored.ContentType, stored.Body)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLock).Result()
		if err != nil {
			// Without Redis the request still runs, just without replay protection.
			l.Warn("idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.AbortError(c, http.StatusConflict, apperror.CodeConflict,
				"A request with this Idempotency-Key is still being processed")
			return
		}
		defer rdb.Del(ctx, lockKey)

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := cw.Status()
		if status < 200 || status >= 300 {
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: cw.Header().Get("Content-Type"),
			Disposition: cw.Header().Get("Content-Disposition"),
			Body:        cw.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, string(payload), idempotencyTTL).Err(); err != nil {
			l.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
