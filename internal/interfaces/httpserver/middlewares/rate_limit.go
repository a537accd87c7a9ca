package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// simple token bucket per client IP.
type rateBucket struct {
	tokens     float64
	lastRefill time.Time
}

// idle buckets are dropped after this long; a full refill takes a minute.
const bucketIdleTTL = 5 * time.Minute

// RateLimitMiddleware allows limitPerMinute requests per client IP with a
// burst of the same size. A limit of zero disables it.
func RateLimitMiddleware(limitPerMinute int, logger zerolog.Logger) gin.HandlerFunc {
	if limitPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*rateBucket)
		limit     = float64(limitPerMinute)
		rate      = limit / 60.0
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		key := rateKey(c)
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > bucketIdleTTL {
			for k, b := range buckets {
				if now.Sub(b.lastRefill) > bucketIdleTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &rateBucket{tokens: limit, lastRefill: now}
			buckets[key] = bucket
		}

		elapsed := now.Sub(bucket.lastRefill).Seconds()
		bucket.tokens = min(limit, bucket.tokens+elapsed*rate)
		bucket.lastRefill = now

		if bucket.tokens < 1 {
			mu.Unlock()
			err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeRateLimited,
				"rate limit exceeded for "+key, nil, "b7d0e4a1-5c92-4f3e-8a16-2e9f7c4b1d05")
			platformerrors.LogError(logger, err, RequestIDFromContext(c))

			sanitized := platformerrors.Sanitize(err, RequestIDFromContext(c))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, platformerrors.HTTPErrorResponse{Error: sanitized})
			return
		}
		bucket.tokens--
		mu.Unlock()

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if ip := clientIP(c.ClientIP()); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// Normalize IPv6-mapped IPv4 etc.
func clientIP(raw string) string {
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
