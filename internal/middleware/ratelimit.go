// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// ClientIP buckets by remote address without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit allows limit requests per window and bucket, counted in Redis so
// every API replica shares the budget. When Redis is unreachable requests are
// let through and the failure is logged.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, key KeyFunc, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			bucket := "rate_limit:" + key(r)

			// EXPIRE NX gives a counter missing its TTL one on the next request
			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, bucket)
				pipe.ExpireNX(ctx, bucket, window)
				return nil
			})
			if err != nil {
				log.Warn("rate limit check failed", zap.String("bucket", bucket), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			current := incr.Val()

			if current > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
