package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/artgalerie/gallery-api/internal/config"
)

// bodyCapture mirrors the response body into a buffer while forwarding
// it to the client, so successful responses can be stored in Redis.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int
	limit  int
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.size += len(b)
	if w.limit <= 0 || w.size <= w.limit {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// ResponseCache returns a middleware that serves cached JSON for the
// configured methods (typically GET) out of Redis.  A nil client or a
// disabled config turns the middleware into a pass-through.  Only 200
// responses no larger than MaxBodyBytes are stored.
func ResponseCache(rdb *redis.Client, cfg config.CacheConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled || !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			key := cfg.Prefix + ":" + c.Request().Method + ":" + c.Path() + "?" + c.Request().URL.RawQuery
			ctx := c.Request().Context()

			if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, cached)
			}

			cap := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cap
			if err := next(c); err != nil {
				return err
			}
			if cap.status == http.StatusOK && cap.size <= cfg.MaxBodyBytes {
				// cache failures are not the client's problem
				_ = rdb.Set(ctx, key, cap.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}

// rateScript counts a request in a fixed window and sets the window
// expiry on first use.  Returns the post-increment counter.
var rateScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimit returns a middleware enforcing a fixed-window request
// limit keyed by client IP.  A nil client or disabled config makes it
// a pass-through; Redis failures fail open so the API stays available.
func RateLimit(rdb *redis.Client, cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled {
				return next(c)
			}
			key := cfg.Prefix + ":" + c.RealIP() + ":" + c.Path()
			ctx := c.Request().Context()
			n, err := rateScript.Run(ctx, rdb, []string{key},
				cfg.Window.Milliseconds()).Int64()
			if err == nil && n > int64(cfg.Limit) {
				retry := time.Now().Add(cfg.Window).UTC().Format(time.RFC3339)
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}
