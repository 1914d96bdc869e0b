package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/config"
)

// tokenBucketLua refills continuously at refill/interval and takes one
// token.  State is a hash {t = tokens, ts = last update ms}.  It returns
// {allowed, remaining, retry_after_ms}.
const tokenBucketLua = `
local cap    = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local every  = tonumber(ARGV[4])
local now    = tonumber(ARGV[1])

local t  = tonumber(redis.call('HGET', KEYS[1], 't'))
local ts = tonumber(redis.call('HGET', KEYS[1], 'ts'))
if not t or not ts then
	t, ts = cap, now
end

local rate = refill / every
t = math.min(cap, t + math.max(0, now - ts) * rate)

local ok, wait = 0, 0
if t >= 1 then
	ok = 1
	t = t - 1
else
	wait = math.ceil((1 - t) / rate)
end

redis.call('HSET', KEYS[1], 't', tostring(t), 'ts', now)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return { ok, math.floor(t), wait }
`

var tokenBucketScript = redis.NewScript(tokenBucketLua)

// NewTokenBucket limits requests per key with a Redis token bucket.  It is
// a no-op when disabled or when rdb is nil, and fails open on Redis errors.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(vals) != 3 {
				log.Warn().Err(err).Str("key", key).Msg("rate limit check skipped")
				return next(c)
			}
			allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Debug().Str("key", key).Int64("retry_ms", retryMs).Msg("rate limited")
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// buildRateKey keys the bucket by client address.  The limited routes are
// the public credential endpoints, so no identity is available yet.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		return cfg.Prefix + ":ip:" + ip
	case "route":
		return cfg.Prefix + ":route:" + c.Path()
	default: // ip_route
		return cfg.Prefix + ":ip:" + ip + ":route:" + c.Path()
	}
}
