package app

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token bucket kept in a Redis hash so every instance shares one budget per
// client. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call("HMGET", key, "tokens", "last_refill_ms")
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call("HSET", key, "tokens", tokens, "last_refill_ms", last_refill)
	redis.call("EXPIRE", key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// rateLimit throttles write routes per requester, falling back to the client
// IP for anonymous callers. Redis errors let the request through.
func (app *application) rateLimit(next http.Handler) http.Handler {
	cfg := app.config.limiter

	if !cfg.enabled || app.redis == nil {
		return next
	}

	ttl := max(int64(cfg.refillInterval.Seconds())*int64(cfg.capacity), 60)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + app.rateLimitSubject(r)

		result, err := tokenBucketScript.Run(
			r.Context(),
			app.redis,
			[]string{key},
			time.Now().UnixMilli(),
			cfg.capacity,
			cfg.refillTokens,
			cfg.refillInterval.Milliseconds(),
			ttl,
		).Int64Slice()

		if err != nil || len(result) != 3 {
			app.contextGetLogger(r).Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))

		if result[0] != 1 {
			retryAfter := int(math.Ceil(float64(result[2]) / 1000.0))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) rateLimitSubject(r *http.Request) string {
	if requesterID := app.contextGetRequesterID(r); requesterID != "" {
		return "requester:" + requesterID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return "ip:" + host
}
