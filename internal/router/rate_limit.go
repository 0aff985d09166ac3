package router

import (
	"fmt"
	"strings"

	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

// Enabled 规则是否生效
func (r RateLimitRule) Enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// 计数与剩余秒数在同一脚本内完成，窗口从第一次请求开始
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件，未启用 Redis 时直接放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.Enabled() {
			c.Next()
			return
		}

		key := rateLimitKey(c, rule, keyFunc)
		result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Result()
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, handlershared.MsgRateLimitDown)
			c.Abort()
			return
		}

		count, ttlSeconds, ok := parseRateLimitResult(result)
		if !ok {
			logger.Warnw("rate_limit_result_invalid", "key", key, "result", result)
			response.Error(c, response.CodeInternal, handlershared.MsgRateLimitDown)
			c.Abort()
			return
		}
		if count > int64(rule.MaxRequests) {
			response.Error(c, response.CodeTooManyRequests, fmt.Sprintf(handlershared.MsgTooManyRequests, retryAfter(ttlSeconds, rule)))
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitKey(c *gin.Context, rule RateLimitRule, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if rule.Prefix != "" {
		key = rule.Prefix + ":" + key
	}
	return key
}

func parseRateLimitResult(result any) (int64, int64, bool) {
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return 0, 0, false
	}
	count, err := cast.ToInt64E(values[0])
	if err != nil {
		return 0, 0, false
	}
	ttl := cast.ToInt64(values[1])
	return count, ttl, true
}

func retryAfter(ttlSeconds int64, rule RateLimitRule) int {
	if ttlSeconds >= 1 {
		return int(ttlSeconds)
	}
	if rule.WindowSeconds >= 1 {
		return rule.WindowSeconds
	}
	return 1
}
