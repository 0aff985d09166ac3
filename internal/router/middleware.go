package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/console"
	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// SessionHeader 控制台会话 ID 请求头
const SessionHeader = "X-Console-Session"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Authorization",
			SessionHeader,
			requestIDHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，同时写入 gin 上下文与请求 context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(service.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if ws, ok := handlershared.Workspace(c); ok {
			fields = append(fields, "session_id", ws.ID())
		}
		log := sugar.With(fields...)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// sessionIDFromRequest 优先读取 X-Console-Session，其次 Bearer
func sessionIDFromRequest(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// ConsoleSessionMiddleware 控制台会话中间件
// 会话过期或被后端拒绝后关闭工作区，并提示前端跳转登录页。
func ConsoleSessionMiddleware(registry *console.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionIDFromRequest(c)
		if id == "" || registry == nil {
			handlershared.RespondError(c, console.ErrWorkspaceNotFound)
			c.Abort()
			return
		}
		ws, err := registry.Get(id)
		if err != nil {
			handlershared.RespondError(c, err)
			c.Abort()
			return
		}
		if _, err := ws.Session().Token(); err != nil {
			logger.Session(id).Infow("console_session_rejected",
				"reason", ws.Session().InvalidationReason(),
				"path", c.Request.URL.Path,
			)
			registry.Close(id)
			handlershared.RespondError(c, err)
			c.Abort()
			return
		}
		handlershared.SetWorkspace(c, ws)
		c.Next()
	}
}

// ConsoleRBACMiddleware 控制台 RBAC 鉴权中间件，角色取自会话令牌
func ConsoleRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := handlershared.Workspace(c)
		if !ok {
			handlershared.RespondError(c, console.ErrWorkspaceNotFound)
			c.Abort()
			return
		}
		if authzService == nil {
			logger.Errorw("console_rbac_service_unavailable")
			handlershared.RespondError(c, authz.ErrUnavailable)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		role := ws.Session().Role()

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("console_rbac_enforce_failed",
				"session_id", ws.ID(),
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Forbidden(c, handlershared.MsgForbidden)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("console_rbac_permission_denied",
				"session_id", ws.ID(),
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, handlershared.MsgForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
