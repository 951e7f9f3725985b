package router

import (
	"strings"
	"time"

	"github.com/blognest/blognest/internal/provider"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
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

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionMiddleware 解析会话 Cookie 并注入当前用户。
// 令牌缺失或失效时不阻断请求，仅保持匿名状态。
func SessionMiddleware(container *provider.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := container.SessionManager.Token(c)
		if !ok {
			c.Next()
			return
		}
		state, err := container.AuthService.ResolveSession(c.Request.Context(), token)
		if err != nil || state == nil {
			container.SessionManager.ClearToken(c)
			c.Next()
			return
		}
		c.Set(view.CtxUserID, state.UserID)
		c.Set(view.CtxUsername, state.Username)
		c.Next()
	}
}

// currentUserID 读取会话用户 ID，匿名时返回 false
func currentUserID(c *gin.Context) (uint, bool) {
	value, ok := c.Get(view.CtxUserID)
	if !ok {
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}
