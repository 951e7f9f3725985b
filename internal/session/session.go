package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/blognest/blognest/internal/config"

	"github.com/gin-gonic/gin"
)

// Manager 会话 Cookie 管理：在 HTTP-only Cookie 中承载会话令牌
type Manager struct {
	cookieName string
	secure     bool
}

// NewManager 创建会话管理器
func NewManager(cfg *config.SessionConfig) *Manager {
	name := "blognest_session"
	secure := false
	if cfg != nil {
		if strings.TrimSpace(cfg.CookieName) != "" {
			name = strings.TrimSpace(cfg.CookieName)
		}
		secure = cfg.Secure
	}
	return &Manager{cookieName: name, secure: secure}
}

// CookieName 会话 Cookie 名称
func (m *Manager) CookieName() string {
	return m.cookieName
}

// SetToken 写入会话令牌 Cookie
func (m *Manager) SetToken(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, maxAge, "/", "", m.secure, true)
}

// ClearToken 清除会话令牌 Cookie
func (m *Manager) ClearToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

// Token 读取会话令牌
func (m *Manager) Token(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}
