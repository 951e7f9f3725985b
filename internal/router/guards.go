package router

import (
	"net/http"

	"github.com/blognest/blognest/internal/authz"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// RequireLogin 要求登录态，匿名用户重定向到登录页
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePostPermission 要求文章权限动作，缺失时直接返回 403 页面
func RequirePostPermission(authzService *authz.Service, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		allowed, err := authzService.HasPostPermission(userID, action)
		if err != nil {
			logger.Errorw("post_permission_enforce_failed",
				"user_id", userID,
				"action", action,
				"error", err,
			)
			view.Forbidden(c)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("post_permission_denied",
				"user_id", userID,
				"action", action,
				"path", c.Request.URL.Path,
			)
			view.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
