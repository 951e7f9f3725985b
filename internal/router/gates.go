package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// 两个访问门彼此独立，注册顺序不影响结果：
// 已登录用户访问认证页会被带回首页，匿名用户访问工作台会被带去登录页。

var authPagePaths = map[string]struct{}{
	"/login":    {},
	"/register": {},
}

const dashboardPathPrefix = "/dashboard"

// RedirectAuthenticatedGate 已登录用户访问登录/注册页时重定向回首页
func RedirectAuthenticatedGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			c.Next()
			return
		}
		path := strings.TrimSuffix(c.Request.URL.Path, "/")
		if path == "" {
			path = "/"
		}
		if _, hit := authPagePaths[path]; hit {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RestrictUnauthenticatedGate 匿名用户访问工作台时重定向到登录页
func RestrictUnauthenticatedGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); ok {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if path == dashboardPathPrefix || strings.HasPrefix(path, dashboardPathPrefix+"/") {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
