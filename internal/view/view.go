package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/blognest/blognest/internal/session"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// MustTemplates 解析全部内嵌模板，失败时直接 panic（启动期错误）
func MustTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// StaticFS 内嵌静态资源文件系统
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// 上下文键，由路由中间件写入
const (
	CtxUserID   = "auth_user_id"
	CtxUsername = "auth_username"
)

// Render 渲染页面，自动注入当前用户与闪存消息
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = session.PopFlashes(c)
	}
	if username, exists := c.Get(CtxUsername); exists {
		data["CurrentUser"] = username
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Blognest"
	}
	c.HTML(status, name, data)
}

// NotFound 渲染 404 页面
func NotFound(c *gin.Context) {
	Render(c, 404, "404.html", gin.H{"Title": "Page Not Found"})
}

// Forbidden 渲染 403 页面
func Forbidden(c *gin.Context) {
	Render(c, 403, "403.html", gin.H{"Title": "Forbidden"})
}
