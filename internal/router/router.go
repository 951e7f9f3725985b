package router

import (
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/constants"
	authorhandlers "github.com/blognest/blognest/internal/http/handlers/author"
	publichandlers "github.com/blognest/blognest/internal/http/handlers/public"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/provider"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	r.SetHTMLTemplate(view.MustTemplates())

	// 初始化 Handler（按公开页面/作者工作台分组）
	publicHandler := publichandlers.New(c)
	authorHandler := authorhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(SessionMiddleware(c))
	r.Use(RedirectAuthenticatedGate())
	r.Use(RestrictUnauthenticatedGate())

	// 静态资源
	r.StaticFS("/static", view.StaticFS())

	// 公开页面
	r.GET("/", publicHandler.Home)
	r.GET("/post/:slug", publicHandler.PostDetail)
	r.GET("/about", publicHandler.About)
	r.GET("/contact", publicHandler.ContactPage)
	r.POST("/contact", publicHandler.ContactSubmit)
	r.GET("/old-url-to-redirect", publicHandler.OldURLRedirect)
	r.GET("/new-url", publicHandler.NewURLPage)

	// 账号页面
	r.GET("/register", publicHandler.RegisterPage)
	r.POST("/register", publicHandler.RegisterSubmit)
	r.GET("/login", publicHandler.LoginPage)
	r.POST("/login", publicHandler.LoginSubmit)
	r.GET("/logout", publicHandler.Logout)
	r.POST("/logout", publicHandler.Logout)
	r.GET("/forgot-password", publicHandler.ForgotPasswordPage)
	r.POST("/forgot-password", publicHandler.ForgotPasswordSubmit)
	r.GET("/reset-password/:uidb64/:token", publicHandler.ResetPasswordPage)
	r.POST("/reset-password/:uidb64/:token", publicHandler.ResetPasswordSubmit)

	// 作者工作台。仅 dashboard 额外要求 add 权限，
	// 其余操作只要求登录，归属校验在 service 层完成
	r.GET("/dashboard", RequireLogin(), RequirePostPermission(c.AuthzService, constants.PermAddPost), authorHandler.Dashboard)
	r.GET("/new-post", RequireLogin(), authorHandler.NewPostPage)
	r.POST("/new-post", RequireLogin(), authorHandler.NewPostSubmit)
	r.GET("/edit-post/:id", RequireLogin(), authorHandler.EditPostPage)
	r.POST("/edit-post/:id", RequireLogin(), authorHandler.EditPostSubmit)
	r.POST("/delete-post/:id", RequireLogin(), authorHandler.DeletePost)
	r.POST("/publish-post/:id", RequireLogin(), authorHandler.PublishPost)

	// 自定义 404 页面
	r.NoRoute(func(ctx *gin.Context) {
		view.NotFound(ctx)
	})

	return r
}
