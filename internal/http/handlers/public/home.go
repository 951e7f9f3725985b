package public

import (
	"errors"
	"net/http"

	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/http/handlers/shared"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/service"
	"github.com/blognest/blognest/internal/session"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// Home 首页：已发布文章分页列表
func (h *Handler) Home(c *gin.Context) {
	page := shared.ParsePage(c)
	pageSize := h.Config.Blog.PageSize

	posts, total, err := h.PostService.ListPublished(page, pageSize)
	if err != nil {
		logger.Errorw("home_list_posts_failed", "page", page, "error", err)
		view.Render(c, http.StatusInternalServerError, "home.html", gin.H{
			"Title": "Latest posts",
			"Posts": []models.Post{},
		})
		return
	}

	// 页码超出范围时回到末页重查，与分页器取页行为一致
	pagination := shared.NewPagination(page, pageSize, total)
	if pagination.Page != page {
		posts, _, err = h.PostService.ListPublished(pagination.Page, pageSize)
		if err != nil {
			logger.Errorw("home_list_posts_failed", "page", pagination.Page, "error", err)
			posts = nil
		}
	}

	view.Render(c, http.StatusOK, "home.html", gin.H{
		"Title":      "Latest posts",
		"Posts":      posts,
		"Page":       pagination.Page,
		"TotalPages": pagination.TotalPages,
		"HasPrev":    pagination.HasPrev,
		"HasNext":    pagination.HasNext,
		"PrevPage":   pagination.PrevPage,
		"NextPage":   pagination.NextPage,
	})
}

// PostDetail 文章详情：仅已发布文章，附带同分类相关文章
func (h *Handler) PostDetail(c *gin.Context) {
	// 登录用户需要持有查看权限，匿名访客不受限
	if userID, ok := currentUserID(c); ok {
		allowed, err := h.AuthzService.HasPostPermission(userID, constants.PermViewPost)
		if err != nil {
			logger.Errorw("post_detail_enforce_failed", "user_id", userID, "error", err)
		}
		if err != nil || !allowed {
			session.AddFlash(c, constants.FlashError, "You have no permisson to view any posts")
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	detail, err := h.PostService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			view.NotFound(c)
			return
		}
		logger.Errorw("post_detail_failed", "slug", c.Param("slug"), "error", err)
		view.NotFound(c)
		return
	}

	view.Render(c, http.StatusOK, "post_detail.html", gin.H{
		"Title":   detail.Post.Title,
		"Post":    detail.Post,
		"Related": detail.Related,
	})
}

// About 关于页面，内容缺失或读取失败时展示默认文案
func (h *Handler) About(c *gin.Context) {
	content, err := h.AboutService.Content(c.Request.Context())
	if err != nil {
		logger.Errorw("about_content_failed", "error", err)
		content = constants.DefaultAboutContent
	}
	view.Render(c, http.StatusOK, "about.html", gin.H{
		"Title":   "About",
		"Content": content,
	})
}

// OldURLRedirect 旧地址跳转到新地址
func (h *Handler) OldURLRedirect(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/new-url")
}

// NewURLPage 旧地址迁移后的落点页面
func (h *Handler) NewURLPage(c *gin.Context) {
	c.String(http.StatusOK, "This is the new URL")
}

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
