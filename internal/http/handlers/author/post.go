package author

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/forms"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/service"
	"github.com/blognest/blognest/internal/session"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// NewPostPage 新建文章页面
func (h *Handler) NewPostPage(c *gin.Context) {
	h.renderPostForm(c, "New Post", "/new-post", &forms.PostForm{}, forms.Errors{})
}

// NewPostSubmit 提交新文章，成功后回到工作台
func (h *Handler) NewPostSubmit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	form := &forms.PostForm{}
	form.Bind(c.PostForm("title"), c.PostForm("content"), c.PostForm("image_url"), c.PostForm("category"))
	errs := form.Validate()
	if !errs.Has() {
		_, err := h.PostService.Create(userID, service.PostInput{
			Title:      form.Title,
			Content:    form.Content,
			ImageURL:   form.ImageURL,
			CategoryID: form.CategoryID,
		})
		switch {
		case err == nil:
			c.Redirect(http.StatusFound, "/dashboard")
			return
		case errors.Is(err, service.ErrCategoryNotFound):
			errs["category"] = "Category is required."
		default:
			logger.Errorw("new_post_failed", "user_id", userID, "error", err)
			session.AddFlash(c, constants.FlashError, "Unable to save post. Please try again.")
		}
	}
	h.renderPostForm(c, "New Post", "/new-post", form, errs)
}

// EditPostPage 编辑文章页面，非归属作者提示后回到工作台
func (h *Handler) EditPostPage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	post, err := h.PostService.GetOwned(postID, userID)
	if err != nil {
		h.handleOwnershipError(c, err, postID, userID)
		return
	}

	form := &forms.PostForm{
		Title:      post.Title,
		Content:    post.Content,
		ImageURL:   post.ImageURL,
		CategoryID: post.CategoryID,
	}
	h.renderPostForm(c, "Edit Post", "/edit-post/"+strconv.FormatUint(uint64(post.ID), 10), form, forms.Errors{})
}

// EditPostSubmit 提交文章修改
func (h *Handler) EditPostSubmit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	form := &forms.PostForm{}
	form.Bind(c.PostForm("title"), c.PostForm("content"), c.PostForm("image_url"), c.PostForm("category"))
	errs := form.Validate()
	if !errs.Has() {
		_, err := h.PostService.Update(postID, userID, service.PostInput{
			Title:      form.Title,
			Content:    form.Content,
			ImageURL:   form.ImageURL,
			CategoryID: form.CategoryID,
		})
		switch {
		case err == nil:
			session.AddFlash(c, constants.FlashSuccess, "Post updated successfully!")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotOwner):
			h.handleOwnershipError(c, err, postID, userID)
			return
		case errors.Is(err, service.ErrCategoryNotFound):
			errs["category"] = "Category is required."
		default:
			logger.Errorw("edit_post_failed", "post_id", postID, "user_id", userID, "error", err)
			session.AddFlash(c, constants.FlashError, "Unable to save post. Please try again.")
		}
	}
	h.renderPostForm(c, "Edit Post", "/edit-post/"+strconv.FormatUint(uint64(postID), 10), form, errs)
}

// DeletePost 删除文章，仅限归属作者
func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	if err := h.PostService.Delete(postID, userID); err != nil {
		h.handleOwnershipError(c, err, postID, userID)
		return
	}
	session.AddFlash(c, constants.FlashSuccess, "Post deleted successfully!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// PublishPost 发布文章，仅限归属作者
func (h *Handler) PublishPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	if _, err := h.PostService.Publish(postID, userID); err != nil {
		h.handleOwnershipError(c, err, postID, userID)
		return
	}
	session.AddFlash(c, constants.FlashSuccess, "Post published successfully!")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) renderPostForm(c *gin.Context, heading, action string, form *forms.PostForm, errs forms.Errors) {
	categories, err := h.CategoryService.ListAll()
	if err != nil {
		logger.Errorw("post_form_list_categories_failed", "error", err)
		categories = []models.Category{}
	}
	view.Render(c, http.StatusOK, "post_form.html", gin.H{
		"Title":      heading,
		"Heading":    heading,
		"Action":     action,
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
	})
}

// handleOwnershipError 归属校验失败的统一处理：
// 文章不存在返回 404，非归属作者提示后回到工作台。
func (h *Handler) handleOwnershipError(c *gin.Context, err error, postID, userID uint) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		view.NotFound(c)
	case errors.Is(err, service.ErrNotOwner):
		session.AddFlash(c, constants.FlashError, "You are not authorized to edit this post.")
		c.Redirect(http.StatusFound, "/dashboard")
	default:
		logger.Errorw("post_ownership_check_failed", "post_id", postID, "user_id", userID, "error", err)
		view.NotFound(c)
	}
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
