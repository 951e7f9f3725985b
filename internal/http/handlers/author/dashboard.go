package author

import (
	"net/http"

	"github.com/blognest/blognest/internal/http/handlers/shared"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// Dashboard 工作台：当前用户的全部文章（含草稿）
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	page := shared.ParsePage(c)
	pageSize := h.Config.Blog.PageSize

	posts, total, err := h.PostService.ListByOwner(userID, page, pageSize)
	if err != nil {
		logger.Errorw("dashboard_list_posts_failed", "user_id", userID, "error", err)
		view.Render(c, http.StatusInternalServerError, "dashboard.html", gin.H{
			"Title": "My Posts",
			"Posts": []models.Post{},
		})
		return
	}

	pagination := shared.NewPagination(page, pageSize, total)
	if pagination.Page != page {
		posts, _, err = h.PostService.ListByOwner(userID, pagination.Page, pageSize)
		if err != nil {
			logger.Errorw("dashboard_list_posts_failed", "user_id", userID, "error", err)
			posts = nil
		}
	}

	view.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":      "My Posts",
		"Posts":      posts,
		"Page":       pagination.Page,
		"TotalPages": pagination.TotalPages,
		"HasPrev":    pagination.HasPrev,
		"HasNext":    pagination.HasNext,
		"PrevPage":   pagination.PrevPage,
		"NextPage":   pagination.NextPage,
	})
}
