package author

import (
	"github.com/blognest/blognest/internal/provider"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// Handler 作者工作台处理器入口
// 说明：该处理器承载仪表盘与文章的增改删发操作，均要求登录态。
type Handler struct {
	*provider.Container
}

// New 创建作者处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
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
