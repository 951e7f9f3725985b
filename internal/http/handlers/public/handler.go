package public

import "github.com/blognest/blognest/internal/provider"

// Handler 公开页面处理器入口
// 说明：该处理器承载首页、文章详情、关于、联系与账号相关页面。
type Handler struct {
	*provider.Container
}

// New 创建公开页面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
