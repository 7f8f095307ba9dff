package public

import "github.com/bookstore-next/internal/provider"

// Handler 前台接口处理器入口
// 说明：该处理器用于游客、顾客与卖家侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
