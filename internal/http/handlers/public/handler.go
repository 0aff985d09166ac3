package public

import "github.com/pasarantar/admin-console/internal/provider"

// Handler 公开接口处理器入口
// 说明：只包含建立会话与健康检查，不要求控制台会话。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
