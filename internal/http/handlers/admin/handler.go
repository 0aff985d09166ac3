package admin

import "github.com/pasarantar/admin-console/internal/provider"

// Handler 控制台接口处理器入口
// 说明：所有接口都要求已建立的控制台会话。
type Handler struct {
	*provider.Container
}

// New 创建控制台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
