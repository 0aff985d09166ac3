package shared

import (
	"github.com/pasarantar/admin-console/internal/console"

	"github.com/gin-gonic/gin"
)

const workspaceKey = "console_workspace"

// SetWorkspace 由会话中间件写入当前工作区
func SetWorkspace(c *gin.Context, ws *console.Workspace) {
	c.Set(workspaceKey, ws)
}

// Workspace 读取当前工作区
func Workspace(c *gin.Context) (*console.Workspace, bool) {
	value, exists := c.Get(workspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := value.(*console.Workspace)
	return ws, ok && ws != nil
}

// MustWorkspace 读取当前工作区，缺失时直接返回 401
func MustWorkspace(c *gin.Context) (*console.Workspace, bool) {
	ws, ok := Workspace(c)
	if !ok {
		RespondError(c, console.ErrWorkspaceNotFound)
		return nil, false
	}
	return ws, true
}
