package admin

import (
	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// GetReferences 表单下拉使用的分类、单位与标签
func (h *Handler) GetReferences(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	refresh := cast.ToBool(c.Query("refresh"))
	refs, err := ws.References(c.Request.Context(), refresh)
	if err != nil {
		// 错误已经以提示形式推送，这里照常返回空列表
		requestLog(c).Debugw("console_references_empty", "refresh", refresh)
	}
	response.Success(c, refs)
}

// ListNotifications 当前可见与待移除的提示
func (h *Handler) ListNotifications(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	response.Success(c, ws.Notifications().List())
}

// DismissNotification 手动关闭提示，仍保留移除前的过渡时间
func (h *Handler) DismissNotification(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !ws.Notifications().Dismiss(id) {
		respondErrorWithMsg(c, response.CodeNotFound, handlershared.MsgNotificationAbsent, nil)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// PopNavigation 取走待执行的跳转
func (h *Handler) PopNavigation(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"redirect": ws.Navigator().Pop(),
		"history":  ws.Navigator().History(),
	})
}
