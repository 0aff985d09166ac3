package admin

import (
	"strings"

	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/service"
	"github.com/pasarantar/admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// ListJournal 提交记录；管理员可查看全部会话，其他角色只看本会话
func (h *Handler) ListJournal(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(cast.ToInt(c.Query("page")), cast.ToInt(c.Query("page_size")))
	items, total, err := h.JournalService.List(service.JournalListInput{
		Page:      page,
		PageSize:  pageSize,
		SessionID: journalScope(c, ws.Session()),
		Entity:    c.Query("entity"),
		EntityID:  c.Query("entity_id"),
		Outcome:   c.Query("outcome"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// JournalStats 按结果统计提交次数
func (h *Handler) JournalStats(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	counts, err := h.JournalService.Stats(journalScope(c, ws.Session()))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, counts)
}

func journalScope(c *gin.Context, sess *session.Session) string {
	if sess.Role() == session.RoleAdmin {
		return strings.TrimSpace(c.Query("session_id"))
	}
	return sess.ID()
}
