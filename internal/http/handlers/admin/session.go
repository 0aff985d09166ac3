package admin

import (
	"time"

	"github.com/pasarantar/admin-console/internal/console"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/gin-gonic/gin"
)

type formSummary struct {
	ID     string        `json:"id"`
	Entity notify.Entity `json:"entity"`
}

// GetSession 当前会话快照：身份、打开的表单与待处理跳转
func (h *Handler) GetSession(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	sess := ws.Session()
	claims := sess.Claims()

	forms := make([]formSummary, 0)
	for _, f := range ws.Forms() {
		forms = append(forms, formSummary{ID: f.ID(), Entity: f.Entity()})
	}

	var expiresAt *time.Time
	if claims.ExpiresAt != nil {
		t := *claims.ExpiresAt
		expiresAt = &t
	}
	response.Success(c, gin.H{
		"session_id":       ws.ID(),
		"subject":          claims.Subject,
		"name":             claims.Name,
		"role":             sess.Role(),
		"expires_at":       expiresAt,
		"created_at":       sess.CreatedAt(),
		"forms":            forms,
		"notifications":    ws.Notifications().List(),
		"pending_redirect": ws.Navigator().Peek(),
	})
}

// CloseSession 登出：关闭工作区并停止所有计时器
func (h *Handler) CloseSession(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	h.Registry.Close(ws.ID())
	requestLog(c).Infow("console_session_closed")
	response.Success(c, gin.H{"redirect": console.LoginPath})
}
