package public

import (
	"strings"

	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

type openSessionPayload struct {
	Token string `json:"token" binding:"required"`
}

// OpenSession 用目录后端签发的令牌建立控制台会话
func (h *Handler) OpenSession(c *gin.Context) {
	var req openSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, session.ErrTokenMissing)
		return
	}
	ws, err := h.Registry.Open(strings.TrimSpace(req.Token))
	if err != nil {
		handlershared.RespondError(c, err)
		return
	}
	sess := ws.Session()
	claims := sess.Claims()
	handlershared.RequestLog(c).Infow("console_session_opened",
		"session_id", ws.ID(),
		"subject", claims.Subject,
		"role", sess.Role(),
	)
	response.Success(c, gin.H{
		"session_id": ws.ID(),
		"subject":    claims.Subject,
		"name":       claims.Name,
		"role":       sess.Role(),
		"expires_at": claims.ExpiresAt,
	})
}
