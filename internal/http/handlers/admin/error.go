package admin

import (
	"github.com/pasarantar/admin-console/internal/console"
	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, err error) {
	handlershared.RespondError(c, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

func currentWorkspace(c *gin.Context) (*console.Workspace, bool) {
	return handlershared.MustWorkspace(c)
}
