package public

import (
	"context"
	"time"

	"github.com/pasarantar/admin-console/internal/cache"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

// Health 健康检查：数据库与缓存连通性、活动会话数
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{
		"database":   checkDatabase(ctx),
		"redis":      "disabled",
		"workspaces": 0,
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			status["redis"] = err.Error()
		}
	}
	if h.Registry != nil {
		status["workspaces"] = h.Registry.Len()
	}
	response.Success(c, status)
}

func checkDatabase(ctx context.Context) string {
	if models.DB == nil {
		return "disabled"
	}
	sqlDB, err := models.DB.DB()
	if err != nil {
		return err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
