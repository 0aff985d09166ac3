package router

import (
	"sort"
	"strings"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/cache"
	"github.com/pasarantar/admin-console/internal/config"
	adminhandlers "github.com/pasarantar/admin-console/internal/http/handlers/admin"
	publichandlers "github.com/pasarantar/admin-console/internal/http/handlers/public"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/provider"

	"github.com/gin-gonic/gin"
)

const consoleRoutePrefix = "/api/v1/console/"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	sessionRule := RateLimitRule{
		Prefix:        cache.Prefix() + ":rate:console_session",
		WindowSeconds: cfg.Console.SessionRateLimit.WindowSeconds,
		MaxRequests:   cfg.Console.SessionRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 建立会话（无需鉴权）
		apiV1.POST("/console/sessions", RateLimitMiddleware(cache.Client(), sessionRule, KeyByIP), publicHandler.OpenSession)

		authorized := apiV1.Group("/console")
		authorized.Use(ConsoleSessionMiddleware(c.Registry), ConsoleRBACMiddleware(c.AuthzService))
		{
			// 会话
			authorized.GET("/session", adminHandler.GetSession)
			authorized.DELETE("/session", adminHandler.CloseSession)

			// 参考数据
			authorized.GET("/references", adminHandler.GetReferences)

			// 提示与跳转
			authorized.GET("/notifications", adminHandler.ListNotifications)
			authorized.POST("/notifications/:id/dismiss", adminHandler.DismissNotification)
			authorized.POST("/navigation/pop", adminHandler.PopNavigation)

			// 商品与基础数据
			authorized.GET("/products", adminHandler.ListProducts)
			authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
			authorized.DELETE("/entities/:entity/:id", adminHandler.DeleteEntity)
			authorized.POST("/upload", adminHandler.UploadImage)

			// 表单
			authorized.POST("/product-forms", adminHandler.OpenProductForm)
			authorized.POST("/entity-forms/:entity", adminHandler.OpenEntityForm)
			authorized.GET("/forms/:id", adminHandler.GetForm)
			authorized.PATCH("/forms/:id", adminHandler.PatchForm)
			authorized.DELETE("/forms/:id", adminHandler.CloseForm)
			authorized.POST("/forms/:id/validate", adminHandler.ValidateForm)
			authorized.POST("/forms/:id/submit", adminHandler.SubmitForm)
			authorized.POST("/forms/:id/variants", adminHandler.AddVariant)
			authorized.DELETE("/forms/:id/variants/:index", adminHandler.RemoveVariant)
			authorized.POST("/forms/:id/variants/:index/stock", adminHandler.ToggleVariantStock)

			// 提交记录
			authorized.GET("/journal", adminHandler.ListJournal)
			authorized.GET("/journal/stats", adminHandler.JournalStats)

			// 权限管理
			authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
			authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			authorized.POST("/authz/inherit", adminHandler.InheritAuthzRole)
			authorized.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", publicHandler.Health)

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 列出需要授权的控制台接口，供配置角色策略
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, consoleRoutePrefix) || item.Path == consoleRoutePrefix+"sessions" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// derivePermissionModule /console/forms/:id/submit -> forms
func derivePermissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	switch {
	case len(segments) == 0 || segments[0] == "":
		return "system"
	case len(segments) == 1 || segments[0] != "console":
		return segments[0]
	}
	switch segments[1] {
	case "product-forms", "entity-forms":
		return "forms"
	case "entities":
		return "products"
	}
	return segments[1]
}
