package provider

import (
	"strings"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/cache"
	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/console"
	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/models"
	"github.com/pasarantar/admin-console/internal/queue"
	"github.com/pasarantar/admin-console/internal/reference"
	"github.com/pasarantar/admin-console/internal/repository"
	"github.com/pasarantar/admin-console/internal/service"
	"github.com/pasarantar/admin-console/internal/session"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SubmissionLogRepo repository.SubmissionLogRepository

	// Services
	AuthzService     *authz.Service
	JournalService   *service.JournalService
	ReferenceService *reference.Service

	// Catalog 会话共享的目录客户端，令牌由各会话注入
	Catalog *catalog.Client
	// ServiceCatalog 后台任务使用服务令牌访问目录，未配置时为 nil
	ServiceCatalog *catalog.Client

	Registry *console.Registry
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 初始化目录客户端与工作区
	c.initConsole()

	return c
}

func (c *Container) initRepositories() {
	if models.DB == nil {
		logger.Warnw("provider_db_unavailable", "component", "submission_log")
		return
	}
	c.SubmissionLogRepo = repository.NewSubmissionLogRepository(models.DB)
}

func (c *Container) initServices() {
	if models.DB != nil {
		authzService, err := authz.NewService(models.DB)
		if err != nil {
			logger.Errorw("provider_init_authz_failed", "error", err)
			panic(err)
		}
		c.AuthzService = authzService
		if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
			panic(err)
		}
	}

	consoleCfg := c.Config.Console
	c.JournalService = service.NewJournalService(c.SubmissionLogRepo, consoleCfg.JournalPageSize, consoleCfg.JournalRetention())

	var store reference.Store = reference.NewMemoryStore()
	if cache.Enabled() {
		store = reference.RedisStore{}
	}
	c.ReferenceService = reference.NewService(store, consoleCfg.ReferenceCacheTTL(), c.QueueClient)
}

func (c *Container) initConsole() {
	catalogCfg := c.Config.Catalog
	client, err := catalog.NewClient(catalogCfg.BaseURL, nil, catalog.WithTimeout(catalogCfg.Timeout()))
	if err != nil {
		logger.Errorw("provider_init_catalog_failed", "base_url", catalogCfg.BaseURL, "error", err)
		panic(err)
	}
	c.Catalog = client

	if token := strings.TrimSpace(catalogCfg.ServiceToken); token != "" {
		c.ServiceCatalog = client.WithTokens(catalog.StaticToken(token))
	} else {
		logger.Infow("provider_service_token_missing", "effect", "reference_refresh_task_skipped")
	}

	var sessionOpts []session.Option
	if secret := strings.TrimSpace(catalogCfg.JWTSecret); secret != "" {
		sessionOpts = append(sessionOpts, session.WithVerifyKey(secret))
	}

	journal := c.JournalService
	c.Registry = console.NewRegistry(console.Deps{
		Catalog:    client,
		References: c.ReferenceService,
		Recorder: func(sess *session.Session) form.Recorder {
			return journal.Recorder(service.JournalActor{
				SessionID: sess.ID(),
				Subject:   sess.Claims().Subject,
			})
		},
		Config: c.Config.Console,
	},
		console.WithIdleTimeout(c.Config.Console.IdleTimeout()),
		console.WithReapInterval(c.Config.Console.ReapInterval()),
		console.WithSessionOptions(sessionOpts...),
	)
}
