package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pasarantar/admin-console/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Console  ConsoleConfig  `mapstructure:"console"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置（提交日志与权限策略）
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// CatalogConfig 商品目录后端配置
type CatalogConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ServiceToken   string `mapstructure:"service_token"` // 后台任务刷新参考数据使用
	JWTSecret      string `mapstructure:"jwt_secret"`    // 为空时只解析令牌不校验签名
}

// Timeout 请求超时
func (c CatalogConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConsoleConfig 控制台行为配置
type ConsoleConfig struct {
	NotificationDurationMS   int               `mapstructure:"notification_duration_ms"`
	HideGraceMS              int               `mapstructure:"hide_grace_ms"`
	RedirectDelayMS          int               `mapstructure:"redirect_delay_ms"`
	IdleTimeoutMinutes       int               `mapstructure:"idle_timeout_minutes"`
	ReapIntervalSeconds      int               `mapstructure:"reap_interval_seconds"`
	ReferenceCacheTTLSeconds int               `mapstructure:"reference_cache_ttl_seconds"`
	JournalPageSize          int               `mapstructure:"journal_page_size"`
	JournalRetentionDays     int               `mapstructure:"journal_retention_days"`
	ListPaths                map[string]string `mapstructure:"list_paths"`
	SessionRateLimit         RateLimitConfig   `mapstructure:"session_rate_limit"`
}

// RateLimitConfig 频率限制配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// NotificationDuration 通知默认展示时长
func (c ConsoleConfig) NotificationDuration() time.Duration {
	return millis(c.NotificationDurationMS, 5000)
}

// HideGrace 通知隐藏到移除的间隔
func (c ConsoleConfig) HideGrace() time.Duration {
	return millis(c.HideGraceMS, 300)
}

// RedirectDelay 加载失败后的跳转延迟
func (c ConsoleConfig) RedirectDelay() time.Duration {
	return millis(c.RedirectDelayMS, 2000)
}

// IdleTimeout 会话空闲回收时间
func (c ConsoleConfig) IdleTimeout() time.Duration {
	if c.IdleTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// ReapInterval 空闲会话扫描间隔
func (c ConsoleConfig) ReapInterval() time.Duration {
	if c.ReapIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.ReapIntervalSeconds) * time.Second
}

// ReferenceCacheTTL 参考数据缓存时间
func (c ConsoleConfig) ReferenceCacheTTL() time.Duration {
	if c.ReferenceCacheTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.ReferenceCacheTTLSeconds) * time.Second
}

// JournalRetention 提交记录保留时长，0 表示不清理
func (c ConsoleConfig) JournalRetention() time.Duration {
	if c.JournalRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.JournalRetentionDays) * 24 * time.Hour
}

// ListPath 实体列表页路径，加载失败时跳转到这里
func (c ConsoleConfig) ListPath(entity string) string {
	if path, ok := c.ListPaths[entity]; ok && strings.TrimSpace(path) != "" {
		return path
	}
	if path, ok := defaultListPaths[entity]; ok {
		return path
	}
	return "/" + entity + "s"
}

var defaultListPaths = map[string]string{
	"product":  "/products",
	"category": "/categories",
	"unit":     "/units",
	"tag":      "/tags",
	"customer": "/customers",
}

func millis(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Millisecond
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	// .env 不存在时忽略，已有的环境变量优先
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 catalog.base_url -> CATALOG_BASE_URL)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "console.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/console.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pa-console")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"X-Console-Session",
		"X-Requested-With",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("catalog.base_url", "http://127.0.0.1:5000/api")
	v.SetDefault("catalog.timeout_seconds", 15)
	v.SetDefault("catalog.service_token", "")
	v.SetDefault("catalog.jwt_secret", "")
	v.SetDefault("console.notification_duration_ms", 5000)
	v.SetDefault("console.hide_grace_ms", 300)
	v.SetDefault("console.redirect_delay_ms", 2000)
	v.SetDefault("console.idle_timeout_minutes", 30)
	v.SetDefault("console.reap_interval_seconds", 60)
	v.SetDefault("console.reference_cache_ttl_seconds", 600)
	v.SetDefault("console.journal_page_size", 20)
	v.SetDefault("console.journal_retention_days", 90)
	v.SetDefault("console.session_rate_limit.window_seconds", 60)
	v.SetDefault("console.session_rate_limit.max_requests", 10)
	v.SetDefault("console.list_paths", defaultListPaths)
}
