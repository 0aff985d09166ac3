package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/pasarantar/admin-console/internal/app"
	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
)

func main() {
	// 解析命令行参数
	var rawMode string
	flag.StringVar(&rawMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(rawMode)
	if err != nil {
		stdLog.Fatalf("启动模式无效: %v", err)
	}

	// 未配置密钥时令牌只解析不验签
	if isWeakSecret(cfg.Catalog.JWTSecret) {
		stdLog.Printf("警告: catalog.jwt_secret 为空或过弱，未验签的会话只有 viewer 权限")
	}
	if strings.TrimSpace(cfg.Catalog.ServiceToken) == "" {
		stdLog.Printf("警告: 未配置 catalog.service_token，参考数据只在会话内刷新")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移提交日志表
	if err := models.AutoMigrate(nil); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiCyan + "║           PasarAntar Admin Console 启动中            ║" + ansiReset)
	fmt.Println(ansiCyan + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Endpoints" + ansiReset)
	fmt.Println(ansiYellow + "• Session: POST /api/v1/console/sessions" + ansiReset)
	fmt.Println(ansiYellow + "• Console: /api/v1/console/*" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "your-secret-key")
}
