package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/bookstore-next/internal/app"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/repository"
	"github.com/bookstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

const (
	envDefaultAdminEmail    = "BK_DEFAULT_ADMIN_EMAIL"
	envDefaultAdminPassword = "BK_DEFAULT_ADMIN_PASSWORD"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if !app.IsValidMode(mode) {
		stdLog.Fatalf("未知启动模式: %s", mode)
	}

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		logger.Warnw("jwt_secret_weak", "hint", "configure jwt.secret before going to production")
	}

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	initDefaultAdmin(cfg, db)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		DB:      db,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// initDefaultAdmin 根据环境变量初始化默认管理员，失败只告警
func initDefaultAdmin(cfg *config.Config, db *gorm.DB) {
	email := strings.TrimSpace(os.Getenv(envDefaultAdminEmail))
	password := os.Getenv(envDefaultAdminPassword)
	if email == "" || password == "" {
		if cfg.Server.Mode == "release" {
			logger.Warnw("default_admin_skipped", "reason", "env not set", "env", envDefaultAdminEmail+"/"+envDefaultAdminPassword)
		}
		return
	}
	authService := service.NewAuthService(
		cfg,
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		service.NewCaptchaService(cfg.Captcha),
	)
	if _, _, err := authService.EnsureDefaultAdmin(email, password); err != nil {
		logger.Warnw("default_admin_init_failed", "email", email, "error", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "┌──────────────────────────────────────────┐" + ansiReset)
	fmt.Println(ansiCyan + ansiBold + "│        📚 Bookstore API 启动中           │" + ansiReset)
	fmt.Println(ansiCyan + ansiBold + "└──────────────────────────────────────────┘" + ansiReset)
	fmt.Println(ansiDim + "modes: all | api | worker" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
