package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/vip-affiliates/internal/app"
	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	envDefaultAdminUsername = "VIPAFF_DEFAULT_ADMIN_USERNAME"
	envDefaultAdminPassword = "VIPAFF_DEFAULT_ADMIN_PASSWORD"
)

func main() {
	var rawMode string
	flag.StringVar(&rawMode, "mode", string(app.ModeAll), "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(rawMode)
	if err != nil {
		stdLog.Fatalf("启动模式无效: %v", err)
	}
	printStartupBanner(cfg, mode)

	checkSecrets(stdLog, cfg)

	if err := prepareDatabase(cfg); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	seedDefaultAdmin(stdLog, cfg.Server.Mode)

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

// checkSecrets release 模式下拒绝弱密钥，其余模式仅告警
func checkSecrets(stdLog *log.Logger, cfg *config.Config) {
	weak := make([]string, 0, 2)
	if isWeakSecret(cfg.JWT.SecretKey) {
		weak = append(weak, "jwt.secret")
	}
	if isWeakSecret(cfg.UserJWT.SecretKey) {
		weak = append(weak, "user_jwt.secret")
	}
	if len(weak) == 0 {
		return
	}
	if cfg.Server.Mode == "release" {
		stdLog.Fatalf("%s 过弱或仍为默认值，请在生产环境中配置强随机密钥", strings.Join(weak, ", "))
	}
	stdLog.Printf("警告: %s 过弱或仍为默认值，建议在生产环境中更换", strings.Join(weak, ", "))
}

func prepareDatabase(cfg *config.Config) error {
	pool := models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, pool, cfg.Server.Mode == "debug"); err != nil {
		return err
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// seedDefaultAdmin 首次启动时创建超级管理员，release 模式必须显式提供密码
func seedDefaultAdmin(stdLog *log.Logger, serverMode string) {
	username := os.Getenv(envDefaultAdminUsername)
	password := os.Getenv(envDefaultAdminPassword)
	if serverMode == "release" && password == "" {
		stdLog.Printf("警告: 未设置 %s，已跳过默认管理员初始化", envDefaultAdminPassword)
		return
	}
	if err := models.InitDefaultAdmin(username, password); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
}

func printStartupBanner(cfg *config.Config, mode app.Mode) {
	fmt.Printf("VIP Affiliates API  mode=%s  listen=%s:%s\n", mode, cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("vip meta keys: gate=%s editor=%s\n", cfg.VIP.GateMetaKey, cfg.VIP.EditorMetaKey)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
