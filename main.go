package main

import (
	"ctf_platform_backend/internal/app"
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/pkg/configwatcher"
	"ctf_platform_backend/pkg/logger"
	"flag"
	"log"
	"path/filepath"
)

// @title CTF Platform API
// @version 1.0
// @description CTF 竞赛平台后端：用户、题目、flag 提交与实时排行榜

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// @BasePath /api
func main() {
	migrate := flag.Bool("migrate", false, "运行数据库迁移后继续启动服务")
	migrateOnly := flag.Bool("migrate-only", false, "只运行数据库迁移，然后退出")
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)

	if cfg.MigrateOnly {
		logger.Log.Info("Migration finished, exiting")
		return
	}

	go configwatcher.WatchConfig(filepath.Join(*configPath, "config.yaml"), func(newCfg *config.Config) {
		application.ApplyConfig(newCfg)
	})

	application.Run()
}
