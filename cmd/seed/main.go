package main

import (
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/seed"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 全量重建分类与文章，分类和内容为固定清单
	if err := seed.Run(models.DB); err != nil {
		stdLog.Fatalf("Failed to seed data: %v", err)
	}
	stdLog.Printf("Completed inserting data!")
}
