package main

import (
	"context"
	"fmt"

	"social-system/config"
	"social-system/internal/repository"
	"social-system/internal/repository/gormrepo"
	"social-system/internal/repository/memrepo"
	"social-system/internal/repository/mongorepo"
	dbPkg "social-system/pkg/db"
	"social-system/pkg/logger"
)

// openStore 按配置选择存储后端并完成初始化（建索引 / 自动建表）
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := dbPkg.InitMongo(ctx, cfg.Mongo)
		if err != nil {
			return repository.Store{}, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return repository.Store{}, err
		}
		return mongorepo.New(db), nil

	case config.DriverMySQL:
		db, err := dbPkg.InitDB(cfg.Database)
		if err != nil {
			return repository.Store{}, err
		}
		if err := dbPkg.AutoMigrate(gormrepo.Models()...); err != nil {
			return repository.Store{}, fmt.Errorf("自动迁移失败: %w", err)
		}
		logger.Info("自动迁移完成")
		return gormrepo.New(db), nil

	case config.DriverMemory:
		logger.Warn("使用内存存储，重启后数据丢失")
		return memrepo.New(), nil

	default:
		return repository.Store{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
