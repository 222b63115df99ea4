// Package gormrepo 基于 GORM(MySQL) 的关系型存储后端
// 用户的引用集合存放在 user_ref 表，组合更新在同一事务内完成
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"social-system/internal/model"
	"social-system/internal/repository"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// New 基于给定连接构建全部仓储
func New(db *gorm.DB) repository.Store {
	return repository.Store{
		Users:    &UserRepository{db: db},
		Posts:    &PostRepository{db: db},
		Graffiti: &GraffitiRepository{db: db},
		Threads:  &ThreadRepository{db: db},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// AutoMigrate 按当前结构建表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// isDuplicate 兼容开启与未开启 TranslateError 两种连接
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func notFoundOr(err error, entity, id, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NotFound(entity, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}
