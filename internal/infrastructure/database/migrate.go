package database

import (
	"context"
	"fmt"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/infrastructure/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models 需要迁移的全部模型，顺序即建表顺序
func Models() []interface{} {
	return []interface{}{
		&models.Building{},
		&models.Activity{},
		&models.Organization{},
		&models.PhoneNumber{},
		&models.OrganizationActivity{},
	}
}

// Migrate 按迁移模式处理表结构
//   - auto: 只添加新列和新表，不会删除或修改列
//   - drop: 删除全部表后重建
//   - none: 什么都不做
func Migrate(ctx context.Context, db *gorm.DB, mode string, log *zap.Logger) error {
	db = db.WithContext(ctx)
	switch mode {
	case config.MigrationNone:
		log.Info("跳过数据库迁移")
		return nil
	case config.MigrationDrop:
		log.Warn("在drop模式下运行，将删除并重建所有表")
		if err := dropTables(db, log); err != nil {
			return err
		}
		return autoMigrate(db, log)
	case config.MigrationAuto, "":
		return autoMigrate(db, log)
	default:
		return fmt.Errorf("unsupported migration mode %q", mode)
	}
}

// autoMigrate 自动迁移所有模型
func autoMigrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("数据库迁移完成")
	return nil
}

// dropTables 按依赖的逆序删除表
func dropTables(db *gorm.DB, log *zap.Logger) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	log.Info("已删除全部表", zap.Int("count", len(tables)))
	return nil
}
