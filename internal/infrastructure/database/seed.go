package database

import (
	"context"
	"fmt"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/seed"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed 写入数据集。buildings 表非空时视为已有数据，直接跳过，返回 false
func Seed(ctx context.Context, db *gorm.DB, ds seed.Dataset, log *zap.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Building{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count buildings: %w", err)
	}
	if count > 0 {
		log.Info("数据库已有数据，跳过种子写入", zap.Int64("buildings", count))
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 父分类在数据集中排在子分类之前
		steps := []struct {
			name string
			rows interface{}
			n    int
		}{
			{"buildings", &ds.Buildings, len(ds.Buildings)},
			{"activities", &ds.Activities, len(ds.Activities)},
			{"organizations", &ds.Organizations, len(ds.Organizations)},
			{"phone_numbers", &ds.PhoneNumbers, len(ds.PhoneNumbers)},
			{"organization_activities", &ds.Links, len(ds.Links)},
		}
		for _, step := range steps {
			if step.n == 0 {
				continue
			}
			if err := tx.Omit(clause.Associations).Create(step.rows).Error; err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
		}
		return resetSequences(tx, "buildings", "activities", "organizations", "phone_numbers")
	})
	if err != nil {
		return false, err
	}

	log.Info("已写入参考数据",
		zap.Int("buildings", len(ds.Buildings)),
		zap.Int("activities", len(ds.Activities)),
		zap.Int("organizations", len(ds.Organizations)),
	)
	return true, nil
}

// resetSequences 显式写入主键后，postgres 的自增序列需要手动推进
func resetSequences(tx *gorm.DB, tables ...string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range tables {
		sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", table, table)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("reset sequence of %s: %w", table, err)
		}
	}
	return nil
}

// Purge 删除全部目录数据，顺序为 关联 -> 电话 -> 组织 -> 分类 -> 建筑
func Purge(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		if err := all.Delete(&models.OrganizationActivity{}).Error; err != nil {
			return fmt.Errorf("purge organization_activities: %w", err)
		}
		if err := all.Delete(&models.PhoneNumber{}).Error; err != nil {
			return fmt.Errorf("purge phone_numbers: %w", err)
		}
		if err := all.Delete(&models.Organization{}).Error; err != nil {
			return fmt.Errorf("purge organizations: %w", err)
		}
		// 先断开父子关系，避免自引用外键阻止删除
		if err := tx.Model(&models.Activity{}).Where("parent_id IS NOT NULL").Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("detach activities: %w", err)
		}
		if err := all.Delete(&models.Activity{}).Error; err != nil {
			return fmt.Errorf("purge activities: %w", err)
		}
		if err := all.Delete(&models.Building{}).Error; err != nil {
			return fmt.Errorf("purge buildings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("已清空目录数据")
	return nil
}
