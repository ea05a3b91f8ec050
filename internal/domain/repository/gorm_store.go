package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/error/errs"
)

// GormProvider 基于 gorm 的存储提供者，每个会话是一个只读事务
type GormProvider struct {
	db *gorm.DB
}

// NewGormProvider 创建 gorm 存储提供者
func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{db: db}
}

// Session 在只读事务中执行 fn；事务在所有退出路径上都会提交或回滚
func (p *GormProvider) Session(ctx context.Context, fn func(Store) error) error {
	var fnErr error
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewGormStore(tx))
		return fnErr
	}, &sql.TxOptions{ReadOnly: true})
	if err != nil && fnErr == nil {
		// 事务本身（BEGIN/COMMIT）失败
		return errs.Store("session", err)
	}
	return err
}

// Ping 检查数据库连通性
func (p *GormProvider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return errs.Store("ping", err)
	}
	return errs.Store("ping", sqlDB.PingContext(ctx))
}

// Name 返回方言名称
func (p *GormProvider) Name() string {
	return p.db.Dialector.Name()
}

// GormStore 基于 gorm 的 Store 实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 用给定连接（或事务）创建存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db.Session(&gorm.Session{NewDB: true})}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// 1 GetBuilding 根据ID获取建筑
func (s *GormStore) GetBuilding(ctx context.Context, id uint) (*models.Building, error) {
	var building models.Building
	if err := s.conn(ctx).First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Store("get building", err)
	}
	return &building, nil
}

// 2 ListBuildings 分页获取建筑
func (s *GormStore) ListBuildings(ctx context.Context, skip, limit int) ([]models.Building, error) {
	var buildings []models.Building
	if err := s.conn(ctx).Order("id").Offset(skip).Limit(limit).Find(&buildings).Error; err != nil {
		return nil, errs.Store("list buildings", err)
	}
	return buildings, nil
}

// 3 CountBuildings 建筑总数
func (s *GormStore) CountBuildings(ctx context.Context) (int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&models.Building{}).Count(&total).Error; err != nil {
		return 0, errs.Store("count buildings", err)
	}
	return total, nil
}

// 4 BuildingsByIDs 批量获取建筑
func (s *GormStore) BuildingsByIDs(ctx context.Context, ids []uint) ([]models.Building, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var buildings []models.Building
	if err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&buildings).Error; err != nil {
		return nil, errs.Store("buildings by ids", err)
	}
	return buildings, nil
}

// 5 BuildingIDsWithin 在数据库端计算大圆距离并过滤
func (s *GormStore) BuildingIDsWithin(ctx context.Context, center geo.Point, radiusKm float64) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Building{}).
		Where(geo.WithinSQL, geo.WithinArgs(center, radiusKm)...).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errs.Store("buildings within radius", err)
	}
	return ids, nil
}

// 6 GetActivity 根据ID获取分类
func (s *GormStore) GetActivity(ctx context.Context, id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := s.conn(ctx).First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Store("get activity", err)
	}
	return &activity, nil
}

// 7 ListActivities 获取全部分类
func (s *GormStore) ListActivities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.conn(ctx).Order("id").Find(&activities).Error; err != nil {
		return nil, errs.Store("list activities", err)
	}
	return activities, nil
}

// 8 ChildActivities 一次查询一层子节点
func (s *GormStore) ChildActivities(ctx context.Context, parentIDs []uint) ([]models.ActivityEdge, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var edges []models.ActivityEdge
	err := s.conn(ctx).Model(&models.Activity{}).
		Select("id, parent_id").
		Where("parent_id IN ?", parentIDs).
		Order("id").
		Scan(&edges).Error
	if err != nil {
		return nil, errs.Store("child activities", err)
	}
	return edges, nil
}

// 9 ActivitiesByOrganizationIDs 批量获取组织关联的分类
func (s *GormStore) ActivitiesByOrganizationIDs(ctx context.Context, orgIDs []uint) ([]models.OrganizationActivityRow, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	var rows []models.OrganizationActivityRow
	err := s.conn(ctx).Table("organization_activities AS oa").
		Select("oa.organization_id, a.id AS activity_id, a.name, a.parent_id").
		Joins("JOIN activities AS a ON a.id = oa.activity_id").
		Where("oa.organization_id IN ?", orgIDs).
		Order("oa.organization_id, a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.Store("activities by organizations", err)
	}
	return rows, nil
}

// 10 GetOrganization 根据ID获取组织
func (s *GormStore) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.conn(ctx).First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Store("get organization", err)
	}
	return &org, nil
}

// 11 ListOrganizations 分页获取组织
func (s *GormStore) ListOrganizations(ctx context.Context, skip, limit int) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.conn(ctx).Order("id").Offset(skip).Limit(limit).Find(&orgs).Error; err != nil {
		return nil, errs.Store("list organizations", err)
	}
	return orgs, nil
}

// 12 OrganizationsByBuildingIDs 获取若干建筑内的组织
func (s *GormStore) OrganizationsByBuildingIDs(ctx context.Context, buildingIDs []uint) ([]models.Organization, error) {
	if len(buildingIDs) == 0 {
		return nil, nil
	}
	var orgs []models.Organization
	if err := s.conn(ctx).Where("building_id IN ?", buildingIDs).Order("id").Find(&orgs).Error; err != nil {
		return nil, errs.Store("organizations by buildings", err)
	}
	return orgs, nil
}

// 13 OrganizationsByActivityIDs 子查询过滤关联表，天然按组织去重
func (s *GormStore) OrganizationsByActivityIDs(ctx context.Context, activityIDs []uint) ([]models.Organization, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	linked := s.db.Model(&models.OrganizationActivity{}).
		Select("organization_id").
		Where("activity_id IN ?", activityIDs)

	var orgs []models.Organization
	if err := s.conn(ctx).Where("id IN (?)", linked).Order("id").Find(&orgs).Error; err != nil {
		return nil, errs.Store("organizations by activities", err)
	}
	return orgs, nil
}

// 14 SearchOrganizationsByName 名称模糊查询（不区分大小写）
func (s *GormStore) SearchOrganizationsByName(ctx context.Context, substring string) ([]models.Organization, error) {
	pattern := "%" + escapeLike(substring) + "%"

	query := s.conn(ctx)
	if s.db.Dialector.Name() == "postgres" {
		query = query.Where("name ILIKE ?", pattern)
	} else {
		query = query.Where("LOWER(name) LIKE LOWER(?)", pattern)
	}

	var orgs []models.Organization
	if err := query.Order("id").Find(&orgs).Error; err != nil {
		return nil, errs.Store("search organizations", err)
	}
	return orgs, nil
}

// 15 PhoneNumbersByOrganizationIDs 批量获取电话
func (s *GormStore) PhoneNumbersByOrganizationIDs(ctx context.Context, orgIDs []uint) ([]models.PhoneNumber, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	var phones []models.PhoneNumber
	err := s.conn(ctx).Where("organization_id IN ?", orgIDs).Order("organization_id, id").Find(&phones).Error
	if err != nil {
		return nil, errs.Store("phone numbers by organizations", err)
	}
	return phones, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，用户输入按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
