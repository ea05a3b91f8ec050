// Package repository 定义目录数据的存储契约，并提供 gorm 与内存两种实现。
//
// 查询方法在实体不存在时返回 (nil, nil)，不视为错误；存储故障统一包装为 errs.StoreError。
package repository

import (
	"context"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/models"
)

// BuildingStore 建筑查询
type BuildingStore interface {
	GetBuilding(ctx context.Context, id uint) (*models.Building, error)
	ListBuildings(ctx context.Context, skip, limit int) ([]models.Building, error)
	CountBuildings(ctx context.Context) (int64, error)
	BuildingsByIDs(ctx context.Context, ids []uint) ([]models.Building, error)
	// BuildingIDsWithin 在存储端按大圆距离过滤，返回距离严格小于半径的建筑ID
	BuildingIDsWithin(ctx context.Context, center geo.Point, radiusKm float64) ([]uint, error)
}

// ActivityStore 分类查询
type ActivityStore interface {
	GetActivity(ctx context.Context, id uint) (*models.Activity, error)
	ListActivities(ctx context.Context) ([]models.Activity, error)
	// ChildActivities 返回给定父节点的直接子节点，供 hierarchy.Resolver 逐层展开
	ChildActivities(ctx context.Context, parentIDs []uint) ([]models.ActivityEdge, error)
	ActivitiesByOrganizationIDs(ctx context.Context, orgIDs []uint) ([]models.OrganizationActivityRow, error)
}

// OrganizationStore 组织与电话查询
type OrganizationStore interface {
	GetOrganization(ctx context.Context, id uint) (*models.Organization, error)
	ListOrganizations(ctx context.Context, skip, limit int) ([]models.Organization, error)
	OrganizationsByBuildingIDs(ctx context.Context, buildingIDs []uint) ([]models.Organization, error)
	// OrganizationsByActivityIDs 关联到任一分类的组织，结果按组织去重
	OrganizationsByActivityIDs(ctx context.Context, activityIDs []uint) ([]models.Organization, error)
	// SearchOrganizationsByName 名称子串匹配，不区分大小写
	SearchOrganizationsByName(ctx context.Context, substring string) ([]models.Organization, error)
	PhoneNumbersByOrganizationIDs(ctx context.Context, orgIDs []uint) ([]models.PhoneNumber, error)
}

// Store 一次请求内可用的全部查询
type Store interface {
	BuildingStore
	ActivityStore
	OrganizationStore
}

// Provider 管理存储句柄的获取与释放
type Provider interface {
	// Session 获取存储句柄并执行 fn，无论 fn 成功、失败还是 panic 都会释放句柄
	Session(ctx context.Context, fn func(Store) error) error
	// Ping 检查存储是否可达
	Ping(ctx context.Context) error
	// Name 后端名称，用于日志和健康检查
	Name() string
}

// DefaultListLimit 未指定 limit 时的默认分页大小
const DefaultListLimit = 100
