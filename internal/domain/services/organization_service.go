package services

import (
	"context"

	"go.uber.org/zap"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/hierarchy"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

// InterfaceOrganizationService 组织查询接口
type InterfaceOrganizationService interface {
	GetOrganization(ctx context.Context, id uint) (*models.OrganizationDetail, error)
	OrganizationsInBuilding(ctx context.Context, buildingID uint) ([]models.OrganizationDetail, error)
	OrganizationsByActivity(ctx context.Context, activityID uint) ([]models.OrganizationDetail, error)
	OrganizationsByActivityTree(ctx context.Context, activityID uint) ([]models.OrganizationDetail, error)
	SearchByName(ctx context.Context, name string) ([]models.OrganizationDetail, error)
	SearchByLocation(ctx context.Context, latitude, longitude, radiusKm float64) ([]models.OrganizationDetail, error)
}

// OrganizationService 提供组织相关的查询，每次调用在一个存储会话内完成
type OrganizationService struct {
	Provider repository.Provider
	Resolver *hierarchy.Resolver
	Logger   *zap.Logger
}

// NewOrganizationService 创建组织服务
func NewOrganizationService(provider repository.Provider, cfg *config.Config, log *zap.Logger) InterfaceOrganizationService {
	return &OrganizationService{
		Provider: provider,
		Resolver: hierarchy.NewResolver(cfg.ActivityMaxDepth),
		Logger:   log.Named("organization"),
	}
}

// 1 GetOrganization 获取单个组织及其建筑、电话、分类
func (s *OrganizationService) GetOrganization(ctx context.Context, id uint) (*models.OrganizationDetail, error) {
	var result *models.OrganizationDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		org, err := store.GetOrganization(ctx, id)
		if err != nil {
			return err
		}
		if org == nil {
			return errs.NotFound(errs.KindOrganization, id)
		}
		details, err := composeOrganizations(ctx, store, []models.Organization{*org})
		if err != nil {
			return err
		}
		result = &details[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 2 OrganizationsInBuilding 获取建筑内的全部组织
func (s *OrganizationService) OrganizationsInBuilding(ctx context.Context, buildingID uint) ([]models.OrganizationDetail, error) {
	var result []models.OrganizationDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		b, err := store.GetBuilding(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return errs.NotFound(errs.KindBuilding, buildingID)
		}
		orgs, err := store.OrganizationsByBuildingIDs(ctx, []uint{buildingID})
		if err != nil {
			return err
		}
		result, err = composeOrganizations(ctx, store, orgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 3 OrganizationsByActivity 获取直接关联到该分类的组织，不展开子分类
func (s *OrganizationService) OrganizationsByActivity(ctx context.Context, activityID uint) ([]models.OrganizationDetail, error) {
	var result []models.OrganizationDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		if err := requireActivity(ctx, store, activityID); err != nil {
			return err
		}
		orgs, err := store.OrganizationsByActivityIDs(ctx, []uint{activityID})
		if err != nil {
			return err
		}
		result, err = composeOrganizations(ctx, store, orgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 4 OrganizationsByActivityTree 获取关联到该分类或其任一后代的组织，每个组织只出现一次
func (s *OrganizationService) OrganizationsByActivityTree(ctx context.Context, activityID uint) ([]models.OrganizationDetail, error) {
	var result []models.OrganizationDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		if err := requireActivity(ctx, store, activityID); err != nil {
			return err
		}
		ids, err := s.Resolver.DescendantIDs(ctx, store, activityID)
		if err != nil {
			s.Logger.Error("expand activity tree failed", zap.Uint("activity_id", activityID), zap.Error(err))
			return err
		}
		orgs, err := store.OrganizationsByActivityIDs(ctx, ids)
		if err != nil {
			return err
		}
		result, err = composeOrganizations(ctx, store, orgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 5 SearchByName 按名称子串搜索，不区分大小写；子串原样使用，空串匹配全部组织
func (s *OrganizationService) SearchByName(ctx context.Context, name string) ([]models.OrganizationDetail, error) {
	var result []models.OrganizationDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		orgs, err := store.SearchOrganizationsByName(ctx, name)
		if err != nil {
			return err
		}
		result, err = composeOrganizations(ctx, store, orgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 6 SearchByLocation 获取距中心点严格小于 radiusKm 的建筑内的组织
func (s *OrganizationService) SearchByLocation(ctx context.Context, latitude, longitude, radiusKm float64) ([]models.OrganizationDetail, error) {
	center := geo.Point{Latitude: latitude, Longitude: longitude}
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if err := geo.ValidateRadius(radiusKm); err != nil {
		return nil, err
	}

	result := []models.OrganizationDetail{}
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		buildingIDs, err := store.BuildingIDsWithin(ctx, center, radiusKm)
		if err != nil {
			return err
		}
		if len(buildingIDs) == 0 {
			return nil
		}
		orgs, err := store.OrganizationsByBuildingIDs(ctx, buildingIDs)
		if err != nil {
			return err
		}
		result, err = composeOrganizations(ctx, store, orgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func requireActivity(ctx context.Context, store repository.Store, id uint) error {
	a, err := store.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return errs.NotFound(errs.KindActivity, id)
	}
	return nil
}
