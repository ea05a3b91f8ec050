package services

import (
	"context"

	"go.uber.org/zap"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

// InterfaceBuildingService 建筑查询接口
type InterfaceBuildingService interface {
	ListBuildings(ctx context.Context, skip, limit int) ([]models.BuildingDetail, int64, error)
	GetBuilding(ctx context.Context, id uint) (*models.BuildingDetail, error)
}

// BuildingService 提供建筑相关的查询
type BuildingService struct {
	Provider repository.Provider
	Config   *config.Config
	Logger   *zap.Logger
}

// NewBuildingService 创建一个新的建筑服务
func NewBuildingService(provider repository.Provider, cfg *config.Config, log *zap.Logger) InterfaceBuildingService {
	return &BuildingService{
		Provider: provider,
		Config:   cfg,
		Logger:   log.Named("building"),
	}
}

// 1 ListBuildings 分页获取建筑列表，每栋建筑附带其组织；limit 为 0 时返回空页
func (s *BuildingService) ListBuildings(ctx context.Context, skip, limit int) ([]models.BuildingDetail, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = repository.DefaultListLimit
	}

	result := []models.BuildingDetail{}
	var total int64
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		var err error
		if total, err = store.CountBuildings(ctx); err != nil {
			return err
		}
		if limit == 0 {
			return nil
		}
		buildings, err := store.ListBuildings(ctx, skip, limit)
		if err != nil {
			return err
		}
		result, err = withOrganizations(ctx, store, buildings)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// 2 GetBuilding 获取单个建筑及其组织
func (s *BuildingService) GetBuilding(ctx context.Context, id uint) (*models.BuildingDetail, error) {
	var result *models.BuildingDetail
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		b, err := store.GetBuilding(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return errs.NotFound(errs.KindBuilding, id)
		}
		details, err := withOrganizations(ctx, store, []models.Building{*b})
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

func withOrganizations(ctx context.Context, store repository.Store, buildings []models.Building) ([]models.BuildingDetail, error) {
	result := make([]models.BuildingDetail, 0, len(buildings))
	if len(buildings) == 0 {
		return result, nil
	}

	ids := make([]uint, len(buildings))
	for i, b := range buildings {
		ids[i] = b.ID
	}
	orgs, err := store.OrganizationsByBuildingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details, err := composeOrganizations(ctx, store, orgs)
	if err != nil {
		return nil, err
	}
	byBuilding := make(map[uint][]models.OrganizationDetail, len(buildings))
	for _, d := range details {
		byBuilding[d.BuildingID] = append(byBuilding[d.BuildingID], d)
	}

	for _, b := range buildings {
		orgs := byBuilding[b.ID]
		if orgs == nil {
			orgs = []models.OrganizationDetail{}
		}
		result = append(result, models.BuildingDetail{
			ID:            b.ID,
			Address:       b.Address,
			Latitude:      b.Latitude,
			Longitude:     b.Longitude,
			Organizations: orgs,
		})
	}
	return result, nil
}
