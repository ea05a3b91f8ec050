package services

import (
	"context"

	"go.uber.org/zap"

	"org-directory-service/internal/domain/hierarchy"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

// InterfaceActivityService 业务分类查询接口
type InterfaceActivityService interface {
	GetActivity(ctx context.Context, id uint) (*models.Activity, error)
	ActivityTree(ctx context.Context) ([]*models.ActivityNode, error)
	DescendantIDs(ctx context.Context, id uint) ([]uint, error)
}

// ActivityService 业务分类服务
type ActivityService struct {
	Provider repository.Provider
	Resolver *hierarchy.Resolver
	Logger   *zap.Logger
}

// NewActivityService 创建业务分类服务
func NewActivityService(provider repository.Provider, cfg *config.Config, log *zap.Logger) InterfaceActivityService {
	return &ActivityService{
		Provider: provider,
		Resolver: hierarchy.NewResolver(cfg.ActivityMaxDepth),
		Logger:   log.Named("activity"),
	}
}

// 1 GetActivity 根据ID获取分类
func (s *ActivityService) GetActivity(ctx context.Context, id uint) (*models.Activity, error) {
	var result *models.Activity
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		a, err := store.GetActivity(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return errs.NotFound(errs.KindActivity, id)
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 2 ActivityTree 以嵌套结构返回全部分类，超过最大深度的部分被截断
func (s *ActivityService) ActivityTree(ctx context.Context) ([]*models.ActivityNode, error) {
	var activities []models.Activity
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		var err error
		activities, err = store.ListActivities(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hierarchy.NewForest(activities).Tree(s.Resolver.MaxDepth()), nil
}

// 3 DescendantIDs 返回分类自身及全部后代的ID
func (s *ActivityService) DescendantIDs(ctx context.Context, id uint) ([]uint, error) {
	var result []uint
	err := s.Provider.Session(ctx, func(store repository.Store) error {
		if err := requireActivity(ctx, store, id); err != nil {
			return err
		}
		var err error
		result, err = s.Resolver.DescendantIDs(ctx, store, id)
		if err != nil {
			s.Logger.Error("expand activity tree failed", zap.Uint("activity_id", id), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
