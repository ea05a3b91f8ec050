package container

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/infrastructure/config"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	provider repository.Provider
	config   *config.Config
	logger   *zap.Logger

	// 基础服务
	jwtService    services.InterfaceJWTService
	redisService  services.InterfaceRedisService
	exportService services.InterfaceExportService

	// 业务服务
	buildingService     services.InterfaceBuildingService
	activityService     services.InterfaceActivityService
	organizationService services.InterfaceOrganizationService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器，redisService 为 nil 表示不使用 Redis
func NewServiceContainer(provider repository.Provider, cfg *config.Config, log *zap.Logger, redisService services.InterfaceRedisService) *ServiceContainer {
	if provider == nil {
		panic("存储为空")
	}
	if cfg == nil {
		panic("配置为空")
	}
	if log == nil {
		log = zap.NewNop()
	}

	// 测试Redis连接
	if redisService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisService.Ping(ctx); err != nil {
			log.Warn("Redis连接测试失败，限流将退回本地令牌桶", zap.Error(err))
			redisService = nil
		}
	}

	container := &ServiceContainer{
		provider:     provider,
		config:       cfg,
		logger:       log,
		redisService: redisService,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config)
	c.exportService = services.NewExportService()

	c.buildingService = services.NewBuildingService(c.provider, c.config, c.logger)
	c.activityService = services.NewActivityService(c.provider, c.config, c.logger)
	c.organizationService = services.NewOrganizationService(c.provider, c.config, c.logger)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "jwt":
		return c.jwtService
	case "redis":
		if c.redisService == nil {
			return nil
		}
		return c.redisService
	case "export":
		return c.exportService
	case "building":
		return c.buildingService
	case "activity":
		return c.activityService
	case "organization":
		return c.organizationService
	default:
		return nil
	}
}

// GetProvider 获取存储
func (c *ServiceContainer) GetProvider() repository.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provider
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetLogger 获取日志
func (c *ServiceContainer) GetLogger() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// GetRedis Redis 不可用时返回 nil
func (c *ServiceContainer) GetRedis() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}
