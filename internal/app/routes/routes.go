package routes

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "org-directory-service/docs"
	"org-directory-service/internal/app/controllers"
	"org-directory-service/internal/app/middleware"
	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
)

// SetupRouter 初始化并返回配置好的路由；ctx 结束时停止后台清理任务
func SetupRouter(ctx context.Context, container *container.ServiceContainer) *gin.Engine {
	cfg := container.GetConfig()
	log := container.GetLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:   cfg.RateLimitRate,
		Burst:  cfg.RateLimitBurst,
		Redis:  container.GetRedis(),
		Logger: log,
	})
	go limiter.Run(ctx)

	registerRoutes(r, container, limiter)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	limiter *middleware.RateLimiter,
) {
	health := controllers.NewHealthCheckController(container)
	r.GET("/", health.Ping)
	r.GET("/health", health.Health)

	// API 路由根路径
	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())

	// 认证路由
	api.POST("/auth/token", controllers.HandleJWTFunc(container, "issueToken"))

	// 注册需要认证的路由
	registerDirectoryRoutes(api, container)
}

// registerDirectoryRoutes 注册目录查询路由
func registerDirectoryRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	jwtService := container.GetService("jwt").(services.InterfaceJWTService)
	auth := api.Group("")
	auth.Use(middleware.Authenticate(jwtService))

	// 建筑路由
	buildingGroup := auth.Group("/buildings")
	buildingGroup.GET("/", controllers.HandleBuildingFunc(container, "getBuildings"))
	buildingGroup.GET("/:id", controllers.HandleBuildingFunc(container, "getBuilding"))
	buildingGroup.GET("/:id/organizations/", controllers.HandleBuildingFunc(container, "getBuildingOrganizations"))

	// 业务分类路由
	activityGroup := auth.Group("/activities")
	activityGroup.GET("/", controllers.HandleActivityFunc(container, "getActivities"))
	activityGroup.GET("/:id", controllers.HandleActivityFunc(container, "getActivity"))
	activityGroup.GET("/:id/descendants", controllers.HandleActivityFunc(container, "getDescendants"))
	activityGroup.GET("/:id/organizations/", controllers.HandleActivityFunc(container, "getActivityOrganizations"))

	// 组织路由
	organizationGroup := auth.Group("/organizations")
	organizationGroup.GET("/export", controllers.HandleOrganizationFunc(container, "exportOrganizations"))
	organizationGroup.GET("/search/name/", controllers.HandleOrganizationFunc(container, "searchByName"))
	organizationGroup.GET("/search/activity/", controllers.HandleOrganizationFunc(container, "searchByActivity"))
	organizationGroup.GET("/search/location/", controllers.HandleOrganizationFunc(container, "searchByLocation"))
	organizationGroup.GET("/:id", controllers.HandleOrganizationFunc(container, "getOrganization"))
}
