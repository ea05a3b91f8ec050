package controllers

import (
	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// InterfaceBuildingController 定义建筑控制器接口
type InterfaceBuildingController interface {
	GetBuildings()
	GetBuilding()
	GetBuildingOrganizations()
}

// BuildingController 处理建筑相关的请求
type BuildingController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBuildingController 创建一个新的建筑控制器
func NewBuildingController(ctx *gin.Context, container *container.ServiceContainer) *BuildingController {
	return &BuildingController{
		Ctx:       ctx,
		Container: container,
	}
}

// BuildingListResponse 建筑分页结果
type BuildingListResponse struct {
	Pagination models.PaginationResult `json:"pagination"`
	Data       []models.BuildingDetail `json:"data"`
}

// HandleBuildingFunc 返回一个处理建筑请求的Gin处理函数
func HandleBuildingFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBuildingController(ctx, container)

		switch method {
		case "getBuildings":
			controller.GetBuildings()
		case "getBuilding":
			controller.GetBuilding()
		case "getBuildingOrganizations":
			controller.GetBuildingOrganizations()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. GetBuildings 获取建筑列表
// @Summary 获取建筑列表
// @Description 分页获取建筑，每栋建筑附带其中的组织
// @Tags Building
// @Produce json
// @Security ApiKeyAuth
// @Param skip query int false "跳过条数，默认为0"
// @Param limit query int false "每页条数，默认为100，最大1000"
// @Success 200 {object} BuildingListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /buildings/ [get]
func (c *BuildingController) GetBuildings() {
	skip, limit, ok := pagination(c.Ctx)
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	buildings, total, err := buildingService.ListBuildings(c.Ctx.Request.Context(), skip, limit)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, BuildingListResponse{
		Pagination: models.NewPaginationResult(int(total), skip, limit),
		Data:       buildings,
	})
}

// 2. GetBuilding 获取单个建筑详情
// @Summary 获取建筑详情
// @Description 根据ID获取建筑及其中的组织
// @Tags Building
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "建筑ID"
// @Success 200 {object} models.BuildingDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /buildings/{id} [get]
func (c *BuildingController) GetBuilding() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	buildingService := c.Container.GetService("building").(services.InterfaceBuildingService)
	building, err := buildingService.GetBuilding(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, building)
}

// 3. GetBuildingOrganizations 获取建筑内的组织
// @Summary 获取建筑内的组织
// @Description 返回位于该建筑内的全部组织，附带建筑、电话和业务分类
// @Tags Building
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "建筑ID"
// @Success 200 {array} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /buildings/{id}/organizations/ [get]
func (c *BuildingController) GetBuildingOrganizations() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	organizationService := c.Container.GetService("organization").(services.InterfaceOrganizationService)
	orgs, err := organizationService.OrganizationsInBuilding(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, orgs)
}
