package controllers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// InterfaceOrganizationController 定义组织控制器接口
type InterfaceOrganizationController interface {
	GetOrganization()
	SearchByName()
	SearchByActivity()
	SearchByLocation()
	ExportOrganizations()
}

// OrganizationController 处理组织相关的请求
type OrganizationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewOrganizationController 创建组织控制器
func NewOrganizationController(ctx *gin.Context, container *container.ServiceContainer) *OrganizationController {
	return &OrganizationController{
		Ctx:       ctx,
		Container: container,
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleOrganizationFunc 返回一个处理组织请求的Gin处理函数
func HandleOrganizationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewOrganizationController(ctx, container)

		switch method {
		case "getOrganization":
			controller.GetOrganization()
		case "searchByName":
			controller.SearchByName()
		case "searchByActivity":
			controller.SearchByActivity()
		case "searchByLocation":
			controller.SearchByLocation()
		case "exportOrganizations":
			controller.ExportOrganizations()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *OrganizationController) service() services.InterfaceOrganizationService {
	return c.Container.GetService("organization").(services.InterfaceOrganizationService)
}

// 1. GetOrganization 获取组织详情
// @Summary 获取组织详情
// @Description 根据ID获取组织，附带建筑、电话和业务分类
// @Tags Organization
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "组织ID"
// @Success 200 {object} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organizations/{id} [get]
func (c *OrganizationController) GetOrganization() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	org, err := c.service().GetOrganization(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, org)
}

// 2. SearchByName 按名称搜索组织
// @Summary 按名称搜索组织
// @Description 名称子串匹配，不区分大小写
// @Tags Organization
// @Produce json
// @Security ApiKeyAuth
// @Param name query string true "名称片段"
// @Success 200 {array} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organizations/search/name/ [get]
func (c *OrganizationController) SearchByName() {
	name, ok := c.Ctx.GetQuery("name")
	if !ok {
		response.ParamError(c.Ctx, "缺少参数 name")
		return
	}
	orgs, err := c.service().SearchByName(c.Ctx.Request.Context(), name)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, orgs)
}

// 3. SearchByActivity 按分类搜索组织（含全部子分类）
// @Summary 按分类子树搜索组织
// @Description 返回关联到该分类或其任一后代分类的组织，每个组织只出现一次
// @Tags Organization
// @Produce json
// @Security ApiKeyAuth
// @Param activity_id query int true "分类ID"
// @Success 200 {array} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organizations/search/activity/ [get]
func (c *OrganizationController) SearchByActivity() {
	activityID, ok := queryID(c.Ctx, "activity_id")
	if !ok {
		return
	}
	orgs, err := c.service().OrganizationsByActivityTree(c.Ctx.Request.Context(), activityID)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, orgs)
}

// 4. SearchByLocation 按地理半径搜索组织
// @Summary 按半径搜索组织
// @Description 返回位于距中心点严格小于 radius 千米的建筑内的组织
// @Tags Organization
// @Produce json
// @Security ApiKeyAuth
// @Param latitude query number true "纬度 [-90, 90]"
// @Param longitude query number true "经度 [-180, 180]"
// @Param radius query number true "半径（千米），大于0"
// @Success 200 {array} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organizations/search/location/ [get]
func (c *OrganizationController) SearchByLocation() {
	lat, ok := queryFloat(c.Ctx, "latitude", -90, 90)
	if !ok {
		return
	}
	lon, ok := queryFloat(c.Ctx, "longitude", -180, 180)
	if !ok {
		return
	}
	radius, ok := queryFloat(c.Ctx, "radius", 0, math.MaxFloat64)
	if !ok {
		return
	}
	if radius == 0 {
		response.ParamError(c.Ctx, "radius 必须大于0")
		return
	}

	orgs, err := c.service().SearchByLocation(c.Ctx.Request.Context(), lat, lon, radius)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, orgs)
}

// 5. ExportOrganizations 导出名称搜索结果为 Excel
// @Summary 导出组织
// @Description 按名称搜索并导出为 xlsx，name 为空时导出全部组织
// @Tags Organization
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param name query string false "名称片段"
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /organizations/export [get]
func (c *OrganizationController) ExportOrganizations() {
	orgs, err := c.service().SearchByName(c.Ctx.Request.Context(), c.Ctx.Query("name"))
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}

	exportService := c.Container.GetService("export").(services.InterfaceExportService)
	data, err := exportService.OrganizationsWorkbook(orgs)
	if err != nil {
		_ = c.Ctx.Error(err)
		response.Fail(c.Ctx, code.ErrExportFailed, nil)
		return
	}

	filename := fmt.Sprintf("organizations_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Ctx.Data(http.StatusOK, xlsxContentType, data)
}
