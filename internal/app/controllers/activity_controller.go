package controllers

import (
	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// InterfaceActivityController 定义业务分类控制器接口
type InterfaceActivityController interface {
	GetActivities()
	GetActivity()
	GetDescendants()
	GetActivityOrganizations()
}

// ActivityController 处理业务分类相关的请求
type ActivityController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewActivityController 创建业务分类控制器
func NewActivityController(ctx *gin.Context, container *container.ServiceContainer) *ActivityController {
	return &ActivityController{
		Ctx:       ctx,
		Container: container,
	}
}

// DescendantsResponse 分类子树的ID集合
type DescendantsResponse struct {
	ActivityID uint   `json:"activity_id" example:"2"`
	IDs        []uint `json:"ids" example:"2,5,6,7,8"`
}

// HandleActivityFunc 返回一个处理业务分类请求的Gin处理函数
func HandleActivityFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewActivityController(ctx, container)

		switch method {
		case "getActivities":
			controller.GetActivities()
		case "getActivity":
			controller.GetActivity()
		case "getDescendants":
			controller.GetDescendants()
		case "getActivityOrganizations":
			controller.GetActivityOrganizations()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

func (c *ActivityController) service() services.InterfaceActivityService {
	return c.Container.GetService("activity").(services.InterfaceActivityService)
}

// 1. GetActivities 获取业务分类树
// @Summary 获取业务分类树
// @Description 以嵌套结构返回全部业务分类
// @Tags Activity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ActivityNode
// @Failure 500 {object} ErrorResponse
// @Router /activities/ [get]
func (c *ActivityController) GetActivities() {
	tree, err := c.service().ActivityTree(c.Ctx.Request.Context())
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tree)
}

// 2. GetActivity 获取单个业务分类
// @Summary 获取业务分类
// @Tags Activity
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分类ID"
// @Success 200 {object} models.Activity
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /activities/{id} [get]
func (c *ActivityController) GetActivity() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	activity, err := c.service().GetActivity(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, activity)
}

// 3. GetDescendants 获取分类及其全部后代的ID
// @Summary 获取分类子树ID
// @Description 返回分类自身及全部后代的ID，按升序排列
// @Tags Activity
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分类ID"
// @Success 200 {object} DescendantsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /activities/{id}/descendants [get]
func (c *ActivityController) GetDescendants() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	ids, err := c.service().DescendantIDs(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, DescendantsResponse{ActivityID: id, IDs: ids})
}

// 4. GetActivityOrganizations 获取直接关联到分类的组织
// @Summary 按分类获取组织（不含子分类）
// @Tags Activity
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分类ID"
// @Success 200 {array} models.OrganizationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /activities/{id}/organizations/ [get]
func (c *ActivityController) GetActivityOrganizations() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}
	organizationService := c.Container.GetService("organization").(services.InterfaceOrganizationService)
	orgs, err := organizationService.OrganizationsByActivity(c.Ctx.Request.Context(), id)
	if err != nil {
		response.FromError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, orgs)
}
