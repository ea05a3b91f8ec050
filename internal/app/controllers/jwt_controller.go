package controllers

import (
	"github.com/gin-gonic/gin"

	"org-directory-service/internal/app/middleware"
	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	IssueToken()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// TokenRequest 表示换取令牌的请求，也可以通过 X-API-Key 请求头提供
type TokenRequest struct {
	APIKey string `json:"api_key" example:"change-me"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "issueToken":
			controller.IssueToken()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// IssueToken 用 API key 换取 Bearer 令牌
// @Summary      Issue token
// @Description  Exchange a valid API key for a short-lived read-only JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body TokenRequest false "API key (or X-API-Key header)"
// @Success      200  {object}  services.TokenResult
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /auth/token [post]
func (c *JWTController) IssueToken() {
	key := c.Ctx.GetHeader(middleware.APIKeyHeader)
	if key == "" {
		var req TokenRequest
		if err := c.Ctx.ShouldBindJSON(&req); err != nil {
			response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
			return
		}
		key = req.APIKey
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.ExchangeAPIKey(key)
	if err != nil {
		response.Fail(c.Ctx, code.ErrAPIKeyInvalid, nil)
		return
	}
	response.Success(c.Ctx, result)
}
