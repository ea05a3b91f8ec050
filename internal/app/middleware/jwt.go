package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// APIKeyHeader 客户端携带 API key 的请求头
const APIKeyHeader = "X-API-Key"

// SubjectContextKey 认证通过后写入 gin.Context 的主体
const SubjectContextKey = "authSubject"

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// Authenticate 接受 X-API-Key 或 Bearer 令牌，两者任一有效即放行
func Authenticate(jwtService services.InterfaceJWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(APIKeyHeader); key != "" {
			if !jwtService.CheckAPIKey(key) {
				response.Fail(c, code.ErrAPIKeyInvalid, nil)
				c.Abort()
				return
			}
			c.Set(SubjectContextKey, "api-key")
			c.Next()
			return
		}

		if tokenString := extractToken(c.GetHeader("Authorization")); tokenString != "" {
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				response.FailWithMessage(c, code.ErrTokenInvalid, err.Error(), nil)
				c.Abort()
				return
			}
			c.Set(SubjectContextKey, claims.Subject)
			c.Next()
			return
		}

		// 未配置 API_KEY 时匿名访问
		if jwtService.CheckAPIKey("") {
			c.Set(SubjectContextKey, "anonymous")
			c.Next()
			return
		}

		response.FailWithMessage(c, code.ErrAPIKeyInvalid, "缺少 X-API-Key 或 Authorization 请求头", nil)
		c.Abort()
	}
}
