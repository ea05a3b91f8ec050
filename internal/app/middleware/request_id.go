package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID的请求/响应头
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDContextKey 用于在 gin.Context 中存储请求ID
const RequestIDContextKey = "requestID"

// RequestID 优先沿用客户端传入的请求ID，否则生成新的
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = strings.ReplaceAll(uuid.New().String(), "-", "")
		}

		c.Set(RequestIDContextKey, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// RequestIDFrom 从标准 context 中取出请求ID
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
