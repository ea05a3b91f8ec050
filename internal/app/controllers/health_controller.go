package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/services/container"
	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/response"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status string            `json:"status" example:"healthy"`
	Store  string            `json:"store" example:"postgres"`
	Checks map[string]string `json:"checks"`
}

// Ping 存活检查
// @Summary 存活检查
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health 就绪检查：存储必须可达，Redis 启用时也必须可达
// @Summary 就绪检查
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthCheckController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	provider := h.Container.GetProvider()
	status := HealthStatus{Status: "healthy", Store: provider.Name(), Checks: map[string]string{}}

	if err := provider.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["store"] = err.Error()
	} else {
		status.Checks["store"] = "ok"
	}

	if redis := h.Container.GetRedis(); redis != nil {
		if err := redis.Ping(ctx); err != nil {
			if status.Status == "healthy" {
				status.Status = "degraded"
			}
			status.Checks["redis"] = err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	}

	if status.Status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    code.ErrStoreUnavailable,
			Message: code.GetMessage(code.ErrStoreUnavailable),
			Data:    status,
		})
		return
	}
	response.Success(c, status)
}
