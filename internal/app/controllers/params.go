package controllers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/error/response"
)

// MaxListLimit 单页最大条数
const MaxListLimit = 1000

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"102000"`
	Message string      `json:"message" example:"building 999 not found"`
	Data    interface{} `json:"data"`
}

// pathID 解析路径中的正整数ID（不超过 int64 上限），失败时已写入400响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, fmt.Sprintf("无效的%s: 必须是正整数", name))
		return 0, false
	}
	return uint(id), true
}

// queryID 解析查询参数中的正整数ID
func queryID(c *gin.Context, name string) (uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		response.ParamError(c, fmt.Sprintf("缺少参数 %s", name))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, fmt.Sprintf("无效的%s: 必须是正整数", name))
		return 0, false
	}
	return uint(id), true
}

// pagination 解析 skip/limit，默认 0/100，limit 不超过 MaxListLimit
func pagination(c *gin.Context) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.ParamError(c, "skip 必须是非负整数")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultListLimit)))
	if err != nil || limit < 0 || limit > MaxListLimit {
		response.ParamError(c, fmt.Sprintf("limit 必须在 0 到 %d 之间", MaxListLimit))
		return 0, 0, false
	}
	return skip, limit, true
}

// queryFloat 解析有限浮点数并检查闭区间 [min, max]
func queryFloat(c *gin.Context, name string, min, max float64) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		response.ParamError(c, fmt.Sprintf("缺少参数 %s", name))
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < min || v > max {
		response.ParamError(c, fmt.Sprintf("%s 取值无效: %q", name, raw))
		return 0, false
	}
	return v, true
}
