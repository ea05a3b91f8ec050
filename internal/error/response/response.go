package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"org-directory-service/internal/error/code"
	"org-directory-service/internal/error/errs"
)

// Response 定义统一的响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int, data interface{}) {
	httpStatus := code.GetStatus(errorCode)
	message := code.GetMessage(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	httpStatus := code.GetStatus(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrValidation)
	}
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// TooManyRequests 限流响应
func TooManyRequests(c *gin.Context) {
	Fail(c, code.ErrTooManyRequests, nil)
}

// FromError 将领域错误映射为响应：不存在→404，几何参数→400，其余→5xx。
// 5xx 不向客户端暴露内部错误信息。
func FromError(c *gin.Context, err error) {
	errorCode := CodeOf(err)
	switch code.GetStatus(errorCode) {
	case http.StatusNotFound, http.StatusBadRequest, http.StatusUnauthorized:
		FailWithMessage(c, errorCode, err.Error(), nil)
	default:
		_ = c.Error(err)
		Fail(c, errorCode, nil)
	}
}

// CodeOf 返回错误对应的业务错误码
func CodeOf(err error) int {
	var nf *errs.EntityNotFoundError
	switch {
	case errors.As(err, &nf):
		switch nf.Kind {
		case errs.KindBuilding:
			return code.ErrBuildingNotFound
		case errs.KindActivity:
			return code.ErrActivityNotFound
		case errs.KindOrganization:
			return code.ErrOrganizationNotFound
		}
		return code.ErrRecordNotFound
	case errors.Is(err, errs.ErrInvalidGeometry):
		return code.ErrInvalidGeometry
	case errors.Is(err, errs.ErrUnauthorized):
		return code.ErrTokenInvalid
	case errors.Is(err, errs.ErrStoreUnavailable):
		return code.ErrStoreUnavailable
	case errors.Is(err, errs.ErrHierarchyTooDeep), errors.Is(err, errs.ErrHierarchyCycle):
		return code.ErrHierarchyInconsistent
	default:
		return code.ErrUnknown
	}
}
