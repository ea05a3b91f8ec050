package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求过于频繁，请稍后再试",

	// 认证相关错误码
	ErrAPIKeyInvalid: "无效的 API key",

	// 目录相关错误码
	ErrBuildingNotFound:      "建筑不存在",
	ErrActivityNotFound:      "业务分类不存在",
	ErrOrganizationNotFound:  "组织不存在",
	ErrInvalidGeometry:       "坐标或半径无效",
	ErrHierarchyInconsistent: "业务分类树数据异常",
	ErrExportFailed:          "导出失败",

	// 存储相关错误码
	ErrRecordNotFound:   "记录不存在",
	ErrStoreUnavailable: "存储暂时不可用",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 认证相关错误码
	ErrAPIKeyInvalid: StatusUnauthorized,

	// 目录相关错误码
	ErrBuildingNotFound:      StatusNotFound,
	ErrActivityNotFound:      StatusNotFound,
	ErrOrganizationNotFound:  StatusNotFound,
	ErrInvalidGeometry:       StatusBadRequest,
	ErrHierarchyInconsistent: StatusInternalServerError,
	ErrExportFailed:          StatusInternalServerError,

	// 存储相关错误码
	ErrRecordNotFound:   StatusNotFound,
	ErrStoreUnavailable: StatusServiceUnavailable,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
