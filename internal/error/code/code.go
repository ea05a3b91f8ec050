package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusServiceUnavailable - 503: 服务不可用.
	StatusServiceUnavailable = 503
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 认证相关错误码 (101xxx).
const (
	// ErrAPIKeyInvalid - 401: API key 无效.
	ErrAPIKeyInvalid int = iota + 101000
)

// 目录相关错误码 (102xxx).
const (
	// ErrBuildingNotFound - 404: 建筑不存在.
	ErrBuildingNotFound int = iota + 102000
	// ErrActivityNotFound - 404: 业务分类不存在.
	ErrActivityNotFound
	// ErrOrganizationNotFound - 404: 组织不存在.
	ErrOrganizationNotFound
	// ErrInvalidGeometry - 400: 坐标或半径无效.
	ErrInvalidGeometry
	// ErrHierarchyInconsistent - 500: 分类树数据异常.
	ErrHierarchyInconsistent
	// ErrExportFailed - 500: 导出失败.
	ErrExportFailed
)

// 存储相关错误码 (105xxx).
const (
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound int = iota + 105000
	// ErrStoreUnavailable - 503: 存储不可用.
	ErrStoreUnavailable
)

