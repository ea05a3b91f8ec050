// Package errs 定义目录服务的领域错误，供服务层返回、控制器层映射为HTTP响应。
package errs

import (
	"errors"
	"fmt"
)

// 实体类型，用于 EntityNotFoundError.Kind
const (
	KindBuilding     = "building"
	KindActivity     = "activity"
	KindOrganization = "organization"
)

var (
	// ErrInvalidGeometry 坐标或半径不是有限数值
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrStoreUnavailable 底层存储不可达、超时或执行失败
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrHierarchyTooDeep 分类树深度超过上限，数据可能存在环
	ErrHierarchyTooDeep = errors.New("activity hierarchy exceeds max depth")
	// ErrHierarchyCycle 从根节点出发再次到达根节点
	ErrHierarchyCycle = errors.New("activity hierarchy contains a cycle")
	// ErrUnauthorized API key 或令牌无效
	ErrUnauthorized = errors.New("unauthorized")
)

// EntityNotFoundError 引用的实体不存在
type EntityNotFoundError struct {
	Kind string
	ID   uint
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NotFound 构造 EntityNotFoundError
func NotFound(kind string, id uint) error {
	return &EntityNotFoundError{Kind: kind, ID: id}
}

// IsNotFound 判断错误链中是否含有 EntityNotFoundError
func IsNotFound(err error) bool {
	var nf *EntityNotFoundError
	return errors.As(err, &nf)
}

// StoreError 包装存储层错误，保留原始错误以便 errors.Is 检查驱动错误
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrStoreUnavailable) 对所有 StoreError 成立
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// Store 包装存储错误，nil 原样返回
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// InvalidGeometry 构造带说明的几何参数错误
func InvalidGeometry(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, fmt.Sprintf(format, args...))
}
