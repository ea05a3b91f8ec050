package models

import "time"

type PaginationQuery struct {
	Skip  int `form:"skip" json:"skip"`
	Limit int `form:"limit" json:"limit"`
}

type PaginationResult struct {
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewPaginationResult 创建一个新的分页结果对象
func NewPaginationResult(total, skip, limit int) PaginationResult {
	return PaginationResult{
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}
