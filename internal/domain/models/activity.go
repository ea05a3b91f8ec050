package models

// Activity 表示业务分类树中的一个节点，ParentID 为空表示根节点
type Activity struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);index;not null" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	// Relations - 关联关系（仅用于建表外键）
	Parent *Activity `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT;" json:"-"`
}

// ActivityEdge 是父子关系表中的一条边
type ActivityEdge struct {
	ID       uint
	ParentID *uint
}

// ActivityNode 分类树的嵌套展示结构
type ActivityNode struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	ParentID *uint           `json:"parent_id"`
	Children []*ActivityNode `json:"children"`
}
