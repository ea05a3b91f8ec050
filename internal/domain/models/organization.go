package models

// Organization 表示位于某栋建筑内的组织
type Organization struct {
	BaseModel
	Name       string `gorm:"type:varchar(255);index;not null" json:"name"`
	BuildingID uint   `gorm:"index;not null" json:"building_id"`

	// Relations - 关联关系（仅用于建表外键，查询时由服务层显式组装）
	Building     *Building     `gorm:"foreignKey:BuildingID;constraint:OnDelete:RESTRICT;" json:"-"`
	PhoneNumbers []PhoneNumber `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE;" json:"-"`
	Activities   []Activity    `gorm:"many2many:organization_activities;constraint:OnDelete:CASCADE;" json:"-"`
}

// PhoneNumber 组织的联系电话
type PhoneNumber struct {
	BaseModel
	Number         string `gorm:"type:varchar(50);not null" json:"number"`
	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
}

// OrganizationActivity 组织与业务分类的多对多关联
type OrganizationActivity struct {
	OrganizationID uint `gorm:"primaryKey" json:"organization_id"`
	ActivityID     uint `gorm:"primaryKey" json:"activity_id"`
}

// TableName 与 Organization.Activities 的 many2many 表名保持一致
func (OrganizationActivity) TableName() string {
	return "organization_activities"
}

// OrganizationActivityRow 按组织分组加载分类时的一行结果
type OrganizationActivityRow struct {
	OrganizationID uint
	ActivityID     uint
	Name           string
	ParentID       *uint
}

// ToActivity 转换为分类实体
func (r OrganizationActivityRow) ToActivity() Activity {
	return Activity{
		BaseModel: BaseModel{ID: r.ActivityID},
		Name:      r.Name,
		ParentID:  r.ParentID,
	}
}

// OrganizationDetail 组织及其建筑、电话、分类（组合视图，不落库）
type OrganizationDetail struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	BuildingID   uint          `json:"building_id"`
	Building     *Building     `json:"building"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers"`
	Activities   []Activity    `json:"activities"`
}
