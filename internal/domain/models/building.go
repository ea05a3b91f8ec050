package models

// Building 表示一栋带地理坐标的建筑
type Building struct {
	BaseModel
	Address   string  `gorm:"type:varchar(255);index;not null" json:"address"` // 地址，如"г. Москва, ул. Ленина, д. 1"
	Latitude  float64 `gorm:"not null" json:"latitude"`                        // 纬度，-90..90
	Longitude float64 `gorm:"not null" json:"longitude"`                       // 经度，-180..180
}

// BuildingDetail 建筑及其下属组织（组合视图，不落库）
type BuildingDetail struct {
	ID            uint                 `json:"id"`
	Address       string               `json:"address"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Organizations []OrganizationDetail `json:"organizations"`
}
