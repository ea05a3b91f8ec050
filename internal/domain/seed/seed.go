// Package seed 提供参考数据集：3栋建筑、两棵三层分类树、4个组织。
// 数据库种子和内存存储都从这里取数，保证两种后端下的行为一致。
package seed

import "org-directory-service/internal/domain/models"

// Dataset 一组完整的目录数据
type Dataset struct {
	Buildings     []models.Building
	Activities    []models.Activity
	Organizations []models.Organization
	PhoneNumbers  []models.PhoneNumber
	Links         []models.OrganizationActivity
}

// Reference 返回参考数据集的新副本，调用方可以随意修改
func Reference() Dataset {
	return Dataset{
		Buildings: []models.Building{
			building(1, "г. Москва, ул. Ленина, д. 1", 55.7558, 37.6173),
			building(2, "г. Новосибирск, ул. Блюхера, 32/1", 54.9833, 82.8958),
			building(3, "г. Санкт-Петербург, Невский пр., д. 100", 59.9343, 30.3351),
		},
		Activities: []models.Activity{
			// 第一层
			activity(1, "Еда", 0),
			activity(2, "Автомобили", 0),
			// 第二层
			activity(3, "Мясная продукция", 1),
			activity(4, "Молочная продукция", 1),
			activity(5, "Легковые", 2),
			activity(6, "Грузовые", 2),
			// 第三层
			activity(7, "Запчасти", 5),
			activity(8, "Аксессуары", 5),
		},
		Organizations: []models.Organization{
			organization(1, "ООО «Рога и Копыта»", 1),
			organization(2, "ПАО «Мясокомбинат»", 2),
			organization(3, "ИП «Молочные реки»", 2),
			organization(4, "Автосервис «Четыре колеса»", 3),
		},
		PhoneNumbers: []models.PhoneNumber{
			phone(1, "2-222-222", 1),
			phone(2, "3-333-333", 1),
			phone(3, "8-800-555-35-35", 2),
			phone(4, "8-923-111-22-33", 3),
			phone(5, "+7 (812) 555-10-20", 4),
		},
		Links: []models.OrganizationActivity{
			{OrganizationID: 1, ActivityID: 4},
			{OrganizationID: 2, ActivityID: 3},
			{OrganizationID: 3, ActivityID: 4},
			{OrganizationID: 4, ActivityID: 7},
			{OrganizationID: 4, ActivityID: 8},
		},
	}
}

func building(id uint, address string, lat, lon float64) models.Building {
	return models.Building{BaseModel: models.BaseModel{ID: id}, Address: address, Latitude: lat, Longitude: lon}
}

// parent 为0表示根节点
func activity(id uint, name string, parent uint) models.Activity {
	a := models.Activity{BaseModel: models.BaseModel{ID: id}, Name: name}
	if parent != 0 {
		p := parent
		a.ParentID = &p
	}
	return a
}

func organization(id uint, name string, buildingID uint) models.Organization {
	return models.Organization{BaseModel: models.BaseModel{ID: id}, Name: name, BuildingID: buildingID}
}

func phone(id uint, number string, orgID uint) models.PhoneNumber {
	return models.PhoneNumber{BaseModel: models.BaseModel{ID: id}, Number: number, OrganizationID: orgID}
}
