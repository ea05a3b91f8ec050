package services

import (
	"context"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/repository"
)

// composeOrganizations 批量加载建筑、电话、分类并组装到每个组织上。
// 无论组织数量多少，都只发起三次批量查询；结果保持 orgs 的顺序。
func composeOrganizations(ctx context.Context, store repository.Store, orgs []models.Organization) ([]models.OrganizationDetail, error) {
	details := make([]models.OrganizationDetail, 0, len(orgs))
	if len(orgs) == 0 {
		return details, nil
	}

	orgIDs := make([]uint, 0, len(orgs))
	buildingIDs := make([]uint, 0, len(orgs))
	seenBuilding := make(map[uint]struct{}, len(orgs))
	for _, o := range orgs {
		orgIDs = append(orgIDs, o.ID)
		if _, ok := seenBuilding[o.BuildingID]; !ok {
			seenBuilding[o.BuildingID] = struct{}{}
			buildingIDs = append(buildingIDs, o.BuildingID)
		}
	}

	buildings, err := store.BuildingsByIDs(ctx, buildingIDs)
	if err != nil {
		return nil, err
	}
	buildingByID := make(map[uint]models.Building, len(buildings))
	for _, b := range buildings {
		buildingByID[b.ID] = b
	}

	phones, err := store.PhoneNumbersByOrganizationIDs(ctx, orgIDs)
	if err != nil {
		return nil, err
	}
	phonesByOrg := make(map[uint][]models.PhoneNumber, len(orgs))
	for _, p := range phones {
		phonesByOrg[p.OrganizationID] = append(phonesByOrg[p.OrganizationID], p)
	}

	rows, err := store.ActivitiesByOrganizationIDs(ctx, orgIDs)
	if err != nil {
		return nil, err
	}
	activitiesByOrg := make(map[uint][]models.Activity, len(orgs))
	for _, r := range rows {
		activitiesByOrg[r.OrganizationID] = append(activitiesByOrg[r.OrganizationID], r.ToActivity())
	}

	for _, o := range orgs {
		d := models.OrganizationDetail{
			ID:           o.ID,
			Name:         o.Name,
			BuildingID:   o.BuildingID,
			PhoneNumbers: phonesByOrg[o.ID],
			Activities:   activitiesByOrg[o.ID],
		}
		if b, ok := buildingByID[o.BuildingID]; ok {
			b := b
			d.Building = &b
		}
		if d.PhoneNumbers == nil {
			d.PhoneNumbers = []models.PhoneNumber{}
		}
		if d.Activities == nil {
			d.Activities = []models.Activity{}
		}
		details = append(details, d)
	}
	return details, nil
}
