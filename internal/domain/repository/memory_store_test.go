package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/seed"
)

func withMemoryStore(t *testing.T, fn func(Store)) {
	t.Helper()
	p := NewMemoryProvider(seed.Reference())
	require.NoError(t, p.Session(context.Background(), func(s Store) error {
		fn(s)
		return nil
	}))
}

func orgIDs(orgs []models.Organization) []uint {
	ids := make([]uint, 0, len(orgs))
	for _, o := range orgs {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestMemoryStore_Lookups(t *testing.T) {
	ctx := context.Background()
	withMemoryStore(t, func(s Store) {
		b, err := s.GetBuilding(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Contains(t, b.Address, "Новосибирск")

		missing, err := s.GetBuilding(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, missing)

		a, err := s.GetActivity(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, a)
		require.NotNil(t, a.ParentID)
		assert.Equal(t, uint(2), *a.ParentID)

		o, err := s.GetOrganization(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, o)
	})
}

func TestMemoryStore_Pagination(t *testing.T) {
	ctx := context.Background()
	withMemoryStore(t, func(s Store) {
		all, err := s.ListBuildings(ctx, 0, 100)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		second, err := s.ListBuildings(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, uint(2), second[0].ID)

		none, err := s.ListBuildings(ctx, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, none)

		total, err := s.CountBuildings(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		orgs, err := s.ListOrganizations(ctx, 2, 100)
		require.NoError(t, err)
		assert.Equal(t, []uint{3, 4}, orgIDs(orgs))
	})
}

func TestMemoryStore_ActivityLinks(t *testing.T) {
	ctx := context.Background()
	withMemoryStore(t, func(s Store) {
		orgs, err := s.OrganizationsByActivityIDs(ctx, []uint{4})
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 3}, orgIDs(orgs))

		// 组织4同时关联7和8，只返回一次
		orgs, err = s.OrganizationsByActivityIDs(ctx, []uint{2, 5, 6, 7, 8})
		require.NoError(t, err)
		assert.Equal(t, []uint{4}, orgIDs(orgs))

		rows, err := s.ActivitiesByOrganizationIDs(ctx, []uint{4, 1})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, uint(1), rows[0].OrganizationID)
		assert.Equal(t, uint(4), rows[0].ActivityID)
		assert.Equal(t, uint(7), rows[1].ActivityID)
		assert.Equal(t, "Аксессуары", rows[2].Name)
	})
}

func TestMemoryStore_SearchByNameIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	withMemoryStore(t, func(s Store) {
		orgs, err := s.SearchOrganizationsByName(ctx, "молочн")
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		assert.Equal(t, "ИП «Молочные реки»", orgs[0].Name)

		orgs, err = s.SearchOrganizationsByName(ctx, "КОЛЕСА")
		require.NoError(t, err)
		assert.Equal(t, []uint{4}, orgIDs(orgs))

		orgs, err = s.SearchOrganizationsByName(ctx, "нет такого")
		require.NoError(t, err)
		assert.Empty(t, orgs)
	})
}

func TestMemoryStore_BuildingIDsWithin(t *testing.T) {
	ctx := context.Background()
	moscow := geo.Point{Latitude: 55.7558, Longitude: 37.6173}
	withMemoryStore(t, func(s Store) {
		ids, err := s.BuildingIDsWithin(ctx, moscow, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, ids)

		ids, err = s.BuildingIDsWithin(ctx, moscow, 700)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 3}, ids)

		// 中心与建筑坐标重合时，任意正半径都包含该建筑
		for _, b := range seed.Reference().Buildings {
			ids, err = s.BuildingIDsWithin(ctx, geo.Point{Latitude: b.Latitude, Longitude: b.Longitude}, 1e-9)
			require.NoError(t, err)
			assert.Equal(t, []uint{b.ID}, ids)
		}

		ids, err = s.BuildingIDsWithin(ctx, geo.Point{Latitude: 0, Longitude: 0}, 100)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestMemoryProvider_SessionPropagatesErrorsAndReleases(t *testing.T) {
	p := NewMemoryProvider(seed.Reference())
	boom := errors.New("boom")

	err := p.Session(context.Background(), func(Store) error { return boom })
	assert.Same(t, boom, err)

	// 锁已释放：Replace 需要写锁
	p.Replace(seed.Dataset{})
	require.NoError(t, p.Session(context.Background(), func(s Store) error {
		total, err := s.CountBuildings(context.Background())
		assert.Equal(t, int64(0), total)
		return err
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Session(ctx, func(Store) error { return nil }), context.Canceled)
	assert.Equal(t, "memory", p.Name())
}
