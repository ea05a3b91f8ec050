package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/repository"
	"org-directory-service/internal/domain/seed"
	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{ActivityMaxDepth: 32, JWTSecretKey: "test-secret"}
}

// spyProvider 统计会话内各类查询的调用次数
type spyProvider struct {
	inner    repository.Provider
	sessions int
	orgCalls int
}

func (p *spyProvider) Session(ctx context.Context, fn func(repository.Store) error) error {
	p.sessions++
	return p.inner.Session(ctx, func(s repository.Store) error {
		return fn(&spyStore{Store: s, p: p})
	})
}

func (p *spyProvider) Ping(ctx context.Context) error { return p.inner.Ping(ctx) }
func (p *spyProvider) Name() string                   { return "spy" }

type spyStore struct {
	repository.Store
	p *spyProvider
}

func (s *spyStore) OrganizationsByBuildingIDs(ctx context.Context, ids []uint) ([]models.Organization, error) {
	s.p.orgCalls++
	return s.Store.OrganizationsByBuildingIDs(ctx, ids)
}

// failingProvider 模拟存储不可达
type failingProvider struct{}

func (failingProvider) Session(context.Context, func(repository.Store) error) error {
	return errs.Store("session", errors.New("dial tcp 127.0.0.1:5432: connection refused"))
}
func (failingProvider) Ping(context.Context) error { return errors.New("down") }
func (failingProvider) Name() string               { return "failing" }

func newOrganizationService(p repository.Provider) InterfaceOrganizationService {
	return NewOrganizationService(p, testConfig(), zap.NewNop())
}

func seedProvider() *repository.MemoryProvider {
	return repository.NewMemoryProvider(seed.Reference())
}

func detailIDs(details []models.OrganizationDetail) []uint {
	ids := make([]uint, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestGetOrganization_ComposesRelations(t *testing.T) {
	svc := newOrganizationService(seedProvider())

	org, err := svc.GetOrganization(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ООО «Рога и Копыта»", org.Name)
	require.NotNil(t, org.Building)
	assert.Equal(t, "г. Москва, ул. Ленина, д. 1", org.Building.Address)
	require.Len(t, org.PhoneNumbers, 2)
	assert.Equal(t, "2-222-222", org.PhoneNumbers[0].Number)
	assert.Equal(t, "3-333-333", org.PhoneNumbers[1].Number)
	require.Len(t, org.Activities, 1)
	assert.Equal(t, "Молочная продукция", org.Activities[0].Name)
}

func TestNotFound(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	_, err := svc.GetOrganization(ctx, 999)
	var nf *errs.EntityNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, errs.KindOrganization, nf.Kind)
	assert.Equal(t, uint(999), nf.ID)

	_, err = svc.OrganizationsInBuilding(ctx, 999)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, errs.KindBuilding, nf.Kind)

	_, err = svc.OrganizationsByActivity(ctx, 999)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, errs.KindActivity, nf.Kind)

	_, err = svc.OrganizationsByActivityTree(ctx, 999)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, errs.KindActivity, nf.Kind)
}

func TestOrganizationsInBuilding(t *testing.T) {
	svc := newOrganizationService(seedProvider())

	orgs, err := svc.OrganizationsInBuilding(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, detailIDs(orgs))
	for _, o := range orgs {
		require.NotNil(t, o.Building)
		assert.Equal(t, uint(2), o.Building.ID)
	}
}

func TestOrganizationsByActivity_DirectOnly(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	orgs, err := svc.OrganizationsByActivity(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, detailIDs(orgs))

	orgs, err = svc.OrganizationsByActivity(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, orgs)
	assert.NotNil(t, orgs)

	tree, err := svc.OrganizationsByActivityTree(ctx, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, tree)
}

func TestOrganizationsByActivityTree_Deduplicated(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	// 组织4同时关联了7和8，只出现一次
	orgs, err := svc.OrganizationsByActivityTree(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, detailIDs(orgs))
	require.Len(t, orgs[0].Activities, 2)

	orgs, err = svc.OrganizationsByActivityTree(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, detailIDs(orgs))

	orgs, err = svc.OrganizationsByActivityTree(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, detailIDs(orgs))
}

func TestOrganizationsByActivityTree_DepthExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.ActivityMaxDepth = 1
	svc := NewOrganizationService(seedProvider(), cfg, zap.NewNop())

	_, err := svc.OrganizationsByActivityTree(context.Background(), 2)
	assert.True(t, errors.Is(err, errs.ErrHierarchyTooDeep))
}

func TestSearchByName_CaseInsensitiveSubstring(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	orgs, err := svc.SearchByName(ctx, "молочн")
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, detailIDs(orgs))

	orgs, err = svc.SearchByName(ctx, "РОГА")
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, detailIDs(orgs))

	orgs, err = svc.SearchByName(ctx, "не существует")
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestSearchByName_KeepsWhitespace(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	orgs, err := svc.SearchByName(ctx, "реки")
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, detailIDs(orgs))

	// "ИП «Молочные реки»" 中 "реки" 后面没有空格
	orgs, err = svc.SearchByName(ctx, "реки ")
	require.NoError(t, err)
	assert.Empty(t, orgs)

	orgs, err = svc.SearchByName(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4}, detailIDs(orgs))
}

func TestSearchByLocation(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	orgs, err := svc.SearchByLocation(ctx, 55.7558, 37.6173, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, detailIDs(orgs))

	// Москва - Санкт-Петербург ~634 км
	orgs, err = svc.SearchByLocation(ctx, 55.7558, 37.6173, 700)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, detailIDs(orgs))
}

func TestSearchByLocation_BoundaryIsExclusive(t *testing.T) {
	ds := seed.Reference()
	moscow := geo.Point{Latitude: ds.Buildings[0].Latitude, Longitude: ds.Buildings[0].Longitude}
	spb := geo.Point{Latitude: ds.Buildings[2].Latitude, Longitude: ds.Buildings[2].Longitude}
	d := geo.DistanceKm(moscow, spb)

	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	orgs, err := svc.SearchByLocation(ctx, moscow.Latitude, moscow.Longitude, d)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, detailIDs(orgs))

	orgs, err = svc.SearchByLocation(ctx, moscow.Latitude, moscow.Longitude, d+1e-6)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, detailIDs(orgs))
}

func TestSearchByLocation_CenterOnBuilding(t *testing.T) {
	svc := newOrganizationService(seedProvider())

	orgs, err := svc.SearchByLocation(context.Background(), 54.9833, 82.8958, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, detailIDs(orgs))
}

func TestSearchByLocation_EmptySetShortCircuits(t *testing.T) {
	spy := &spyProvider{inner: seedProvider()}
	svc := newOrganizationService(spy)

	orgs, err := svc.SearchByLocation(context.Background(), 0, 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, orgs)
	assert.Empty(t, orgs)
	assert.Equal(t, 0, spy.orgCalls)
	assert.Equal(t, 1, spy.sessions)
}

func TestSearchByLocation_InvalidGeometry(t *testing.T) {
	spy := &spyProvider{inner: seedProvider()}
	svc := newOrganizationService(spy)
	ctx := context.Background()

	_, err := svc.SearchByLocation(ctx, math.NaN(), 0, 10)
	assert.True(t, errors.Is(err, errs.ErrInvalidGeometry))
	_, err = svc.SearchByLocation(ctx, 0, math.Inf(1), 10)
	assert.True(t, errors.Is(err, errs.ErrInvalidGeometry))
	_, err = svc.SearchByLocation(ctx, 0, 0, math.NaN())
	assert.True(t, errors.Is(err, errs.ErrInvalidGeometry))
	assert.Equal(t, 0, spy.sessions)
}

func TestQueriesAreIdempotent(t *testing.T) {
	svc := newOrganizationService(seedProvider())
	ctx := context.Background()

	first, err := svc.OrganizationsByActivityTree(ctx, 1)
	require.NoError(t, err)
	second, err := svc.OrganizationsByActivityTree(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, err := svc.SearchByLocation(ctx, 55.7558, 37.6173, 5000)
	require.NoError(t, err)
	b, err := svc.SearchByLocation(ctx, 55.7558, 37.6173, 5000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStoreUnavailable_NoPartialResults(t *testing.T) {
	svc := newOrganizationService(failingProvider{})
	ctx := context.Background()

	orgs, err := svc.OrganizationsByActivityTree(ctx, 1)
	assert.Nil(t, orgs)
	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))
	assert.False(t, errs.IsNotFound(err))

	org, err := svc.GetOrganization(ctx, 1)
	assert.Nil(t, org)
	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))

	buildings, total, err := NewBuildingService(failingProvider{}, testConfig(), zap.NewNop()).ListBuildings(ctx, 0, 10)
	assert.Nil(t, buildings)
	assert.Zero(t, total)
	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))
}

func TestListBuildings(t *testing.T) {
	svc := NewBuildingService(seedProvider(), testConfig(), zap.NewNop())
	ctx := context.Background()

	buildings, total, err := svc.ListBuildings(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, buildings, 3)
	assert.Equal(t, []uint{1}, detailIDs(buildings[0].Organizations))
	assert.Equal(t, []uint{2, 3}, detailIDs(buildings[1].Organizations))
	assert.Equal(t, []uint{4}, detailIDs(buildings[2].Organizations))
	require.Len(t, buildings[1].Organizations[0].PhoneNumbers, 1)

	buildings, _, err = svc.ListBuildings(ctx, 2, 100)
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	assert.Equal(t, uint(3), buildings[0].ID)

	buildings, total, err = svc.ListBuildings(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, buildings)
	assert.Equal(t, int64(3), total)

	buildings, _, err = svc.ListBuildings(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, buildings)
}

func TestGetBuilding(t *testing.T) {
	svc := NewBuildingService(seedProvider(), testConfig(), zap.NewNop())
	ctx := context.Background()

	b, err := svc.GetBuilding(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "г. Санкт-Петербург, Невский пр., д. 100", b.Address)
	assert.Equal(t, []uint{4}, detailIDs(b.Organizations))

	_, err = svc.GetBuilding(ctx, 42)
	assert.True(t, errs.IsNotFound(err))
}

func TestBuildingWithoutOrganizations(t *testing.T) {
	ds := seed.Reference()
	ds.Buildings = append(ds.Buildings, models.Building{BaseModel: models.BaseModel{ID: 4}, Address: "пустое здание"})
	svc := NewBuildingService(repository.NewMemoryProvider(ds), testConfig(), zap.NewNop())

	b, err := svc.GetBuilding(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, b.Organizations)
	assert.Empty(t, b.Organizations)
}

func TestActivityService(t *testing.T) {
	svc := NewActivityService(seedProvider(), testConfig(), zap.NewNop())
	ctx := context.Background()

	ids, err := svc.DescendantIDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5, 6, 7, 8}, ids)

	ids, err = svc.DescendantIDs(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []uint{8}, ids)

	_, err = svc.DescendantIDs(ctx, 100)
	assert.True(t, errs.IsNotFound(err))

	a, err := svc.GetActivity(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Легковые", a.Name)
	require.NotNil(t, a.ParentID)
	assert.Equal(t, uint(2), *a.ParentID)

	_, err = svc.GetActivity(ctx, 100)
	assert.True(t, errs.IsNotFound(err))

	tree, err := svc.ActivityTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Еда", tree[0].Name)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, uint(5), tree[1].Children[0].ID)
	assert.Len(t, tree[1].Children[0].Children, 2)
}
