package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"org-directory-service/internal/domain/geo"
	"org-directory-service/internal/domain/hierarchy"
	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/seed"
)

// MemoryProvider 内存存储：数据库未启用时使用，也用于测试
type MemoryProvider struct {
	mu    sync.RWMutex
	store *MemoryStore
}

// NewMemoryProvider 用数据集创建内存存储
func NewMemoryProvider(ds seed.Dataset) *MemoryProvider {
	return &MemoryProvider{store: newMemoryStore(ds)}
}

// Session 持有读锁执行 fn，defer 保证释放
func (p *MemoryProvider) Session(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fn(p.store)
}

// Ping 内存存储总是可用
func (p *MemoryProvider) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Name 后端名称
func (p *MemoryProvider) Name() string {
	return "memory"
}

// Replace 原子替换全部数据
func (p *MemoryProvider) Replace(ds seed.Dataset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store = newMemoryStore(ds)
}

// MemoryStore 内存 Store 实现，所有结果按ID升序
type MemoryStore struct {
	buildings     []models.Building
	activities    []models.Activity
	organizations []models.Organization
	phones        []models.PhoneNumber
	links         []models.OrganizationActivity
	forest        *hierarchy.Forest
}

func newMemoryStore(ds seed.Dataset) *MemoryStore {
	s := &MemoryStore{
		buildings:     append([]models.Building(nil), ds.Buildings...),
		activities:    append([]models.Activity(nil), ds.Activities...),
		organizations: append([]models.Organization(nil), ds.Organizations...),
		phones:        append([]models.PhoneNumber(nil), ds.PhoneNumbers...),
		links:         append([]models.OrganizationActivity(nil), ds.Links...),
	}
	sort.Slice(s.buildings, func(i, j int) bool { return s.buildings[i].ID < s.buildings[j].ID })
	sort.Slice(s.activities, func(i, j int) bool { return s.activities[i].ID < s.activities[j].ID })
	sort.Slice(s.organizations, func(i, j int) bool { return s.organizations[i].ID < s.organizations[j].ID })
	sort.Slice(s.phones, func(i, j int) bool {
		if s.phones[i].OrganizationID != s.phones[j].OrganizationID {
			return s.phones[i].OrganizationID < s.phones[j].OrganizationID
		}
		return s.phones[i].ID < s.phones[j].ID
	})
	s.forest = hierarchy.NewForest(s.activities)
	return s
}

func (s *MemoryStore) GetBuilding(_ context.Context, id uint) (*models.Building, error) {
	for _, b := range s.buildings {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListBuildings(_ context.Context, skip, limit int) ([]models.Building, error) {
	return page(s.buildings, skip, limit), nil
}

func (s *MemoryStore) CountBuildings(_ context.Context) (int64, error) {
	return int64(len(s.buildings)), nil
}

func (s *MemoryStore) BuildingsByIDs(_ context.Context, ids []uint) ([]models.Building, error) {
	want := idSet(ids)
	var out []models.Building
	for _, b := range s.buildings {
		if _, ok := want[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) BuildingIDsWithin(_ context.Context, center geo.Point, radiusKm float64) ([]uint, error) {
	var ids []uint
	for _, b := range s.buildings {
		if geo.Within(center, geo.Point{Latitude: b.Latitude, Longitude: b.Longitude}, radiusKm) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) GetActivity(_ context.Context, id uint) (*models.Activity, error) {
	if a, ok := s.forest.Get(id); ok {
		return &a, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListActivities(_ context.Context) ([]models.Activity, error) {
	return append([]models.Activity(nil), s.activities...), nil
}

func (s *MemoryStore) ChildActivities(ctx context.Context, parentIDs []uint) ([]models.ActivityEdge, error) {
	return s.forest.ChildActivities(ctx, parentIDs)
}

func (s *MemoryStore) ActivitiesByOrganizationIDs(_ context.Context, orgIDs []uint) ([]models.OrganizationActivityRow, error) {
	want := idSet(orgIDs)
	var rows []models.OrganizationActivityRow
	for _, l := range s.links {
		if _, ok := want[l.OrganizationID]; !ok {
			continue
		}
		a, ok := s.forest.Get(l.ActivityID)
		if !ok {
			continue
		}
		rows = append(rows, models.OrganizationActivityRow{
			OrganizationID: l.OrganizationID,
			ActivityID:     a.ID,
			Name:           a.Name,
			ParentID:       a.ParentID,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OrganizationID != rows[j].OrganizationID {
			return rows[i].OrganizationID < rows[j].OrganizationID
		}
		return rows[i].ActivityID < rows[j].ActivityID
	})
	return rows, nil
}

func (s *MemoryStore) GetOrganization(_ context.Context, id uint) (*models.Organization, error) {
	for _, o := range s.organizations {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListOrganizations(_ context.Context, skip, limit int) ([]models.Organization, error) {
	return page(s.organizations, skip, limit), nil
}

func (s *MemoryStore) OrganizationsByBuildingIDs(_ context.Context, buildingIDs []uint) ([]models.Organization, error) {
	want := idSet(buildingIDs)
	return s.filterOrganizations(func(o models.Organization) bool {
		_, ok := want[o.BuildingID]
		return ok
	}), nil
}

func (s *MemoryStore) OrganizationsByActivityIDs(_ context.Context, activityIDs []uint) ([]models.Organization, error) {
	want := idSet(activityIDs)
	linked := make(map[uint]struct{})
	for _, l := range s.links {
		if _, ok := want[l.ActivityID]; ok {
			linked[l.OrganizationID] = struct{}{}
		}
	}
	return s.filterOrganizations(func(o models.Organization) bool {
		_, ok := linked[o.ID]
		return ok
	}), nil
}

func (s *MemoryStore) SearchOrganizationsByName(_ context.Context, substring string) ([]models.Organization, error) {
	// Caser 有内部状态，不能在并发会话间共享
	fold := cases.Fold()
	needle := fold.String(substring)
	return s.filterOrganizations(func(o models.Organization) bool {
		return strings.Contains(fold.String(o.Name), needle)
	}), nil
}

func (s *MemoryStore) PhoneNumbersByOrganizationIDs(_ context.Context, orgIDs []uint) ([]models.PhoneNumber, error) {
	want := idSet(orgIDs)
	var out []models.PhoneNumber
	for _, p := range s.phones {
		if _, ok := want[p.OrganizationID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) filterOrganizations(keep func(models.Organization) bool) []models.Organization {
	var out []models.Organization
	for _, o := range s.organizations {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || limit <= 0 {
		return nil
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[skip:end]...)
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
