package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/domain/seed"
	"org-directory-service/internal/error/errs"
)

// countingLookup 记录查询次数，并可注入错误
type countingLookup struct {
	ChildLookup
	calls int
	err   error
}

func (c *countingLookup) ChildActivities(ctx context.Context, parentIDs []uint) ([]models.ActivityEdge, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.ChildLookup.ChildActivities(ctx, parentIDs)
}

func seedForest() *Forest {
	return NewForest(seed.Reference().Activities)
}

func TestDescendantIDs_Seed(t *testing.T) {
	r := NewResolver(0)
	f := seedForest()
	ctx := context.Background()

	cases := map[uint][]uint{
		2: {2, 5, 6, 7, 8},
		5: {5, 7, 8},
		1: {1, 3, 4},
		7: {7},
	}
	for root, want := range cases {
		got, err := r.DescendantIDs(ctx, f, root)
		require.NoError(t, err)
		assert.Equal(t, want, got, "root %d", root)
	}
}

func TestDescendantIDs_OneQueryPerLevel(t *testing.T) {
	lookup := &countingLookup{ChildLookup: seedForest()}
	ids, err := NewResolver(0).DescendantIDs(context.Background(), lookup, 2)
	require.NoError(t, err)
	assert.Len(t, ids, 5)
	// 第1、2层各一次，叶子层再查一次得到空结果
	assert.Equal(t, 3, lookup.calls)
}

func TestDescendantIDs_Idempotent(t *testing.T) {
	r := NewResolver(0)
	f := seedForest()
	first, err := r.DescendantIDs(context.Background(), f, 2)
	require.NoError(t, err)
	second, err := r.DescendantIDs(context.Background(), f, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDescendantIDs_MaxDepth(t *testing.T) {
	f := seedForest()

	_, err := NewResolver(1).DescendantIDs(context.Background(), f, 2)
	assert.True(t, errors.Is(err, errs.ErrHierarchyTooDeep))

	ids, err := NewResolver(2).DescendantIDs(context.Background(), f, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5, 6, 7, 8}, ids)
}

// cyclicLookup 1 -> 2 -> 3 -> 1
type cyclicLookup map[uint][]uint

func (c cyclicLookup) ChildActivities(_ context.Context, parentIDs []uint) ([]models.ActivityEdge, error) {
	var out []models.ActivityEdge
	for _, p := range parentIDs {
		for _, id := range c[p] {
			parent := p
			out = append(out, models.ActivityEdge{ID: id, ParentID: &parent})
		}
	}
	return out, nil
}

func TestDescendantIDs_Cycle(t *testing.T) {
	lookup := cyclicLookup{1: {2}, 2: {3}, 3: {1}}
	_, err := NewResolver(0).DescendantIDs(context.Background(), lookup, 1)
	assert.True(t, errors.Is(err, errs.ErrHierarchyCycle))
}

func TestDescendantIDs_DuplicateEdgesDeduplicated(t *testing.T) {
	// 非法的DAG：4 通过 2 和 3 两条路径可达
	lookup := cyclicLookup{1: {2, 3}, 2: {4}, 3: {4}}
	ids, err := NewResolver(0).DescendantIDs(context.Background(), lookup, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4}, ids)
}

func TestDescendantIDs_LookupError(t *testing.T) {
	boom := errs.Store("child activities", errors.New("connection refused"))
	lookup := &countingLookup{ChildLookup: seedForest(), err: boom}
	_, err := NewResolver(0).DescendantIDs(context.Background(), lookup, 1)
	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))
}

func TestForestTree(t *testing.T) {
	roots := seedForest().Tree(0)
	require.Len(t, roots, 2)

	food, vehicles := roots[0], roots[1]
	assert.Equal(t, "Еда", food.Name)
	assert.Len(t, food.Children, 2)
	assert.Equal(t, uint(2), vehicles.ID)
	require.Len(t, vehicles.Children, 2)
	cars := vehicles.Children[0]
	assert.Equal(t, uint(5), cars.ID)
	require.Len(t, cars.Children, 2)
	assert.Equal(t, uint(7), cars.Children[0].ID)
	assert.Empty(t, cars.Children[0].Children)
}

func TestForestTreeTruncatedAtMaxDepth(t *testing.T) {
	roots := seedForest().Tree(1)
	require.Len(t, roots, 2)
	vehicles := roots[1]
	require.Len(t, vehicles.Children, 2)
	assert.Empty(t, vehicles.Children[0].Children)
}

func TestForestOrphanBecomesRoot(t *testing.T) {
	missing := uint(42)
	f := NewForest([]models.Activity{
		{BaseModel: models.BaseModel{ID: 1}, Name: "orphan", ParentID: &missing},
	})
	roots := f.Tree(0)
	require.Len(t, roots, 1)
	assert.Equal(t, uint(1), roots[0].ID)

	a, ok := f.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "orphan", a.Name)
	assert.Equal(t, 1, f.Len())
}
