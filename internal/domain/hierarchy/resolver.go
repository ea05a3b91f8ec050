// Package hierarchy 计算业务分类树的传递闭包。
//
// 分类以邻接表（id -> parent_id）存储，闭包按层展开：每一层只向存储发起一次批量查询，
// 并用已访问集合去重。深度上限用于防止异常数据（环）导致无限展开。
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"org-directory-service/internal/domain/models"
	"org-directory-service/internal/error/errs"
)

// DefaultMaxDepth 默认最大展开深度
const DefaultMaxDepth = 32

// ChildLookup 返回一组父节点的全部直接子节点
type ChildLookup interface {
	ChildActivities(ctx context.Context, parentIDs []uint) ([]models.ActivityEdge, error)
}

// Resolver 分类闭包解析器
type Resolver struct {
	maxDepth int
}

// NewResolver 创建解析器，maxDepth <= 0 时使用默认值
func NewResolver(maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{maxDepth: maxDepth}
}

// MaxDepth 返回展开深度上限
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// DescendantIDs 返回 rootID 及其全部后代的ID（升序、无重复）。
// 调用方需先确认 rootID 存在。
func (r *Resolver) DescendantIDs(ctx context.Context, lookup ChildLookup, rootID uint) ([]uint, error) {
	visited := map[uint]struct{}{rootID: {}}
	frontier := []uint{rootID}

	for depth := 1; len(frontier) > 0; depth++ {
		edges, err := lookup.ChildActivities(ctx, frontier)
		if err != nil {
			return nil, err
		}

		next := make([]uint, 0, len(edges))
		for _, e := range edges {
			if e.ID == rootID {
				return nil, fmt.Errorf("%w: activity %d is its own descendant", errs.ErrHierarchyCycle, rootID)
			}
			if _, seen := visited[e.ID]; seen {
				continue
			}
			visited[e.ID] = struct{}{}
			next = append(next, e.ID)
		}

		if len(next) > 0 && depth > r.maxDepth {
			return nil, fmt.Errorf("%w: activity %d (max %d)", errs.ErrHierarchyTooDeep, rootID, r.maxDepth)
		}
		frontier = next
	}

	ids := make([]uint, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
