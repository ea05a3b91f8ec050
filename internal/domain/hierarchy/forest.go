package hierarchy

import (
	"context"
	"sort"

	"org-directory-service/internal/domain/models"
)

// Forest 内存中的分类森林：邻接表加按需派生的子节点索引
type Forest struct {
	nodes    map[uint]models.Activity
	children map[uint][]uint
	roots    []uint
}

// NewForest 由分类列表构建森林。父节点不存在的分类视为根节点。
func NewForest(activities []models.Activity) *Forest {
	f := &Forest{
		nodes:    make(map[uint]models.Activity, len(activities)),
		children: make(map[uint][]uint),
	}
	for _, a := range activities {
		f.nodes[a.ID] = a
	}
	for _, a := range activities {
		if a.ParentID == nil {
			f.roots = append(f.roots, a.ID)
			continue
		}
		if _, ok := f.nodes[*a.ParentID]; !ok {
			f.roots = append(f.roots, a.ID)
			continue
		}
		f.children[*a.ParentID] = append(f.children[*a.ParentID], a.ID)
	}

	sortIDs(f.roots)
	for _, ids := range f.children {
		sortIDs(ids)
	}
	return f
}

// Get 按ID查找分类
func (f *Forest) Get(id uint) (models.Activity, bool) {
	a, ok := f.nodes[id]
	return a, ok
}

// Len 分类数量
func (f *Forest) Len() int {
	return len(f.nodes)
}

// ChildActivities 实现 ChildLookup
func (f *Forest) ChildActivities(_ context.Context, parentIDs []uint) ([]models.ActivityEdge, error) {
	var edges []models.ActivityEdge
	for _, pid := range parentIDs {
		for _, cid := range f.children[pid] {
			parent := pid
			edges = append(edges, models.ActivityEdge{ID: cid, ParentID: &parent})
		}
	}
	return edges, nil
}

// Tree 以嵌套结构返回整个森林，根节点和子节点均按ID升序。
// 深度超过 maxDepth 的子树被截断。
func (f *Forest) Tree(maxDepth int) []*models.ActivityNode {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	out := make([]*models.ActivityNode, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.build(id, 0, maxDepth, map[uint]bool{}))
	}
	return out
}

func (f *Forest) build(id uint, depth, maxDepth int, onPath map[uint]bool) *models.ActivityNode {
	a := f.nodes[id]
	node := &models.ActivityNode{
		ID:       a.ID,
		Name:     a.Name,
		ParentID: a.ParentID,
		Children: []*models.ActivityNode{},
	}
	if depth >= maxDepth || onPath[id] {
		return node
	}
	onPath[id] = true
	for _, cid := range f.children[id] {
		if onPath[cid] {
			continue
		}
		node.Children = append(node.Children, f.build(cid, depth+1, maxDepth, onPath))
	}
	delete(onPath, id)
	return node
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
