package registry

import (
	"sort"

	"github.com/tally-dev/tally/internal/model"
)

// TreeNode is one account in the chart hierarchy, annotated with its depth.
type TreeNode struct {
	Account  model.Account
	Level    int
	Children []*TreeNode
}

// BuildHierarchy arranges accounts into a tree grouped by parent id, sorted
// by code at every level. Accounts whose parent is missing are treated as
// top-level. Cycles are prevented at write time; the builder still tracks
// visited nodes so it terminates on malformed data.
func BuildHierarchy(accounts []model.Account) []*TreeNode {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	children := make(map[string][]model.Account)
	for _, a := range accounts {
		parent := a.ParentID
		if parent != "" {
			if _, ok := byID[parent]; !ok {
				parent = "" // dangling parent reference: promote to top level
			}
		}
		children[parent] = append(children[parent], a)
	}
	for _, group := range children {
		sort.Slice(group, func(i, j int) bool { return group[i].Code < group[j].Code })
	}

	visited := make(map[string]bool, len(accounts))
	var build func(parentID string, level int) []*TreeNode
	build = func(parentID string, level int) []*TreeNode {
		var nodes []*TreeNode
		for _, a := range children[parentID] {
			if visited[a.ID] {
				continue
			}
			visited[a.ID] = true
			nodes = append(nodes, &TreeNode{
				Account:  a,
				Level:    level,
				Children: build(a.ID, level+1),
			})
		}
		return nodes
	}
	return build("", 0)
}
