// Package nav turns a flat, parent-linked node list into the nested rows of
// the category tree and owns the per-session collapse state.
package nav

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vanderheijden86/sitenav/pkg/model"
)

// ErrMalformedHierarchy is returned when a node id shows up again among its
// own ancestors during a render pass.
var ErrMalformedHierarchy = errors.New("malformed hierarchy")

// Row is one rendered entry of the tree.
type Row struct {
	Node        model.Node
	Depth       int  // 0 = direct child of the rendered parent
	HasChildren bool // Drives the toggle affordance
	Collapsed   bool // Only ever true when HasChildren is
	Children    []Row
}

// HasChildren reports whether any node names id as its parent.
// The advisory ChildCount field is not consulted.
func HasChildren(nodes []model.Node, id string) bool {
	for i := range nodes {
		if nodes[i].HasParent(id) {
			return true
		}
	}
	return false
}

// Render renders the whole forest, starting at the roots.
func Render(nodes []model.Node, collapsed CollapseState) ([]Row, error) {
	return RenderSubtree(nodes, nil, collapsed)
}

// RenderSubtree renders the children of parent (nil for the roots), sorted by
// ListOrder with ties kept in input order. Children of a collapsed node are
// not rendered. Nodes whose parent does not exist are never reached.
func RenderSubtree(nodes []model.Node, parent *string, collapsed CollapseState) ([]Row, error) {
	idx := buildIndex(nodes)
	path := make(map[string]bool)
	if parent != nil {
		path[*parent] = true
	}
	return idx.render(parent, 0, path, collapsed)
}

// index groups node positions by parent id. Built once per render pass.
type index struct {
	nodes    []model.Node
	roots    []int
	children map[string][]int
}

func buildIndex(nodes []model.Node) *index {
	idx := &index{
		nodes:    nodes,
		children: make(map[string][]int),
	}
	for i := range nodes {
		if nodes[i].IsRoot() {
			idx.roots = append(idx.roots, i)
			continue
		}
		pid := *nodes[i].ParentID
		idx.children[pid] = append(idx.children[pid], i)
	}

	byOrder := func(group []int) {
		sort.SliceStable(group, func(a, b int) bool {
			return nodes[group[a]].ListOrder < nodes[group[b]].ListOrder
		})
	}
	byOrder(idx.roots)
	for _, group := range idx.children {
		byOrder(group)
	}
	return idx
}

func (idx *index) childrenOf(parent *string) []int {
	if parent == nil {
		return idx.roots
	}
	return idx.children[*parent]
}

func (idx *index) render(parent *string, depth int, path map[string]bool, collapsed CollapseState) ([]Row, error) {
	group := idx.childrenOf(parent)
	if len(group) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(group))
	for _, i := range group {
		n := idx.nodes[i]
		if path[n.ID] {
			return nil, fmt.Errorf("%w: node %q is its own ancestor", ErrMalformedHierarchy, n.ID)
		}

		hasChildren := len(idx.children[n.ID]) > 0
		row := Row{
			Node:        n,
			Depth:       depth,
			HasChildren: hasChildren,
			Collapsed:   hasChildren && collapsed.IsCollapsed(n.ID),
		}

		if hasChildren && !row.Collapsed {
			path[n.ID] = true
			id := n.ID
			children, err := idx.render(&id, depth+1, path, collapsed)
			delete(path, n.ID)
			if err != nil {
				return nil, err
			}
			row.Children = children
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Flatten returns the rows in depth-first display order.
func Flatten(rows []Row) []Row {
	var out []Row
	var walk func(rs []Row)
	walk = func(rs []Row) {
		for _, r := range rs {
			out = append(out, r)
			walk(r.Children)
		}
	}
	walk(rows)
	return out
}

// Stats summarises a node list as the tree sees it.
type Stats struct {
	Total       int
	Roots       int
	Reachable   int
	Unreachable int // Orphans and members of parent cycles
	Levels      int // Depth of the deepest branch, 0 for an empty tree
}

// Summarize renders the fully expanded forest and counts what it reached.
func Summarize(nodes []model.Node) (Stats, error) {
	s := Stats{Total: len(nodes)}
	for i := range nodes {
		if nodes[i].IsRoot() {
			s.Roots++
		}
	}

	rows, err := Render(nodes, nil)
	if err != nil {
		return s, err
	}
	for _, r := range Flatten(rows) {
		s.Reachable++
		if r.Depth+1 > s.Levels {
			s.Levels = r.Depth + 1
		}
	}
	s.Unreachable = s.Total - s.Reachable
	return s, nil
}
