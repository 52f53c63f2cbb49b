package nav

import "github.com/vanderheijden86/sitenav/pkg/model"

// CollapseState maps node ids to a collapsed flag. A missing entry means
// expanded. Only collapsed ids are stored, so Len counts collapsed nodes.
//
// The state belongs to one session and is not safe for concurrent use.
type CollapseState map[string]bool

// NewCollapseState returns an empty state with every node expanded.
func NewCollapseState() CollapseState {
	return make(CollapseState)
}

// IsCollapsed reports whether id is collapsed. Safe on a nil state.
func (c CollapseState) IsCollapsed(id string) bool {
	return c[id]
}

// Toggle flips id between expanded and collapsed.
func (c CollapseState) Toggle(id string) {
	c.Set(id, !c[id])
}

// Set marks id collapsed or expanded.
func (c CollapseState) Set(id string, collapsed bool) {
	if collapsed {
		c[id] = true
		return
	}
	delete(c, id)
}

// Len returns the number of collapsed nodes.
func (c CollapseState) Len() int {
	return len(c)
}

// Prune drops entries for ids missing from nodes and returns how many were
// removed. Used after a reload so stale ids don't pile up.
func (c CollapseState) Prune(nodes []model.Node) int {
	present := make(map[string]struct{}, len(nodes))
	for i := range nodes {
		present[nodes[i].ID] = struct{}{}
	}
	removed := 0
	for id := range c {
		if _, ok := present[id]; !ok {
			delete(c, id)
			removed++
		}
	}
	return removed
}

// ExpandAll clears every collapsed entry.
func (c CollapseState) ExpandAll() {
	clear(c)
}

// CollapseAll collapses every node that has at least one child.
func (c CollapseState) CollapseAll(nodes []model.Node) {
	for i := range nodes {
		if nodes[i].ParentID != nil {
			c[*nodes[i].ParentID] = true
		}
	}
	c.Prune(nodes)
}
