package model

import (
	"fmt"
	"strings"
)

// Node represents one entry of the flat navigational list served by the
// content API. Nodes link to each other only through ParentID.
type Node struct {
	ID         string  `json:"id"`
	ParentID   *string `json:"parent_id"`   // nil = root
	ListOrder  float64 `json:"list_order"`  // Ascending among siblings
	Slug       string  `json:"slug,omitempty"`
	ChildCount int     `json:"child_count"` // Advisory only; never used for structure
	Title      string  `json:"title"`
	Href       string  `json:"href"`
}

// IsRoot returns true if the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// HasParent returns true if the node's parent_id equals id.
// Root nodes have no parent and never match, not even the empty id.
func (n Node) HasParent(id string) bool {
	return n.ParentID != nil && *n.ParentID == id
}

// ResourceID returns the resource identifier addressed by the node's href.
// Hrefs look like /resources/{id}/{slug}; anything else falls back to the
// node id.
func (n Node) ResourceID() string {
	if id, ok := ResourceIDFromPath(n.Href); ok {
		return id
	}
	return n.ID
}

// ResourceIDFromPath extracts {id} from a /resources/{id}[/{slug}] path.
func ResourceIDFromPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "resources" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// Validate checks if the node data is usable for navigation
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.Title == "" {
		return fmt.Errorf("node %s: title cannot be empty", n.ID)
	}
	if n.ParentID != nil && *n.ParentID == n.ID {
		return fmt.Errorf("node %s: cannot be its own parent", n.ID)
	}
	return nil
}

// Clone creates a deep copy of the node
func (n Node) Clone() Node {
	clone := n
	if n.ParentID != nil {
		v := *n.ParentID
		clone.ParentID = &v
	}
	return clone
}

// Parent returns a pointer to id, for building child nodes in literals.
func Parent(id string) *string {
	return &id
}

// Resource is a page of markdown content fetched for a node.
type Resource struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// NavItem is a fixed link in the sidebar above the category tree.
type NavItem struct {
	Name    string `yaml:"name" json:"name"`
	Href    string `yaml:"href" json:"href"`
	Icon    string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Current bool   `yaml:"-" json:"current"`
}

// DefaultNavigation returns the standard sidebar links.
func DefaultNavigation() []NavItem {
	return []NavItem{
		{Name: "Home", Href: "/", Icon: "⌂", Current: true},
		{Name: "Resources", Href: "/resources", Icon: "≡"},
		{Name: "Projects", Href: "/projects", Icon: "<>"},
	}
}

// CurrentNav returns a copy of items with Current set on exactly the items
// whose href equals path.
func CurrentNav(items []NavItem, path string) []NavItem {
	out := make([]NavItem, len(items))
	for i, item := range items {
		item.Current = item.Href == path
		out[i] = item
	}
	return out
}

// LoadState tracks the tree fetch lifecycle
type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

// String returns a lower-case label for the state.
func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
