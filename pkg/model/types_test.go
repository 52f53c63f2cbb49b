package model

import (
	"encoding/json"
	"testing"
)

func TestNode_HasParent(t *testing.T) {
	root := Node{ID: "a"}
	if !root.IsRoot() {
		t.Error("expected node without parent to be a root")
	}
	if root.HasParent("") {
		t.Error("root must not match the empty parent id")
	}

	child := Node{ID: "c", ParentID: Parent("a")}
	if child.IsRoot() {
		t.Error("expected node with parent not to be a root")
	}
	if !child.HasParent("a") {
		t.Error("expected child to have parent a")
	}

	// An empty-string parent is a dangling reference, not a root.
	dangling := Node{ID: "d", ParentID: Parent("")}
	if dangling.IsRoot() {
		t.Error("empty-string parent_id must not be treated as root")
	}
}

func TestNode_UnmarshalNullParent(t *testing.T) {
	data := `[{"id":"a","parent_id":null,"list_order":1,"title":"A","href":"/resources/a/alpha","child_count":3},
	          {"id":"c","parent_id":"a","list_order":0.5,"title":"C","href":"/resources/c/gamma","child_count":0}]`

	var nodes []Node
	if err := json.Unmarshal([]byte(data), &nodes); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if !nodes[0].IsRoot() {
		t.Error("expected null parent_id to decode as root")
	}
	if !nodes[1].HasParent("a") {
		t.Errorf("expected parent a, got %v", nodes[1].ParentID)
	}
	if nodes[1].ListOrder != 0.5 {
		t.Errorf("expected fractional list_order 0.5, got %v", nodes[1].ListOrder)
	}
	if nodes[0].ChildCount != 3 {
		t.Errorf("expected child_count 3, got %d", nodes[0].ChildCount)
	}
}

func TestNode_ResourceID(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"resource href", Node{ID: "n1", Href: "/resources/42/intro-to-go"}, "42"},
		{"trailing slash", Node{ID: "n1", Href: "/resources/42/"}, "42"},
		{"no slug", Node{ID: "n1", Href: "/resources/42"}, "42"},
		{"other path", Node{ID: "n1", Href: "/projects/x"}, "n1"},
		{"empty href", Node{ID: "n1"}, "n1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.ResourceID(); got != tt.want {
				t.Errorf("ResourceID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNode_Validate(t *testing.T) {
	valid := Node{ID: "a", Title: "A"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid node, got %v", err)
	}

	noID := Node{Title: "A"}
	if err := noID.Validate(); err == nil {
		t.Error("expected error for empty id")
	}

	noTitle := Node{ID: "a"}
	if err := noTitle.Validate(); err == nil {
		t.Error("expected error for empty title")
	}

	self := Node{ID: "a", Title: "A", ParentID: Parent("a")}
	if err := self.Validate(); err == nil {
		t.Error("expected error for self parent")
	}
}

func TestNode_Clone(t *testing.T) {
	orig := Node{ID: "c", ParentID: Parent("a")}
	clone := orig.Clone()
	*clone.ParentID = "b"
	if !orig.HasParent("a") {
		t.Errorf("clone shares parent pointer: original now %q", *orig.ParentID)
	}
}

func TestCurrentNav(t *testing.T) {
	items := CurrentNav(DefaultNavigation(), "/resources")
	current := 0
	for _, item := range items {
		if item.Current {
			current++
			if item.Href != "/resources" {
				t.Errorf("unexpected current item %s", item.Href)
			}
		}
	}
	if current != 1 {
		t.Errorf("expected exactly 1 current item, got %d", current)
	}

	// Defaults untouched
	if !DefaultNavigation()[0].Current {
		t.Error("expected default navigation to mark Home current")
	}

	none := CurrentNav(DefaultNavigation(), "/nowhere")
	for _, item := range none {
		if item.Current {
			t.Errorf("expected no current item, got %s", item.Name)
		}
	}
}

func TestLoadState_String(t *testing.T) {
	if StateLoading.String() != "loading" || StateReady.String() != "ready" || StateFailed.String() != "failed" {
		t.Error("unexpected load state labels")
	}
	if LoadState(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range state")
	}
}

func TestResourceIDFromPath(t *testing.T) {
	if id, ok := ResourceIDFromPath("/resources/7/go-notes"); !ok || id != "7" {
		t.Errorf("expected 7, got %q (ok=%v)", id, ok)
	}
	for _, p := range []string{"/", "/resources", "/resources/", "/projects/7"} {
		if _, ok := ResourceIDFromPath(p); ok {
			t.Errorf("expected no resource id for %q", p)
		}
	}
}
