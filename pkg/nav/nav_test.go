package nav

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/sitenav/pkg/model"
)

func sampleNodes() []model.Node {
	return []model.Node{
		{ID: "a", ListOrder: 1, Title: "A", Href: "/resources/a/alpha"},
		{ID: "b", ListOrder: 0, Title: "B", Href: "/resources/b/beta"},
		{ID: "c", ParentID: model.Parent("a"), ListOrder: 0, Title: "C", Href: "/resources/c/gamma"},
	}
}

func titles(rows []Row) []string {
	var out []string
	for _, r := range Flatten(rows) {
		out = append(out, r.Node.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRender_RootOrderAndNesting(t *testing.T) {
	rows, err := Render(sampleNodes(), NewCollapseState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(rows))
	}
	if rows[0].Node.ID != "b" || rows[1].Node.ID != "a" {
		t.Errorf("expected roots [b a], got [%s %s]", rows[0].Node.ID, rows[1].Node.ID)
	}
	if rows[0].HasChildren {
		t.Error("expected B to have no toggle")
	}
	a := rows[1]
	if !a.HasChildren || a.Collapsed {
		t.Errorf("expected A expanded with toggle, got hasChildren=%v collapsed=%v", a.HasChildren, a.Collapsed)
	}
	if len(a.Children) != 1 || a.Children[0].Node.ID != "c" {
		t.Fatalf("expected C nested under A, got %+v", a.Children)
	}
	if a.Children[0].Depth != 1 {
		t.Errorf("expected C at depth 1, got %d", a.Children[0].Depth)
	}

	if got := titles(rows); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("expected B A C, got %v", got)
	}
}

func TestRender_CollapseHidesChildren(t *testing.T) {
	state := NewCollapseState()
	state.Toggle("a")

	rows, err := Render(sampleNodes(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(rows); !equalStrings(got, []string{"B", "A"}) {
		t.Errorf("expected B A, got %v", got)
	}
	if !rows[1].Collapsed {
		t.Error("expected A to render collapsed")
	}
	if !rows[1].HasChildren {
		t.Error("collapsed A must keep its toggle")
	}
}

func TestRender_Empty(t *testing.T) {
	rows, err := Render(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty tree, got %d rows", len(rows))
	}
}

func TestRender_OrphansOmitted(t *testing.T) {
	nodes := append(sampleNodes(),
		model.Node{ID: "o", ParentID: model.Parent("missing"), Title: "Orphan"},
		model.Node{ID: "o2", ParentID: model.Parent("o"), Title: "Orphan child"},
		model.Node{ID: "e", ParentID: model.Parent(""), Title: "Empty parent"},
	)
	rows, err := Render(nodes, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(rows); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("expected orphans to be omitted, got %v", got)
	}
}

func TestRender_StableTies(t *testing.T) {
	nodes := []model.Node{
		{ID: "1", ListOrder: 2, Title: "first-2"},
		{ID: "2", ListOrder: 1, Title: "first-1"},
		{ID: "3", ListOrder: 2, Title: "second-2"},
		{ID: "4", ListOrder: 1, Title: "second-1"},
		{ID: "5", ListOrder: 1.5, Title: "middle"},
	}
	rows, err := Render(nodes, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first-1", "second-1", "middle", "first-2", "second-2"}
	if got := titles(rows); !equalStrings(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRender_ChildCountIgnored(t *testing.T) {
	nodes := []model.Node{
		{ID: "liar", ChildCount: 7, Title: "Claims children"},
		{ID: "quiet", ChildCount: 0, Title: "Has one"},
		{ID: "kid", ParentID: model.Parent("quiet"), Title: "Kid"},
	}
	rows, err := Render(nodes, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].HasChildren {
		t.Error("child_count 7 must not produce a toggle")
	}
	if !rows[1].HasChildren {
		t.Error("child_count 0 must not hide a real child")
	}
	if HasChildren(nodes, "liar") {
		t.Error("HasChildren(liar) should be false")
	}
	if !HasChildren(nodes, "quiet") {
		t.Error("HasChildren(quiet) should be true")
	}
}

func TestRender_CollapsedLeafIsIgnored(t *testing.T) {
	state := NewCollapseState()
	state.Set("b", true)

	rows, err := Render(sampleNodes(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Collapsed {
		t.Error("a leaf must never render as collapsed")
	}
}

func TestRenderSubtree(t *testing.T) {
	nodes := append(sampleNodes(),
		model.Node{ID: "d", ParentID: model.Parent("c"), ListOrder: 0, Title: "D"},
	)
	rows, err := RenderSubtree(nodes, model.Parent("a"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(rows); !equalStrings(got, []string{"C", "D"}) {
		t.Errorf("expected C D, got %v", got)
	}
	if rows[0].Depth != 0 {
		t.Errorf("expected depth relative to parent, got %d", rows[0].Depth)
	}

	none, err := RenderSubtree(nodes, model.Parent("b"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no rows under leaf, got %d", len(none))
	}
}

func TestRender_CycleUnreachable(t *testing.T) {
	nodes := append(sampleNodes(),
		model.Node{ID: "x", ParentID: model.Parent("y"), Title: "X"},
		model.Node{ID: "y", ParentID: model.Parent("x"), Title: "Y"},
	)
	rows, err := Render(nodes, nil)
	if err != nil {
		t.Fatalf("pure cycles are unreachable and must not error: %v", err)
	}
	if got := titles(rows); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("expected cycle members omitted, got %v", got)
	}
}

func TestRender_DuplicateIDFailsFast(t *testing.T) {
	nodes := []model.Node{
		{ID: "r", Title: "Root"},
		{ID: "r", ParentID: model.Parent("r"), Title: "Shadow"},
	}
	_, err := Render(nodes, nil)
	if !errors.Is(err, ErrMalformedHierarchy) {
		t.Fatalf("expected ErrMalformedHierarchy, got %v", err)
	}

	// Subtree rendering treats the requested parent as an ancestor too.
	self := []model.Node{{ID: "s", ParentID: model.Parent("s"), Title: "Self"}}
	if _, err := RenderSubtree(self, model.Parent("s"), nil); !errors.Is(err, ErrMalformedHierarchy) {
		t.Errorf("expected ErrMalformedHierarchy for self parent, got %v", err)
	}
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	nodes := sampleNodes()
	if _, err := Render(nodes, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes[0].ID != "a" || nodes[1].ID != "b" || nodes[2].ID != "c" {
		t.Errorf("input order changed: %s %s %s", nodes[0].ID, nodes[1].ID, nodes[2].ID)
	}
}

func TestSummarize(t *testing.T) {
	nodes := append(sampleNodes(),
		model.Node{ID: "d", ParentID: model.Parent("c"), Title: "D"},
		model.Node{ID: "o", ParentID: model.Parent("missing"), Title: "Orphan"},
	)
	s, err := Summarize(nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Total != 5 || s.Roots != 2 || s.Reachable != 4 || s.Unreachable != 1 || s.Levels != 3 {
		t.Errorf("unexpected stats: %+v", s)
	}

	empty, err := Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", empty)
	}
}
