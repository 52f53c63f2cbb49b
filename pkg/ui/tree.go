// tree.go - Collapsible category tree in the sidebar
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitenav/pkg/debug"
	"github.com/vanderheijden86/sitenav/pkg/model"
	"github.com/vanderheijden86/sitenav/pkg/nav"
)

// Toggle affordances. Leaves get blank padding of the same width so titles
// line up.
const (
	indicatorExpanded  = "▾"
	indicatorCollapsed = "▸"
	indicatorLeaf      = " "
)

// treeLine is one visible row plus what is needed to draw its guides.
type treeLine struct {
	row       nav.Row
	parentIdx int    // Index of the parent line, -1 for top level
	last      bool   // Last among its siblings
	guides    []bool // Per ancestor level below the roots: draw a │
}

// TreeModel manages the sidebar tree: the node list, the session's collapse
// state and a cursor over the visible rows.
type TreeModel struct {
	nodes     []model.Node
	collapsed nav.CollapseState
	lines     []treeLine
	cursor    int
	offset    int // Index of first visible line
	theme     Theme
	width     int
	height    int
	focused   bool

	stats nav.Stats
	err   error
	built bool
}

// NewTreeModel creates an empty tree model with every node expanded.
func NewTreeModel(theme Theme) TreeModel {
	return TreeModel{
		theme:     theme,
		collapsed: nav.NewCollapseState(),
		focused:   true,
	}
}

// SetSize updates the available dimensions for the tree view
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetFocused controls whether the selection is drawn highlighted.
func (t *TreeModel) SetFocused(f bool) {
	t.focused = f
}

// Build replaces the node list. Collapse entries for ids that disappeared
// are dropped and the cursor stays on the same node when it still exists.
// A list that cannot be rendered is rejected and the tree keeps showing the
// previous one.
func (t *TreeModel) Build(nodes []model.Node) error {
	stats, err := nav.Summarize(nodes)
	if err != nil {
		if !t.built {
			t.built = true
			t.err = err
		}
		return err
	}

	prev := t.SelectedID()
	t.nodes = nodes
	t.stats = stats
	t.built = true
	t.err = nil
	if removed := t.collapsed.Prune(nodes); removed > 0 {
		debug.Log("tree: pruned %d stale collapse entries", removed)
	}
	t.rebuild()

	if prev == "" || !t.SelectByID(prev) {
		t.clampCursor()
	}
	return nil
}

// rebuild re-renders the forest and flattens it into visible lines.
func (t *TreeModel) rebuild() {
	rows, err := nav.Render(t.nodes, t.collapsed)
	if err != nil {
		t.err = err
		t.lines = nil
		return
	}

	t.lines = t.lines[:0]
	var walk func(rows []nav.Row, parentIdx int, guides []bool)
	walk = func(rows []nav.Row, parentIdx int, guides []bool) {
		for i, r := range rows {
			last := i == len(rows)-1
			t.lines = append(t.lines, treeLine{
				row:       r,
				parentIdx: parentIdx,
				last:      last,
				guides:    guides,
			})
			idx := len(t.lines) - 1
			if len(r.Children) == 0 {
				continue
			}
			childGuides := guides
			if r.Depth > 0 {
				childGuides = append(append([]bool(nil), guides...), !last)
			}
			walk(r.Children, idx, childGuides)
		}
	}
	walk(rows, -1, nil)
	t.clampCursor()
}

func (t *TreeModel) clampCursor() {
	if t.cursor >= len(t.lines) {
		t.cursor = len(t.lines) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) ensureCursorVisible() {
	h := t.visibleHeight()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+h {
		t.offset = t.cursor - h + 1
	}
	if last := len(t.lines) - h; t.offset > last {
		t.offset = last
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *TreeModel) visibleHeight() int {
	if t.height <= 0 {
		return 20
	}
	return t.height
}

// View renders the visible slice of the tree.
func (t *TreeModel) View() string {
	if t.err != nil {
		return t.theme.ErrorBox.Render("✗ " + t.err.Error())
	}
	if !t.built || len(t.lines) == 0 {
		return t.theme.MutedText.Render("No categories")
	}

	start, end := t.visibleRange()
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(t.renderLine(i))
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *TreeModel) visibleRange() (start, end int) {
	start = t.offset
	end = start + t.visibleHeight()
	if end > len(t.lines) {
		end = len(t.lines)
	}
	return start, end
}

func (t *TreeModel) renderLine(i int) string {
	line := t.lines[i]
	prefix := t.buildTreePrefix(line)

	indicator := indicatorLeaf
	if line.row.HasChildren {
		indicator = indicatorExpanded
		if line.row.Collapsed {
			indicator = indicatorCollapsed
		}
	}

	maxTitle := t.width - lipgloss.Width(prefix) - 2
	if maxTitle < 4 {
		maxTitle = 4
	}
	title := truncate(line.row.Node.Title, maxTitle)

	if i == t.cursor && t.focused {
		return t.theme.TreeGuide.Render(prefix) + t.theme.Selected.Render(indicator+" "+padRight(title, maxTitle))
	}
	return t.theme.TreeGuide.Render(prefix) + t.theme.Chevron.Render(indicator) + " " + t.theme.LinkText.Render(title)
}

// buildTreePrefix draws the indentation and branch characters for a line.
func (t *TreeModel) buildTreePrefix(line treeLine) string {
	if line.row.Depth == 0 {
		return ""
	}
	var sb strings.Builder
	for _, g := range line.guides {
		if g {
			sb.WriteString("│  ")
		} else {
			sb.WriteString("   ")
		}
	}
	if line.last {
		sb.WriteString("└─ ")
	} else {
		sb.WriteString("├─ ")
	}
	return sb.String()
}

// SelectedNode returns the node under the cursor, or nil.
func (t *TreeModel) SelectedNode() *model.Node {
	if t.cursor >= 0 && t.cursor < len(t.lines) {
		n := t.lines[t.cursor].row.Node.Clone()
		return &n
	}
	return nil
}

// SelectedID returns the id under the cursor, or "".
func (t *TreeModel) SelectedID() string {
	if n := t.SelectedNode(); n != nil {
		return n.ID
	}
	return ""
}

// SelectByID moves the cursor to the visible node with the given id.
func (t *TreeModel) SelectByID(id string) bool {
	for i, l := range t.lines {
		if l.row.Node.ID == id {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down one line.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.lines)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// MoveUp moves the cursor up one line.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// JumpToTop moves the cursor to the first line.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last line.
func (t *TreeModel) JumpToBottom() {
	if len(t.lines) > 0 {
		t.cursor = len(t.lines) - 1
		t.ensureCursorVisible()
	}
}

// PageDown moves the cursor down by half a page.
func (t *TreeModel) PageDown() {
	t.cursor += max(t.visibleHeight()/2, 1)
	t.clampCursor()
}

// PageUp moves the cursor up by half a page.
func (t *TreeModel) PageUp() {
	t.cursor -= max(t.visibleHeight()/2, 1)
	t.clampCursor()
}

// Toggle flips the selected node between expanded and collapsed. Leaves have
// no toggle and are ignored.
func (t *TreeModel) Toggle() {
	if t.cursor < 0 || t.cursor >= len(t.lines) {
		return
	}
	if !t.lines[t.cursor].row.HasChildren {
		return
	}
	t.ToggleByID(t.lines[t.cursor].row.Node.ID)
}

// ToggleByID flips the collapse state of id if it has children.
func (t *TreeModel) ToggleByID(id string) bool {
	if !nav.HasChildren(t.nodes, id) {
		return false
	}
	sel := t.SelectedID()
	t.collapsed.Toggle(id)
	t.rebuild()
	if sel != "" {
		t.SelectByID(sel)
	}
	return true
}

// JumpToParent moves the cursor to the selected node's parent.
func (t *TreeModel) JumpToParent() {
	if t.cursor < 0 || t.cursor >= len(t.lines) {
		return
	}
	if p := t.lines[t.cursor].parentIdx; p >= 0 {
		t.cursor = p
		t.ensureCursorVisible()
	}
}

// ExpandOrMoveToChild expands a collapsed node, or steps into the first
// child of an expanded one. Leaves are left alone.
func (t *TreeModel) ExpandOrMoveToChild() {
	if t.cursor < 0 || t.cursor >= len(t.lines) {
		return
	}
	row := t.lines[t.cursor].row
	if !row.HasChildren {
		return
	}
	if row.Collapsed {
		t.ToggleByID(row.Node.ID)
		return
	}
	// An expanded node's first child is the next line.
	if t.cursor+1 < len(t.lines) {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// CollapseOrJumpToParent collapses an expanded node, otherwise moves to the
// parent.
func (t *TreeModel) CollapseOrJumpToParent() {
	if t.cursor < 0 || t.cursor >= len(t.lines) {
		return
	}
	row := t.lines[t.cursor].row
	if row.HasChildren && !row.Collapsed {
		t.ToggleByID(row.Node.ID)
		return
	}
	t.JumpToParent()
}

// ExpandAll expands every node.
func (t *TreeModel) ExpandAll() {
	sel := t.SelectedID()
	t.collapsed.ExpandAll()
	t.rebuild()
	t.SelectByID(sel)
}

// CollapseAll collapses every node with children. The cursor falls back to
// the selected node's top-level ancestor.
func (t *TreeModel) CollapseAll() {
	root := t.topLevelAncestor()
	t.collapsed.CollapseAll(t.nodes)
	t.rebuild()
	t.SelectByID(root)
}

func (t *TreeModel) topLevelAncestor() string {
	i := t.cursor
	if i < 0 || i >= len(t.lines) {
		return ""
	}
	for t.lines[i].parentIdx >= 0 {
		i = t.lines[i].parentIdx
	}
	return t.lines[i].row.Node.ID
}

// Collapsed exposes the session collapse state.
func (t *TreeModel) Collapsed() nav.CollapseState {
	return t.collapsed
}

// Nodes returns the node list the tree was built from.
func (t *TreeModel) Nodes() []model.Node {
	return t.nodes
}

// Stats returns totals computed at the last Build.
func (t *TreeModel) Stats() nav.Stats {
	return t.stats
}

// Err returns the render error from the last Build, if any.
func (t *TreeModel) Err() error {
	return t.err
}

// IsBuilt returns whether the tree has been built.
func (t *TreeModel) IsBuilt() bool {
	return t.built
}

// NodeCount returns the number of visible lines.
func (t *TreeModel) NodeCount() int {
	return len(t.lines)
}

// VisibleIDs returns the ids of the visible lines in display order.
func (t *TreeModel) VisibleIDs() []string {
	ids := make([]string, len(t.lines))
	for i, l := range t.lines {
		ids[i] = l.row.Node.ID
	}
	return ids
}
