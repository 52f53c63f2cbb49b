package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitenav/pkg/config"
	"github.com/vanderheijden86/sitenav/pkg/debug"
	"github.com/vanderheijden86/sitenav/pkg/export"
	"github.com/vanderheijden86/sitenav/pkg/loader"
	"github.com/vanderheijden86/sitenav/pkg/model"
	"github.com/vanderheijden86/sitenav/pkg/watcher"
)

const (
	// SplitViewThreshold is the width below which one pane is shown at a time.
	SplitViewThreshold = 80

	minSidebarWidth = 24
	footerHeight    = 1
)

type focus int

const (
	focusTree focus = iota
	focusContent
)

// TreeLoadedMsg carries the result of a tree fetch.
type TreeLoadedMsg struct {
	Nodes   []model.Node
	Err     error
	Elapsed time.Duration
	gen     int
}

// ResourceLoadedMsg carries the result of a page fetch.
type ResourceLoadedMsg struct {
	Path     string
	Resource *model.Resource
	Err      error
	gen      int
}

// FileChangedMsg is sent when the watched tree file changes.
type FileChangedMsg struct {
	gen int
}

// FetchTreeCmd fetches the node list from src.
func FetchTreeCmd(ctx context.Context, src loader.Source) tea.Cmd {
	return fetchTreeCmd(ctx, src, 0)
}

func fetchTreeCmd(ctx context.Context, src loader.Source, gen int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		nodes, err := src.FetchTree(ctx)
		return TreeLoadedMsg{Nodes: nodes, Err: err, Elapsed: time.Since(start), gen: gen}
	}
}

// FetchResourceCmd fetches the page at path from src.
func FetchResourceCmd(ctx context.Context, src loader.Source, path, id string) tea.Cmd {
	return fetchResourceCmd(ctx, src, path, id, 0)
}

func fetchResourceCmd(ctx context.Context, src loader.Source, path, id string, gen int) tea.Cmd {
	return func() tea.Msg {
		res, err := src.FetchResource(ctx, id)
		return ResourceLoadedMsg{Path: path, Resource: res, Err: err, gen: gen}
	}
}

// WatchFileCmd waits for the next change of the watched tree file. It
// yields nil once the watcher is stopped or ctx ends.
func WatchFileCmd(ctx context.Context, w *watcher.Watcher) tea.Cmd {
	return watchFileCmd(ctx, w, 0)
}

func watchFileCmd(ctx context.Context, w *watcher.Watcher, gen int) tea.Cmd {
	done := w.Done()
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return FileChangedMsg{gen: gen}
		case <-done:
		case <-ctx.Done():
		}
		return nil
	}
}

// Options configures the navigator.
type Options struct {
	Context      context.Context
	Title        string
	Navigation   []model.NavItem
	SidebarWidth int
	WordWrap     int  // Markdown wrap width, 0 = pane width
	ShowStats    bool // Category totals in the footer
	InitialPath  string

	// Watcher reloads the tree when the tree file changes. Optional.
	Watcher *watcher.Watcher

	// Sites and OpenSite back the site picker. Both optional. OpenSite may
	// return a started watcher for sites served from a tree file; the model
	// stops it when switching away.
	Sites      []config.Site
	ActiveSite string
	OpenSite   func(config.Site) (loader.Source, *watcher.Watcher, error)

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// page is what the content pane currently shows.
type page struct {
	path     string
	title    string
	loading  bool
	notFound bool
	err      error
	markdown string
}

// Model is the root bubbletea model: sidebar with nav links and the category
// tree, plus a content pane.
type Model struct {
	ctx    context.Context
	source loader.Source
	opts   Options
	theme  Theme
	keys   KeyMap

	// Sidebar
	navItems  []model.NavItem
	tree      TreeModel
	treeState model.LoadState
	treeErr   error
	gen       int

	// Content
	viewport viewport.Model
	markdown *MarkdownRenderer
	page     page

	spinner spinner.Model
	help    help.Model
	watcher *watcher.Watcher

	// Overlays
	showHelp   bool
	showPicker bool
	picker     SitePickerModel

	// Layout
	focused      focus
	isSplitView  bool
	ready        bool
	width        int
	height       int
	sidebarWidth int
	contentWidth int

	statusMsg     string
	statusIsError bool
}

// NewModel creates the navigator for src. The tree starts in the loading
// state; Init issues the fetch.
func NewModel(src loader.Source, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "sitenav"
	}
	if len(opts.Navigation) == 0 {
		opts.Navigation = model.DefaultNavigation()
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = 36
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
		if os.Getenv("SN_TEST_MODE") != "" {
			opts.Clipboard = func(string) error { return nil }
		}
	}

	theme := DefaultTheme(lipgloss.DefaultRenderer())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.LoadingBox

	path := opts.InitialPath
	if path == "" {
		path = "/"
	}
	_, isResource := model.ResourceIDFromPath(path)

	m := Model{
		ctx:       opts.Context,
		source:    src,
		opts:      opts,
		theme:     theme,
		keys:      DefaultKeyMap(),
		navItems:  model.CurrentNav(opts.Navigation, path),
		tree:      NewTreeModel(theme),
		treeState: model.StateLoading,
		viewport:  viewport.New(80, 20),
		markdown:  NewMarkdownRendererWithTheme(80, theme),
		page:      page{path: path, loading: isResource},
		spinner:   sp,
		help:      help.New(),
		watcher:   opts.Watcher,
	}
	return m
}

// Init starts the tree fetch, the spinner, the file watch and the initial
// page.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, fetchTreeCmd(m.ctx, m.source, m.gen)}
	if m.watcher != nil {
		cmds = append(cmds, watchFileCmd(m.ctx, m.watcher, m.gen))
	}
	if id, ok := model.ResourceIDFromPath(m.page.path); ok {
		cmds = append(cmds, fetchResourceCmd(m.ctx, m.source, m.page.path, id, m.gen))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.renderPage()
		return m, nil

	case spinner.TickMsg:
		if m.treeState != model.StateLoading && !m.page.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TreeLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.handleTreeLoaded(msg)
		m.renderPage()
		return m, nil

	case ResourceLoadedMsg:
		if msg.gen != m.gen {
			debug.Log("ui: dropping page %s from a previous site", msg.Path)
			return m, nil
		}
		if msg.Path != m.page.path {
			debug.Log("ui: dropping stale page %s", msg.Path)
			return m, nil
		}
		m.handleResourceLoaded(msg)
		m.renderPage()
		return m, nil

	case FileChangedMsg:
		if m.watcher == nil || msg.gen != m.gen {
			return m, nil
		}
		m.statusMsg = "Tree file changed, reloading..."
		m.statusIsError = false
		return m, tea.Batch(fetchTreeCmd(m.ctx, m.source, m.gen), watchFileCmd(m.ctx, m.watcher, m.gen))

	case SwitchSiteMsg:
		m.showPicker = false
		cmd := m.switchSite(msg.Site)
		return m, cmd

	case closeSitePickerMsg:
		m.showPicker = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTreeLoaded(msg TreeLoadedMsg) {
	if msg.Err != nil {
		debug.Log("ui: tree fetch failed: %v", msg.Err)
		if m.treeState == model.StateReady {
			// Keep the tree from the last good fetch.
			m.statusMsg = fmt.Sprintf("Refresh failed: %v", msg.Err)
			m.statusIsError = true
			return
		}
		m.treeState = model.StateFailed
		m.treeErr = msg.Err
		m.statusMsg = fmt.Sprintf("Failed to retrieve categories: %v", msg.Err)
		m.statusIsError = true
		return
	}

	if err := m.tree.Build(msg.Nodes); err != nil {
		debug.Log("ui: rejected tree: %v", err)
		if m.treeState == model.StateReady {
			m.statusMsg = fmt.Sprintf("Refresh failed: %v", err)
			m.statusIsError = true
			return
		}
		m.treeState = model.StateFailed
		m.treeErr = err
		m.statusMsg = fmt.Sprintf("Failed to retrieve categories: %v", err)
		m.statusIsError = true
		return
	}

	first := m.treeState != model.StateReady
	m.treeState = model.StateReady
	m.treeErr = nil
	m.statusIsError = false
	if first {
		m.statusMsg = ""
		m.selectPageNode()
	} else {
		m.statusMsg = fmt.Sprintf("Reloaded %d categories", m.tree.Stats().Reachable)
	}
	debug.LogTiming(fmt.Sprintf("ui: tree with %d nodes", len(msg.Nodes)), msg.Elapsed)
}

// selectPageNode moves the tree cursor to the node the open page belongs to.
func (m *Model) selectPageNode() {
	for _, n := range m.tree.Nodes() {
		if n.Href == m.page.path {
			m.tree.SelectByID(n.ID)
			return
		}
	}
}

func (m *Model) handleResourceLoaded(msg ResourceLoadedMsg) {
	m.page.loading = false
	m.page.err = nil
	m.page.notFound = false

	if msg.Err != nil {
		var apiErr *loader.APIError
		if loader.IsNotFound(msg.Err) || errors.As(msg.Err, &apiErr) {
			m.page.notFound = true
			return
		}
		m.page.err = msg.Err
		return
	}
	if msg.Resource == nil {
		m.page.notFound = true
		return
	}
	if msg.Resource.Title != "" {
		m.page.title = msg.Resource.Title
	}
	m.page.markdown = msg.Resource.Content
}

func (m *Model) switchSite(site config.Site) tea.Cmd {
	if m.opts.OpenSite == nil {
		return nil
	}
	src, w, err := m.opts.OpenSite(site)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Cannot open %s: %v", site.Name, err)
		m.statusIsError = true
		return nil
	}

	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.watcher = w
	m.gen++
	m.source = src
	m.opts.ActiveSite = site.Name
	m.tree = NewTreeModel(m.theme)
	m.treeState = model.StateLoading
	m.treeErr = nil
	m.focused = focusTree
	m.statusMsg = fmt.Sprintf("Switched to %s", site.Name)
	m.statusIsError = false
	m.layout()
	m.navigate("/")

	cmds := []tea.Cmd{m.spinner.Tick, fetchTreeCmd(m.ctx, m.source, m.gen)}
	if m.watcher != nil {
		cmds = append(cmds, watchFileCmd(m.ctx, m.watcher, m.gen))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if !m.isSplitView && m.focused == focusContent {
			m.setFocus(focusTree)
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focused == focusTree {
			m.setFocus(focusContent)
		} else {
			m.setFocus(focusTree)
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.focused == focusContent {
			m.setFocus(focusTree)
		}
		return m, nil
	case key.Matches(msg, m.keys.Sites):
		cmd := m.openPicker()
		return m, cmd
	case key.Matches(msg, m.keys.NavLink):
		n := int(msg.String()[0] - '1')
		if n >= 0 && n < len(m.navItems) {
			cmd := m.navigate(m.navItems[n].Href)
			return m, cmd
		}
		return m, nil
	}

	if m.focused == focusContent {
		return m.handleContentKey(msg)
	}
	return m.handleTreeKey(msg)
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Refresh) {
		cmd := m.refreshTree()
		return m, cmd
	}

	if m.treeState != model.StateReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Top):
		m.tree.JumpToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.JumpToBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.Toggle):
		m.tree.Toggle()
	case key.Matches(msg, m.keys.Right):
		m.tree.ExpandOrMoveToChild()
	case key.Matches(msg, m.keys.Left):
		m.tree.CollapseOrJumpToParent()
	case key.Matches(msg, m.keys.Parent):
		m.tree.JumpToParent()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	case key.Matches(msg, m.keys.Open):
		if n := m.tree.SelectedNode(); n != nil {
			cmd := m.navigate(n.Href)
			if !m.isSplitView {
				m.setFocus(focusContent)
			}
			return m, cmd
		}
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	}
	return m, nil
}

func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.reloadPage()
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.LineUp(max(m.viewport.Height/2, 1))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.LineDown(max(m.viewport.Height/2, 1))
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f focus) {
	m.focused = f
	m.tree.SetFocused(f == focusTree)
}

func (m *Model) refreshTree() tea.Cmd {
	if m.treeState != model.StateReady {
		m.treeState = model.StateLoading
		m.treeErr = nil
	}
	m.statusMsg = "Refreshing categories..."
	m.statusIsError = false
	return tea.Batch(m.spinner.Tick, fetchTreeCmd(m.ctx, m.source, m.gen))
}

func (m *Model) reloadPage() tea.Cmd {
	path := m.page.path
	m.page.path = ""
	return m.navigate(path)
}

func (m *Model) copySelected() {
	n := m.tree.SelectedNode()
	if n == nil {
		return
	}
	if err := m.opts.Clipboard(n.Href); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", n.Href)
	m.statusIsError = false
}

func (m *Model) openPicker() tea.Cmd {
	if m.opts.OpenSite == nil || len(m.opts.Sites) == 0 {
		m.statusMsg = "No sites configured"
		m.statusIsError = true
		return nil
	}
	entries := make([]SiteEntry, len(m.opts.Sites))
	for i, s := range m.opts.Sites {
		entries[i] = SiteEntry{Site: s, IsActive: s.Name == m.opts.ActiveSite}
	}
	m.picker = NewSitePicker(entries, m.theme)
	m.picker.SetSize(m.width, m.height)
	m.showPicker = true
	return nil
}

// navigate opens path in the content pane. Resource paths are fetched; the
// sidebar links render built-in pages.
func (m *Model) navigate(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	m.navItems = model.CurrentNav(m.opts.Navigation, path)
	if path == m.page.path && !m.page.loading {
		return nil
	}

	m.page = page{path: path}
	for _, n := range m.tree.Nodes() {
		if n.Href == path {
			m.page.title = n.Title
			break
		}
	}

	var cmd tea.Cmd
	if id, ok := model.ResourceIDFromPath(path); ok {
		m.page.loading = true
		cmd = tea.Batch(m.spinner.Tick, fetchResourceCmd(m.ctx, m.source, path, id, m.gen))
	}
	m.renderPage()
	return cmd
}

// pageMarkdown returns the markdown for the current page.
func (m *Model) pageMarkdown() string {
	p := m.page
	switch {
	case p.notFound:
		return "# 404 - not found\n\nThe page `" + p.path + "` does not exist.\n"
	case p.err != nil && loader.IsNetworkError(p.err):
		return "# Could not reach the content API\n\n" + p.err.Error() + "\n\nCheck your connection, then press **r** in this pane to retry.\n"
	case p.err != nil:
		return "# Failed to load page\n\n" + p.err.Error() + "\n\nPress **r** in this pane to retry.\n"
	case p.markdown != "":
		if p.title != "" && !strings.HasPrefix(strings.TrimSpace(p.markdown), "#") {
			return "# " + p.title + "\n\n" + p.markdown
		}
		return p.markdown
	}

	if _, ok := model.ResourceIDFromPath(p.path); ok {
		return ""
	}

	switch p.path {
	case "/":
		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s\n\n", m.opts.Title)
		sb.WriteString("Browse the categories in the sidebar and press **o** to open a page.\n\n")
		if m.treeState == model.StateReady {
			fmt.Fprintf(&sb, "%s.\n", formatStats(m.tree.Stats()))
		}
		return sb.String()
	case "/resources":
		var sb strings.Builder
		sb.WriteString("# Resources\n\n")
		switch m.treeState {
		case model.StateLoading:
			sb.WriteString("_Loading categories..._\n")
		case model.StateFailed:
			sb.WriteString("_Failed to retrieve categories._\n")
		default:
			outline, err := export.Outline(m.tree.Nodes())
			if err != nil {
				sb.WriteString(err.Error() + "\n")
			} else {
				sb.WriteString(outline)
			}
		}
		return sb.String()
	}

	for _, item := range m.opts.Navigation {
		if item.Href == p.path {
			return "# " + item.Name + "\n\n_Nothing here yet._\n"
		}
	}
	return "# 404 - not found\n\nThe page `" + p.path + "` does not exist.\n"
}

func (m *Model) renderPage() {
	if m.page.loading {
		m.viewport.SetContent("")
		return
	}
	md := m.pageMarkdown()
	rendered, err := m.markdown.Render(md)
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
	} else {
		m.viewport.SetContent(rendered)
	}
	m.viewport.GotoTop()
}

// layout recomputes pane sizes after a resize.
func (m *Model) layout() {
	m.isSplitView = m.width >= SplitViewThreshold
	bodyHeight := max(m.height-footerHeight, 1)

	if m.isSplitView {
		m.sidebarWidth = min(max(m.opts.SidebarWidth, minSidebarWidth), m.width/2)
		m.contentWidth = m.width - m.sidebarWidth - 1 // border
	} else {
		m.sidebarWidth = m.width
		m.contentWidth = m.width
	}

	m.tree.SetSize(m.sidebarWidth-2, max(bodyHeight-m.sidebarHeaderHeight(), 1))

	m.viewport.Width = m.contentWidth
	m.viewport.Height = max(bodyHeight-1, 1) // title bar

	wrap := m.contentWidth - 2
	if m.opts.WordWrap > 0 && m.opts.WordWrap < wrap {
		wrap = m.opts.WordWrap
	}
	m.markdown.SetWidthWithTheme(max(wrap, 20), m.theme)
	m.help.Width = m.width
	m.picker.SetSize(m.width, m.height)
}

// sidebarHeaderHeight is the number of lines above the tree: title, blank,
// nav links, blank, section label.
func (m *Model) sidebarHeaderHeight() int {
	return 4 + len(m.navItems)
}

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	bodyHeight := max(m.height-footerHeight, 1)
	var body string
	switch {
	case m.showPicker:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.picker.View())
	case m.showHelp:
		ctx := helpTree
		if m.focused == focusContent {
			ctx = helpContent
		}
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, renderHelp(ctx, m.theme, m.width))
	case m.isSplitView:
		sidebar := m.theme.Renderer.NewStyle().
			Width(m.sidebarWidth).
			Height(bodyHeight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(m.theme.Border).
			Render(m.renderSidebar())
		content := m.theme.Renderer.NewStyle().
			Width(m.contentWidth).
			Height(bodyHeight).
			Render(m.renderContent())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	case m.focused == focusContent:
		body = m.theme.Renderer.NewStyle().Height(bodyHeight).Render(m.renderContent())
	default:
		body = m.theme.Renderer.NewStyle().Height(bodyHeight).Render(m.renderSidebar())
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m *Model) renderSidebar() string {
	t := m.theme
	var sb strings.Builder

	sb.WriteString(t.SiteTitle.Render(truncate(m.opts.Title, m.sidebarWidth-2)))
	sb.WriteString("\n\n")
	for _, item := range m.navItems {
		label := item.Icon + " " + item.Name
		if item.Current {
			sb.WriteString(t.NavCurrent.Render(label))
		} else {
			sb.WriteString(t.NavItem.Render(label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(t.SectionLabel.Render("CATEGORIES"))
	sb.WriteString("\n")

	switch m.treeState {
	case model.StateLoading:
		sb.WriteString(m.spinner.View() + t.LoadingBox.Render(" Loading categories"))
	case model.StateFailed:
		sb.WriteString(t.ErrorBox.Render("✗ Failed to retrieve categories"))
	default:
		sb.WriteString(m.tree.View())
	}
	return sb.String()
}

func (m *Model) renderContent() string {
	t := m.theme
	title := m.page.title
	if title == "" {
		title = m.page.path
	}
	header := t.Header.Render(truncate(title, max(m.contentWidth-2, 1)))

	if m.page.loading {
		return header + "\n\n" + m.spinner.View() + t.LoadingBox.Render(" Loading page")
	}
	return header + "\n" + m.viewport.View()
}

func (m *Model) renderFooter() string {
	t := m.theme

	var left string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		left = t.ErrorBox.Render(m.statusMsg)
	case m.statusMsg != "":
		left = t.MutedText.Render(m.statusMsg)
	case m.opts.ShowStats && m.treeState == model.StateReady:
		left = t.MutedText.Render(formatStats(m.tree.Stats()))
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Not enough room for both; the status wins.
		if left != "" {
			return " " + truncate(m.statusOrStats(), m.width-2)
		}
		return " " + right
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m *Model) statusOrStats() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	return formatStats(m.tree.Stats())
}

// --- accessors (exposed for testing) ---------------------------------------

// TreeState returns the tree fetch lifecycle state.
func (m Model) TreeState() model.LoadState {
	return m.treeState
}

// Tree returns the sidebar tree model.
func (m Model) Tree() *TreeModel {
	return &m.tree
}

// PagePath returns the path shown in the content pane.
func (m Model) PagePath() string {
	return m.page.path
}

// PageNotFound reports whether the content pane shows the 404 page.
func (m Model) PageNotFound() bool {
	return m.page.notFound
}

// PageLoading reports whether a page fetch is in flight.
func (m Model) PageLoading() bool {
	return m.page.loading
}

// Status returns the footer status message.
func (m Model) Status() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// FocusedContent reports whether the content pane has focus.
func (m Model) FocusedContent() bool {
	return m.focused == focusContent
}

// NavItems returns the sidebar links with the current one marked.
func (m Model) NavItems() []model.NavItem {
	return m.navItems
}
