package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/sitenav/pkg/config"
	"github.com/vanderheijden86/sitenav/pkg/debug"
	"github.com/vanderheijden86/sitenav/pkg/export"
	"github.com/vanderheijden86/sitenav/pkg/loader"
	"github.com/vanderheijden86/sitenav/pkg/model"
	"github.com/vanderheijden86/sitenav/pkg/nav"
	"github.com/vanderheijden86/sitenav/pkg/ui"
	"github.com/vanderheijden86/sitenav/pkg/version"
	"github.com/vanderheijden86/sitenav/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	apiURL := flag.String("api", "", "Content API base URL (e.g., https://example.com/api)")
	treeFile := flag.String("tree-file", "", "Load categories from a local JSON file instead of the API")
	configPath := flag.String("config", "", "Config file (default ~/.config/sitenav/config.yaml)")
	initFlag := flag.Bool("init", false, "Run the interactive setup and write the config file")
	siteName := flag.String("site", "", "Use a site registered in the config file")
	printTreeFlag := flag.Bool("tree", false, "Print the category tree and exit")
	printJSON := flag.Bool("tree-json", false, "Print the category tree as JSON and exit")
	collapseFlag := flag.String("collapse", "", "Comma-separated ids to collapse in --tree output ('all' collapses everything)")
	openPath := flag.String("open", "", "Page to show on startup (e.g., /resources/42/intro)")
	exportFile := flag.String("export-md", "", "Export the site to a Markdown file (e.g., site.md)")
	exportGraph := flag.String("export-graph", "", "Export a sitemap diagram (.svg or .png)")
	exportTree := flag.String("export-tree", "", "Save the fetched tree as a tree file for --tree-file")
	noWatch := flag.Bool("no-watch", false, "Do not reload when the tree file changes")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sn [options]")
		fmt.Println("\nA terminal navigator for a site's category tree and pages.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("sn %s\n", version.Version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if err := config.LoadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env: %v\n", err)
	}

	if *initFlag {
		if err := config.RunWizard(&cfg, path, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *siteName != "" {
		if err := cfg.UseSite(*siteName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *apiURL != "" {
		cfg.API = *apiURL
	}
	if *treeFile != "" {
		cfg.TreeFile = *treeFile
	}
	if *openPath != "" && !strings.HasPrefix(*openPath, "/") {
		fmt.Fprintf(os.Stderr, "Error: --open expects an absolute path like /resources/42/intro, got %q\n", *openPath)
		os.Exit(1)
	}

	active := config.Site{Name: *siteName, API: cfg.API, TreeFile: cfg.TreeFile}
	src, err := openSource(active, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *printTreeFlag || *printJSON || *exportFile != "" || *exportGraph != "" || *exportTree != "" {
		if err := runBatch(ctx, src, cfg, batchOptions{
			printTree:   *printTreeFlag,
			printJSON:   *printJSON,
			collapse:    *collapseFlag,
			exportMD:    *exportFile,
			exportGraph: *exportGraph,
			exportTree:  *exportTree,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: sn needs a terminal; use --tree or --tree-json for plain output")
		os.Exit(1)
	}

	// The model stops a site's watcher when switching away; whichever is
	// current at exit is stopped here.
	var current *watcher.Watcher
	defer func() {
		if current != nil {
			current.Stop()
		}
	}()
	if cfg.TreeFile != "" && !*noWatch {
		if current, err = startWatcher(cfg.TreeFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Live reload disabled: %v\n", err)
		}
	}

	m := ui.NewModel(src, ui.Options{
		Context:      ctx,
		Title:        cfg.Title,
		Navigation:   cfg.Navigation,
		SidebarWidth: cfg.UI.SidebarWidth,
		WordWrap:     cfg.UI.WordWrap,
		ShowStats:    cfg.UI.ShowStats,
		InitialPath:  *openPath,
		Watcher:      current,
		Sites:        config.DiscoverSites(cfg),
		ActiveSite:   *siteName,
		OpenSite: func(s config.Site) (loader.Source, *watcher.Watcher, error) {
			src, err := openSource(s, cfg)
			if err != nil {
				return nil, nil, err
			}
			var w *watcher.Watcher
			if s.TreeFile != "" && !*noWatch {
				if w, err = startWatcher(s.TreeFile); err != nil {
					debug.Log("watcher: live reload disabled for %s: %v", s.Name, err)
				}
			}
			current = w
			return src, w, nil
		},
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running sitenav: %v\n", err)
		os.Exit(1)
	}
}

// startWatcher watches a tree file for live reload. It returns nil and the
// error when watching cannot start.
func startWatcher(path string) (*watcher.Watcher, error) {
	w, err := watcher.New(path, watcher.WithOnError(func(err error) {
		debug.Log("watcher: %v", err)
	}))
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// openSource builds the content source for a site. A tree file takes the
// tree from disk and still asks the API for pages it does not carry.
func openSource(site config.Site, cfg config.Config) (loader.Source, error) {
	api := site.API
	if api == "" {
		api = cfg.API
	}

	var client *loader.Client
	if api != "" {
		if err := config.ValidateAPIURL(api); err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", api, err)
		}
		client = loader.NewClient(api,
			loader.WithTimeout(cfg.Timeout()),
			loader.WithRateLimit(cfg.Network.RateLimit),
			loader.WithUserAgent("sitenav/"+version.Version),
		)
	}

	if site.TreeFile != "" {
		if _, err := os.Stat(site.TreeFile); err != nil {
			return nil, fmt.Errorf("tree file: %w", err)
		}
		fs := &loader.FileSource{Path: site.TreeFile}
		if client != nil {
			fs.Fallback = client
		}
		return fs, nil
	}
	if client == nil {
		return nil, fmt.Errorf("no content API or tree file configured (run sn --init)")
	}
	return client, nil
}

type batchOptions struct {
	printTree   bool
	printJSON   bool
	collapse    string
	exportMD    string
	exportGraph string
	exportTree  string
}

// runBatch fetches the tree once and runs the non-interactive modes.
func runBatch(ctx context.Context, src loader.Source, cfg config.Config, opts batchOptions) error {
	start := time.Now()
	nodes, err := src.FetchTree(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve categories: %w", err)
	}
	debug.LogTiming("fetch tree", time.Since(start))

	for _, warn := range loader.ValidateNodes(nodes) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warn)
	}

	collapsed := parseCollapse(opts.collapse, nodes)
	if opts.printJSON {
		if err := writeTreeJSON(os.Stdout, nodes, collapsed); err != nil {
			return err
		}
	} else if opts.printTree {
		if err := writeTree(os.Stdout, nodes, collapsed); err != nil {
			return err
		}
	}

	if opts.exportMD != "" {
		fmt.Fprintf(os.Stderr, "Exporting to %s...\n", opts.exportMD)
		if err := export.SaveMarkdownToFile(ctx, opts.exportMD, nodes, src, export.MarkdownOptions{
			Title: cfg.Title,
		}); err != nil {
			return fmt.Errorf("exporting markdown: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Done!")
	}

	if opts.exportGraph != "" {
		fmt.Fprintf(os.Stderr, "Exporting sitemap to %s...\n", opts.exportGraph)
		if err := export.SaveSitemap(export.SitemapOptions{
			Path:  opts.exportGraph,
			Title: cfg.Title,
			Nodes: nodes,
		}); err != nil {
			return fmt.Errorf("exporting sitemap: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Done!")
	}

	if opts.exportTree != "" {
		if err := loader.SaveTreeFile(opts.exportTree, nodes); err != nil {
			return fmt.Errorf("saving tree file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %d categories to %s\n", len(nodes), opts.exportTree)
	}
	return nil
}

// parseCollapse turns the --collapse value into a collapse state. "all"
// collapses every node that has children. Unknown ids are kept; they have
// no effect on rendering.
func parseCollapse(value string, nodes []model.Node) nav.CollapseState {
	collapsed := nav.NewCollapseState()
	value = strings.TrimSpace(value)
	if value == "" {
		return collapsed
	}
	if strings.EqualFold(value, "all") {
		collapsed.CollapseAll(nodes)
		return collapsed
	}
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			collapsed.Set(id, true)
		}
	}
	return collapsed
}

// writeTree prints the visible rows with the same affordances as the TUI.
func writeTree(w io.Writer, nodes []model.Node, collapsed nav.CollapseState) error {
	rows, err := nav.Render(nodes, collapsed)
	if err != nil {
		return err
	}
	for _, r := range nav.Flatten(rows) {
		indicator := " "
		if r.HasChildren {
			indicator = "▾"
			if r.Collapsed {
				indicator = "▸"
			}
		}
		line := strings.Repeat("  ", r.Depth) + indicator + " " + r.Node.Title
		if r.Node.Href != "" {
			line += "  " + r.Node.Href
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonRow struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Href        string    `json:"href,omitempty"`
	Depth       int       `json:"depth"`
	HasChildren bool      `json:"has_children"`
	Collapsed   bool      `json:"collapsed,omitempty"`
	Children    []jsonRow `json:"children,omitempty"`
}

type jsonTree struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	Stats       jsonStats `json:"stats"`
	Tree        []jsonRow `json:"tree"`
}

type jsonStats struct {
	Total       int `json:"total"`
	Roots       int `json:"roots"`
	Reachable   int `json:"reachable"`
	Unreachable int `json:"unreachable"`
	Levels      int `json:"levels"`
}

func toJSONRows(rows []nav.Row) []jsonRow {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, jsonRow{
			ID:          r.Node.ID,
			Title:       r.Node.Title,
			Href:        r.Node.Href,
			Depth:       r.Depth,
			HasChildren: r.HasChildren,
			Collapsed:   r.Collapsed,
			Children:    toJSONRows(r.Children),
		})
	}
	return out
}

// writeTreeJSON prints the nested tree and its totals.
func writeTreeJSON(w io.Writer, nodes []model.Node, collapsed nav.CollapseState) error {
	stats, err := nav.Summarize(nodes)
	if err != nil {
		return err
	}
	rows, err := nav.Render(nodes, collapsed)
	if err != nil {
		return err
	}
	out := jsonTree{
		GeneratedAt: time.Now().UTC(),
		Version:     version.Version,
		Stats: jsonStats{
			Total:       stats.Total,
			Roots:       stats.Roots,
			Reachable:   stats.Reachable,
			Unreachable: stats.Unreachable,
			Levels:      stats.Levels,
		},
		Tree: toJSONRows(rows),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
