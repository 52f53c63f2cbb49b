package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sitenav/pkg/debug"
	"github.com/vanderheijden86/sitenav/pkg/model"
	"github.com/vanderheijden86/sitenav/pkg/nav"
)

// DefaultConcurrency bounds parallel page fetches during an export.
const DefaultConcurrency = 4

// ResourceFetcher fetches the markdown page behind a node.
type ResourceFetcher interface {
	FetchResource(ctx context.Context, id string) (*model.Resource, error)
}

// MarkdownOptions controls markdown export.
type MarkdownOptions struct {
	Title       string    // Document heading, defaults to "Site Export"
	Concurrency int       // Parallel fetches, defaults to DefaultConcurrency
	GeneratedAt time.Time // Zero means now
}

type pageResult struct {
	resource *model.Resource
	err      error
}

// Outline renders the fully expanded tree as a nested markdown list of links.
func Outline(nodes []model.Node) (string, error) {
	rows, err := nav.Render(nodes, nil)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range nav.Flatten(rows) {
		sb.WriteString(strings.Repeat("  ", r.Depth))
		if r.Node.Href != "" {
			fmt.Fprintf(&sb, "- [%s](%s)\n", linkText(r.Node.Title), linkDest(r.Node.Href))
		} else {
			fmt.Fprintf(&sb, "- %s\n", r.Node.Title)
		}
	}
	return sb.String(), nil
}

// GenerateMarkdown creates a single markdown document with the category
// outline followed by every reachable page. Pages are fetched concurrently;
// a page that cannot be fetched is noted in place and does not fail the
// export. Only cancellation of ctx aborts it.
func GenerateMarkdown(ctx context.Context, nodes []model.Node, fetcher ResourceFetcher, opts MarkdownOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = "Site Export"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	rows, err := nav.Render(nodes, nil)
	if err != nil {
		return "", err
	}
	flat := nav.Flatten(rows)
	stats, err := nav.Summarize(nodes)
	if err != nil {
		return "", err
	}

	results := make([]pageResult, len(flat))
	if fetcher != nil {
		start := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for i, r := range flat {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := fetcher.FetchResource(gctx, r.Node.ResourceID())
				results[i] = pageResult{resource: res, err: err}
				return nil // Per-page failures are recorded, not propagated
			})
		}
		if err := g.Wait(); err != nil {
			return "", fmt.Errorf("export cancelled: %w", err)
		}
		debug.LogTiming(fmt.Sprintf("export: fetched %d pages", len(flat)), time.Since(start))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", opts.Title)
	fmt.Fprintf(&sb, "Generated: %s\n\n", opts.GeneratedAt.Format(time.RFC1123))

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Categories**: %d\n", stats.Reachable)
	fmt.Fprintf(&sb, "- **Top level**: %d\n", stats.Roots)
	fmt.Fprintf(&sb, "- **Depth**: %d\n", stats.Levels)
	if stats.Unreachable > 0 {
		fmt.Fprintf(&sb, "- **Unreachable**: %d\n", stats.Unreachable)
	}
	sb.WriteString("\n## Contents\n\n")
	for _, r := range flat {
		sb.WriteString(strings.Repeat("  ", r.Depth))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", linkText(r.Node.Title), anchor(r.Node.Title))
	}
	sb.WriteString("\n---\n\n")

	if fetcher == nil {
		return sb.String(), nil
	}

	for i, r := range flat {
		level := min(r.Depth+2, 6)
		fmt.Fprintf(&sb, "%s %s\n\n", strings.Repeat("#", level), r.Node.Title)
		res := results[i]
		switch {
		case res.err != nil:
			fmt.Fprintf(&sb, "_Page not available: %v_\n\n", res.err)
		case res.resource == nil || strings.TrimSpace(res.resource.Content) == "":
			sb.WriteString("_No content._\n\n")
		default:
			sb.WriteString(strings.TrimRight(res.resource.Content, "\n"))
			sb.WriteString("\n\n")
		}
	}
	return sb.String(), nil
}

var (
	linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	linkDestEscaper = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "<", "%3C", ">", "%3E")
)

// linkText escapes a title for use inside [...].
func linkText(title string) string {
	return linkTextEscaper.Replace(title)
}

// linkDest percent-encodes the characters that end or split a (...) link
// destination.
func linkDest(href string) string {
	return linkDestEscaper.Replace(href)
}

// anchor approximates the heading id most renderers generate.
func anchor(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(ctx context.Context, path string, nodes []model.Node, fetcher ResourceFetcher, opts MarkdownOptions) error {
	content, err := GenerateMarkdown(ctx, nodes, fetcher, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
