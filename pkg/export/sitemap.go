package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/sitenav/pkg/model"
	"github.com/vanderheijden86/sitenav/pkg/nav"
)

// SitemapOptions controls sitemap diagram export.
type SitemapOptions struct {
	Path   string       // Output path; format inferred from extension when Format empty
	Format string       // "svg" or "png" (case-insensitive)
	Title  string       // Rendered in the header block
	Nodes  []model.Node // Flat node list; rendered fully expanded
}

// SaveSitemap renders the category forest as an indented box diagram.
func SaveSitemap(opts SitemapOptions) error {
	if len(opts.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	layout, err := buildSitemapLayout(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderSitemapSVG(f, layout)
	default:
		return renderSitemapPNG(opts.Path, layout)
	}
}

// --- layout ---------------------------------------------------------------

const (
	boxW      = 240.0
	boxH      = 28.0
	rowGap    = 10.0
	indentW   = 36.0
	marginX   = 24.0
	headerH   = 72.0
	maxLabel  = 30
	minCanvas = 360
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorRoot     = color.RGBA{0xe0, 0xe7, 0xff, 0xff}
	colorBranch   = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorLeaf     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge     = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

type sitemapBox struct {
	Title       string
	X, Y        float64
	Depth       int
	HasChildren bool
	Parent      int // Index of the parent box, -1 for roots
}

type sitemapLayout struct {
	Width, Height int
	Title         string
	Summary       string
	Boxes         []sitemapBox
}

func buildSitemapLayout(opts SitemapOptions) (sitemapLayout, error) {
	rows, err := nav.Render(opts.Nodes, nil)
	if err != nil {
		return sitemapLayout{}, err
	}
	stats, err := nav.Summarize(opts.Nodes)
	if err != nil {
		return sitemapLayout{}, err
	}

	title := opts.Title
	if title == "" {
		title = "Sitemap"
	}
	layout := sitemapLayout{
		Title:   title,
		Summary: fmt.Sprintf("categories: %d  top level: %d  depth: %d", stats.Reachable, stats.Roots, stats.Levels),
	}

	maxDepth := 0
	var place func(rows []nav.Row, parent int)
	place = func(rows []nav.Row, parent int) {
		for _, r := range rows {
			i := len(layout.Boxes)
			layout.Boxes = append(layout.Boxes, sitemapBox{
				Title:       r.Node.Title,
				X:           marginX + float64(r.Depth)*indentW,
				Y:           headerH + float64(i)*(boxH+rowGap),
				Depth:       r.Depth,
				HasChildren: r.HasChildren,
				Parent:      parent,
			})
			maxDepth = max(maxDepth, r.Depth)
			place(r.Children, i)
		}
	}
	place(rows, -1)

	layout.Width = max(int(2*marginX+float64(maxDepth)*indentW+boxW), minCanvas)
	layout.Height = int(headerH + float64(len(layout.Boxes))*(boxH+rowGap) + marginX)
	return layout, nil
}

func boxColor(b sitemapBox) color.RGBA {
	switch {
	case b.Depth == 0:
		return colorRoot
	case b.HasChildren:
		return colorBranch
	default:
		return colorLeaf
	}
}

// --- SVG ------------------------------------------------------------------

func renderSitemapSVG(w io.Writer, layout sitemapLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(12, 12, layout.Width-24, int(headerH-24), 8, 8, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(24, 34, layout.Title, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(24, 52, layout.Summary, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	// Elbow connectors from the parent's left edge down and across to the child.
	for _, b := range layout.Boxes {
		if b.Parent < 0 {
			continue
		}
		p := layout.Boxes[b.Parent]
		x := int(p.X + indentW/2)
		canvas.Polyline(
			[]int{x, x, int(b.X)},
			[]int{int(p.Y + boxH), int(b.Y + boxH/2), int(b.Y + boxH/2)},
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", css(colorEdge)),
		)
	}

	for _, b := range layout.Boxes {
		canvas.Roundrect(int(b.X), int(b.Y), int(boxW), int(boxH), 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(boxColor(b)), css(colorStroke)))
		canvas.Text(int(b.X)+10, int(b.Y)+18, truncate(b.Title, maxLabel),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
	}

	canvas.End()
	return nil
}

// --- PNG ------------------------------------------------------------------

func renderSitemapPNG(path string, layout sitemapLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(12, 12, float64(layout.Width)-24, headerH-24, 8)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 24, 30, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Summary, 24, 48, 0, 0.5)

	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	for _, b := range layout.Boxes {
		if b.Parent < 0 {
			continue
		}
		p := layout.Boxes[b.Parent]
		x := p.X + indentW/2
		dc.MoveTo(x, p.Y+boxH)
		dc.LineTo(x, b.Y+boxH/2)
		dc.LineTo(b.X, b.Y+boxH/2)
		dc.Stroke()
	}

	for _, b := range layout.Boxes {
		dc.SetColor(boxColor(b))
		dc.DrawRoundedRectangle(b.X, b.Y, boxW, boxH, 6)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(b.X, b.Y, boxW, boxH, 6)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(b.Title, maxLabel), b.X+10, b.Y+boxH/2, 0, 0.5)
	}

	return dc.SavePNG(path)
}

// --- helpers --------------------------------------------------------------

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
