package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer wraps glamour and rebuilds it when the pane width changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	theme    *Theme
	useTheme bool
}

// NewMarkdownRenderer creates a renderer using glamour's auto style.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width}
	mr.rebuild()
	return mr
}

// NewMarkdownRendererWithTheme creates a renderer whose colors follow theme.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width, theme: &theme, useTheme: true}
	mr.rebuild()
	return mr
}

func (mr *MarkdownRenderer) rebuild() {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(mr.width)}
	if mr.useTheme && mr.theme != nil {
		opts = append(opts, glamour.WithStyles(buildStyleFromTheme(*mr.theme, mr.IsDarkMode())))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		mr.renderer = nil
		return
	}
	mr.renderer = r
}

// SetWidth rebuilds the renderer for a new wrap width. Non-positive widths
// and unchanged widths are ignored.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 || width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

// SetWidthWithTheme switches to theme colors and sets the width.
func (mr *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	mr.theme = &theme
	mr.useTheme = true
	if width > 0 {
		mr.width = width
	}
	mr.rebuild()
}

// Render renders markdown, returning the input unchanged when no renderer
// could be built.
func (mr *MarkdownRenderer) Render(markdown string) (string, error) {
	if mr.renderer == nil {
		return markdown, nil
	}
	return mr.renderer.Render(markdown)
}

// IsDarkMode reports whether the terminal background is dark.
func (mr *MarkdownRenderer) IsDarkMode() bool {
	return lipgloss.HasDarkBackground()
}

func extractHex(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return strings.ToLower(c.Dark)
	}
	return strings.ToLower(c.Light)
}

// buildStyleFromTheme starts from glamour's stock style and swaps in the
// theme's text, heading and link colors.
func buildStyleFromTheme(theme Theme, dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}

	text := extractHex(theme.Text, dark)
	primary := extractHex(theme.Primary, dark)
	link := extractHex(theme.Link, dark)
	muted := extractHex(theme.Muted, dark)

	cfg.Document.Color = &text
	cfg.Heading.Color = &primary
	cfg.H1.Color = &primary
	cfg.Link.Color = &link
	cfg.LinkText.Color = &link
	cfg.BlockQuote.Color = &muted
	return cfg
}
