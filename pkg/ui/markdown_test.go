package ui

import (
	"strings"
	"testing"
)

func TestMarkdownRenderer_RendersPage(t *testing.T) {
	mr := NewMarkdownRendererWithTheme(60, TestTheme())
	if mr.renderer == nil {
		t.Fatal("expected glamour renderer to be built")
	}
	out, err := mr.Render("# Getting Started\n\nRead the [intro](/resources/1/intro).")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "Getting Started") {
		t.Errorf("expected heading in output, got: %s", out)
	}
}

func TestMarkdownRenderer_FallsBackToRawText(t *testing.T) {
	mr := &MarkdownRenderer{width: 40}
	out, err := mr.Render("*plain*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "*plain*" {
		t.Errorf("expected raw markdown without renderer, got %q", out)
	}
}

func TestMarkdownRenderer_Width(t *testing.T) {
	mr := NewMarkdownRenderer(80)
	if mr.useTheme || mr.theme != nil {
		t.Error("expected auto style without a theme")
	}
	before := mr.renderer

	mr.SetWidth(80)
	if mr.renderer != before {
		t.Error("unchanged width must not rebuild the renderer")
	}
	for _, w := range []int{0, -5} {
		mr.SetWidth(w)
		if mr.width != 80 {
			t.Errorf("SetWidth(%d) changed width to %d", w, mr.width)
		}
	}

	mr.SetWidthWithTheme(50, TestTheme())
	if mr.width != 50 || !mr.useTheme || mr.theme == nil {
		t.Errorf("expected themed renderer at width 50, got width=%d useTheme=%v", mr.width, mr.useTheme)
	}

	// Later width changes keep the theme.
	mr.SetWidth(70)
	if !mr.useTheme {
		t.Error("expected theme to survive SetWidth")
	}
}

func TestBuildStyleFromTheme_Colors(t *testing.T) {
	theme := TestTheme()

	dark := buildStyleFromTheme(theme, true)
	if dark.Document.Color == nil || *dark.Document.Color != "#f8f8f2" {
		t.Errorf("unexpected dark document color %v", dark.Document.Color)
	}
	if *dark.Link.Color != "#8be9fd" {
		t.Errorf("expected dark link color #8be9fd, got %s", *dark.Link.Color)
	}

	light := buildStyleFromTheme(theme, false)
	if *light.Document.Color != "#000000" {
		t.Errorf("expected light document color #000000, got %s", *light.Document.Color)
	}
	if *light.H1.Color != "#6b47d9" {
		t.Errorf("expected light heading color #6b47d9, got %s", *light.H1.Color)
	}
}
