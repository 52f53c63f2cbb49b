package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/sitenav/pkg/config"
)

func testSiteEntries() []SiteEntry {
	return []SiteEntry{
		{Site: config.Site{Name: "blog", API: "https://blog.example.com/api"}},
		{Site: config.Site{Name: "docs", TreeFile: "/srv/docs/sitenav.json"}, IsActive: true},
		{Site: config.Site{Name: "wiki", API: "https://wiki.example.com/api"}},
	}
}

func TestSitePicker_StartsOnActive(t *testing.T) {
	p := NewSitePicker(testSiteEntries(), TestTheme())
	if p.FilteredCount() != 3 {
		t.Errorf("expected 3 entries, got %d", p.FilteredCount())
	}
	if e := p.SelectedEntry(); e == nil || e.Site.Name != "docs" {
		t.Errorf("expected active site selected, got %+v", e)
	}
}

func TestSitePicker_Navigate(t *testing.T) {
	p := NewSitePicker(testSiteEntries(), TestTheme())
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", p.Cursor())
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.Cursor() != 2 {
		t.Error("cursor must stop at the last entry")
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.Cursor() != 0 {
		t.Errorf("expected cursor 0, got %d", p.Cursor())
	}
}

func TestSitePicker_Filter(t *testing.T) {
	p := NewSitePicker(testSiteEntries(), TestTheme())
	for _, r := range "wik" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if p.FilteredCount() != 1 {
		t.Fatalf("expected 1 match, got %d", p.FilteredCount())
	}
	if e := p.SelectedEntry(); e == nil || e.Site.Name != "wiki" {
		t.Errorf("expected wiki, got %+v", e)
	}

	for _, r := range "zzz" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if p.FilteredCount() != 0 || p.SelectedEntry() != nil {
		t.Error("expected no matches")
	}
	if _, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter with no match must not switch")
	}
}

func TestSitePicker_EnterAndEsc(t *testing.T) {
	p := NewSitePicker(testSiteEntries(), TestTheme())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected switch command")
	}
	msg, ok := cmd().(SwitchSiteMsg)
	if !ok || msg.Site.Name != "docs" {
		t.Errorf("unexpected message %#v", msg)
	}

	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(closeSitePickerMsg); !ok {
		t.Error("expected closeSitePickerMsg")
	}
}

func TestSitePicker_Empty(t *testing.T) {
	p := NewSitePicker(nil, TestTheme())
	if p.SelectedEntry() != nil {
		t.Error("expected no selection")
	}
	if v := p.View(); v == "" {
		t.Error("expected view to render")
	}
}

func TestRenderHelp(t *testing.T) {
	for _, ctx := range []helpContext{helpTree, helpContent, helpPicker} {
		out := renderHelp(ctx, TestTheme(), 100)
		if out == "" {
			t.Errorf("empty help for context %d", ctx)
		}
	}
	if getHelp(helpContext(42)) != helpTextTree {
		t.Error("expected unknown context to fall back to tree help")
	}
}
