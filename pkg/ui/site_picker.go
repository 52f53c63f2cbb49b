package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/sitenav/pkg/config"
)

// SiteEntry holds display data for one site in the picker.
type SiteEntry struct {
	Site     config.Site
	IsActive bool // Currently loaded site
}

// SwitchSiteMsg is sent when the user picks a site.
type SwitchSiteMsg struct {
	Site config.Site
}

// closeSitePickerMsg dismisses the picker without switching.
type closeSitePickerMsg struct{}

// SitePickerModel is a filterable list of configured and discovered sites.
type SitePickerModel struct {
	entries     []SiteEntry
	filtered    []int // indices into entries
	cursor      int
	width       int
	height      int
	filterInput textinput.Model
	theme       Theme
}

// NewSitePicker creates a picker over entries with the active site selected.
func NewSitePicker(entries []SiteEntry, theme Theme) SitePickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 50
	ti.Width = 30
	ti.Focus()

	m := SitePickerModel{
		entries:     entries,
		filterInput: ti,
		theme:       theme,
	}
	m.applyFilter()
	for i, idx := range m.filtered {
		if entries[idx].IsActive {
			m.cursor = i
			break
		}
	}
	return m
}

// SetSize updates the picker dimensions.
func (m *SitePickerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles keyboard input for the site picker.
func (m SitePickerModel) Update(msg tea.Msg) (SitePickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return closeSitePickerMsg{} }
	case "enter":
		if entry := m.SelectedEntry(); entry != nil {
			site := entry.Site
			return m, func() tea.Msg { return SwitchSiteMsg{Site: site} }
		}
		return m, nil
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(keyMsg)
	m.applyFilter()
	return m, cmd
}

// applyFilter updates the filtered indices based on the current filter input.
func (m *SitePickerModel) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.filtered = make([]int, len(m.entries))
		for i := range m.entries {
			m.filtered[i] = i
		}
	} else {
		// Match on name and location together so either can be typed.
		haystack := make([]string, len(m.entries))
		for i, e := range m.entries {
			haystack[i] = e.Site.Name + " " + siteLocation(e.Site)
		}
		matches := fuzzy.Find(query, haystack)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func siteLocation(s config.Site) string {
	if s.TreeFile != "" {
		return s.TreeFile
	}
	return s.API
}

// View renders the picker as a bordered modal.
func (m *SitePickerModel) View() string {
	t := m.theme
	r := t.Renderer

	w := m.width
	if w == 0 {
		w = 80
	}
	modalWidth := min(70, w-4)

	var b strings.Builder
	title := r.NewStyle().Foreground(t.Primary).Bold(true).Render("sites")
	count := r.NewStyle().Foreground(t.Info).Render(fmt.Sprintf("[%d]", len(m.filtered)))
	b.WriteString(title + count + "\n")
	b.WriteString(r.NewStyle().Foreground(t.Primary).Render("/ ") + m.filterInput.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(r.NewStyle().Foreground(t.Secondary).Italic(true).
			Render("No sites found. Configure sites or discovery.scan_paths in config.yaml"))
	}
	for i, idx := range m.filtered {
		entry := m.entries[idx]
		marker := "  "
		if entry.IsActive {
			marker = "● "
		}
		line := marker + entry.Site.Name
		loc := truncate(siteLocation(entry.Site), modalWidth-lipgloss.Width(line)-8)
		switch {
		case i == m.cursor:
			b.WriteString(t.Selected.Render(padRight(line, 20)) + " " + t.MutedText.Render(loc))
		case entry.IsActive:
			b.WriteString(t.NavCurrent.Render(padRight(line, 20)) + " " + t.MutedText.Render(loc))
		default:
			b.WriteString(t.NavItem.Render(padRight(line, 20)) + " " + t.MutedText.Render(loc))
		}
		if i < len(m.filtered)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(t.Muted).Italic(true).Render("↑/↓ select │ Enter switch │ Esc close"))

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())
}

// Cursor returns the current cursor position.
func (m *SitePickerModel) Cursor() int {
	return m.cursor
}

// FilteredCount returns the number of entries matching the current filter.
func (m *SitePickerModel) FilteredCount() int {
	return len(m.filtered)
}

// SelectedEntry returns the highlighted entry, or nil if none.
func (m *SitePickerModel) SelectedEntry() *SiteEntry {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	entry := m.entries[m.filtered[m.cursor]]
	return &entry
}
