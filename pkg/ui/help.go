package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpContext identifies which pane the help overlay describes.
type helpContext int

const (
	helpTree helpContext = iota
	helpContent
	helpPicker
)

// helpContentByContext holds compact help for each context. Content should fit on
// one screen without scrolling.
var helpContentByContext = map[helpContext]string{
	helpTree:    helpTextTree,
	helpContent: helpTextContent,
	helpPicker:  helpTextPicker,
}

// getHelp returns the help text for ctx, falling back to the tree help.
func getHelp(ctx helpContext) string {
	if content, ok := helpContentByContext[ctx]; ok {
		return content
	}
	return helpTextTree
}

// renderHelp renders the help modal for the focused pane.
func renderHelp(ctx helpContext, theme Theme, width int) string {
	r := theme.Renderer

	modalWidth := 60
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)
	contentStyle := r.NewStyle().
		Foreground(theme.Subtext)
	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(modalWidth-4, 1))))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(getHelp(ctx)))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}

const helpTextTree = `## Categories

**Navigation**
  j/k       Move up/down
  g/G       Jump to top/bottom
  ctrl+u/d  Half page up/down
  p         Jump to parent

**Tree**
  Enter     Expand/collapse
  l/→       Expand or step into
  h/←       Collapse or step out
  E/C       Expand/collapse all

**Actions**
  o         Open page
  y         Copy link
  r         Refresh categories
  1-9       Sidebar links
  s         Switch site
  Tab       Switch pane`

const helpTextContent = `## Page

**Scrolling**
  j/k       Scroll line
  ctrl+u/d  Half page
  g/G       Top/bottom

**Other**
  Tab/Esc   Back to categories
  r         Reload page
  q         Quit`

const helpTextPicker = `## Sites

  ↑/↓       Move selection
  type      Filter by name or path
  Enter     Switch site
  Esc       Cancel`
