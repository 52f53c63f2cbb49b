package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile, computed once at
// package init.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Link      lipgloss.AdaptiveColor

	// Feedback
	Info    lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed sidebar styles, created once instead of per frame
	SiteTitle    lipgloss.Style
	SectionLabel lipgloss.Style
	NavItem      lipgloss.Style
	NavCurrent   lipgloss.Style
	Chevron      lipgloss.Style
	TreeGuide    lipgloss.Style
	LinkText     lipgloss.Style
	MutedText    lipgloss.Style
	LoadingBox   lipgloss.Style
	ErrorBox     lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"},
		Link:      lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#8BE9FD"},

		Info:    lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#8BE9FD"},
		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Danger:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(t.Text)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.SiteTitle = r.NewStyle().Foreground(t.Text).Bold(true)
	t.SectionLabel = r.NewStyle().Foreground(t.Muted).Bold(true)
	t.NavItem = r.NewStyle().Foreground(t.Subtext)
	t.NavCurrent = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Chevron = r.NewStyle().Foreground(t.Secondary)
	t.TreeGuide = r.NewStyle().Foreground(t.Border)
	t.LinkText = r.NewStyle().Foreground(t.Link)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.LoadingBox = r.NewStyle().Foreground(t.Info)
	t.ErrorBox = r.NewStyle().Foreground(t.Danger)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
