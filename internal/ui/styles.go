package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the color palette of the TUI
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
}

// DefaultTheme is the palette used by every view
var DefaultTheme = Theme{
	Primary:   lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"},
	Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
	Success:   lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"},
	Warning:   lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"},
	Error:     lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"},
	Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
	Selected:  lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"},
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains all the styled components
type Styles struct {
	Color bool

	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Box       lipgloss.Style
}

// NewStyles builds the styles; without color every style is plain
func NewStyles(color bool) *Styles {
	s := &Styles{
		Color:     color,
		Title:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Header:    lipgloss.NewStyle().Bold(true),
		Body:      lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle().Bold(true),
		Warning:   lipgloss.NewStyle().Bold(true),
		Error:     lipgloss.NewStyle().Bold(true),
		Tab:       lipgloss.NewStyle().Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}
	if !color {
		return s
	}

	theme := DefaultTheme
	s.Title = s.Title.Foreground(theme.Primary)
	s.Header = s.Header.Foreground(theme.Primary)
	s.Muted = s.Muted.Foreground(theme.Secondary)
	s.Success = s.Success.Foreground(theme.Success)
	s.Warning = s.Warning.Foreground(theme.Warning)
	s.Error = s.Error.Foreground(theme.Error)
	s.Tab = s.Tab.Foreground(theme.Secondary)
	s.ActiveTab = s.ActiveTab.Foreground(theme.Primary).Background(theme.Selected).Underline(false)
	s.Box = s.Box.BorderForeground(theme.Border)
	return s
}
