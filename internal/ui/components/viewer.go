package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// ResultViewer shows a serialized result in a scrollable window
type ResultViewer struct {
	Title    string
	Width    int
	Height   int
	Color    bool
	content  string
	lines    int
	viewport viewport.Model
}

// NewResultViewer creates an empty viewer of the given size
func NewResultViewer(title string, width, height int) *ResultViewer {
	v := &ResultViewer{
		Title:    title,
		Color:    true,
		viewport: viewport.New(width, height),
	}
	v.SetSize(width, height)
	return v
}

// SetContent replaces the displayed text and scrolls back to the top
func (v *ResultViewer) SetContent(content string) {
	v.content = content
	v.lines = 0
	if content != "" {
		v.lines = strings.Count(content, "\n") + 1
	}
	v.viewport.SetContent(content)
	v.viewport.GotoTop()
}

// Content returns the displayed text
func (v *ResultViewer) Content() string {
	return v.content
}

// Clear removes the content
func (v *ResultViewer) Clear() {
	v.SetContent("")
}

// SetSize resizes the window. Title and footer take two rows.
func (v *ResultViewer) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.viewport.Width = max(10, width-4)
	v.viewport.Height = max(3, height-2)
}

// LineDown scrolls down by n lines
func (v *ResultViewer) LineDown(n int) {
	v.viewport.ScrollDown(n)
}

// LineUp scrolls up by n lines
func (v *ResultViewer) LineUp(n int) {
	v.viewport.ScrollUp(n)
}

// PageDown scrolls down by one window
func (v *ResultViewer) PageDown() {
	v.viewport.PageDown()
}

// PageUp scrolls up by one window
func (v *ResultViewer) PageUp() {
	v.viewport.PageUp()
}

// Top scrolls to the first line
func (v *ResultViewer) Top() {
	v.viewport.GotoTop()
}

// Bottom scrolls to the last line
func (v *ResultViewer) Bottom() {
	v.viewport.GotoBottom()
}

// Offset returns the index of the first visible line
func (v *ResultViewer) Offset() int {
	return v.viewport.YOffset
}

// Render renders the viewer
func (v *ResultViewer) Render() string {
	// Define styles locally to avoid import cycle
	headerStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle()
	panelStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	if v.Color {
		headerStyle = headerStyle.Foreground(lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"})
		mutedStyle = mutedStyle.Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
		panelStyle = panelStyle.BorderForeground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"})
	}

	if v.lines == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(v.Title),
			mutedStyle.Render("Nothing to display"),
		)
		return panelStyle.Width(max(10, v.Width-2)).Render(content)
	}

	first := v.viewport.YOffset + 1
	last := min(v.lines, v.viewport.YOffset+v.viewport.Height)
	position := fmt.Sprintf("lines %d-%d of %d", first, last, v.lines)

	content := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(v.Title),
		v.viewport.View(),
		mutedStyle.Render(position),
	)
	return panelStyle.Width(max(10, v.Width-2)).Render(content)
}
