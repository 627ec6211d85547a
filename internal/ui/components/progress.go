package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner represents a spinning progress indicator with elapsed time
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
	Color     bool
	now       func() time.Time
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		StartTime: time.Now(),
		Color:     true,
		now:       time.Now,
	}
}

// Start resets the elapsed time and sets the label
func (s *Spinner) Start(label string) {
	s.Label = label
	s.Frame = 0
	s.StartTime = s.now()
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Elapsed returns the time since Start
func (s *Spinner) Elapsed() time.Duration {
	return s.now().Sub(s.StartTime)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	progressStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle()
	if s.Color {
		progressStyle = progressStyle.Foreground(lipgloss.Color("#10B981"))
		mutedStyle = mutedStyle.Foreground(lipgloss.Color("#9CA3AF"))
	}

	spinner := progressStyle.Render(string(spinnerFrames[s.Frame]))
	elapsed := mutedStyle.Render("(" + formatDuration(s.Elapsed()) + ")")

	if s.Label != "" {
		return fmt.Sprintf("%s %s %s", spinner, s.Label, elapsed)
	}
	return fmt.Sprintf("%s %s", spinner, elapsed)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
