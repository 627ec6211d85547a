package components

import (
	"strings"
	"testing"
	"time"
)

func TestResultViewer_Scrolling(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line"
	}

	v := NewResultViewer("Result", 40, 12)
	v.Color = false
	v.SetContent(strings.Join(lines, "\n"))

	if v.Offset() != 0 {
		t.Fatalf("Expected to start at the top, got offset %d", v.Offset())
	}
	if !strings.Contains(v.Render(), "lines 1-10 of 50") {
		t.Errorf("Expected position footer, got:\n%s", v.Render())
	}

	v.PageDown()
	if v.Offset() != 10 {
		t.Errorf("Expected offset 10 after page down, got %d", v.Offset())
	}

	v.LineUp(3)
	if v.Offset() != 7 {
		t.Errorf("Expected offset 7 after scrolling up, got %d", v.Offset())
	}

	v.Bottom()
	if v.Offset() != 40 {
		t.Errorf("Expected offset 40 at bottom, got %d", v.Offset())
	}

	v.SetContent("{}")
	if v.Offset() != 0 {
		t.Errorf("Expected new content to reset the offset, got %d", v.Offset())
	}
}

func TestResultViewer_Empty(t *testing.T) {
	v := NewResultViewer("Result", 40, 10)
	v.Color = false
	if !strings.Contains(v.Render(), "Nothing to display") {
		t.Errorf("Expected empty placeholder, got:\n%s", v.Render())
	}
}

func TestSpinner(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpinner()
	s.Color = false
	s.now = func() time.Time { return now }

	s.Start("Uploading report.pdf")
	now = now.Add(3 * time.Second)

	for i := 0; i < len(spinnerFrames)+1; i++ {
		s.Tick()
	}
	if s.Frame != 1 {
		t.Errorf("Expected frame to wrap to 1, got %d", s.Frame)
	}

	out := s.Render()
	if !strings.Contains(out, "Uploading report.pdf") || !strings.Contains(out, "(3s)") {
		t.Errorf("Unexpected spinner output %q", out)
	}
	if !strings.HasPrefix(out, "⠙") {
		t.Errorf("Expected a whole braille frame, got %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 2 * time.Second, want: "2s"},
		{in: 3 * time.Minute, want: "3m"},
		{in: 90 * time.Minute, want: "1.5h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSummaryBox(t *testing.T) {
	box := NewSummaryBox("Upload", 40)
	box.Color = false
	box.AddKeyValue("File", "report.pdf")
	box.AddLine("done")

	out := box.Render()
	for _, want := range []string{"Upload", "File      : report.pdf", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}
