package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/TransformoDocs/internal/flow"
)

// Route names one of the two views
type Route string

const (
	RouteUpload Route = "upload"
	RouteVerify Route = "verify"
)

// Path returns the address the route is known by
func (r Route) Path() string {
	if r == RouteVerify {
		return "/prove-mrc"
	}
	return "/"
}

// ParseRoute accepts a route name or its path
func ParseRoute(s string) (Route, error) {
	switch s {
	case "", "upload", "/":
		return RouteUpload, nil
	case "verify", "prove-mrc", "/prove-mrc":
		return RouteVerify, nil
	default:
		return "", fmt.Errorf("unknown view %q (must be one of: upload, verify)", s)
	}
}

// Animation message
type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// uploadDoneMsg carries a settled upload back to the view that started it
type uploadDoneMsg struct {
	view    int
	outcome flow.UploadOutcome
}

// verifyDoneMsg carries a settled MRC check back to the view that started it
type verifyDoneMsg struct {
	view    int
	outcome flow.VerifyOutcome
}

// clearNoticeMsg removes a notice once its display time is over
type clearNoticeMsg struct {
	view int
	seq  int
}

// navigateMsg replaces the active view with a fresh instance of route
type navigateMsg struct {
	route Route
}

func runUpload(ctx context.Context, view int, task *flow.UploadTask) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{view: view, outcome: task.Run(ctx)}
	}
}

func runVerify(ctx context.Context, view int, task *flow.VerifyTask) tea.Cmd {
	return func() tea.Msg {
		return verifyDoneMsg{view: view, outcome: task.Run(ctx)}
	}
}

func navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route}
	}
}
