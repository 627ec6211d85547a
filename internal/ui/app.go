// Package ui is the interactive terminal front end: an upload view and a
// machine-readable-code check view, one of which is active at a time.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/TransformoDocs/internal/emoji"
	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/logger"
	"github.com/yildizm/TransformoDocs/internal/present"
)

// Options wires the TUI to its collaborators
type Options struct {
	Context   context.Context
	Processor flow.DocumentProcessor
	Checker   flow.ReadabilityChecker
	Clipboard present.Clipboard
	Logger    *logger.Logger

	// Output replaces stdout as the program's output when set
	Output *Terminal

	StartView   Route
	InitialPath string
	Color       bool

	NoticeDuration      time.Duration
	ErrorNoticeDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.StartView == "" {
		o.StartView = RouteUpload
	}
	if o.NoticeDuration <= 0 {
		o.NoticeDuration = 2 * time.Second
	}
	if o.ErrorNoticeDuration <= 0 {
		o.ErrorNoticeDuration = 6 * time.Second
	}
	return o
}

// App is the root model. It owns exactly one live view at a time; every
// view gets a fresh instance id so late messages for a torn-down view are
// dropped.
type App struct {
	opts   Options
	styles *Styles
	log    *logger.Logger

	width    int
	height   int
	ready    bool
	quitting bool

	route  Route
	nextID int
	upload *UploadView
	verify *VerifyView
}

// NewApp creates the root model showing opts.StartView
func NewApp(opts Options) *App {
	opts = opts.withDefaults()
	a := &App{
		opts:   opts,
		styles: NewStyles(opts.Color),
		log:    opts.Logger.WithComponent("ui"),
	}
	a.open(opts.StartView)
	return a
}

// Route returns the active route
func (a *App) Route() Route {
	return a.route
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initView(), tick())
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowResize(msg)
	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	case tickMsg:
		return a.handleTick()
	case navigateMsg:
		return a.handleNavigate(msg)
	case uploadDoneMsg:
		return a.handleUploadDone(msg)
	case verifyDoneMsg:
		return a.handleVerifyDone(msg)
	case clearNoticeMsg:
		return a.handleClearNotice(msg)
	}

	return a, a.forward(msg)
}

// View renders the active view
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return a.styles.Title.Render("Initializing TransformoDocs...")
	}

	var body string
	if a.upload != nil {
		body = a.upload.view()
	} else if a.verify != nil {
		body = a.verify.view()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), "", body)
	return a.styles.Box.Width(max(20, a.width-2)).Render(content)
}

func (a *App) renderTabs() string {
	title := a.styles.Title.Render("TransformoDocs")

	upload, verify := a.styles.Tab, a.styles.Tab
	if a.route == RouteVerify {
		verify = a.styles.ActiveTab
	} else {
		upload = a.styles.ActiveTab
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		upload.Render(emoji.GetEmoji("upload")+" Upload "+RouteUpload.Path()),
		verify.Render(emoji.GetEmoji("check")+" Prove MRC "+RouteVerify.Path()),
	)
}

// open tears the active view down and builds a fresh one for route
func (a *App) open(route Route) {
	a.closeViews()

	a.nextID++
	a.route = route
	switch route {
	case RouteVerify:
		a.verify = newVerifyView(a.nextID, a.opts, a.styles)
	default:
		a.route = RouteUpload
		a.upload = newUploadView(a.nextID, a.opts, a.styles)
	}
	a.log.Debug("opened %s view (instance %d)", a.route, a.nextID)

	if a.ready {
		a.resizeView()
	}
}

func (a *App) closeViews() {
	if a.upload != nil {
		a.upload.close()
		a.upload = nil
	}
	if a.verify != nil {
		a.verify.close()
		a.verify = nil
	}
}

func (a *App) initView() tea.Cmd {
	if a.upload != nil {
		return a.upload.init()
	}
	if a.verify != nil {
		return a.verify.init()
	}
	return nil
}

func (a *App) resizeView() {
	width, height := max(20, a.width-6), max(10, a.height-6)
	if a.upload != nil {
		a.upload.setSize(width, height)
	}
	if a.verify != nil {
		a.verify.setSize(width, height)
	}
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	if a.upload != nil {
		return a.upload.update(msg)
	}
	if a.verify != nil {
		return a.verify.update(msg)
	}
	return nil
}

// Handler functions for Update method

// handleWindowResize handles window resize events
func (a *App) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.ready = true
	a.resizeView()
	return a, nil
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a.handleQuit()
	}
	return a, a.forward(msg)
}

// handleQuit handles quit commands
func (a *App) handleQuit() (tea.Model, tea.Cmd) {
	a.quitting = true
	a.closeViews()
	return a, tea.Quit
}

// handleTick handles timer ticks
func (a *App) handleTick() (tea.Model, tea.Cmd) {
	if a.upload != nil {
		a.upload.handleTick()
	}
	if a.verify != nil {
		a.verify.handleTick()
	}
	return a, tick()
}

// handleNavigate replaces the active view
func (a *App) handleNavigate(msg navigateMsg) (tea.Model, tea.Cmd) {
	a.open(msg.route)
	return a, a.initView()
}

// handleUploadDone routes a settled upload to the view that started it
func (a *App) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	if a.upload == nil || a.upload.id != msg.view {
		a.log.Debug("dropping upload outcome for closed view %d", msg.view)
		return a, nil
	}
	return a, a.upload.handleDone(msg)
}

// handleVerifyDone routes a settled check to the view that started it
func (a *App) handleVerifyDone(msg verifyDoneMsg) (tea.Model, tea.Cmd) {
	if a.verify == nil || a.verify.id != msg.view {
		a.log.Debug("dropping verify outcome for closed view %d", msg.view)
		return a, nil
	}
	return a, a.verify.handleDone(msg)
}

// handleClearNotice expires a notice of the live view
func (a *App) handleClearNotice(msg clearNoticeMsg) (tea.Model, tea.Cmd) {
	if a.upload != nil && a.upload.id == msg.view {
		a.upload.notices.clear(msg)
	}
	if a.verify != nil && a.verify.id == msg.view {
		a.verify.notices.clear(msg)
	}
	return a, nil
}

// Run runs the interactive TUI until the user quits
func Run(opts Options) error {
	model := NewApp(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(model.opts.Context)}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(model, progOpts...)
	_, err := p.Run()
	return err
}
