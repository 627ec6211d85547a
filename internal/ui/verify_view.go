package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/TransformoDocs/internal/emoji"
	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/logger"
	"github.com/yildizm/TransformoDocs/internal/ui/components"
)

// VerifyView lets the user submit text to the MRC classifier
type VerifyView struct {
	id     int
	ctx    context.Context
	flow   *flow.Verify
	log    *logger.Logger
	styles *Styles

	input   textarea.Model
	spinner *components.Spinner
	notices noticeBoard
	keys    verifyKeyMap
	help    help.Model

	noticeDuration      time.Duration
	errorNoticeDuration time.Duration

	width  int
	height int
}

func newVerifyView(id int, opts Options, styles *Styles) *VerifyView {
	keys := newVerifyKeyMap()

	input := textarea.New()
	input.Placeholder = "Paste the text to check"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.KeyMap.InsertNewline = keys.Newline

	spinner := components.NewSpinner()
	spinner.Color = styles.Color

	return &VerifyView{
		id:      id,
		ctx:     opts.Context,
		flow:    flow.NewVerify(opts.Checker, opts.Logger),
		log:     opts.Logger.WithComponent("verify-view"),
		styles:  styles,
		input:   input,
		spinner: spinner,
		notices: noticeBoard{view: id},
		keys:    keys,
		help:    help.New(),

		noticeDuration:      opts.NoticeDuration,
		errorNoticeDuration: opts.ErrorNoticeDuration,
	}
}

func (v *VerifyView) init() tea.Cmd {
	return v.input.Focus()
}

func (v *VerifyView) close() {
	v.flow.Close()
	v.input.Blur()
}

func (v *VerifyView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(max(20, width-4))
	v.input.SetHeight(max(3, min(10, height-12)))
	v.help.Width = width
}

func (v *VerifyView) update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return v.handleKeyPress(msg)
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// handleKeyPress handles keyboard input
func (v *VerifyView) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Submit):
		return v.handleSubmit()
	case key.Matches(msg, v.keys.Back):
		return navigate(RouteUpload)
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return nil
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if after := v.input.Value(); after != before {
		v.flow.SetInput(after)
	}
	return cmd
}

// handleSubmit starts an MRC check of the current text
func (v *VerifyView) handleSubmit() tea.Cmd {
	if v.flow.State().Phase == flow.Pending {
		return v.notices.show("A check is already running", noticeInfo, v.noticeDuration)
	}
	task := v.flow.Submit()
	if task == nil {
		return v.failureNotice()
	}
	v.spinner.Start("Checking machine readability")
	return runVerify(v.ctx, v.id, task)
}

// handleDone applies a settled check
func (v *VerifyView) handleDone(msg verifyDoneMsg) tea.Cmd {
	if !v.flow.Resolve(msg.outcome) {
		return nil
	}
	return v.failureNotice()
}

// failureNotice raises the error snackbar when the check settled as Failed
func (v *VerifyView) failureNotice() tea.Cmd {
	state := v.flow.State()
	if state.Phase != flow.Failed {
		return nil
	}
	return v.notices.show(state.ErrorMessage, noticeError, v.errorNoticeDuration)
}

func (v *VerifyView) handleTick() {
	if v.flow.State().Phase == flow.Pending {
		v.spinner.Tick()
	}
}

func (v *VerifyView) view() string {
	s := v.styles
	state := v.flow.State()

	sections := []string{
		s.Header.Render(emoji.GetEmoji("check") + " Prove machine-readable code"),
		"",
		v.input.View(),
		"",
	}

	switch state.Phase {
	case flow.Idle:
		sections = append(sections, s.Muted.Render("Press enter to check the text"))
	case flow.Pending:
		sections = append(sections, v.spinner.Render())
	case flow.Succeeded:
		if *state.Classification {
			sections = append(sections, s.Success.Render(emoji.GetEmoji("success")+" "+state.Message()))
		} else {
			sections = append(sections, s.Warning.Render(emoji.GetEmoji("warning")+" "+state.Message()))
		}
	case flow.Failed:
		// the snackbar carries the message while it is up
		if v.notices.text() == "" {
			sections = append(sections, s.Error.Render(emoji.GetEmoji("error")+" "+state.ErrorMessage))
		}
	}

	if n := v.notices.render(s); n != "" {
		sections = append(sections, "", n)
	}
	sections = append(sections, "", v.help.View(v.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
