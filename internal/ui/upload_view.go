package ui

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/emoji"
	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/logger"
	"github.com/yildizm/TransformoDocs/internal/present"
	"github.com/yildizm/TransformoDocs/internal/ui/components"
)

// UploadView lets the user pick a document, upload it and inspect the result
type UploadView struct {
	id        int
	ctx       context.Context
	flow      *flow.Upload
	clipboard present.Clipboard
	log       *logger.Logger
	styles    *Styles

	input   textinput.Model
	viewer  *components.ResultViewer
	spinner *components.Spinner
	notices noticeBoard
	keys    uploadKeyMap
	help    help.Model

	noticeDuration      time.Duration
	errorNoticeDuration time.Duration
	stat                func(string) (os.FileInfo, error)

	width  int
	height int
}

func newUploadView(id int, opts Options, styles *Styles) *UploadView {
	input := textinput.New()
	input.Prompt = emoji.GetEmoji("document") + " "
	input.Placeholder = "path/to/document.pdf"
	input.SetValue(opts.InitialPath)
	input.CursorEnd()

	viewer := components.NewResultViewer("Result", 80, 16)
	viewer.Color = styles.Color
	spinner := components.NewSpinner()
	spinner.Color = styles.Color

	return &UploadView{
		id:                  id,
		ctx:                 opts.Context,
		flow:                flow.NewUpload(opts.Processor, opts.Logger),
		clipboard:           opts.Clipboard,
		log:                 opts.Logger.WithComponent("upload-view"),
		styles:              styles,
		input:               input,
		viewer:              viewer,
		spinner:             spinner,
		notices:             noticeBoard{view: id},
		keys:                newUploadKeyMap(),
		help:                help.New(),
		noticeDuration:      opts.NoticeDuration,
		errorNoticeDuration: opts.ErrorNoticeDuration,
		stat:                os.Stat,
	}
}

func (v *UploadView) init() tea.Cmd {
	return v.input.Focus()
}

func (v *UploadView) close() {
	v.flow.Close()
	v.input.Blur()
}

func (v *UploadView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(10, width-8)
	v.help.Width = width
	v.viewer.SetSize(width, max(6, height-12))
}

func (v *UploadView) update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return v.handleKeyPress(msg)
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// handleKeyPress handles keyboard input
func (v *UploadView) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Submit):
		return v.handleSubmit()
	case key.Matches(msg, v.keys.Copy):
		return v.handleCopy()
	case key.Matches(msg, v.keys.Prove):
		return v.handleProve()
	case key.Matches(msg, v.keys.LineUp):
		v.viewer.LineUp(1)
		return nil
	case key.Matches(msg, v.keys.LineDown):
		v.viewer.LineDown(1)
		return nil
	case key.Matches(msg, v.keys.PageUp):
		v.viewer.PageUp()
		return nil
	case key.Matches(msg, v.keys.PageDown):
		v.viewer.PageDown()
		return nil
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// handleSubmit selects the typed path and starts an upload
func (v *UploadView) handleSubmit() tea.Cmd {
	if v.flow.State().Phase == flow.Pending {
		return v.notices.show("An upload is already running", noticeInfo, v.noticeDuration)
	}

	path := strings.TrimSpace(v.input.Value())
	switch {
	case path == "":
		v.flow.Select(nil)
	case !v.isSelected(path):
		info, err := v.stat(path)
		if err != nil || info.IsDir() {
			v.log.Debug("cannot select %s: %v", path, err)
			return v.notices.show("cannot open "+path, noticeError, v.errorNoticeDuration)
		}
		v.flow.Select(client.LocalFile(path))
	}

	task := v.flow.Submit()
	if task == nil {
		v.viewer.Clear()
		return nil
	}

	v.viewer.Clear()
	v.spinner.Start("Uploading " + task.FileName())
	return runUpload(v.ctx, v.id, task)
}

func (v *UploadView) isSelected(path string) bool {
	selected, ok := v.flow.State().SelectedFile.(interface{ Path() string })
	return ok && selected.Path() == path
}

// handleCopy copies the current result to the clipboard
func (v *UploadView) handleCopy() tea.Cmd {
	state := v.flow.State()
	if state.Phase != flow.Succeeded {
		return nil
	}

	err := present.CopyToClipboard(v.clipboard, state.Result)
	kind := noticeSuccess
	if err != nil {
		v.log.Warn("copy failed: %v", err)
		kind = noticeError
	}
	return v.notices.show(present.CopyNotice(err), kind, v.noticeDuration)
}

// handleProve asks the flow for permission to leave for the verify view
func (v *UploadView) handleProve() tea.Cmd {
	if !v.flow.RequestNavigationToVerify() {
		return nil
	}
	return navigate(RouteVerify)
}

// handleDone applies a settled upload
func (v *UploadView) handleDone(msg uploadDoneMsg) tea.Cmd {
	if !v.flow.Resolve(msg.outcome) {
		return nil
	}
	if state := v.flow.State(); state.Phase == flow.Succeeded {
		v.viewer.SetContent(present.Serialize(state.Result))
	}
	return nil
}

func (v *UploadView) handleTick() {
	if v.flow.State().Phase == flow.Pending {
		v.spinner.Tick()
	}
}

func (v *UploadView) view() string {
	s := v.styles
	state := v.flow.State()

	sections := []string{
		s.Header.Render(emoji.GetEmoji("upload") + " Upload a document"),
		"",
		v.input.View(),
		"",
	}

	switch state.Phase {
	case flow.Idle:
		if state.SelectedFile != nil {
			sections = append(sections, s.Muted.Render("Selected "+state.SelectedFile.Name()+", press enter to upload"))
		} else {
			sections = append(sections, s.Muted.Render("Type a file path and press enter to upload"))
		}
	case flow.Pending:
		sections = append(sections, v.spinner.Render())
	case flow.Succeeded:
		summary := components.NewSummaryBox(emoji.GetEmoji("success")+" Processed", min(v.width, 60))
		summary.Color = s.Color
		summary.AddKeyValue("File", state.SubmittedName)
		sections = append(sections,
			summary.Render(),
			v.viewer.Render(),
			s.Muted.Render("ctrl+y copy "+emoji.GetEmoji("clipboard")+"   ctrl+p prove MRC "+emoji.GetEmoji("arrow")),
		)
	case flow.Failed:
		sections = append(sections, s.Error.Render(emoji.GetEmoji("error")+" "+state.ErrorMessage))
	}

	if n := v.notices.render(s); n != "" {
		sections = append(sections, "", n)
	}
	sections = append(sections, "", v.help.View(v.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
