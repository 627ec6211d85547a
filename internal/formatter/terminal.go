package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/present"
)

// previewRunes bounds the content preview line
const previewRunes = 72

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(color, emoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) FormatUpload(state flow.UploadState) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Document Processing Result")

	name := state.SubmittedName
	if name == "" && state.SelectedFile != nil {
		name = state.SelectedFile.Name()
	}
	if name == "" {
		name = "(none)"
	}

	switch state.Phase {
	case flow.Succeeded:
		f.writeUploadSummary(&b, name, state)
		b.WriteString(f.symbol("target", "[>]") + " Result\n")
		b.WriteString(present.Serialize(state.Result) + "\n")
	case flow.Failed:
		f.writeFailure(&b, []termfmt.TreeItem{{Label: "File", Value: name}}, state.ErrorMessage)
	default:
		f.writeStatus(&b, name, state.Phase)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatVerify(state flow.VerifyState) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Machine-Readable Code Check")

	input := []termfmt.TreeItem{
		{Label: "Input", Value: fmt.Sprintf("%q", preview(state.InputText, previewRunes))},
	}

	switch state.Phase {
	case flow.Succeeded:
		symbol := f.symbol("success", "[OK]")
		if state.Classification != nil && !*state.Classification {
			symbol = f.symbol("info", "[INF]")
		}
		items := append(input, termfmt.TreeItem{Label: "Characters", Value: formatNumber(len([]rune(state.InputText))), Last: true})
		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
		b.WriteString(symbol + " " + state.Message() + "\n")
	case flow.Failed:
		f.writeFailure(&b, input, state.ErrorMessage)
	default:
		f.writeStatus(&b, preview(state.InputText, previewRunes), state.Phase)
	}

	return []byte(b.String()), nil
}

// writeUploadSummary writes the summary tree for a processed document
func (f *terminalFormatter) writeUploadSummary(b *strings.Builder, name string, state flow.UploadState) {
	summary := summarize(state.Result)

	b.WriteString(f.symbol("statistics", "[STATS]") + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "File", Value: name},
		{Label: "Result", Value: describeKind(summary)},
	}
	if summary.hasContent {
		items = append(items,
			termfmt.TreeItem{Label: "Characters", Value: formatNumber(len([]rune(summary.content)))},
			termfmt.TreeItem{Label: "Lines", Value: formatNumber(countLines(summary.content))},
		)
		if p := preview(summary.content, previewRunes); p != "" {
			items = append(items, termfmt.TreeItem{Label: "Preview", Value: p})
		}
	}
	if summary.serviceError != "" {
		items = append(items, termfmt.TreeItem{Label: "Service error", Value: summary.serviceError})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeFailure(b *strings.Builder, items []termfmt.TreeItem, message string) {
	items = append(items, termfmt.TreeItem{Label: "Status", Value: "failed", Last: true})
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
	b.WriteString(f.symbol("error", "[ERR]") + " " + message + "\n")
}

func (f *terminalFormatter) writeStatus(b *strings.Builder, subject string, phase flow.Phase) {
	items := []termfmt.TreeItem{
		{Label: "Subject", Value: subject},
		{Label: "Status", Value: phase.String(), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) symbol(key, fallback string) string {
	if s := termfmt.GetEmoji(key, f.opts); s != "" {
		return s
	}
	return fallback
}

func describeKind(s resultSummary) string {
	switch s.kind {
	case "object":
		return fmt.Sprintf("object with %d field(s)", s.members)
	case "array":
		return fmt.Sprintf("array with %d item(s)", s.members)
	default:
		return s.kind
	}
}
