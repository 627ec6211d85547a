package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/present"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) FormatUpload(state flow.UploadState) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Document Processing Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(&b, "| File | %s |\n", escapeCell(state.SubmittedName))
	fmt.Fprintf(&b, "| Status | %s |\n", state.Phase)

	if state.Phase == flow.Succeeded {
		summary := summarize(state.Result)
		fmt.Fprintf(&b, "| Result | %s |\n", describeKind(summary))
		if summary.hasContent {
			fmt.Fprintf(&b, "| Characters | %s |\n", formatNumber(len([]rune(summary.content))))
			fmt.Fprintf(&b, "| Lines | %s |\n", formatNumber(countLines(summary.content)))
		}
		b.WriteString("\n## Result\n\n```json\n")
		b.WriteString(present.Serialize(state.Result))
		b.WriteString("\n```\n")
	} else if state.ErrorMessage != "" {
		fmt.Fprintf(&b, "| Error | %s |\n", escapeCell(state.ErrorMessage))
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatVerify(state flow.VerifyState) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Machine-Readable Code Check\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Input\n\n```text\n")
	b.WriteString(strings.ReplaceAll(state.InputText, "```", "` ` `"))
	b.WriteString("\n```\n\n## Verdict\n\n")

	switch {
	case state.Phase == flow.Succeeded:
		b.WriteString("**" + state.Message() + "**\n")
	case state.ErrorMessage != "":
		b.WriteString("Error: " + state.ErrorMessage + "\n")
	default:
		b.WriteString("Status: " + state.Phase.String() + "\n")
	}

	return []byte(b.String()), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
