package formatter

import (
	"fmt"

	"github.com/yildizm/TransformoDocs/internal/flow"
)

// Formatter renders settled flow states for non-interactive output
type Formatter interface {
	FormatUpload(state flow.UploadState) ([]byte, error)
	FormatVerify(state flow.VerifyState) ([]byte, error)
}

// New returns the formatter for a configured output format
func New(format string, color, emoji bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color, emoji), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
