package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/TransformoDocs/internal/client"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// resultSummary describes the shape of a result without interpreting it
type resultSummary struct {
	kind         string
	members      int
	content      string
	hasContent   bool
	serviceError string
}

func summarize(result *client.StructuredResult) resultSummary {
	if result == nil {
		return resultSummary{kind: "empty"}
	}

	s := resultSummary{}
	switch v := result.Value.(type) {
	case map[string]any:
		s.kind = "object"
		s.members = len(v)
	case []any:
		s.kind = "array"
		s.members = len(v)
	case string:
		s.kind = "string"
	case nil:
		s.kind = "null"
	default:
		s.kind = "scalar"
	}

	// the reference service answers with {"content": ...} or {"error": ...}
	if content, ok := result.Field("content"); ok {
		if text, ok := content.(string); ok {
			s.content = text
			s.hasContent = true
		}
	}
	if msg, ok := result.Field("error"); ok {
		if text, ok := msg.(string); ok {
			s.serviceError = text
		}
	}
	return s
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

// preview returns at most n runes of s on a single line
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
