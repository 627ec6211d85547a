package cli

import (
	"github.com/yildizm/TransformoDocs/internal/emoji"
	"github.com/yildizm/TransformoDocs/internal/flow"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// GetPhaseEmoji returns the symbol for a flow phase with fallback support
func GetPhaseEmoji(phase flow.Phase) string {
	switch phase {
	case flow.Succeeded:
		return GetEmoji("success")
	case flow.Failed:
		return GetEmoji("error")
	case flow.Pending:
		return GetEmoji("hourglass")
	default:
		return GetEmoji("info")
	}
}
