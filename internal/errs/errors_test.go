package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := NewRemoteErrorWithCause("upload", "failed to upload file", context.DeadlineExceeded)
	err.StatusCode = 504

	got := err.Error()
	for _, want := range []string{"op=upload", "type=remote", "status=504", "failed to upload file", "cause=context deadline exceeded"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestError_UnwrapAndIs(t *testing.T) {
	err := NewRemoteErrorWithCause("check_mrc", "failed", context.DeadlineExceeded)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
	if !errors.Is(err, &Error{Type: ErrTypeRemote}) {
		t.Error("Expected errors.Is to match by type")
	}
	if errors.Is(err, &Error{Type: ErrTypeValidation}) {
		t.Error("Expected errors.Is not to match a different type")
	}
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		typ  ErrorType
		want bool
	}{
		{"validation", NewValidationError("submit", "no file selected"), ErrTypeValidation, true},
		{"wrapped clipboard", fmt.Errorf("copy: %w", NewClipboardError("denied", nil)), ErrTypeClipboard, true},
		{"wrong type", NewValidationError("submit", "x"), ErrTypeRemote, false},
		{"plain error", errors.New("boom"), ErrTypeInternal, false},
		{"nil", nil, ErrTypeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsType(tt.err, tt.typ); got != tt.want {
				t.Errorf("IsType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("Expected empty message for nil, got %q", got)
	}
	if got := UserMessage(NewValidationError("submit", "no input provided")); got != "no input provided" {
		t.Errorf("Unexpected message %q", got)
	}
	if got := UserMessage(&Error{Type: ErrTypeInternal}); got != "internal error" {
		t.Errorf("Expected fallback message, got %q", got)
	}
	if got := UserMessage(errors.New("raw")); got != "raw" {
		t.Errorf("Expected raw message, got %q", got)
	}
}
