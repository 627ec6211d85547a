package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	verbose := false
	log := NewWithWriter("client", &callbackChecker{callback: func() bool { return verbose }}, &buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("shown %s", "always")
	if !strings.Contains(buf.String(), "WARN [client] shown always") {
		t.Errorf("Unexpected warn line: %q", buf.String())
	}

	buf.Reset()
	verbose = true
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG [client] now visible") {
		t.Errorf("Unexpected debug line: %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("", nil, &buf)

	log.WarnWithFields("request failed", []Field{RequestID("abc"), Status(500), Error(errors.New("boom"))})

	line := buf.String()
	if !strings.Contains(line, "[main]") {
		t.Errorf("Expected default component main, got %q", line)
	}
	if !strings.Contains(line, "[request_id=abc status=500 error=boom]") {
		t.Errorf("Unexpected fields rendering: %q", line)
	}
}

func TestLogger_WithComponentSharesOutput(t *testing.T) {
	var first, second bytes.Buffer
	root := NewWithWriter("root", nil, &first)
	child := root.WithComponent("child")

	root.SetOutput(&second)
	child.Error("moved")

	if first.Len() != 0 {
		t.Errorf("Expected nothing on the old writer, got %q", first.String())
	}
	if !strings.Contains(second.String(), "ERROR [child] moved") {
		t.Errorf("Expected child to follow SetOutput, got %q", second.String())
	}
}

func TestLogger_PercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("x", nil, &buf)

	log.Warn("100% done")
	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("Expected message untouched, got %q", buf.String())
	}
}
