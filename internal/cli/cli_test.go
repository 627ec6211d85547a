package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/TransformoDocs/internal/flow"
)

// executeCommand runs the root command against baseURL with an isolated
// home directory so no user configuration leaks in
func executeCommand(t *testing.T, baseURL string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	if baseURL != "" {
		t.Setenv("TRANSFORMO_SERVICE_BASE_URL", baseURL)
	}
	t.Cleanup(func() { globalConfig = nil })

	cmd := NewRootCommand("test", "abc123", "today")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-emoji"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "", "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "TransformoDocs test (abc123) built on today") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

func TestUploadCommand_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("Expected file part: %v", err)
		}
		_, _ = w.Write([]byte(`{"content": "hello", "pages": 1}`))
	}))
	defer server.Close()

	path := writeFile(t, "notes.txt", "hello")
	out, err := executeCommand(t, server.URL, "", "upload", "--output", "json", path)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out, err)
	}
	if got["content"] != "hello" {
		t.Errorf("Unexpected result %v", got)
	}
}

func TestUploadCommand_OutputFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": "saved"}`))
	}))
	defer server.Close()

	path := writeFile(t, "notes.txt", "x")
	target := filepath.Join(t.TempDir(), "result.md")
	out, err := executeCommand(t, server.URL, "", "upload", "--output", "markdown", "--output-file", target, path)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "saved") {
		t.Errorf("Expected result in output file, got %q", data)
	}
}

func TestUploadCommand_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	path := writeFile(t, "notes.txt", "x")
	out, err := executeCommand(t, server.URL, "", "upload", "--output", "json", path)
	if err == nil {
		t.Fatal("Expected error for failed upload")
	}
	if !strings.HasPrefix(err.Error(), flow.MsgUploadFailed) {
		t.Errorf("Expected display message first, got %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Expected JSON status output, got %q", out)
	}
	if got["phase"] != flow.Failed.String() || got["error"] != flow.MsgUploadFailed {
		t.Errorf("Unexpected status output %v", got)
	}
}

func TestUploadCommand_MissingFileSendsNothing(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := executeCommand(t, server.URL, "", "upload", filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
	if called {
		t.Error("Expected no request for an unreadable file")
	}
}

func TestVerifyCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantText string
		readable bool
	}{
		{name: "argument", args: []string{"MRC-1"}, wantText: "MRC-1", readable: true},
		{name: "stdin", args: []string{"--stdin"}, stdin: "from stdin\n", wantText: "from stdin", readable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]string
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req["content"] != tt.wantText {
					t.Errorf("Expected content %q, got %q", tt.wantText, req["content"])
				}
				_ = json.NewEncoder(w).Encode(map[string]bool{"isReadable": tt.readable})
			}))
			defer server.Close()

			args := append([]string{"verify", "--output", "json"}, tt.args...)
			out, err := executeCommand(t, server.URL, tt.stdin, args...)
			if err != nil {
				t.Fatalf("verify failed: %v", err)
			}

			var got map[string]any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("Expected JSON output, got %q", out)
			}
			if got["isReadable"] != tt.readable || got["message"] != flow.ClassificationMessage(tt.readable) {
				t.Errorf("Unexpected verdict %v", got)
			}
		})
	}
}

func TestVerifyCommand_EmptyInput(t *testing.T) {
	out, err := executeCommand(t, "http://127.0.0.1:1", "", "verify", "--output", "json")
	if err == nil {
		t.Fatal("Expected error for empty input")
	}
	if !strings.Contains(out, flow.MsgNoInput) {
		t.Errorf("Expected %q in output, got %q", flow.MsgNoInput, out)
	}
}

func TestVerifyCommand_ConflictingSources(t *testing.T) {
	path := writeFile(t, "snippet.txt", "x")
	_, err := executeCommand(t, "http://127.0.0.1:1", "", "verify", "--file", path, "inline")
	if err == nil || !strings.Contains(err.Error(), "only one of") {
		t.Errorf("Expected conflicting source error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "transformo.yaml")

	out, err := executeCommand(t, "", "", "config", "init", "--minimal", "--output", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Configuration file created at: "+path) {
		t.Errorf("Unexpected init output: %s", out)
	}

	if _, err := executeCommand(t, "", "", "config", "init", "--output", path); err == nil {
		t.Error("Expected error when config exists without --force")
	}

	out, err = executeCommand(t, "", "", "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") {
		t.Errorf("Unexpected validate output: %s", out)
	}
}

func TestConfigValidate_ReportsInvalidFile(t *testing.T) {
	path := writeFile(t, "bad.yaml", "service:\n  timeout: -1s\n")
	out, err := executeCommand(t, "", "", "--config", path, "config", "validate")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(out, "Configuration validation failed") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestConfigShowJSON(t *testing.T) {
	out, err := executeCommand(t, "http://docs.local:5000", "", "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, `"base_url": "http://docs.local:5000"`) {
		t.Errorf("Expected env override in output: %s", out)
	}
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	t.Setenv("TRANSFORMO_OUTPUT_DEFAULT_FORMAT", "csv")
	if _, err := executeCommand(t, "", "", "upload", "x.pdf"); err == nil {
		t.Error("Expected configuration error")
	}
}

func TestUICommand_RejectsUnknownView(t *testing.T) {
	_, err := executeCommand(t, "", "", "ui", "--view", "settings")
	if err == nil {
		t.Error("Expected error for unknown view")
	}
}

func TestConfigShow_Section(t *testing.T) {
	out, err := executeCommand(t, "http://docs.local:5000", "", "config", "show", "--section", "service", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Expected JSON section, got %q", out)
	}
	if got["base_url"] != "http://docs.local:5000" {
		t.Errorf("Unexpected service section %v", got)
	}
	if _, ok := got["clipboard"]; ok {
		t.Error("Expected only the service section")
	}

	if _, err := executeCommand(t, "", "", "config", "show", "--section", "theme"); err == nil {
		t.Error("Expected error for unknown section")
	}
}

func TestConfigValidate_ResolvesEndpoints(t *testing.T) {
	t.Setenv("TRANSFORMO_SERVICE_MRC_BASE_URL", "http://mrc.local:7000")
	out, err := executeCommand(t, "http://docs.local:5000", "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	for _, want := range []string{"http://docs.local:5000/upload", "http://mrc.local:7000/check-mrc"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in summary:\n%s", want, out)
		}
	}
}

func TestConfigPath_ListsOverrides(t *testing.T) {
	out, err := executeCommand(t, "http://docs.local:5000", "", "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(out, "TRANSFORMO_SERVICE_BASE_URL") {
		t.Errorf("Expected active override in output:\n%s", out)
	}
}
