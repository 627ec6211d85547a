package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolatedLoader searches only paths under dir
func isolatedLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return &Loader{
		configPaths: []string{
			filepath.Join(dir, "project.yaml"),
			filepath.Join(dir, "user.yaml"),
			filepath.Join(dir, "system.yaml"),
		},
		warn: func(format string, args ...interface{}) { t.Logf(format, args...) },
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := isolatedLoader(t, t.TempDir())

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Service.BaseURL != "http://localhost:5000" {
		t.Errorf("Expected default base url, got %s", cfg.Service.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
service:
  base_url: "https://docs.example.com"
  mrc_base_url: "https://mrc.example.com"
  timeout: 45s
  breaker:
    enabled: true
clipboard:
  backend: "osc52"
output:
  default_format: "json"
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Service.BaseURL != "https://docs.example.com" {
		t.Errorf("Expected base url from file, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.MRCURL() != "https://mrc.example.com" {
		t.Errorf("Expected MRC url from file, got %s", cfg.Service.MRCURL())
	}
	if cfg.Service.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Service.Timeout)
	}
	if !cfg.Service.Breaker.Enabled {
		t.Error("Expected breaker to be enabled")
	}
	// keys absent from the file keep their defaults
	if cfg.Service.Breaker.MinRequests != 5 {
		t.Errorf("Expected default breaker min requests 5, got %d", cfg.Service.Breaker.MinRequests)
	}
	if cfg.Service.UploadPath != "/upload" {
		t.Errorf("Expected default upload path, got %s", cfg.Service.UploadPath)
	}
	if cfg.Clipboard.Backend != "osc52" {
		t.Errorf("Expected clipboard backend osc52, got %s", cfg.Clipboard.Backend)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	loader := isolatedLoader(t, dir)

	system := "service:\n  base_url: \"http://system:1\"\n  timeout: 10s\n"
	project := "service:\n  base_url: \"http://project:2\"\n"
	if err := os.WriteFile(filepath.Join(dir, "system.yaml"), []byte(system), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "project.yaml"), []byte(project), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Service.BaseURL != "http://project:2" {
		t.Errorf("Expected project file to win, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 10*time.Second {
		t.Errorf("Expected timeout from system file, got %v", cfg.Service.Timeout)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
service:
  base_url: "http://localhost:5000
  timeout: 60s
`

	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("service:\n  timeout: -5s\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TRANSFORMO_SERVICE_BASE_URL", "http://env-host:8080")
	t.Setenv("TRANSFORMO_SERVICE_TIMEOUT", "5s")
	t.Setenv("TRANSFORMO_CLIPBOARD_BACKEND", "system")
	t.Setenv("TRANSFORMO_OUTPUT_VERBOSE", "true")
	t.Setenv("TRANSFORMO_SERVE_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("TRANSFORMO_WATCH_EXTENSIONS", "pdf, docx ,,txt")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Service.BaseURL != "http://env-host:8080" {
		t.Errorf("Expected base url from env, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Service.Timeout)
	}
	if cfg.Clipboard.Backend != "system" {
		t.Errorf("Expected clipboard backend system, got %s", cfg.Clipboard.Backend)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
	if cfg.Serve.MaxUploadBytes != 1024 {
		t.Errorf("Expected max upload 1024, got %d", cfg.Serve.MaxUploadBytes)
	}
	expected := []string{"pdf", "docx", "txt"}
	if len(cfg.Watch.Extensions) != len(expected) {
		t.Fatalf("Expected %d extensions, got %v", len(expected), cfg.Watch.Extensions)
	}
	for i, ext := range expected {
		if cfg.Watch.Extensions[i] != ext {
			t.Errorf("Expected extension %s, got %s", ext, cfg.Watch.Extensions[i])
		}
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "TRANSFORMO_SERVE_MAX_UPLOAD_BYTES", "not-a-number"},
		{"invalid bool", "TRANSFORMO_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "TRANSFORMO_SERVICE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt64(t *testing.T) {
	var value int64

	if err := parseInt64("42", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	if err := parseInt64("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
