package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TRANSFORMO_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.transformo.yaml",               // Project-specific config (highest priority)
	"~/.config/transformo/config.yaml", // User config
	"/etc/transformo/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. TRANSFORMO_* environment variables
// 3. ./.transformo.yaml
// 4. ~/.config/transformo/config.yaml
// 5. /etc/transformo/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - custom paths are validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Seed with the current values so keys absent from the file keep them
	fileConfig := *config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Service
		"SERVICE_BASE_URL":     func(v string) error { config.Service.BaseURL = v; return nil },
		"SERVICE_MRC_BASE_URL": func(v string) error { config.Service.MRCBaseURL = v; return nil },
		"SERVICE_UPLOAD_PATH":  func(v string) error { config.Service.UploadPath = v; return nil },
		"SERVICE_CHECK_PATH":   func(v string) error { config.Service.CheckPath = v; return nil },
		"SERVICE_UPLOAD_FIELD": func(v string) error { config.Service.UploadField = v; return nil },
		"SERVICE_TIMEOUT":      func(v string) error { return parseDuration(v, &config.Service.Timeout) },
		"SERVICE_BREAKER":      func(v string) error { return parseBool(v, &config.Service.Breaker.Enabled) },

		// Clipboard
		"CLIPBOARD_BACKEND":         func(v string) error { config.Clipboard.Backend = v; return nil },
		"CLIPBOARD_NOTICE_DURATION": func(v string) error { return parseDuration(v, &config.Clipboard.NoticeDuration) },

		// UI
		"UI_START_VIEW": func(v string) error { config.UI.StartView = v; return nil },

		// Output
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		// Watch
		"WATCH_DEBOUNCE":     func(v string) error { return parseDuration(v, &config.Watch.Debounce) },
		"WATCH_INITIAL_SCAN": func(v string) error { return parseBool(v, &config.Watch.InitialScan) },

		// Serve
		"SERVE_ADDR":             func(v string) error { config.Serve.Addr = v; return nil },
		"SERVE_MAX_UPLOAD_BYTES": func(v string) error { return parseInt64(v, &config.Serve.MaxUploadBytes) },
		"SERVE_TEMP_DIR":         func(v string) error { config.Serve.TempDir = v; return nil },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated extension list
	if exts := os.Getenv(EnvPrefix + "WATCH_EXTENSIONS"); exts != "" {
		config.Watch.Extensions = splitList(exts)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeServiceConfig(&dst.Service, &src.Service)
	mergeClipboardConfig(&dst.Clipboard, &src.Clipboard)
	mergeUIConfig(&dst.UI, &src.UI)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeWatchConfig(&dst.Watch, &src.Watch)
	mergeServeConfig(&dst.Serve, &src.Serve)
}

func mergeServiceConfig(dst, src *ServiceConfig) {
	mergeString(&dst.BaseURL, src.BaseURL)
	mergeString(&dst.MRCBaseURL, src.MRCBaseURL)
	mergeString(&dst.UploadPath, src.UploadPath)
	mergeString(&dst.CheckPath, src.CheckPath)
	mergeString(&dst.UploadField, src.UploadField)
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}

	dst.Breaker.Enabled = src.Breaker.Enabled
	if src.Breaker.MinRequests != 0 {
		dst.Breaker.MinRequests = src.Breaker.MinRequests
	}
	if src.Breaker.FailureRatio != 0 {
		dst.Breaker.FailureRatio = src.Breaker.FailureRatio
	}
	if src.Breaker.OpenTimeout != 0 {
		dst.Breaker.OpenTimeout = src.Breaker.OpenTimeout
	}
	if src.Breaker.HalfOpenMaxCalls != 0 {
		dst.Breaker.HalfOpenMaxCalls = src.Breaker.HalfOpenMaxCalls
	}
}

func mergeClipboardConfig(dst, src *ClipboardConfig) {
	mergeString(&dst.Backend, src.Backend)
	if src.NoticeDuration != 0 {
		dst.NoticeDuration = src.NoticeDuration
	}
}

func mergeUIConfig(dst, src *UIConfig) {
	mergeString(&dst.StartView, src.StartView)
	if src.ErrorNoticeDuration != 0 {
		dst.ErrorNoticeDuration = src.ErrorNoticeDuration
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	mergeString(&dst.DefaultFormat, src.DefaultFormat)
	mergeString(&dst.ColorMode, src.ColorMode)
	mergeString(&dst.LogFile, src.LogFile)
	// src was seeded from dst, so an absent key carries dst's value through
	dst.Verbose = src.Verbose
}

func mergeWatchConfig(dst, src *WatchConfig) {
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.Debounce != 0 {
		dst.Debounce = src.Debounce
	}
	dst.InitialScan = src.InitialScan
}

func mergeServeConfig(dst, src *ServeConfig) {
	mergeString(&dst.Addr, src.Addr)
	mergeString(&dst.TempDir, src.TempDir)
	mergeString(&dst.MetricsPath, src.MetricsPath)
	if src.MaxUploadBytes != 0 {
		dst.MaxUploadBytes = src.MaxUploadBytes
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Type conversion helpers

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
