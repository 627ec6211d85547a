package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Service   ServiceConfig   `yaml:"service" json:"service"`
	Clipboard ClipboardConfig `yaml:"clipboard" json:"clipboard"`
	UI        UIConfig        `yaml:"ui" json:"ui"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Watch     WatchConfig     `yaml:"watch" json:"watch"`
	Serve     ServeConfig     `yaml:"serve" json:"serve"`
}

// ServiceConfig locates the document-processing and MRC collaborators
type ServiceConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url"`         // document-processing service
	MRCBaseURL  string        `yaml:"mrc_base_url" json:"mrc_base_url"` // MRC classifier, empty means base_url
	UploadPath  string        `yaml:"upload_path" json:"upload_path"`
	CheckPath   string        `yaml:"check_path" json:"check_path"`
	UploadField string        `yaml:"upload_field" json:"upload_field"` // multipart field name
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`           // upper bound per request
	Breaker     BreakerConfig `yaml:"breaker" json:"breaker"`
}

// BreakerConfig configures the optional circuit breaker around collaborator calls
type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	MinRequests      uint32        `yaml:"min_requests" json:"min_requests"`
	FailureRatio     float64       `yaml:"failure_ratio" json:"failure_ratio"`
	OpenTimeout      time.Duration `yaml:"open_timeout" json:"open_timeout"`
	HalfOpenMaxCalls uint32        `yaml:"half_open_max_calls" json:"half_open_max_calls"`
}

// ClipboardConfig configures result export
type ClipboardConfig struct {
	Backend        string        `yaml:"backend" json:"backend"` // auto|system|osc52
	NoticeDuration time.Duration `yaml:"notice_duration" json:"notice_duration"`
}

// UIConfig configures the interactive terminal UI
type UIConfig struct {
	StartView           string        `yaml:"start_view" json:"start_view"` // upload|verify
	ErrorNoticeDuration time.Duration `yaml:"error_notice_duration" json:"error_notice_duration"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	LogFile       string `yaml:"log_file" json:"log_file"` // log destination while the TUI owns the terminal
}

// WatchConfig configures inbox mode
type WatchConfig struct {
	Extensions  []string      `yaml:"extensions" json:"extensions"`
	Debounce    time.Duration `yaml:"debounce" json:"debounce"`
	InitialScan bool          `yaml:"initial_scan" json:"initial_scan"`
}

// ServeConfig configures the reference document-processing service
type ServeConfig struct {
	Addr           string `yaml:"addr" json:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	TempDir        string `yaml:"temp_dir" json:"temp_dir"`
	MetricsPath    string `yaml:"metrics_path" json:"metrics_path"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:     "http://localhost:5000",
			MRCBaseURL:  "",
			UploadPath:  "/upload",
			CheckPath:   "/check-mrc",
			UploadField: "file",
			Timeout:     30 * time.Second,
			Breaker: BreakerConfig{
				Enabled:          false,
				MinRequests:      5,
				FailureRatio:     0.6,
				OpenTimeout:      30 * time.Second,
				HalfOpenMaxCalls: 1,
			},
		},
		Clipboard: ClipboardConfig{
			Backend:        "auto",
			NoticeDuration: 2 * time.Second,
		},
		UI: UIConfig{
			StartView:           "upload",
			ErrorNoticeDuration: 6 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			LogFile:       "",
		},
		Watch: WatchConfig{
			Extensions:  []string{"pdf", "docx", "xlsx", "zip", "txt"},
			Debounce:    500 * time.Millisecond,
			InitialScan: false,
		},
		Serve: ServeConfig{
			Addr:           ":5000",
			MaxUploadBytes: 32 << 20,
			TempDir:        "",
			MetricsPath:    "/metrics",
		},
	}
}

// MRCURL returns the base address of the MRC classifier
func (s ServiceConfig) MRCURL() string {
	if strings.TrimSpace(s.MRCBaseURL) != "" {
		return s.MRCBaseURL
	}
	return s.BaseURL
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateClipboardConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateServeConfig(); err != nil {
		return err
	}
	return nil
}

// validateServiceConfig validates collaborator addresses and timeouts
func (c *Config) validateServiceConfig() error {
	if err := validateBaseURL("base_url", c.Service.BaseURL); err != nil {
		return err
	}
	if c.Service.MRCBaseURL != "" {
		if err := validateBaseURL("mrc_base_url", c.Service.MRCBaseURL); err != nil {
			return err
		}
	}
	if !strings.HasPrefix(c.Service.UploadPath, "/") {
		return fmt.Errorf("upload_path must start with /")
	}
	if !strings.HasPrefix(c.Service.CheckPath, "/") {
		return fmt.Errorf("check_path must start with /")
	}
	if strings.TrimSpace(c.Service.UploadField) == "" {
		return fmt.Errorf("upload_field must not be empty")
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("service timeout must be positive")
	}
	if c.Service.Breaker.Enabled {
		if c.Service.Breaker.FailureRatio <= 0 || c.Service.Breaker.FailureRatio > 1 {
			return fmt.Errorf("breaker failure_ratio must be in (0, 1]")
		}
		if c.Service.Breaker.OpenTimeout < 0 {
			return fmt.Errorf("breaker open_timeout must be non-negative")
		}
	}
	return nil
}

func validateBaseURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", field)
	}
	return nil
}

// validateClipboardConfig validates clipboard settings
func (c *Config) validateClipboardConfig() error {
	if c.Clipboard.Backend != "" {
		validBackends := map[string]bool{
			"auto":   true,
			"system": true,
			"osc52":  true,
		}
		if !validBackends[c.Clipboard.Backend] {
			return fmt.Errorf("invalid clipboard backend: %s (must be one of: auto, system, osc52)", c.Clipboard.Backend)
		}
	}
	if c.Clipboard.NoticeDuration < 0 {
		return fmt.Errorf("notice_duration must be non-negative")
	}
	return nil
}

// validateUIConfig validates interactive UI settings
func (c *Config) validateUIConfig() error {
	if c.UI.StartView != "" && c.UI.StartView != "upload" && c.UI.StartView != "verify" {
		return fmt.Errorf("invalid start view: %s (must be one of: upload, verify)", c.UI.StartView)
	}
	if c.UI.ErrorNoticeDuration < 0 {
		return fmt.Errorf("error_notice_duration must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateServeConfig validates the reference service settings
func (c *Config) validateServeConfig() error {
	if c.Serve.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be greater than 0")
	}
	if c.Serve.MetricsPath != "" && !strings.HasPrefix(c.Serve.MetricsPath, "/") {
		return fmt.Errorf("metrics_path must start with /")
	}
	return nil
}
